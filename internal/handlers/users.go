package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"warbler/internal/models"
	"warbler/internal/services"

	"github.com/gin-gonic/gin"
)

const profileMessageLimit = 100

func (h *Handler) ListUsers(c *gin.Context) {
	ctx := c.Request.Context()
	query := c.Query("q")

	users, err := h.users.List(ctx, query)
	if err != nil {
		h.serverError(c, err)
		return
	}

	following := map[uint]bool{}
	if me := currentUser(c); me != nil {
		if following, err = h.follows.FollowingIDs(ctx, me.ID); err != nil {
			h.serverError(c, err)
			return
		}
	}

	h.render(c, http.StatusOK, "users_index.html", gin.H{
		"Users":     users,
		"Query":     query,
		"Following": following,
	})
}

// profileData loads the user named by the :id param along with what the
// profile header needs. It writes the response itself when it returns false.
func (h *Handler) profileData(c *gin.Context) (gin.H, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		h.NotFound(c)
		return nil, false
	}

	ctx := c.Request.Context()
	user, err := h.users.Get(ctx, id)
	if errors.Is(err, services.ErrNotFound) {
		h.NotFound(c)
		return nil, false
	}
	if err != nil {
		h.serverError(c, err)
		return nil, false
	}

	stats, err := h.stats.ForUser(ctx, user.ID)
	if err != nil {
		h.serverError(c, err)
		return nil, false
	}

	data := gin.H{
		"User":        user,
		"Stats":       stats,
		"IsFollowing": false,
		"Likes":       map[uint]bool{},
		"Following":   map[uint]bool{},
	}
	if me := currentUser(c); me != nil {
		following, err := h.follows.FollowingIDs(ctx, me.ID)
		if err != nil {
			h.serverError(c, err)
			return nil, false
		}
		liked, err := h.likes.LikedIDs(ctx, me.ID)
		if err != nil {
			h.serverError(c, err)
			return nil, false
		}
		data["Following"] = following
		data["IsFollowing"] = following[user.ID]
		data["Likes"] = liked
	}
	return data, true
}

func (h *Handler) ShowUser(c *gin.Context) {
	data, ok := h.profileData(c)
	if !ok {
		return
	}
	user := data["User"].(*models.User)

	messages, err := h.messages.ListForUser(c.Request.Context(), user.ID, profileMessageLimit)
	if err != nil {
		h.serverError(c, err)
		return
	}
	data["Messages"] = messages
	h.render(c, http.StatusOK, "users_show.html", data)
}

func (h *Handler) ShowFollowing(c *gin.Context) {
	data, ok := h.profileData(c)
	if !ok {
		return
	}
	user := data["User"].(*models.User)

	users, err := h.follows.ListFollowing(c.Request.Context(), user.ID)
	if err != nil {
		h.serverError(c, err)
		return
	}
	data["Users"] = users
	h.render(c, http.StatusOK, "users_following.html", data)
}

func (h *Handler) ShowFollowers(c *gin.Context) {
	data, ok := h.profileData(c)
	if !ok {
		return
	}
	user := data["User"].(*models.User)

	users, err := h.follows.ListFollowers(c.Request.Context(), user.ID)
	if err != nil {
		h.serverError(c, err)
		return
	}
	data["Users"] = users
	h.render(c, http.StatusOK, "users_followers.html", data)
}

func (h *Handler) ShowLikes(c *gin.Context) {
	data, ok := h.profileData(c)
	if !ok {
		return
	}
	user := data["User"].(*models.User)

	messages, err := h.likes.ListLiked(c.Request.Context(), user.ID)
	if err != nil {
		h.serverError(c, err)
		return
	}
	data["Messages"] = messages
	h.render(c, http.StatusOK, "users_likes.html", data)
}

// FollowUser toggles the follow edge to the user in :id.
func (h *Handler) FollowUser(c *gin.Context) {
	me := currentUser(c)
	id, ok := parseID(c, "id")
	if !ok {
		h.NotFound(c)
		return
	}

	following, err := h.follows.Toggle(c.Request.Context(), me.ID, id)
	switch {
	case errors.Is(err, services.ErrNotFound):
		h.NotFound(c)
		return
	case errors.Is(err, services.ErrSelfFollow):
		h.flash(c, flashDanger, "You cannot follow yourself.")
		h.redirect(c, fmt.Sprintf("/users/%d", me.ID))
		return
	case err != nil:
		h.serverError(c, err)
		return
	}

	action := "UNFOLLOW"
	if following {
		action = "FOLLOW"
		h.metrics.Follows.Inc()
	} else {
		h.metrics.Unfollows.Inc()
	}
	h.audit.LogAction(h.actor(c), action, strconv.FormatUint(uint64(id), 10), nil)
	h.redirect(c, fmt.Sprintf("/users/%d/following", me.ID))
}

func (h *Handler) StopFollowing(c *gin.Context) {
	me := currentUser(c)
	id, ok := parseID(c, "id")
	if !ok {
		h.NotFound(c)
		return
	}

	if err := h.follows.Unfollow(c.Request.Context(), me.ID, id); err != nil {
		h.serverError(c, err)
		return
	}

	h.metrics.Unfollows.Inc()
	h.audit.LogAction(h.actor(c), "UNFOLLOW", strconv.FormatUint(uint64(id), 10), nil)
	h.redirect(c, fmt.Sprintf("/users/%d/following", me.ID))
}

func (h *Handler) ToggleLike(c *gin.Context) {
	me := currentUser(c)
	id, ok := parseID(c, "message_id")
	if !ok {
		h.NotFound(c)
		return
	}

	liked, err := h.likes.Toggle(c.Request.Context(), me.ID, id)
	switch {
	case errors.Is(err, services.ErrNotFound):
		h.NotFound(c)
		return
	case err != nil:
		h.serverError(c, err)
		return
	}

	state := "unliked"
	if liked {
		state = "liked"
	}
	h.metrics.Likes.WithLabelValues(state).Inc()
	h.audit.LogAction(h.actor(c), "LIKE_TOGGLE", strconv.FormatUint(uint64(id), 10), map[string]string{"state": state})
	h.redirect(c, "/")
}

func (h *Handler) ShowEditProfile(c *gin.Context) {
	me := currentUser(c)
	h.render(c, http.StatusOK, "users_edit.html", gin.H{
		"Form": ProfileForm{
			Username:       me.Username,
			Email:          me.Email,
			ImageURL:       me.ImageURL,
			HeaderImageURL: me.HeaderImageURL,
			Bio:            me.Bio,
			Location:       me.Location,
		},
	})
}

func (h *Handler) HandleEditProfile(c *gin.Context) {
	me := currentUser(c)

	var form ProfileForm
	if err := c.ShouldBind(&form); err != nil {
		form.Password = ""
		h.render(c, http.StatusBadRequest, "users_edit.html", gin.H{
			"Form":   form,
			"Errors": formErrors(err),
		})
		return
	}

	imageURL := form.ImageURL
	if imageURL == "" {
		imageURL = models.DefaultImageURL
	}
	headerURL := form.HeaderImageURL
	if headerURL == "" {
		headerURL = models.DefaultHeaderImageURL
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), me.ID, form.Password, services.ProfileInput{
		Username:       form.Username,
		Email:          form.Email,
		ImageURL:       imageURL,
		HeaderImageURL: headerURL,
		Bio:            form.Bio,
		Location:       form.Location,
	})
	form.Password = ""
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		h.flash(c, flashDanger, "Wrong password, please try again.")
		h.redirect(c, "/")
		return
	case errors.Is(err, services.ErrIntegrity):
		h.render(c, http.StatusConflict, "users_edit.html", gin.H{
			"Form":   form,
			"Errors": []string{"Username or email already taken."},
		})
		return
	case err != nil:
		h.serverError(c, err)
		return
	}

	h.audit.LogAction(h.actor(c), "PROFILE_UPDATE", strconv.FormatUint(uint64(user.ID), 10), nil)
	h.redirect(c, fmt.Sprintf("/users/%d", user.ID))
}

func (h *Handler) DeleteUser(c *gin.Context) {
	me := currentUser(c)

	if err := h.users.Delete(c.Request.Context(), me.ID); err != nil && !errors.Is(err, services.ErrNotFound) {
		h.serverError(c, err)
		return
	}

	h.audit.LogAction(h.actor(c), "ACCOUNT_DELETE", strconv.FormatUint(uint64(me.ID), 10), map[string]string{"username": me.Username})
	h.logoutSession(c)
	h.flash(c, flashInfo, "Your account has been deleted.")
	h.redirect(c, "/signup")
}
