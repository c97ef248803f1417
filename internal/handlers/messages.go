package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"warbler/internal/services"

	"github.com/gin-gonic/gin"
)

const timelineLimit = 100

// Home shows the landing page to anonymous visitors and the timeline of
// followed users plus one's own messages otherwise.
func (h *Handler) Home(c *gin.Context) {
	me := currentUser(c)
	if me == nil {
		h.render(c, http.StatusOK, "home_anon.html", nil)
		return
	}

	ctx := c.Request.Context()
	messages, err := h.messages.Timeline(ctx, me.ID, timelineLimit)
	if err != nil {
		h.serverError(c, err)
		return
	}
	liked, err := h.likes.LikedIDs(ctx, me.ID)
	if err != nil {
		h.serverError(c, err)
		return
	}
	stats, err := h.stats.ForUser(ctx, me.ID)
	if err != nil {
		h.serverError(c, err)
		return
	}

	h.render(c, http.StatusOK, "home.html", gin.H{
		"Messages": messages,
		"Likes":    liked,
		"Stats":    stats,
	})
}

func (h *Handler) ShowNewMessage(c *gin.Context) {
	h.render(c, http.StatusOK, "messages_new.html", gin.H{"Form": MessageForm{}})
}

func (h *Handler) HandleNewMessage(c *gin.Context) {
	me := currentUser(c)

	var form MessageForm
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusBadRequest, "messages_new.html", gin.H{
			"Form":   form,
			"Errors": formErrors(err),
		})
		return
	}

	msg, err := h.messages.Create(c.Request.Context(), me.ID, form.Text)
	switch {
	case errors.Is(err, services.ErrInvalidMessage):
		h.render(c, http.StatusBadRequest, "messages_new.html", gin.H{
			"Form":   form,
			"Errors": []string{"Warbles must be between 1 and 140 characters."},
		})
		return
	case err != nil:
		h.serverError(c, err)
		return
	}

	h.metrics.MessagesPosted.Inc()
	h.audit.LogAction(h.actor(c), "MESSAGE_CREATE", strconv.FormatUint(uint64(msg.ID), 10), nil)
	h.redirect(c, fmt.Sprintf("/users/%d", me.ID))
}

func (h *Handler) ShowMessage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.NotFound(c)
		return
	}

	ctx := c.Request.Context()
	msg, err := h.messages.Get(ctx, id)
	if errors.Is(err, services.ErrNotFound) {
		h.NotFound(c)
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}

	liked := map[uint]bool{}
	if me := currentUser(c); me != nil {
		if liked, err = h.likes.LikedIDs(ctx, me.ID); err != nil {
			h.serverError(c, err)
			return
		}
	}

	h.render(c, http.StatusOK, "messages_show.html", gin.H{
		"Message": msg,
		"Likes":   liked,
	})
}

func (h *Handler) DeleteMessage(c *gin.Context) {
	me := currentUser(c)
	id, ok := parseID(c, "id")
	if !ok {
		h.NotFound(c)
		return
	}

	err := h.messages.Delete(c.Request.Context(), me.ID, id)
	switch {
	case errors.Is(err, services.ErrNotFound):
		h.NotFound(c)
		return
	case errors.Is(err, services.ErrForbidden):
		h.flash(c, flashDanger, "Access unauthorized.")
		h.redirect(c, "/")
		return
	case err != nil:
		h.serverError(c, err)
		return
	}

	h.audit.LogAction(h.actor(c), "MESSAGE_DELETE", strconv.FormatUint(uint64(id), 10), nil)
	h.redirect(c, fmt.Sprintf("/users/%d", me.ID))
}
