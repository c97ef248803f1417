package handlers

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var handlePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

var fieldLabels = map[string]string{
	"ImageURL":       "image URL",
	"HeaderImageURL": "header image URL",
}

type SignupForm struct {
	Username string `form:"username" binding:"required,max=80,handle"`
	Email    string `form:"email" binding:"required,email,max=120"`
	Password string `form:"password" binding:"required,min=6"`
	ImageURL string `form:"image_url" binding:"omitempty,uri"`
}

type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type MessageForm struct {
	Text string `form:"text" binding:"required,max=140"`
}

type ProfileForm struct {
	Username       string `form:"username" binding:"required,max=80,handle"`
	Email          string `form:"email" binding:"required,email,max=120"`
	ImageURL       string `form:"image_url" binding:"omitempty,uri"`
	HeaderImageURL string `form:"header_image_url" binding:"omitempty,uri"`
	Bio            string `form:"bio" binding:"max=280"`
	Location       string `form:"location" binding:"max=100"`
	Password       string `form:"password" binding:"required"`
}

// RegisterValidators installs the custom rules used by the form structs on
// gin's validator engine.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected validator engine")
	}
	return v.RegisterValidation("handle", func(fl validator.FieldLevel) bool {
		return handlePattern.MatchString(fl.Field().String())
	})
}

// formErrors turns a binding error into messages fit for a flash or a form.
func formErrors(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{"Invalid form submission."}
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return msgs
}

func fieldMessage(fe validator.FieldError) string {
	field, ok := fieldLabels[fe.Field()]
	if !ok {
		field = strings.ToLower(fe.Field())
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return "Invalid email address."
	case "uri":
		return fmt.Sprintf("The %s field must be a URL.", field)
	case "min":
		return fmt.Sprintf("The %s field must be at least %s characters.", field, fe.Param())
	case "max":
		return fmt.Sprintf("The %s field must be at most %s characters.", field, fe.Param())
	case "handle":
		return "Usernames may only contain letters, digits, dots, dashes and underscores."
	}
	return fmt.Sprintf("The %s field is invalid.", field)
}
