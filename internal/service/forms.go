package service

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// PostForm is the create/edit schema for posts.
type PostForm struct {
	Text  string `form:"text" validate:"notblank,max=10000"`
	Group string `form:"group" validate:"omitempty,max=100"`
}

type CommentForm struct {
	Text string `form:"text" validate:"notblank,max=2000"`
}

type SignupForm struct {
	Username  string `form:"username" validate:"required,min=3,max=150,username"`
	FirstName string `form:"first_name" validate:"max=150"`
	LastName  string `form:"last_name" validate:"max=150"`
	Password  string `form:"password1" validate:"required,min=8,bcryptlen"`
	Password2 string `form:"password2" validate:"required,eqfield=Password"`
}

type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

var usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)

const maxPasswordBytes = 72

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func formValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			return formName(f.Tag.Get("form"), f.Name)
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernameRe.MatchString(fl.Field().String())
		})
		// bcrypt rejects input longer than 72 bytes
		_ = v.RegisterValidation("bcryptlen", func(fl validator.FieldLevel) bool {
			return len(fl.Field().String()) <= maxPasswordBytes
		})
		validate = v
	})
	return validate
}

// validateForm runs the schema and converts failures into a FormError.
func validateForm(form interface{}) error {
	err := formValidator().Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fe := &FormError{Fields: make(map[string]string, len(verrs))}
	for _, fieldErr := range verrs {
		fe.Fields[fieldErr.Field()] = message(fieldErr)
	}
	return fe
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "This field is required."
	case "min":
		return "Ensure this value has at least " + fe.Param() + " characters."
	case "max":
		return "Ensure this value has at most " + fe.Param() + " characters."
	case "eqfield":
		return "The two password fields didn't match."
	case "bcryptlen":
		return "Ensure this value has at most 72 bytes."
	case "username":
		return "Enter a valid username: letters, digits and @/./+/-/_ only."
	}
	return "Invalid value."
}

func formName(tag, fallback string) string {
	if name := strings.SplitN(tag, ",", 2)[0]; name != "" && name != "-" {
		return name
	}
	return fallback
}
