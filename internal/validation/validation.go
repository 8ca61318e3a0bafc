// Package validation checks form input locally, before anything touches the network.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"etalase/internal/apperrors"

	"github.com/go-playground/validator/v10"
)

// MinPasswordLength is the shortest password the forms accept.
const MinPasswordLength = 6

var personName = regexp.MustCompile(`^[\p{L}][\p{L} '\-]*$`)

// SignupForm is the account creation form.
type SignupForm struct {
	FirstName       string `json:"firstName" validate:"required,max=50,personname"`
	LastName        string `json:"lastName" validate:"required,max=50,personname"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	AcceptTerms     bool   `json:"acceptTerms" validate:"accepted"`
}

// LoginForm is the email/password sign-in form.
type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ResetForm requests a password-reset email.
type ResetForm struct {
	Email string `json:"email" validate:"required,email"`
}

// ProfilePatch updates the user profile record. Nil fields are left alone.
type ProfilePatch struct {
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,min=1,max=50,personname"`
	LastName  *string `json:"lastName,omitempty" validate:"omitempty,min=1,max=50,personname"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
}

// Empty reports whether the patch changes nothing.
func (p ProfilePatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil
}

// ReviewForm writes or edits the caller's review of a store.
type ReviewForm struct {
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	Comment    string `json:"comment" validate:"max=1000"`
	AuthorName string `json:"authorName" validate:"max=100"`
}

// ProductForm creates or edits a product.
type ProductForm struct {
	Name     string  `json:"name" validate:"required,min=1,max=100"`
	Price    float64 `json:"price" validate:"required,gt=0"`
	InStock  *bool   `json:"inStock,omitempty"`
	ImageURL string  `json:"imageUrl" validate:"omitempty,url"`
}

// SocialLinkForm is one social link entry.
type SocialLinkForm struct {
	Platform string `json:"platform" validate:"required,max=30"`
	URL      string `json:"url" validate:"required,url"`
}

// BusinessProfileForm creates or edits a business profile.
type BusinessProfileForm struct {
	Name         string           `json:"name" validate:"required,min=2,max=100"`
	Address      string           `json:"address" validate:"required,max=300"`
	Hours        string           `json:"hours" validate:"required,max=200"`
	Contact      string           `json:"contact" validate:"omitempty,max=30"`
	Email        string           `json:"email" validate:"omitempty,email"`
	Website      string           `json:"website" validate:"omitempty,url"`
	SocialLinks  []SocialLinkForm `json:"socialLinks" validate:"omitempty,max=10,dive"`
	ProfileType  string           `json:"profileType" validate:"omitempty,max=50"`
	Category     string           `json:"category" validate:"omitempty,max=50"`
	CoverImage   string           `json:"coverImage" validate:"omitempty,url"`
	ProfileImage string           `json:"profileImage" validate:"omitempty,url"`
}

// Validator wraps a configured validator.Validate.
type Validator struct {
	validate *validator.Validate
}

// New returns a Validator with the storefront's custom tags registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
		return personName.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("accepted", func(fl validator.FieldLevel) bool {
		return fl.Field().Bool()
	})
	return &Validator{validate: v}
}

// Struct validates s and returns a *apperrors.ValidationError on failure.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewValidationError(err.Error())
	}
	fields := make(map[string]string, len(verrs))
	for _, e := range verrs {
		fields[e.Field()] = message(e)
	}
	return apperrors.NewFieldValidationError(fields)
}

// Email checks a single address.
func (v *Validator) Email(email string) error {
	if strings.TrimSpace(email) == "" {
		return apperrors.NewFieldValidationError(map[string]string{"email": "is required"})
	}
	if err := v.validate.Var(email, "email"); err != nil {
		return apperrors.NewFieldValidationError(map[string]string{"email": "must be a valid email address"})
	}
	return nil
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if e.Field() == "password" {
			return fmt.Sprintf("must be at least %d characters", MinPasswordLength)
		}
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "eqfield":
		return "passwords do not match"
	case "personname":
		return "may only contain letters, spaces, apostrophes and hyphens"
	case "accepted":
		return "the terms must be accepted"
	case "gt":
		return "must be greater than " + e.Param()
	case "url":
		return "must be a valid URL"
	default:
		return fmt.Sprintf("failed on the '%s' tag", e.Tag())
	}
}
