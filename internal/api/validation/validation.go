// Package validation checks request shapes before they reach the services.
// Each function returns the list of field errors; an empty list means valid.
package validation

import (
	"regexp"
	"strings"

	"github.com/hsm-gustavo/userauth-api/internal/password"
)

const (
	MinPasswordLength = 6
	MaxPasswordLength = password.MaxLength
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type CreateUserInput struct {
	Name     string
	Email    string
	Password string
}

// UpdateUserInput mirrors a PATCH body; nil fields were not sent.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
}

type LoginInput struct {
	Email    string
	Password string
}

func IsEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func CreateUser(in CreateUserInput) []string {
	var errs []string
	errs = append(errs, name(in.Name)...)
	errs = append(errs, email(in.Email)...)
	errs = append(errs, newPassword(in.Password)...)
	return errs
}

func UpdateUser(in UpdateUserInput) []string {
	var errs []string
	if in.Name != nil {
		errs = append(errs, name(*in.Name)...)
	}
	if in.Email != nil {
		errs = append(errs, email(*in.Email)...)
	}
	if in.Password != nil {
		errs = append(errs, newPassword(*in.Password)...)
	}
	return errs
}

// Login only checks presence and shape; password length rules apply to new
// passwords, not to login attempts.
func Login(in LoginInput) []string {
	var errs []string
	errs = append(errs, email(in.Email)...)
	if in.Password == "" {
		errs = append(errs, "password should not be empty")
	}
	return errs
}

func name(v string) []string {
	if strings.TrimSpace(v) == "" {
		return []string{"name should not be empty"}
	}
	return nil
}

func email(v string) []string {
	if strings.TrimSpace(v) == "" {
		return []string{"email should not be empty", "email must be an email"}
	}
	if !IsEmail(v) {
		return []string{"email must be an email"}
	}
	return nil
}

func newPassword(v string) []string {
	var errs []string
	if v == "" {
		errs = append(errs, "password should not be empty")
	}
	if len(v) < MinPasswordLength {
		errs = append(errs, "password must be at least 6 characters long")
	}
	if len(v) > MaxPasswordLength {
		errs = append(errs, "password must be at most 72 bytes long")
	}
	return errs
}
