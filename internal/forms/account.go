package forms

import (
	"strings"

	"github.com/localnerve/callboard/internal/services"
)

// RegisterForm is the sign-up form
type RegisterForm struct {
	Username     string `form:"username" validate:"required,max=150,username"`
	Email        string `form:"email" validate:"required,email,max=254"`
	Password1    string `form:"password1" validate:"required"`
	Password2    string `form:"password2" validate:"required"`
	FirstName    string `form:"first_name" validate:"max=150"`
	LastName     string `form:"last_name" validate:"max=150"`
	SendMessages bool   `form:"send_messages"`
}

// Validate checks field rules, password strength and the confirmation
func (f *RegisterForm) Validate() Errors {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)
	errs := check(f)

	if f.Password1 != "" {
		for _, p := range PasswordProblems(f.Password1, f.Username, f.Email, f.FirstName, f.LastName) {
			errs.Add("password1", p)
		}
	}
	if f.Password1 != "" && f.Password2 != "" && f.Password1 != f.Password2 {
		errs.Add("password2", "The two password fields didn't match.")
	}
	return errs
}

// Input converts a valid form for services.Register
func (f *RegisterForm) Input() services.RegisterInput {
	return services.RegisterInput{
		Username:     f.Username,
		Email:        f.Email,
		Password:     f.Password1,
		FirstName:    f.FirstName,
		LastName:     f.LastName,
		SendMessages: f.SendMessages,
	}
}

// LoginForm is the sign-in form. Next is the local path to continue to.
type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"next"`
}

// Validate checks that both credentials are present
func (f *LoginForm) Validate() Errors {
	f.Username = strings.TrimSpace(f.Username)
	return check(f)
}

// ProfileForm edits the user's own account details
type ProfileForm struct {
	Username     string `form:"username" validate:"required,max=150,username"`
	Email        string `form:"email" validate:"required,email,max=254"`
	FirstName    string `form:"first_name" validate:"max=150"`
	LastName     string `form:"last_name" validate:"max=150"`
	SendMessages bool   `form:"send_messages"`
}

// Validate checks field rules
func (f *ProfileForm) Validate() Errors {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)
	return check(f)
}

// Input converts a valid form for services.UpdateProfile
func (f *ProfileForm) Input() services.ProfileInput {
	return services.ProfileInput{
		Username:     f.Username,
		Email:        f.Email,
		FirstName:    f.FirstName,
		LastName:     f.LastName,
		SendMessages: f.SendMessages,
	}
}

// PasswordChangeForm replaces the password of a signed-in user
type PasswordChangeForm struct {
	OldPassword  string `form:"old_password" validate:"required"`
	NewPassword1 string `form:"new_password1" validate:"required"`
	NewPassword2 string `form:"new_password2" validate:"required"`
}

// Validate checks the new password against the user's own attributes
func (f *PasswordChangeForm) Validate(attributes ...string) Errors {
	errs := check(f)
	if f.NewPassword1 != "" {
		for _, p := range PasswordProblems(f.NewPassword1, attributes...) {
			errs.Add("new_password1", p)
		}
	}
	if f.NewPassword1 != "" && f.NewPassword2 != "" && f.NewPassword1 != f.NewPassword2 {
		errs.Add("new_password2", "The two password fields didn't match.")
	}
	return errs
}
