package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/callboard/internal/forms"
	"github.com/localnerve/callboard/internal/mail"
	"github.com/localnerve/callboard/internal/metrics"
	"github.com/localnerve/callboard/internal/middleware"
	"github.com/localnerve/callboard/internal/services"
	"github.com/localnerve/callboard/internal/types"
	"go.uber.org/zap"
)

// LoginForm shows the sign-in page
func (h *Handler) LoginForm(c *fiber.Ctx) error {
	if middleware.CurrentUser(c) != nil {
		return c.Redirect(profileURL, fiber.StatusFound)
	}
	return h.render(c, "accounts/login", fiber.Map{"Form": &forms.LoginForm{Next: c.Query("next")}})
}

// Login signs a user in and rotates the session id
func (h *Handler) Login(c *fiber.Ctx) error {
	form := &forms.LoginForm{}
	if err := c.BodyParser(form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if errs := form.Validate(); !errs.Valid() {
		return h.render(c, "accounts/login", fiber.Map{"Form": form, "Errors": errs})
	}

	user, err := services.Authenticate(h.db(c), form.Username, form.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		metrics.Logins.WithLabelValues("failure").Inc()
		errs := forms.Errors{}
		errs.Add("", err.Error())
		form.Password = ""
		return h.render(c, "accounts/login", fiber.Map{"Form": form, "Errors": errs})
	}
	if err != nil {
		return err
	}
	metrics.Logins.WithLabelValues("success").Inc()

	sess, err := h.Sessions.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(middleware.SessionUserKey, user.ID)
	if err := sess.Save(); err != nil {
		return err
	}

	h.Log.Info("user signed in", zap.String("username", user.Username))
	return c.Redirect(localNext(form.Next, profileURL), fiber.StatusFound)
}

// Logout ends the session
func (h *Handler) Logout(c *fiber.Ctx) error {
	sess, err := h.Sessions.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Destroy(); err != nil {
		return err
	}
	middleware.SetCurrentUser(c, nil)
	return h.render(c, "accounts/logout", nil)
}

// RegisterForm shows the sign-up page
func (h *Handler) RegisterForm(c *fiber.Ctx) error {
	return h.render(c, "accounts/register", fiber.Map{"Form": &forms.RegisterForm{SendMessages: true}})
}

// Register creates a dormant account and mails its activation link. A mail
// failure is logged; the account stays and can be activated later.
func (h *Handler) Register(c *fiber.Ctx) error {
	form := &forms.RegisterForm{}
	if err := c.BodyParser(form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	errs := form.Validate()
	if errs.Valid() {
		user, err := services.Register(h.db(c), form.Input())
		switch {
		case errors.Is(err, services.ErrUsernameTaken):
			errs.Add("username", err.Error())
		case err != nil:
			return err
		default:
			metrics.Registrations.Inc()
			if err := mail.SendActivation(c.UserContext(), h.Mailer, h.BaseURL, h.Signer, user); err != nil {
				metrics.MailFailures.Inc()
				h.Log.Error("failed to send activation letter", zap.String("username", user.Username), zap.Error(err))
			}
			return c.Redirect("/accounts/register/done/", fiber.StatusFound)
		}
	}

	form.Password1, form.Password2 = "", ""
	return h.render(c, "accounts/register", fiber.Map{"Form": form, "Errors": errs})
}

// RegisterDone tells the user to check their mail
func (h *Handler) RegisterDone(c *fiber.Ctx) error {
	return h.render(c, "accounts/register_done", nil)
}

// Activate follows an activation link
func (h *Handler) Activate(c *fiber.Ctx) error {
	username, err := h.Signer.Unsign(c.Params("sign"))
	if err != nil {
		metrics.Activations.WithLabelValues("bad_signature").Inc()
		c.Status(fiber.StatusBadRequest)
		return h.render(c, "accounts/bad_signature", nil)
	}

	user, result, err := services.Activate(h.db(c), username)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			metrics.Activations.WithLabelValues("unknown_user").Inc()
		}
		return err
	}

	if result == services.AlreadyActivated {
		metrics.Activations.WithLabelValues("already_activated").Inc()
		return h.render(c, "accounts/user_is_activated", fiber.Map{"Activated": user})
	}

	metrics.Activations.WithLabelValues("activated").Inc()
	h.Log.Info("user activated", zap.String("username", user.Username))
	return h.render(c, "accounts/activation_done", fiber.Map{"Activated": user})
}

// ProfileChangeForm shows the account details form
func (h *Handler) ProfileChangeForm(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return h.render(c, "accounts/change_user_info", fiber.Map{"Form": &forms.ProfileForm{
		Username:     user.Username,
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		SendMessages: user.SendMessages,
	}})
}

// ProfileChange stores the account details
func (h *Handler) ProfileChange(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	form := &forms.ProfileForm{}
	if err := c.BodyParser(form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	errs := form.Validate()
	if errs.Valid() {
		err := services.UpdateProfile(h.db(c), user, form.Input())
		switch {
		case errors.Is(err, services.ErrUsernameTaken):
			errs.Add("username", err.Error())
		case err != nil:
			return err
		default:
			return h.redirectWith(c, profileURL, "success", "User data changed")
		}
	}
	return h.render(c, "accounts/change_user_info", fiber.Map{"Form": form, "Errors": errs})
}

// PasswordChangeForm shows the password form
func (h *Handler) PasswordChangeForm(c *fiber.Ctx) error {
	return h.render(c, "accounts/password_change", fiber.Map{"Form": &forms.PasswordChangeForm{}})
}

// PasswordChange replaces the user's password
func (h *Handler) PasswordChange(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	form := &forms.PasswordChangeForm{}
	if err := c.BodyParser(form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	errs := form.Validate(user.Username, user.Email, user.FirstName, user.LastName)
	if errs.Valid() {
		err := services.ChangePassword(h.db(c), user, form.OldPassword, form.NewPassword1)
		switch {
		case errors.Is(err, services.ErrWrongPassword):
			errs.Add("old_password", err.Error())
		case err != nil:
			return err
		default:
			return h.redirectWith(c, profileURL, "success", "Password changed")
		}
	}
	return h.render(c, "accounts/password_change", fiber.Map{"Form": &forms.PasswordChangeForm{}, "Errors": errs})
}

// DeleteUserConfirm asks before deleting the account
func (h *Handler) DeleteUserConfirm(c *fiber.Ctx) error {
	return h.render(c, "accounts/delete_user", nil)
}

// DeleteUser removes the signed-in user with all their ads, then signs them out
func (h *Handler) DeleteUser(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	files, err := services.DeleteUser(h.db(c), user.ID)
	if err != nil {
		return err
	}
	h.Media.Remove(files...)
	h.Log.Info("user deleted", zap.String("username", user.Username))

	sess, err := h.Sessions.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Delete(middleware.SessionUserKey)
	sess.Set(flashKey, "success|User deleted")
	if err := sess.Save(); err != nil {
		return err
	}
	return c.Redirect("/", fiber.StatusFound)
}
