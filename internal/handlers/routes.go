package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/localnerve/callboard/internal/forms"
	"github.com/localnerve/callboard/internal/middleware"
)

// Routes mounts the JSON API, the captcha images and every page route
func (h *Handler) Routes(app *fiber.App) {
	// API routes under /api, no session needed
	api := app.Group("/api", middleware.VersionMiddleware())
	api.Get("/rubrics", h.GetRubrics)
	api.Get("/rubrics/:id<int>", h.GetRubric)
	api.Get("/ads/all", h.GetAds)
	api.Get("/ads/:id<int>", h.GetAd)

	app.Get("/captcha/*", adaptor.HTTPHandler(forms.CaptchaImages()))

	// Everything below knows the signed-in user
	app.Use(middleware.LoadUser(h.DB, h.Sessions, h.Log))

	app.Get("/", h.Index)

	accounts := app.Group("/accounts")
	accounts.Get("/login", h.LoginForm)
	accounts.Post("/login", h.Login)
	accounts.Post("/logout", middleware.RequireLogin(), h.Logout)
	accounts.Get("/register/done", h.RegisterDone)
	accounts.Get("/register/activate/:sign", h.Activate)
	accounts.Get("/register", h.RegisterForm)
	accounts.Post("/register", h.Register)
	accounts.Get("/password/change", middleware.RequireLogin(), h.PasswordChangeForm)
	accounts.Post("/password/change", middleware.RequireLogin(), h.PasswordChange)

	profile := accounts.Group("/profile", middleware.RequireLogin())
	profile.Get("/", h.Profile)
	profile.Get("/add", h.AdAddForm)
	profile.Post("/add", h.AdAdd)
	profile.Get("/change/:adID<int>", h.AdChangeForm)
	profile.Post("/change/:adID<int>", h.AdChange)
	profile.Get("/delete/:adID<int>", h.AdDeleteConfirm)
	profile.Post("/delete/:adID<int>", h.AdDelete)
	profile.Get("/change", h.ProfileChangeForm)
	profile.Post("/change", h.ProfileChange)
	profile.Get("/delete", h.DeleteUserConfirm)
	profile.Post("/delete", h.DeleteUser)
	profile.Get("/:adID<int>", h.ProfileAdDetail)

	app.Get("/:rubricID<int>/:adID<int>", h.Detail)
	app.Post("/:rubricID<int>/:adID<int>", h.AddComment)
	app.Get("/:rubricID<int>", h.ByRubric)
	app.Get("/:page", h.StaticPage)

	app.Use(h.NotFound)
}
