// common.go
//
// A classifieds bulletin board with rubrics, ads, comments and user accounts
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of callboard.
// callboard is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// callboard is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with callboard.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers

import (
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/localnerve/callboard/internal/forms"
	"github.com/localnerve/callboard/internal/mail"
	"github.com/localnerve/callboard/internal/media"
	"github.com/localnerve/callboard/internal/middleware"
	"github.com/localnerve/callboard/internal/models"
	"github.com/localnerve/callboard/internal/services"
	"github.com/localnerve/callboard/internal/signer"
	"github.com/localnerve/callboard/internal/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	layout   = "layouts/main"
	flashKey = "flash"
)

// Handler carries the dependencies shared by every page and API endpoint
type Handler struct {
	DB       *gorm.DB
	Sessions *session.Store
	Log      *zap.Logger
	Signer   *signer.Signer
	Mailer   mail.Mailer
	Media    media.Storage
	Captcha  forms.Captcha
	BaseURL  string
}

// NavGroup is a super-rubric with its sub-rubrics, for the navigation column
type NavGroup struct {
	Super models.Rubric
	Subs  []models.Rubric
}

// Flash is a one-shot message shown on the next rendered page
type Flash struct {
	Level   string
	Message string
}

func (h *Handler) db(c *fiber.Ctx) *gorm.DB {
	return h.DB.WithContext(c.UserContext())
}

// render executes a page inside the main layout, adding the navigation,
// the current user and any pending flash message
func (h *Handler) render(c *fiber.Ctx, name string, bind fiber.Map) error {
	if bind == nil {
		bind = fiber.Map{}
	}

	nav, err := h.navigation(c)
	if err != nil {
		return err
	}
	bind["Nav"] = nav
	bind["User"] = middleware.CurrentUser(c)
	bind["Path"] = c.Path()

	if _, ok := bind["Flash"]; !ok {
		flash, err := h.popFlash(c)
		if err != nil {
			return err
		}
		bind["Flash"] = flash
	}

	return c.Render(name, bind, layout)
}

func (h *Handler) navigation(c *fiber.Ctx) ([]NavGroup, error) {
	subs, err := services.SubRubrics(h.db(c))
	if err != nil {
		return nil, err
	}

	var groups []NavGroup
	for _, sub := range subs {
		if sub.SuperRubric == nil {
			continue
		}
		if n := len(groups); n == 0 || groups[n-1].Super.ID != sub.SuperRubric.ID {
			groups = append(groups, NavGroup{Super: *sub.SuperRubric})
		}
		groups[len(groups)-1].Subs = append(groups[len(groups)-1].Subs, sub)
	}
	return groups, nil
}

// flash stores a message for the next page view
func (h *Handler) flash(c *fiber.Ctx, level, message string) error {
	sess, err := h.Sessions.Get(c)
	if err != nil {
		return err
	}
	sess.Set(flashKey, level+"|"+message)
	return sess.Save()
}

func (h *Handler) popFlash(c *fiber.Ctx) (*Flash, error) {
	sess, err := h.Sessions.Get(c)
	if err != nil {
		return nil, err
	}
	raw, ok := sess.Get(flashKey).(string)
	if !ok {
		return nil, nil
	}
	sess.Delete(flashKey)
	if err := sess.Save(); err != nil {
		return nil, err
	}

	level, message, found := strings.Cut(raw, "|")
	if !found {
		return &Flash{Level: "info", Message: raw}, nil
	}
	return &Flash{Level: level, Message: message}, nil
}

// redirectWith flashes a message then redirects with 302
func (h *Handler) redirectWith(c *fiber.Ctx, location, level, message string) error {
	if err := h.flash(c, level, message); err != nil {
		return err
	}
	return c.Redirect(location, fiber.StatusFound)
}

// paramID reads a positive integer route parameter; anything else is a 404
func paramID(c *fiber.Ctx, name string) (uint, error) {
	n, err := strconv.ParseUint(c.Params(name), 10, 0)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("%s %q: %w", name, c.Params(name), types.ErrNotFound)
	}
	return uint(n), nil
}

// localNext accepts only same-site absolute paths as redirect targets
func localNext(next, fallback string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && !strings.HasPrefix(next, "/\\") {
		return next
	}
	return fallback
}

// uploads pulls the primary image and additional images out of a multipart request
func uploads(c *fiber.Ctx) (*multipart.FileHeader, []*multipart.FileHeader) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil, nil
	}
	var image *multipart.FileHeader
	if files := form.File["image"]; len(files) > 0 && files[0].Filename != "" {
		image = files[0]
	}
	var extra []*multipart.FileHeader
	for _, fh := range form.File["additional_images"] {
		if fh.Filename != "" {
			extra = append(extra, fh)
		}
	}
	return image, extra
}
