// auth.go
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

package middleware

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/localnerve/callboard/internal/models"
	"github.com/localnerve/callboard/internal/services"
	"github.com/localnerve/callboard/internal/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// SessionUserKey holds the signed-in user's id in the session
	SessionUserKey = "user_id"

	userLocal = "user"
)

// LoginURL is where RequireLogin sends anonymous visitors
const LoginURL = "/accounts/login/"

// LoadUser resolves the session's user, if any, into the request locals.
// A session pointing at a vanished or inactive user is cleared.
func LoadUser(db *gorm.DB, store *session.Store, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return err
		}

		id, ok := sess.Get(SessionUserKey).(uint)
		if !ok {
			return c.Next()
		}

		user, err := services.GetActiveUser(db.WithContext(c.UserContext()), id)
		if err != nil {
			if !errors.Is(err, types.ErrUnauthorized) {
				return err
			}
			log.Info("dropping session of unavailable user", zap.Uint("user_id", id))
			sess.Delete(SessionUserKey)
			if err := sess.Save(); err != nil {
				return err
			}
			return c.Next()
		}

		c.Locals(userLocal, user)
		return c.Next()
	}
}

// RequireLogin redirects anonymous visitors to the login page, remembering
// where they were headed
func RequireLogin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentUser(c) == nil {
			return c.Redirect(LoginURL+"?next="+url.QueryEscape(c.OriginalURL()), fiber.StatusFound)
		}
		return c.Next()
	}
}

// CurrentUser returns the signed-in user or nil
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocal).(*models.User)
	return user
}

// SetCurrentUser places user in the request locals
func SetCurrentUser(c *fiber.Ctx, user *models.User) {
	c.Locals(userLocal, user)
}
