// user_data.go
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

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/callboard/internal/forms"
	"github.com/localnerve/callboard/internal/media"
	"github.com/localnerve/callboard/internal/metrics"
	"github.com/localnerve/callboard/internal/middleware"
	"github.com/localnerve/callboard/internal/models"
	"github.com/localnerve/callboard/internal/services"
	"go.uber.org/zap"
)

const profileURL = "/accounts/profile/"

// Profile lists the signed-in user's own ads, hidden ones included
func (h *Handler) Profile(c *fiber.Ctx) error {
	l, err := readListing(c)
	if err != nil {
		return err
	}
	page, err := services.ListAds(h.db(c), services.AdFilter{
		Keyword:         l.keyword,
		AuthorID:        middleware.CurrentUser(c).ID,
		IncludeInactive: true,
	}, l.page)
	if err != nil {
		return err
	}

	bind := l.bind(page)
	bind["Own"] = true
	return h.render(c, "main/profile", bind)
}

// ProfileAdDetail shows one of the user's ads
func (h *Handler) ProfileAdDetail(c *fiber.Ctx) error {
	adID, err := paramID(c, "adID")
	if err != nil {
		return err
	}
	detail, err := services.GetOwnAdDetail(h.db(c), middleware.CurrentUser(c).ID, adID)
	if err != nil {
		return err
	}
	return h.render(c, "main/profile_ad_detail", fiber.Map{
		"Ad":       detail.Ad,
		"Images":   detail.Images,
		"Comments": detail.Comments,
	})
}

// AdAddForm shows an empty ad form
func (h *Handler) AdAddForm(c *fiber.Ctx) error {
	return h.renderAdForm(c, "main/profile_ad_add", &forms.AdForm{IsActive: true}, nil, nil, nil)
}

// AdAdd files a new ad. Uploads are stored before the database transaction and
// removed again if it fails.
func (h *Handler) AdAdd(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	form := &forms.AdForm{}
	if err := c.BodyParser(form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	choices, err := services.SubRubrics(h.db(c))
	if err != nil {
		return err
	}
	image, extra := uploads(c)
	if errs := form.Validate(choices, image, extra); !errs.Valid() {
		return h.renderAdForm(c, "main/profile_ad_add", form, errs, nil, nil, &Flash{Level: "warning", Message: "Please correct the errors below"})
	}

	stored, err := h.store(image, extra)
	if err != nil {
		return err
	}

	_, err = services.CreateAd(h.db(c), user.ID, form.Input(), stored.image, stored.extra)
	if err != nil {
		h.Media.Remove(stored.all()...)
		return err
	}
	metrics.AdsCreated.Inc()

	return h.redirectWith(c, profileURL, "success", "The ad has been added")
}

// AdChangeForm shows the edit form of one of the user's ads
func (h *Handler) AdChangeForm(c *fiber.Ctx) error {
	ad, images, err := h.ownAd(c)
	if err != nil {
		return err
	}
	return h.renderAdForm(c, "main/profile_ad_change", forms.AdFormFrom(ad), nil, ad, images)
}

// AdChange edits one of the user's ads, its images included
func (h *Handler) AdChange(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	ad, images, err := h.ownAd(c)
	if err != nil {
		return err
	}

	form := &forms.AdForm{}
	if err := c.BodyParser(form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	choices, err := services.SubRubrics(h.db(c))
	if err != nil {
		return err
	}
	image, extra := uploads(c)
	if errs := form.Validate(choices, image, extra); !errs.Valid() {
		return h.renderAdForm(c, "main/profile_ad_change", form, errs, ad, images, &Flash{Level: "warning", Message: "Please correct the errors below"})
	}

	stored, err := h.store(image, extra)
	if err != nil {
		return err
	}

	_, obsolete, err := services.UpdateAd(h.db(c), user.ID, ad.ID, services.AdChange{
		AdInput:        form.Input(),
		Image:          stored.image,
		ClearImage:     form.ClearImage,
		AddImages:      stored.extra,
		DeleteImageIDs: form.DeleteImages,
	})
	if err != nil {
		h.Media.Remove(stored.all()...)
		return err
	}
	h.Media.Remove(obsolete...)

	return h.redirectWith(c, profileURL, "success", "The ad has been changed")
}

// AdDeleteConfirm asks before deleting one of the user's ads
func (h *Handler) AdDeleteConfirm(c *fiber.Ctx) error {
	ad, _, err := h.ownAd(c)
	if err != nil {
		return err
	}
	return h.render(c, "main/profile_ad_delete", fiber.Map{"Ad": ad})
}

// AdDelete removes one of the user's ads with its comments and images
func (h *Handler) AdDelete(c *fiber.Ctx) error {
	adID, err := paramID(c, "adID")
	if err != nil {
		return err
	}
	files, err := services.DeleteAd(h.db(c), middleware.CurrentUser(c).ID, adID)
	if err != nil {
		return err
	}
	h.Media.Remove(files...)
	metrics.AdsDeleted.Inc()

	return h.redirectWith(c, profileURL, "success", "The ad has been deleted")
}

func (h *Handler) ownAd(c *fiber.Ctx) (*models.Ad, []models.AdditionalImage, error) {
	adID, err := paramID(c, "adID")
	if err != nil {
		return nil, nil, err
	}
	detail, err := services.GetOwnAdDetail(h.db(c), middleware.CurrentUser(c).ID, adID)
	if err != nil {
		return nil, nil, err
	}
	return detail.Ad, detail.Images, nil
}

func (h *Handler) renderAdForm(c *fiber.Ctx, name string, form *forms.AdForm, errs forms.Errors, ad *models.Ad, images []models.AdditionalImage, flash ...*Flash) error {
	choices, err := services.SubRubrics(h.db(c))
	if err != nil {
		return err
	}
	bind := fiber.Map{
		"Form":     form,
		"Errors":   errs,
		"Choices":  choices,
		"Ad":       ad,
		"Images":   images,
		"MaxExtra": media.MaxAdditionalImages,
	}
	if len(flash) > 0 && flash[0] != nil {
		bind["Flash"] = flash[0]
	}
	return h.render(c, name, bind)
}

type storedUploads struct {
	image string
	extra []string
}

func (s storedUploads) all() []string {
	if s.image == "" {
		return s.extra
	}
	return append([]string{s.image}, s.extra...)
}

// store writes validated uploads to media storage, all or nothing
func (h *Handler) store(image *multipart.FileHeader, extra []*multipart.FileHeader) (storedUploads, error) {
	var stored storedUploads
	if image != nil {
		name, err := h.Media.Save(image)
		if err != nil {
			return stored, fmt.Errorf("failed to store image: %w", err)
		}
		stored.image = name
	}

	names, err := media.SaveAll(h.Media, extra)
	if err != nil {
		h.Media.Remove(stored.image)
		h.Log.Error("failed to store additional images", zap.Error(err))
		return storedUploads{}, err
	}
	stored.extra = names
	return stored, nil
}
