// app_data.go
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
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/callboard/internal/services"
	"github.com/localnerve/callboard/internal/utils"
)

// GetRubrics godoc
// @Summary List rubrics
// @Description Get every rubric; super_rubric is null for top-level rubrics
// @Tags rubrics
// @Produce json
// @Success 200 {array} services.RubricData
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /rubrics/ [get]
func (h *Handler) GetRubrics(c *fiber.Ctx) error {
	data, err := services.GetRubricsData(h.db(c))
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, data, fiber.StatusOK)
}

// GetRubric godoc
// @Summary Get a rubric
// @Description Get one rubric by id
// @Tags rubrics
// @Produce json
// @Param id path int true "Rubric id"
// @Success 200 {object} services.RubricData
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /rubrics/{id}/ [get]
func (h *Handler) GetRubric(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	data, err := services.GetRubricData(h.db(c), id)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, data, fiber.StatusOK)
}

// GetAds godoc
// @Summary List ads
// @Description Get every ad, hidden ones included
// @Tags ads
// @Produce json
// @Success 200 {array} services.AdData
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /ads/all [get]
func (h *Handler) GetAds(c *fiber.Ctx) error {
	data, err := services.GetAdsData(h.db(c))
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, data, fiber.StatusOK)
}

// GetAd godoc
// @Summary Get an ad
// @Description Get one ad by id
// @Tags ads
// @Produce json
// @Param id path int true "Ad id"
// @Success 200 {object} services.AdData
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /ads/{id}/ [get]
func (h *Handler) GetAd(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	data, err := services.GetAdData(h.db(c), id)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, data, fiber.StatusOK)
}
