// data_service.go
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

package services

import (
	"time"

	"github.com/localnerve/callboard/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/hints"
)

// RubricData is the public JSON shape of a rubric
type RubricData struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	SuperRubric *uint  `json:"super_rubric"`
}

// AdData is the public JSON shape of an ad. Image is a path under /media/ or empty.
type AdData struct {
	ID        uint      `json:"id"`
	Rubric    uint      `json:"rubric"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Price     float64   `json:"price"`
	Contacts  string    `json:"contacts"`
	Image     string    `json:"image"`
	Author    uint      `json:"author"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// NewRubricData converts a rubric row
func NewRubricData(r models.Rubric) RubricData {
	return RubricData{ID: r.ID, Name: r.Name, SuperRubric: r.SuperRubricID}
}

// NewAdData converts an ad row
func NewAdData(a models.Ad) AdData {
	image := ""
	if a.Image != "" {
		image = "/media/" + a.Image
	}
	return AdData{
		ID:        a.ID,
		Rubric:    a.RubricID,
		Title:     a.Title,
		Content:   a.Content,
		Price:     a.Price,
		Contacts:  a.Contacts,
		Image:     image,
		Author:    a.AuthorID,
		IsActive:  a.IsActive,
		CreatedAt: a.CreatedAt,
	}
}

// GetRubricsData returns every rubric in id order
func GetRubricsData(db *gorm.DB) ([]RubricData, error) {
	rubrics, err := AllRubrics(quiet(db))
	if err != nil {
		return nil, err
	}
	out := make([]RubricData, 0, len(rubrics))
	for _, r := range rubrics {
		out = append(out, NewRubricData(r))
	}
	return out, nil
}

// GetRubricData returns one rubric
func GetRubricData(db *gorm.DB, id uint) (*RubricData, error) {
	var rubric models.Rubric
	if err := quiet(db).First(&rubric, id).Error; err != nil {
		return nil, notFound(err, "rubric", id)
	}
	data := NewRubricData(rubric)
	return &data, nil
}

// GetAdsData returns every ad, hidden ones included, in id order
func GetAdsData(db *gorm.DB) ([]AdData, error) {
	var ads []models.Ad
	if err := quiet(db).Clauses(hints.Comment("select", "api_ads")).Order("id").Find(&ads).Error; err != nil {
		return nil, err
	}
	out := make([]AdData, 0, len(ads))
	for _, a := range ads {
		out = append(out, NewAdData(a))
	}
	return out, nil
}

// GetAdData returns one ad
func GetAdData(db *gorm.DB, id uint) (*AdData, error) {
	var ad models.Ad
	if err := quiet(db).First(&ad, id).Error; err != nil {
		return nil, notFound(err, "ad", id)
	}
	data := NewAdData(ad)
	return &data, nil
}

// quiet silences the record-not-found noise of lookups the API expects to miss
func quiet(db *gorm.DB) *gorm.DB {
	return db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)})
}
