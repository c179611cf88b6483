// data_delete.go
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
	"github.com/localnerve/callboard/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// deleteAds removes ads and everything hanging off them inside tx, children first.
// The schema cascades too, but SQLite only honors that with foreign keys switched on.
// It returns the image file names the rows referred to.
func deleteAds(tx *gorm.DB, adIDs []uint) ([]string, error) {
	if len(adIDs) == 0 {
		return nil, nil
	}

	quiet := tx.Session(&gorm.Session{Logger: tx.Logger.LogMode(logger.Silent)})

	var files []string
	var primary []string
	if err := quiet.Model(&models.Ad{}).
		Where("id IN ? AND image <> ?", adIDs, "").
		Pluck("image", &primary).Error; err != nil {
		return nil, err
	}
	files = append(files, primary...)

	var extra []string
	if err := quiet.Model(&models.AdditionalImage{}).
		Where("ad_id IN ?", adIDs).
		Pluck("image", &extra).Error; err != nil {
		return nil, err
	}
	files = append(files, extra...)

	if err := tx.Where("ad_id IN ?", adIDs).Delete(&models.Comment{}).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("ad_id IN ?", adIDs).Delete(&models.AdditionalImage{}).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("id IN ?", adIDs).Delete(&models.Ad{}).Error; err != nil {
		return nil, err
	}

	return files, nil
}
