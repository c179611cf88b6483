// seed.go
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
	"errors"
	"fmt"

	"github.com/localnerve/callboard/internal/models"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedRubric is one super-rubric of a seed file with its sub-rubrics
type SeedRubric struct {
	Name  string       `yaml:"name"`
	Order int16        `yaml:"order"`
	Subs  []SeedRubric `yaml:"subs"`
}

// ParseSeed reads a YAML rubric tree
func ParseSeed(data []byte) ([]SeedRubric, error) {
	var tree []SeedRubric
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to parse rubric seed: %w", err)
	}
	for _, super := range tree {
		if super.Name == "" {
			return nil, fmt.Errorf("rubric seed: %w", ErrInvalidRubricName)
		}
		for _, sub := range super.Subs {
			if sub.Name == "" || len(sub.Subs) > 0 {
				return nil, fmt.Errorf("rubric seed under %q: %w", super.Name, ErrInvalidRubricName)
			}
		}
	}
	return tree, nil
}

// SeedRubrics creates the rubrics of tree that do not exist yet and returns
// how many were created. Existing rubrics are matched by name and left alone.
func SeedRubrics(db *gorm.DB, tree []SeedRubric, log *zap.Logger) (int, error) {
	created := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, super := range tree {
			parent, isNew, err := ensureRubric(tx, super.Name, super.Order, nil)
			if err != nil {
				return err
			}
			if !parent.IsSuper() {
				return fmt.Errorf("rubric %q exists as a sub-rubric: %w", super.Name, ErrInvalidParent)
			}
			if isNew {
				created++
			}

			for _, sub := range super.Subs {
				_, isNew, err := ensureRubric(tx, sub.Name, sub.Order, &parent.ID)
				if err != nil {
					return err
				}
				if isNew {
					created++
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Info("rubrics seeded", zap.Int("created", created))
	return created, nil
}

func ensureRubric(tx *gorm.DB, name string, order int16, superID *uint) (*models.Rubric, bool, error) {
	var existing models.Rubric
	err := tx.Where("name = ?", name).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	rubric := &models.Rubric{Name: name, SortOrder: order, SuperRubricID: superID}
	if err := tx.Omit(clause.Associations).Create(rubric).Error; err != nil {
		return nil, false, fmt.Errorf("failed to create rubric %q: %w", name, err)
	}
	return rubric, true, nil
}
