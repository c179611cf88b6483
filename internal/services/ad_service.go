package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/localnerve/callboard/internal/models"
	"github.com/localnerve/callboard/internal/pagination"
	"github.com/localnerve/callboard/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/hints"
)

// AdsPerPage is the listing page size
const AdsPerPage = 2

// AdFilter narrows an ad listing. Zero values mean "no restriction".
type AdFilter struct {
	Keyword         string
	RubricID        uint
	AuthorID        uint
	IncludeInactive bool
	// Limit caps the listing to the newest Limit matching ads
	Limit int
}

// AdInput carries the editable fields of an ad
type AdInput struct {
	RubricID uint
	Title    string
	Content  string
	Price    float64
	Contacts string
	IsActive bool
}

// AdChange is an edit of an existing ad. Image, when non-empty, replaces the
// primary image; ClearImage drops it. AddImages and DeleteImageIDs adjust the
// additional images.
type AdChange struct {
	AdInput
	Image          string
	ClearImage     bool
	AddImages      []string
	DeleteImageIDs []uint
}

// AdDetail is an ad with its additional images and visible comments
type AdDetail struct {
	Ad       *models.Ad
	Images   []models.AdditionalImage
	Comments []models.Comment
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func (f AdFilter) scope(tx *gorm.DB) *gorm.DB {
	if !f.IncludeInactive {
		tx = tx.Where("ads.is_active = ?", true)
	}
	if f.RubricID != 0 {
		tx = tx.Where("ads.rubric_id = ?", f.RubricID)
	}
	if f.AuthorID != 0 {
		tx = tx.Where("ads.author_id = ?", f.AuthorID)
	}
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(kw)) + "%"
		tx = tx.Where("(LOWER(ads.title) LIKE ? ESCAPE '!' OR LOWER(ads.content) LIKE ? ESCAPE '!')", pattern, pattern)
	}
	return tx
}

// ListAds returns one page of ads matching filter, newest first
func ListAds(db *gorm.DB, filter AdFilter, page int) (*pagination.Page[models.Ad], error) {
	var total int64
	if err := db.Model(&models.Ad{}).
		Clauses(hints.Comment("select", "ads_count")).
		Scopes(filter.scope).
		Count(&total).Error; err != nil {
		return nil, err
	}

	if filter.Limit > 0 && total > int64(filter.Limit) {
		total = int64(filter.Limit)
	}

	p := pagination.New[models.Ad](total, AdsPerPage, page)
	p.Items = []models.Ad{}
	if total == 0 {
		return p, nil
	}

	size := p.PerPage
	if rest := int(total) - p.Offset(); rest < size {
		size = rest
	}
	err := db.Clauses(hints.Comment("select", "ads_listing")).
		Scopes(filter.scope).
		Preload("Rubric.SuperRubric").
		Order("ads.created_at DESC").Order("ads.id DESC").
		Offset(p.Offset()).Limit(size).
		Find(&p.Items).Error
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetAd loads an ad with its rubric and author
func GetAd(db *gorm.DB, id uint) (*models.Ad, error) {
	var ad models.Ad
	if err := db.Preload("Rubric.SuperRubric").Preload("Author").First(&ad, id).Error; err != nil {
		return nil, notFound(err, "ad", id)
	}
	return &ad, nil
}

// GetAdDetail loads an ad as seen at /{rubricID}/{adID}/. The ad must belong to
// rubricID, and an inactive ad is only visible to its author (viewerID).
func GetAdDetail(db *gorm.DB, rubricID, adID, viewerID uint) (*AdDetail, error) {
	ad, err := GetAd(db, adID)
	if err != nil {
		return nil, err
	}
	if ad.RubricID != rubricID {
		return nil, fmt.Errorf("ad %d is not in rubric %d: %w", adID, rubricID, types.ErrNotFound)
	}
	if !ad.IsActive && ad.AuthorID != viewerID {
		return nil, fmt.Errorf("ad %d: %w", adID, types.ErrNotFound)
	}
	return loadDetail(db, ad)
}

// GetOwnAdDetail loads one of owner's ads with its images and visible comments
func GetOwnAdDetail(db *gorm.DB, ownerID, adID uint) (*AdDetail, error) {
	ad, err := GetOwnAd(db, ownerID, adID)
	if err != nil {
		return nil, err
	}
	return loadDetail(db, ad)
}

func loadDetail(db *gorm.DB, ad *models.Ad) (*AdDetail, error) {
	detail := &AdDetail{Ad: ad}
	if err := db.Where("ad_id = ?", ad.ID).Order("id").Find(&detail.Images).Error; err != nil {
		return nil, err
	}
	comments, err := ActiveComments(db, ad.ID)
	if err != nil {
		return nil, err
	}
	detail.Comments = comments
	return detail, nil
}

// GetOwnAd loads an ad only if ownerID wrote it
func GetOwnAd(db *gorm.DB, ownerID, adID uint) (*models.Ad, error) {
	ad, err := GetAd(db, adID)
	if err != nil {
		return nil, err
	}
	if ad.AuthorID != ownerID {
		return nil, fmt.Errorf("ad %d of user %d: %w", adID, ownerID, types.ErrNotFound)
	}
	return ad, nil
}

// CreateAd files a new ad for ownerID with its images in one transaction
func CreateAd(db *gorm.DB, ownerID uint, input AdInput, image string, additional []string) (*models.Ad, error) {
	ad := &models.Ad{
		RubricID: input.RubricID,
		Title:    input.Title,
		Content:  input.Content,
		Price:    input.Price,
		Contacts: input.Contacts,
		Image:    image,
		AuthorID: ownerID,
		IsActive: input.IsActive,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := requireSubRubric(tx, input.RubricID); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(ad).Error; err != nil {
			return err
		}
		return addImages(tx, ad.ID, additional)
	})
	if err != nil {
		return nil, err
	}
	return ad, nil
}

// UpdateAd applies change to one of ownerID's ads. It returns the stored file
// names that are no longer referenced once the transaction commits.
func UpdateAd(db *gorm.DB, ownerID, adID uint, change AdChange) (*models.Ad, []string, error) {
	var (
		ad       models.Ad
		obsolete []string
	)

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&ad, adID).Error; err != nil {
			return notFound(err, "ad", adID)
		}
		if ad.AuthorID != ownerID {
			return fmt.Errorf("ad %d of user %d: %w", adID, ownerID, types.ErrNotFound)
		}
		if err := requireSubRubric(tx, change.RubricID); err != nil {
			return err
		}

		ad.RubricID = change.RubricID
		ad.Title = change.Title
		ad.Content = change.Content
		ad.Price = change.Price
		ad.Contacts = change.Contacts
		ad.IsActive = change.IsActive
		switch {
		case change.Image != "":
			if ad.Image != "" {
				obsolete = append(obsolete, ad.Image)
			}
			ad.Image = change.Image
		case change.ClearImage && ad.Image != "":
			obsolete = append(obsolete, ad.Image)
			ad.Image = ""
		}

		if err := tx.Model(&ad).
			Select("rubric_id", "title", "content", "price", "contacts", "image", "is_active").
			Updates(&ad).Error; err != nil {
			return err
		}

		if len(change.DeleteImageIDs) > 0 {
			var doomed []models.AdditionalImage
			if err := tx.Where("ad_id = ? AND id IN ?", ad.ID, change.DeleteImageIDs).Find(&doomed).Error; err != nil {
				return err
			}
			for _, img := range doomed {
				obsolete = append(obsolete, img.Image)
			}
			if len(doomed) > 0 {
				if err := tx.Delete(&doomed).Error; err != nil {
					return err
				}
			}
		}

		return addImages(tx, ad.ID, change.AddImages)
	})
	if err != nil {
		return nil, nil, err
	}
	return &ad, obsolete, nil
}

// DeleteAd removes one of ownerID's ads with its comments and images. It
// returns the stored file names to remove.
func DeleteAd(db *gorm.DB, ownerID, adID uint) ([]string, error) {
	var files []string

	err := db.Transaction(func(tx *gorm.DB) error {
		var ad models.Ad
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&ad, adID).Error; err != nil {
			return notFound(err, "ad", adID)
		}
		if ad.AuthorID != ownerID {
			return fmt.Errorf("ad %d of user %d: %w", adID, ownerID, types.ErrNotFound)
		}

		var err error
		files, err = deleteAds(tx, []uint{ad.ID})
		return err
	})

	return files, err
}

// SetAdActive shows or hides an ad
func SetAdActive(db *gorm.DB, adID uint, active bool) error {
	result := db.Model(&models.Ad{}).Where("id = ?", adID).Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&models.Ad{}).Where("id = ?", adID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("ad %d: %w", adID, types.ErrNotFound)
		}
	}
	return nil
}

func requireSubRubric(tx *gorm.DB, rubricID uint) error {
	var rubric models.Rubric
	if err := tx.First(&rubric, rubricID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotSubRubric
		}
		return err
	}
	if rubric.IsSuper() {
		return ErrNotSubRubric
	}
	return nil
}

func addImages(tx *gorm.DB, adID uint, names []string) error {
	if len(names) == 0 {
		return nil
	}
	images := make([]models.AdditionalImage, 0, len(names))
	for _, name := range names {
		images = append(images, models.AdditionalImage{AdID: adID, Image: name})
	}
	return tx.Create(&images).Error
}
