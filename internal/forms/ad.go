package forms

import (
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/localnerve/callboard/internal/media"
	"github.com/localnerve/callboard/internal/models"
	"github.com/localnerve/callboard/internal/services"
)

// AdForm creates or edits an ad. Files are read from the multipart form separately.
type AdForm struct {
	Rubric       string `form:"rubric" validate:"required"`
	Title        string `form:"title" validate:"required,max=40"`
	Content      string `form:"content" validate:"required"`
	Price        string `form:"price"`
	Contacts     string `form:"contacts" validate:"required"`
	IsActive     bool   `form:"is_active"`
	ClearImage   bool   `form:"clear_image"`
	DeleteImages []uint `form:"delete_images"`

	rubricID uint
	price    float64
}

// AdFormFrom prefills the form with an existing ad
func AdFormFrom(ad *models.Ad) *AdForm {
	return &AdForm{
		Rubric:   strconv.FormatUint(uint64(ad.RubricID), 10),
		Title:    ad.Title,
		Content:  ad.Content,
		Price:    strconv.FormatFloat(ad.Price, 'f', -1, 64),
		Contacts: ad.Contacts,
		IsActive: ad.IsActive,
	}
}

// Validate checks the fields, the rubric choice and the uploads. choices are
// the sub-rubrics an ad may be filed under.
func (f *AdForm) Validate(choices []models.Rubric, image *multipart.FileHeader, extra []*multipart.FileHeader) Errors {
	f.Title = strings.TrimSpace(f.Title)
	errs := check(f)

	if f.Rubric != "" {
		id, err := strconv.ParseUint(f.Rubric, 10, 0)
		valid := false
		if err == nil {
			for _, r := range choices {
				if uint64(r.ID) == id {
					valid = true
					break
				}
			}
		}
		if valid {
			f.rubricID = uint(id)
		} else {
			errs.Add("rubric", "Select a valid choice. That choice is not one of the available choices.")
		}
	}

	if price := strings.TrimSpace(f.Price); price != "" {
		value, err := strconv.ParseFloat(price, 64)
		switch {
		case err != nil:
			errs.Add("price", "Enter a number.")
		case value < 0:
			errs.Add("price", "Ensure this value is greater than or equal to 0.")
		default:
			f.price = value
		}
	}

	if image != nil {
		if err := media.CheckUpload(image); err != nil {
			errs.Add("image", err.Error())
		}
	}
	if len(extra) > media.MaxAdditionalImages {
		errs.Add("additional_images", fmt.Sprintf("Attach at most %d additional images.", media.MaxAdditionalImages))
	}
	for _, fh := range extra {
		if err := media.CheckUpload(fh); err != nil {
			errs.Add("additional_images", fmt.Sprintf("%s: %v", fh.Filename, err))
		}
	}

	return errs
}

// Input converts a validated form
func (f *AdForm) Input() services.AdInput {
	return services.AdInput{
		RubricID: f.rubricID,
		Title:    f.Title,
		Content:  f.Content,
		Price:    f.price,
		Contacts: f.Contacts,
		IsActive: f.IsActive,
	}
}

// MaxAuthorLength bounds the author name stored with a comment
const MaxAuthorLength = 30

// AuthorName is the comment author recorded for a signed-in user. Usernames
// may be longer than a comment author, so the name is cut to MaxAuthorLength runes.
func AuthorName(username string) string {
	runes := []rune(username)
	if len(runes) > MaxAuthorLength {
		return string(runes[:MaxAuthorLength])
	}
	return username
}

// CommentForm posts a comment. Guests must also answer the captcha.
type CommentForm struct {
	Author        string `form:"author" validate:"required,max=30"`
	Content       string `form:"content" validate:"required"`
	CaptchaID     string `form:"captcha_id"`
	CaptchaAnswer string `form:"captcha_answer"`
}

// Validate checks the fields; a nil captcha skips the challenge
func (f *CommentForm) Validate(captcha Captcha) Errors {
	f.Author = strings.TrimSpace(f.Author)
	errs := check(f)
	if captcha != nil && !captcha.Verify(f.CaptchaID, strings.TrimSpace(f.CaptchaAnswer)) {
		errs.Add("captcha_answer", "Invalid CAPTCHA.")
	}
	return errs
}

// SearchForm is the keyword box above listings
type SearchForm struct {
	Keyword string `query:"keyword" form:"keyword" validate:"max=20"`
}

// Validate checks the keyword length
func (f *SearchForm) Validate() Errors {
	f.Keyword = strings.TrimSpace(f.Keyword)
	return check(f)
}
