package handlers

import (
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/callboard/internal/forms"
	"github.com/localnerve/callboard/internal/metrics"
	"github.com/localnerve/callboard/internal/middleware"
	"github.com/localnerve/callboard/internal/models"
	"github.com/localnerve/callboard/internal/pagination"
	"github.com/localnerve/callboard/internal/services"
	"github.com/localnerve/callboard/web"
)

// LatestCount is the number of newest ads the front page draws from
const LatestCount = 10

// listing is the keyword box and page number shared by every ad listing
type listing struct {
	search  *forms.SearchForm
	errs    forms.Errors
	keyword string
	page    int
}

// readListing parses the listing query. A keyword that fails validation is
// dropped from the filter and reported next to the search box.
func readListing(c *fiber.Ctx) (*listing, error) {
	search := &forms.SearchForm{}
	if err := c.QueryParser(search); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	l := &listing{
		search: search,
		errs:   search.Validate(),
		page:   pagination.ParseNumber(c.Query("page")),
	}
	if l.errs.Valid() {
		l.keyword = search.Keyword
	}
	return l, nil
}

func (l *listing) bind(page *pagination.Page[models.Ad]) fiber.Map {
	return fiber.Map{
		"Page":         page,
		"Search":       l.search,
		"SearchErrors": l.errs,
		"Query":        pageQuery(l.keyword),
	}
}

// Index lists the newest active ads with keyword search and paging
func (h *Handler) Index(c *fiber.Ctx) error {
	l, err := readListing(c)
	if err != nil {
		return err
	}
	page, err := services.ListAds(h.db(c), services.AdFilter{
		Keyword: l.keyword,
		Limit:   LatestCount,
	}, l.page)
	if err != nil {
		return err
	}
	return h.render(c, "main/index", l.bind(page))
}

// ByRubric lists the active ads of one sub-rubric with keyword search and paging
func (h *Handler) ByRubric(c *fiber.Ctx) error {
	rubricID, err := paramID(c, "rubricID")
	if err != nil {
		return err
	}
	rubric, err := services.GetSubRubric(h.db(c), rubricID)
	if err != nil {
		return err
	}

	l, err := readListing(c)
	if err != nil {
		return err
	}
	page, err := services.ListAds(h.db(c), services.AdFilter{
		Keyword:  l.keyword,
		RubricID: rubric.ID,
	}, l.page)
	if err != nil {
		return err
	}

	bind := l.bind(page)
	bind["Rubric"] = rubric
	return h.render(c, "main/by_rubric", bind)
}

// pageQuery is the query string prefix that keeps the keyword across page links
func pageQuery(keyword string) string {
	if keyword == "" {
		return "?page="
	}
	return "?keyword=" + url.QueryEscape(keyword) + "&page="
}

// Detail shows an ad with its images, visible comments and the comment form
func (h *Handler) Detail(c *fiber.Ctx) error {
	detail, err := h.loadDetail(c)
	if err != nil {
		return err
	}

	form := &forms.CommentForm{}
	if user := middleware.CurrentUser(c); user != nil {
		form.Author = forms.AuthorName(user.Username)
	}
	return h.renderDetail(c, detail, form, nil, nil)
}

// AddComment posts a comment on an ad. Guests must solve the captcha.
func (h *Handler) AddComment(c *fiber.Ctx) error {
	detail, err := h.loadDetail(c)
	if err != nil {
		return err
	}

	form := &forms.CommentForm{}
	if err := c.BodyParser(form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var challenge forms.Captcha = h.Captcha
	if user := middleware.CurrentUser(c); user != nil {
		form.Author = forms.AuthorName(user.Username)
		challenge = nil
	}

	errs := form.Validate(challenge)
	if !errs.Valid() {
		return h.renderDetail(c, detail, form, errs, &Flash{Level: "warning", Message: "Comment not added"})
	}

	if _, err := services.AddComment(h.db(c), detail.Ad.ID, form.Author, form.Content); err != nil {
		return err
	}
	metrics.CommentsPosted.Inc()

	return h.redirectWith(c, c.OriginalURL(), "success", "Comment added")
}

func (h *Handler) loadDetail(c *fiber.Ctx) (*services.AdDetail, error) {
	rubricID, err := paramID(c, "rubricID")
	if err != nil {
		return nil, err
	}
	adID, err := paramID(c, "adID")
	if err != nil {
		return nil, err
	}

	var viewerID uint
	if user := middleware.CurrentUser(c); user != nil {
		viewerID = user.ID
	}
	return services.GetAdDetail(h.db(c), rubricID, adID, viewerID)
}

func (h *Handler) renderDetail(c *fiber.Ctx, detail *services.AdDetail, form *forms.CommentForm, errs forms.Errors, flash *Flash) error {
	bind := fiber.Map{
		"Ad":       detail.Ad,
		"Images":   detail.Images,
		"Comments": detail.Comments,
		"Form":     form,
		"Errors":   errs,
	}
	if flash != nil {
		bind["Flash"] = flash
	}
	if middleware.CurrentUser(c) == nil {
		bind["CaptchaID"] = h.Captcha.New()
	}
	return h.render(c, "main/detail", bind)
}

// StaticPage renders an informational page by name
func (h *Handler) StaticPage(c *fiber.Ctx) error {
	page := c.Params("page")
	if !web.HasPage(page) {
		return fmt.Errorf("page %q: %w", page, fiber.ErrNotFound)
	}
	return h.render(c, "pages/"+page, nil)
}
