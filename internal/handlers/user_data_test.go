// user_data_test.go
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

package handlers_test

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/callboard/internal/models"
	"github.com/localnerve/callboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n fake image data")

func adValues(rubric *models.Rubric, title string) url.Values {
	return url.Values{
		"rubric":    {strconv.FormatUint(uint64(rubric.ID), 10)},
		"title":     {title},
		"content":   {"Two rooms, fifth floor"},
		"price":     {"1500.50"},
		"contacts":  {"call 555-0100"},
		"is_active": {"true"},
	}
}

func TestProfileListsOwnAdsIncludingHidden(t *testing.T) {
	h := newHarness(t)
	b := newBoard(t, h.db)
	testutil.CreateAd(t, h.db, b.alice, b.flats, "Alice public")
	testutil.CreateAd(t, h.db, b.alice, b.flats, "Alice hidden", testutil.Inactive())
	testutil.CreateAd(t, h.db, b.bob, b.flats, "Bob public")

	alice := h.loggedIn(b.alice)

	resp := alice.get("/accounts/profile/")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "Alice public")
	assert.Contains(t, body, "Alice hidden")
	assert.NotContains(t, body, "Bob public")
	assert.Contains(t, body, `name="keyword"`)

	// Keyword search covers the user's hidden ads too
	resp = alice.get("/accounts/profile/?keyword=" + url.QueryEscape("HIDDEN"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body = readBody(t, resp)
	assert.Contains(t, body, "Alice hidden")
	assert.NotContains(t, body, "Alice public")

	body = readBody(t, alice.get("/accounts/profile/?keyword=public"))
	assert.Contains(t, body, "Alice public")
	assert.NotContains(t, body, "Bob public")
}

func TestAdAddWithImages(t *testing.T) {
	h := newHarness(t)
	b := newBoard(t, h.db)
	alice := h.loggedIn(b.alice)

	resp := alice.get("/accounts/profile/add/")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Realty - Flats")

	resp = alice.postMultipart("/accounts/profile/add/", adValues(b.flats, "Two-room flat"),
		upload{"image", "front.PNG", pngBytes},
		upload{"additional_images", "kitchen.jpg", pngBytes},
		upload{"additional_images", "bath.gif", pngBytes},
	)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/accounts/profile/", resp.Header.Get("Location"))

	var ad models.Ad
	require.NoError(t, h.db.Where("title = ?", "Two-room flat").First(&ad).Error)
	assert.Equal(t, b.alice.ID, ad.AuthorID)
	assert.Equal(t, b.flats.ID, ad.RubricID)
	assert.InDelta(t, 1500.50, ad.Price, 0.001)
	assert.True(t, ad.IsActive)
	assert.Equal(t, ".png", filepath.Ext(ad.Image))
	assert.FileExists(t, filepath.Join(h.mediaDir, ad.Image))
	assert.EqualValues(t, 2, testutil.Count(t, h.db, &models.AdditionalImage{}, "ad_id = ?", ad.ID))

	assert.Contains(t, readBody(t, alice.get("/accounts/profile/")), "The ad has been added")
}

func TestAdAddValidation(t *testing.T) {
	h := newHarness(t)
	b := newBoard(t, h.db)
	alice := h.loggedIn(b.alice)

	// Super-rubrics are not a valid choice
	resp := alice.postMultipart("/accounts/profile/add/", adValues(b.realty, "Wrong rubric"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "Select a valid choice")
	assert.Contains(t, body, "Please correct the errors below")

	values := adValues(b.flats, "Bad price")
	values.Set("price", "cheap")
	resp = alice.postMultipart("/accounts/profile/add/", values)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Enter a number.")

	resp = alice.postMultipart("/accounts/profile/add/", adValues(b.flats, "Bad image"),
		upload{"image", "virus.exe", []byte("MZ")})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "upload a valid image")

	assert.Zero(t, testutil.Count(t, h.db, &models.Ad{}))
	entries, err := os.ReadDir(h.mediaDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAdChange(t *testing.T) {
	h := newHarness(t)
	b := newBoard(t, h.db)
	alice := h.loggedIn(b.alice)

	// Start from an ad created through the form so its files exist
	resp := alice.postMultipart("/accounts/profile/add/", adValues(b.flats, "Two-room flat"),
		upload{"image", "front.png", pngBytes},
		upload{"additional_images", "kitchen.jpg", pngBytes},
	)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	var ad models.Ad
	require.NoError(t, h.db.Where("title = ?", "Two-room flat").First(&ad).Error)
	var extra models.AdditionalImage
	require.NoError(t, h.db.Where("ad_id = ?", ad.ID).First(&extra).Error)
	changeURL := fmt.Sprintf("/accounts/profile/change/%d/", ad.ID)

	resp = alice.get(changeURL)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), `value="Two-room flat"`)

	values := adValues(b.houses, "Now a house")
	values.Del("is_active")
	values.Set("clear_image", "true")
	values.Add("delete_images", strconv.FormatUint(uint64(extra.ID), 10))
	resp = alice.postMultipart(changeURL, values)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)

	var changed models.Ad
	require.NoError(t, h.db.First(&changed, ad.ID).Error)
	assert.Equal(t, "Now a house", changed.Title)
	assert.Equal(t, b.houses.ID, changed.RubricID)
	assert.False(t, changed.IsActive)
	assert.Empty(t, changed.Image)
	assert.Zero(t, testutil.Count(t, h.db, &models.AdditionalImage{}, "ad_id = ?", ad.ID))
	assert.NoFileExists(t, filepath.Join(h.mediaDir, ad.Image))
	assert.NoFileExists(t, filepath.Join(h.mediaDir, extra.Image))
}

func TestForeignAdsAreNotFound(t *testing.T) {
	h := newHarness(t)
	b := newBoard(t, h.db)
	ad := testutil.CreateAd(t, h.db, b.alice, b.flats, "Alice's flat")
	bob := h.loggedIn(b.bob)

	resp := bob.get(fmt.Sprintf("/accounts/profile/%d/", ad.ID))
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "The page you are looking for does not exist.")
	assert.NotContains(t, body, fmt.Sprintf("of user %d", b.bob.ID))

	assert.Equal(t, fiber.StatusNotFound, bob.get(fmt.Sprintf("/accounts/profile/change/%d/", ad.ID)).StatusCode)
	assert.Equal(t, fiber.StatusNotFound,
		bob.postMultipart(fmt.Sprintf("/accounts/profile/change/%d/", ad.ID), adValues(b.flats, "Stolen")).StatusCode)
	assert.Equal(t, fiber.StatusNotFound, bob.get(fmt.Sprintf("/accounts/profile/delete/%d/", ad.ID)).StatusCode)
	assert.Equal(t, fiber.StatusNotFound, bob.postForm(fmt.Sprintf("/accounts/profile/delete/%d/", ad.ID), nil).StatusCode)

	var kept models.Ad
	require.NoError(t, h.db.First(&kept, ad.ID).Error)
	assert.Equal(t, "Alice's flat", kept.Title)
}

func TestAdDelete(t *testing.T) {
	h := newHarness(t)
	b := newBoard(t, h.db)
	ad := testutil.CreateAd(t, h.db, b.alice, b.flats, "Short-lived flat", testutil.WithImage("gone.png"))
	testutil.CreateAdditionalImage(t, h.db, ad, "gone-too.png")
	testutil.CreateComment(t, h.db, ad, "bob", "Sold?", true, ad.CreatedAt)
	for _, name := range []string{"gone.png", "gone-too.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(h.mediaDir, name), pngBytes, 0o644))
	}
	alice := h.loggedIn(b.alice)

	resp := alice.get(fmt.Sprintf("/accounts/profile/%d/", ad.ID))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Sold?")

	resp = alice.get(fmt.Sprintf("/accounts/profile/delete/%d/", ad.ID))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Short-lived flat")

	resp = alice.postForm(fmt.Sprintf("/accounts/profile/delete/%d/", ad.ID), nil)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)

	assert.Zero(t, testutil.Count(t, h.db, &models.Ad{}))
	assert.Zero(t, testutil.Count(t, h.db, &models.AdditionalImage{}))
	assert.Zero(t, testutil.Count(t, h.db, &models.Comment{}))
	assert.NoFileExists(t, filepath.Join(h.mediaDir, "gone.png"))
	assert.NoFileExists(t, filepath.Join(h.mediaDir, "gone-too.png"))
}
