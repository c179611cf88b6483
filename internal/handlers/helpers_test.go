package handlers_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/localnerve/callboard/internal/config"
	"github.com/localnerve/callboard/internal/handlers"
	"github.com/localnerve/callboard/internal/mail"
	"github.com/localnerve/callboard/internal/media"
	"github.com/localnerve/callboard/internal/models"
	"github.com/localnerve/callboard/internal/server"
	"github.com/localnerve/callboard/internal/services"
	"github.com/localnerve/callboard/internal/signer"
	"github.com/localnerve/callboard/internal/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	baseURL     = "http://board.test"
	captchaID   = "cid"
	captchaCode = "42"
)

func TestMain(m *testing.M) {
	services.PasswordCost = bcrypt.MinCost
	os.Exit(m.Run())
}

type stubCaptcha struct{}

func (stubCaptcha) New() string { return captchaID }

func (stubCaptcha) Verify(id, answer string) bool {
	return id == captchaID && answer == captchaCode
}

type recordingMailer struct {
	mu      sync.Mutex
	letters []mail.Letter
}

func (m *recordingMailer) Send(_ context.Context, letter mail.Letter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.letters = append(m.letters, letter)
	return nil
}

func (m *recordingMailer) last(t *testing.T) mail.Letter {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.letters, "no letter was sent")
	return m.letters[len(m.letters)-1]
}

type harness struct {
	t        *testing.T
	app      *fiber.App
	db       *gorm.DB
	mailer   *recordingMailer
	signer   *signer.Signer
	mediaDir string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.NewTestDB(t)
	log := zaptest.NewLogger(t)

	sign, err := signer.New("test-secret", signer.DefaultSalt)
	require.NoError(t, err)

	mediaDir := t.TempDir()
	storage, err := media.NewFileStorage(mediaDir, log)
	require.NoError(t, err)

	h := &handlers.Handler{
		DB:       db,
		Sessions: session.New(session.Config{KeyLookup: "cookie:callboard_session"}),
		Log:      log,
		Signer:   sign,
		Mailer:   &recordingMailer{},
		Media:    storage,
		Captcha:  stubCaptcha{},
		BaseURL:  baseURL,
	}
	app := server.New(h, server.Options{
		Config: &config.Config{DBType: "sqlite", DBDatabase: ":memory:", MediaRoot: mediaDir},
		Quiet:  true,
	})

	return &harness{
		t:        t,
		app:      app,
		db:       db,
		mailer:   h.Mailer.(*recordingMailer),
		signer:   sign,
		mediaDir: mediaDir,
	}
}

// client is one browser: it carries its cookies between requests
type client struct {
	h       *harness
	cookies map[string]*http.Cookie
}

func (h *harness) client() *client {
	return &client{h: h, cookies: map[string]*http.Cookie{}}
}

// loggedIn returns a client signed in as user
func (h *harness) loggedIn(user *models.User) *client {
	c := h.client()
	resp := c.postForm("/accounts/login/", url.Values{"username": {user.Username}, "password": {testutil.Password}})
	require.Equal(h.t, fiber.StatusFound, resp.StatusCode)
	return c
}

func (c *client) do(req *http.Request) *http.Response {
	c.h.t.Helper()
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}
	resp, err := c.h.app.Test(req, -1)
	require.NoError(c.h.t, err)
	for _, cookie := range resp.Cookies() {
		if cookie.Value == "" || cookie.MaxAge < 0 {
			delete(c.cookies, cookie.Name)
			continue
		}
		c.cookies[cookie.Name] = cookie
	}
	return resp
}

func (c *client) get(target string) *http.Response {
	c.h.t.Helper()
	return c.do(httptest.NewRequest(http.MethodGet, target, nil))
}

func (c *client) postForm(target string, values url.Values) *http.Response {
	c.h.t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

// upload is one file part of a multipart request
type upload struct {
	field, name string
	content     []byte
}

func (c *client) postMultipart(target string, values url.Values, files ...upload) *http.Response {
	c.h.t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for key, vs := range values {
		for _, v := range vs {
			require.NoError(c.h.t, w.WriteField(key, v))
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.name)
		require.NoError(c.h.t, err)
		_, err = part.Write(f.content)
		require.NoError(c.h.t, err)
	}
	require.NoError(c.h.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do(req)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

// board is a small fixture: two users, one super-rubric with two sub-rubrics
type board struct {
	alice, bob    *models.User
	realty        *models.Rubric
	flats, houses *models.Rubric
}

func newBoard(t *testing.T, db *gorm.DB) *board {
	realty := testutil.CreateRubric(t, db, "Realty", 0, nil)
	return &board{
		alice:  testutil.CreateUser(t, db, "alice"),
		bob:    testutil.CreateUser(t, db, "bob"),
		realty: realty,
		flats:  testutil.CreateRubric(t, db, "Flats", 0, realty),
		houses: testutil.CreateRubric(t, db, "Houses", 1, realty),
	}
}
