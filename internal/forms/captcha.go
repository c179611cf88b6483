package forms

import (
	"net/http"

	"github.com/dchest/captcha"
)

// Captcha issues and checks challenges shown to anonymous commenters
type Captcha interface {
	New() string
	Verify(id, answer string) bool
}

// DigitCaptcha is the image-of-digits challenge kept in process memory
type DigitCaptcha struct{}

// New registers a fresh challenge and returns its id
func (DigitCaptcha) New() string {
	return captcha.New()
}

// Verify checks the answer and consumes the challenge
func (DigitCaptcha) Verify(id, answer string) bool {
	if id == "" || answer == "" {
		return false
	}
	return captcha.VerifyString(id, answer)
}

// CaptchaImages serves /captcha/{id}.png for DigitCaptcha challenges
func CaptchaImages() http.Handler {
	return captcha.Server(captcha.StdWidth, captcha.StdHeight)
}
