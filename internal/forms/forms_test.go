package forms

import (
	"mime/multipart"
	"strings"
	"testing"

	"github.com/localnerve/callboard/internal/media"
	"github.com/localnerve/callboard/internal/models"
	"github.com/stretchr/testify/assert"
)

type stubCaptcha struct{ answer string }

func (s stubCaptcha) New() string { return "stub" }

func (s stubCaptcha) Verify(id, answer string) bool {
	return id == "stub" && answer == s.answer
}

func TestPasswordProblems(t *testing.T) {
	tests := []struct {
		name     string
		password string
		attrs    []string
		want     []string
	}{
		{"strong", "Tr1cky-Passw0rd", []string{"alice", "alice@example.com"}, nil},
		{"short", "a1b2c3", nil, []string{"too short"}},
		{"numeric", "8675309123", nil, []string{"entirely numeric"}},
		{"common", "password123", nil, []string{"too common"}},
		{"similar to username", "alicealice", []string{"alicealice1"}, []string{"too similar"}},
		{"similar to email local part", "margaret99", []string{"margaret99@example.com"}, []string{"too similar"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems := PasswordProblems(tt.password, tt.attrs...)
			if tt.want == nil {
				assert.Empty(t, problems)
				return
			}
			joined := strings.Join(problems, " ")
			for _, w := range tt.want {
				assert.Contains(t, joined, w)
			}
		})
	}
}

func TestRegisterFormValidate(t *testing.T) {
	form := &RegisterForm{
		Username:  " new.user+1 ",
		Email:     "new@example.com",
		Password1: "Tr1cky-Passw0rd",
		Password2: "Tr1cky-Passw0rd",
	}
	errs := form.Validate()
	assert.True(t, errs.Valid(), "%v", errs)
	assert.Equal(t, "new.user+1", form.Username)
	assert.Equal(t, "Tr1cky-Passw0rd", form.Input().Password)

	form = &RegisterForm{
		Username:  "bad name!",
		Email:     "not-an-email",
		Password1: "Tr1cky-Passw0rd",
		Password2: "different-one",
	}
	errs = form.Validate()
	assert.True(t, errs.Has("username"))
	assert.True(t, errs.Has("email"))
	assert.Equal(t, "The two password fields didn't match.", errs.First("password2"))

	errs = (&RegisterForm{}).Validate()
	assert.Equal(t, "This field is required.", errs.First("username"))
	assert.Equal(t, "This field is required.", errs.First("password1"))
}

func TestPasswordChangeFormValidate(t *testing.T) {
	form := &PasswordChangeForm{OldPassword: "old", NewPassword1: "12345678", NewPassword2: "12345678"}
	errs := form.Validate("alice")
	assert.True(t, errs.Has("new_password1"))
	assert.False(t, errs.Has("new_password2"))
}

func TestAdFormValidate(t *testing.T) {
	choices := []models.Rubric{{ID: 3, Name: "Flats"}}

	form := &AdForm{Rubric: "3", Title: " Flat ", Content: "Nice", Price: "12.5", Contacts: "me", IsActive: true}
	errs := form.Validate(choices, nil, nil)
	assert.True(t, errs.Valid(), "%v", errs)
	input := form.Input()
	assert.Equal(t, uint(3), input.RubricID)
	assert.Equal(t, "Flat", input.Title)
	assert.Equal(t, 12.5, input.Price)

	form = &AdForm{Rubric: "3", Title: "Free", Content: "x", Contacts: "y"}
	assert.True(t, form.Validate(choices, nil, nil).Valid())
	assert.Equal(t, float64(0), form.Input().Price)

	form = &AdForm{
		Rubric:   "1",
		Title:    strings.Repeat("t", 41),
		Price:    "-1",
		Contacts: "",
	}
	errs = form.Validate(choices, nil, nil)
	assert.True(t, errs.Has("rubric"))
	assert.Equal(t, "Ensure this value has at most 40 characters.", errs.First("title"))
	assert.True(t, errs.Has("content"))
	assert.True(t, errs.Has("contacts"))
	assert.Equal(t, "Ensure this value is greater than or equal to 0.", errs.First("price"))

	form = &AdForm{Rubric: "3", Title: "t", Content: "c", Price: "abc", Contacts: "x"}
	assert.Equal(t, "Enter a number.", form.Validate(choices, nil, nil).First("price"))
}

func TestAdFormValidateUploads(t *testing.T) {
	choices := []models.Rubric{{ID: 3}}
	form := &AdForm{Rubric: "3", Title: "t", Content: "c", Contacts: "x"}

	good := &multipart.FileHeader{Filename: "photo.JPG", Size: 1024}
	huge := &multipart.FileHeader{Filename: "huge.png", Size: media.MaxUploadSize + 1}
	script := &multipart.FileHeader{Filename: "evil.exe", Size: 10}

	assert.True(t, form.Validate(choices, good, []*multipart.FileHeader{good}).Valid())

	errs := form.Validate(choices, script, []*multipart.FileHeader{huge})
	assert.Equal(t, media.ErrUnsupportedType.Error(), errs.First("image"))
	assert.Contains(t, errs.First("additional_images"), "huge.png")

	many := make([]*multipart.FileHeader, media.MaxAdditionalImages+1)
	for i := range many {
		many[i] = good
	}
	assert.Contains(t, form.Validate(choices, nil, many).First("additional_images"), "at most 10")
}

func TestCommentFormValidate(t *testing.T) {
	captcha := stubCaptcha{answer: "4242"}

	form := &CommentForm{Author: "guest", Content: "hello", CaptchaID: "stub", CaptchaAnswer: " 4242 "}
	assert.True(t, form.Validate(captcha).Valid())

	form.CaptchaAnswer = "0000"
	assert.Equal(t, "Invalid CAPTCHA.", form.Validate(captcha).First("captcha_answer"))

	// Signed-in users skip the challenge
	form.CaptchaAnswer = ""
	assert.True(t, form.Validate(nil).Valid())

	form = &CommentForm{Author: strings.Repeat("a", 31)}
	errs := form.Validate(nil)
	assert.True(t, errs.Has("author"))
	assert.True(t, errs.Has("content"))
}

func TestAuthorName(t *testing.T) {
	assert.Equal(t, "bob", AuthorName("bob"))

	long := strings.Repeat("u", 150)
	name := AuthorName(long)
	assert.Len(t, name, MaxAuthorLength)
	assert.True(t, (&CommentForm{Author: name, Content: "hi"}).Validate(nil).Valid())

	// Cuts on runes, not bytes
	name = AuthorName(strings.Repeat("ж", 40))
	assert.Equal(t, strings.Repeat("ж", MaxAuthorLength), name)
}

func TestSearchFormValidate(t *testing.T) {
	form := &SearchForm{Keyword: "  flat  "}
	assert.True(t, form.Validate().Valid())
	assert.Equal(t, "flat", form.Keyword)

	form = &SearchForm{Keyword: strings.Repeat("k", 21)}
	assert.True(t, form.Validate().Has("keyword"))
}

func TestDigitCaptchaRejectsEmpty(t *testing.T) {
	var c DigitCaptcha
	id := c.New()
	assert.NotEmpty(t, id)
	assert.False(t, c.Verify(id, ""))
	assert.False(t, c.Verify("", "123456"))
}
