package mail

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/localnerve/callboard/internal/models"
	"github.com/localnerve/callboard/internal/signer"
)

var (
	activationSubject = template.Must(template.New("subject").Parse(
		`Activation for the user {{.Username}}`))

	activationBody = template.Must(template.New("body").Parse(
		`Dear {{.Username}}!

You have registered on the bulletin board.
Please follow the link below to activate your account:

{{.Link}}

Goodbye!
`))
)

// ActivationLink is the absolute URL that activates user
func ActivationLink(baseURL string, s *signer.Signer, user *models.User) string {
	return fmt.Sprintf("%s/accounts/register/activate/%s/", strings.TrimRight(baseURL, "/"), s.Sign(user.Username))
}

// SendActivation mails the activation link to a freshly registered user
func SendActivation(ctx context.Context, m Mailer, baseURL string, s *signer.Signer, user *models.User) error {
	data := struct {
		Username string
		Link     string
	}{user.Username, ActivationLink(baseURL, s, user)}

	var subject, body bytes.Buffer
	if err := activationSubject.Execute(&subject, data); err != nil {
		return err
	}
	if err := activationBody.Execute(&body, data); err != nil {
		return err
	}

	return m.Send(ctx, Letter{To: user.Email, Subject: subject.String(), Body: body.String()})
}
