package notify

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/pkg/errors"

	"nepal-reforms/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names an HTML email body under templates/.
type Template string

const (
	TemplateOpinion       Template = "opinion"
	TemplateConfirmEmail  Template = "confirm_email"
	TemplatePasswordReset Template = "password_reset"
)

var templateForKind = map[models.NotificationKind]Template{
	models.NotificationOpinion:       TemplateOpinion,
	models.NotificationConfirmEmail:  TemplateConfirmEmail,
	models.NotificationPasswordReset: TemplatePasswordReset,
}

// Renderer turns a notification payload into an HTML body.
type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("email").Option("missingkey=zero").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse email templates")
	}
	return &Renderer{templates: tmpl}, nil
}

// Render executes the template for kind with payload as its data.
func (r *Renderer) Render(kind models.NotificationKind, payload map[string]string) (string, error) {
	name, ok := templateForKind[kind]
	if !ok {
		return "", errors.Errorf("no email template for notification kind %q", kind)
	}

	var body bytes.Buffer
	if err := r.templates.ExecuteTemplate(&body, string(name)+".html", payload); err != nil {
		return "", errors.Wrapf(err, "failed to execute email template %s", name)
	}
	return body.String(), nil
}
