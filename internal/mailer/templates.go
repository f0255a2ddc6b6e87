package mailer

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// render executes the named template and derives a plain-text fallback by
// stripping tags from the rendered HTML.
func render(name string, data any) (html string, text string, err error) {
	var sb strings.Builder
	if err := templates.ExecuteTemplate(&sb, name, data); err != nil {
		return "", "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	html = sb.String()
	return html, htmlToText(html), nil
}

func htmlToText(s string) string {
	var sb strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			sb.WriteRune(' ')
		case !inTag:
			sb.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

func SignupConfirmation(email string) (Message, error) {
	html, text, err := render("signup_confirmation.html", map[string]string{"Email": email})
	if err != nil {
		return Message{}, err
	}
	return Message{To: email, Subject: "Welcome to GetHired", HTML: html, Text: text}, nil
}

func PasswordReset(email, resetURL string) (Message, error) {
	html, text, err := render("password_reset.html", map[string]string{"ResetURL": resetURL})
	if err != nil {
		return Message{}, err
	}
	return Message{To: email, Subject: "Reset your GetHired password", HTML: html, Text: text}, nil
}

func OnboardingReminder(email string) (Message, error) {
	html, text, err := render("onboarding_reminder.html", map[string]string{"Email": email})
	if err != nil {
		return Message{}, err
	}
	return Message{To: email, Subject: "Finish setting up your GetHired profile", HTML: html, Text: text}, nil
}

func Promotional(email, subject, body string) (Message, error) {
	html, text, err := render("promotional.html", map[string]any{
		"Body": template.HTML(body),
	})
	if err != nil {
		return Message{}, err
	}
	return Message{To: email, Subject: subject, HTML: html, Text: text}, nil
}
