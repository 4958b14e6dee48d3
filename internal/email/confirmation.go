package email

import (
	"fmt"
	"net/url"
)

const confirmationSubject = "Confirm your subscription"

const confirmationHTMLTemplate = `<p>Hi {{ name | default: "there" }},</p>
<p>Welcome to our newsletter. Click <a href="{{ confirmation_link }}">here</a> to confirm your subscription.</p>
<p>If you did not sign up, you can safely ignore this email.</p>`

const confirmationTextTemplate = `Hi {{ name | default: "there" }},

Welcome to our newsletter. Visit {{ confirmation_link }} to confirm your subscription.

If you did not sign up, you can safely ignore this email.`

// ConfirmationComposer builds the double opt-in confirmation email for a
// freshly stored subscriber.
type ConfirmationComposer struct {
	templates *TemplateService
	baseURL   string
}

// NewConfirmationComposer creates a composer. baseURL is the externally
// visible origin the confirmation link points at.
func NewConfirmationComposer(templates *TemplateService, baseURL string) *ConfirmationComposer {
	return &ConfirmationComposer{templates: templates, baseURL: baseURL}
}

// Compose renders the confirmation email for the given recipient and token.
func (c *ConfirmationComposer) Compose(to, name, token string) Email {
	link := fmt.Sprintf("%s/subscriptions/confirm?token=%s", c.baseURL, url.QueryEscape(token))
	ctx := map[string]interface{}{
		"name":              name,
		"confirmation_link": link,
	}
	return Email{
		To:      to,
		Subject: confirmationSubject,
		HTML:    c.templates.Render("confirmation-html", confirmationHTMLTemplate, ctx),
		Text:    c.templates.Render("confirmation-text", confirmationTextTemplate, ctx),
	}
}
