package tasks

import (
	"bytes"
	"errors"
	"fmt"
	"text/template"

	"coastline/villas/internal/email"
)

const (
	TemplateBookingOperator = "booking_operator"
	TemplateBookingGuestAck = "booking_guest_ack"
)

var ErrUnknownTemplate = errors.New("unknown email template")

type emailTemplate struct {
	subject *template.Template
	body    *template.Template
}

func mustTemplate(id, subject, body string) emailTemplate {
	return emailTemplate{
		subject: template.Must(template.New(id + ":subject").Option("missingkey=zero").Parse(subject)),
		body:    template.Must(template.New(id + ":body").Option("missingkey=zero").Parse(body)),
	}
}

var emailTemplates = map[string]emailTemplate{
	TemplateBookingOperator: mustTemplate(TemplateBookingOperator,
		`New booking request: {{.villaName}} from {{.checkInDate}}`,
		`A new booking request is waiting for review.

Booking:   {{.bookingId}}
Villa:     {{.villaName}} ({{.villaId}})
Guest:     {{.guestName}}
Email:     {{with .guestEmail}}{{.}}{{else}}-{{end}}
Phone:     {{with .guestPhone}}{{.}}{{else}}-{{end}}
Check-in:  {{.checkInDate}}
Check-out: {{with .checkOutDate}}{{.}}{{else}}-{{end}}
Guests:    {{with .numberOfGuests}}{{.}}{{else}}-{{end}}
Food:      {{with .foodPreference}}{{.}}{{else}}-{{end}}

Status is pending until confirmed.
`),
	TemplateBookingGuestAck: mustTemplate(TemplateBookingGuestAck,
		`{{.appName}}: we received your booking request`,
		`Hello {{.guestName}},

Thank you for your request to stay at {{.villaName}} from {{.checkInDate}}{{with .checkOutDate}} to {{.}}{{end}}.
Your reference is {{.bookingId}}. This is not yet a confirmation; we will contact you shortly.

{{.appName}}
`),
}

// RenderEmail renders the subject and body of a built-in template. The subject is
// flattened to a single line since it carries guest-supplied fields.
func RenderEmail(templateID string, data map[string]interface{}) (string, string, error) {
	tmpl, ok := emailTemplates[templateID]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrUnknownTemplate, templateID)
	}
	var subject, body bytes.Buffer
	if err := tmpl.subject.Execute(&subject, data); err != nil {
		return "", "", fmt.Errorf("failed to render subject of %s: %w", templateID, err)
	}
	if err := tmpl.body.Execute(&body, data); err != nil {
		return "", "", fmt.Errorf("failed to render body of %s: %w", templateID, err)
	}
	return email.HeaderValue(subject.String()), body.String(), nil
}
