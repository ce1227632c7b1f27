package email

import (
	"fmt"
	"mime"
	"strings"
	"time"
)

// Message is a rendered plain-text email.
type Message struct {
	To         []string
	From       string
	Subject    string
	Body       string
	TemplateID string
}

// HeaderValue folds all whitespace, CR and LF included, into single spaces so a value
// can never start a new header line.
func HeaderValue(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Raw renders the message with the headers needed for SMTP delivery. Header values are
// flattened to one line; the subject is Q-encoded when it is not plain ASCII.
func (m *Message) Raw(now time.Time) []byte {
	to := make([]string, 0, len(m.To))
	for _, addr := range m.To {
		to = append(to, HeaderValue(addr))
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(to, ", ")))
	sb.WriteString(fmt.Sprintf("From: %s\r\n", HeaderValue(m.From)))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", HeaderValue(m.Subject))))
	sb.WriteString("Date: " + now.Format(time.RFC1123Z) + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(m.Body)
	if !strings.HasSuffix(m.Body, "\r\n") {
		sb.WriteString("\r\n")
	}
	return []byte(sb.String())
}
