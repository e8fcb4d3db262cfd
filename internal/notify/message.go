package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/spicemart/spicesite/internal/domain"
)

// NoMessagePlaceholder stands in for an inquiry submitted without a message.
const NoMessagePlaceholder = "No message provided"

// Message is a composed email with a plain text body and an HTML alternative.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

var inquiryHTML = template.Must(template.New("inquiry").Parse(`<h2>New Inquiry</h2>
<table cellpadding="4">
<tr><td><strong>Name</strong></td><td>{{.Name}}</td></tr>
<tr><td><strong>Phone</strong></td><td>{{.Phone}}</td></tr>
<tr><td><strong>Message</strong></td><td>{{.Message}}</td></tr>
<tr><td><strong>Received</strong></td><td>{{.Received}}</td></tr>
</table>
`))

// ComposeInquiry renders the operator notification for a stored inquiry.
func ComposeInquiry(to string, inq *domain.Inquiry) Message {
	message := NoMessagePlaceholder
	if inq.HasMessage() {
		message = strings.TrimSpace(*inq.Message)
	}
	received := inq.CreatedAt.Format(time.RFC1123)

	var text strings.Builder
	text.WriteString("A new inquiry was submitted through the website.\n\n")
	fmt.Fprintf(&text, "Name: %s\n", inq.Name)
	fmt.Fprintf(&text, "Phone: %s\n", inq.Phone)
	fmt.Fprintf(&text, "Message: %s\n", message)
	fmt.Fprintf(&text, "Received: %s\n", received)
	fmt.Fprintf(&text, "Inquiry ID: %d\n", inq.ID)

	var html bytes.Buffer
	// the template is static, execution only fails on a broken writer
	_ = inquiryHTML.Execute(&html, map[string]string{
		"Name":     inq.Name,
		"Phone":    inq.Phone,
		"Message":  message,
		"Received": received,
	})

	return Message{
		To:      to,
		Subject: fmt.Sprintf("New Inquiry from %s", inq.Name),
		Text:    text.String(),
		HTML:    html.String(),
	}
}
