// Package whatsapp composes wa.me deep links with prefilled messages.
// Counsellors open these from the CRM to start a chat with a lead without
// typing the message by hand.
package whatsapp

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var ErrInvalidPhone = errors.New("invalid phone number")

// nonDigits strips formatting characters from phone numbers.
var nonDigits = regexp.MustCompile(`[^0-9]`)

// NormalizePhone reduces a phone number to digits with a country code.
// Bare 10-digit Indian mobile numbers get a 91 prefix.
func NormalizePhone(phone string) (string, error) {
	digits := nonDigits.ReplaceAllString(phone, "")
	if len(digits) == 10 {
		digits = "91" + digits
	}
	if len(digits) < 11 || len(digits) > 15 {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
	}
	return digits, nil
}

// ChatLink builds a wa.me link that opens a chat with the given phone and a
// prefilled message.
func ChatLink(phone, message string) (string, error) {
	digits, err := NormalizePhone(phone)
	if err != nil {
		return "", err
	}
	link := "https://wa.me/" + digits
	if message != "" {
		link += "?text=" + url.QueryEscape(message)
	}
	return link, nil
}

// RenderTemplate substitutes {{name}}-style placeholders in a message
// template. Unknown placeholders are left in place so the counsellor notices
// them before sending.
func RenderTemplate(template string, vars map[string]string) string {
	out := template
	for key, value := range vars {
		out = strings.ReplaceAll(out, "{{"+key+"}}", value)
	}
	return out
}
