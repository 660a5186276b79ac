// Package upi builds UPI deep links for payment initiation. The links follow
// the NPCI linking specification (upi://pay) and are opened by any UPI app on
// the payer's phone.
package upi

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	ErrInvalidVPA    = errors.New("invalid UPI VPA")
	ErrInvalidAmount = errors.New("amount must be positive")
)

// vpaRegex matches handle@psp style virtual payment addresses.
var vpaRegex = regexp.MustCompile(`^[a-zA-Z0-9.\-_]{2,}@[a-zA-Z]{2,}$`)

// IsValidVPA reports whether s looks like a virtual payment address.
func IsValidVPA(s string) bool {
	return vpaRegex.MatchString(s)
}

// PayLink builds a upi://pay deep link.
// amountPaise is the amount in paise; the link carries rupees with two
// decimals as the linking format requires. payeeName and note are truncated by UPI
// apps, not here.
func PayLink(vpa, payeeName string, amountPaise int64, note string) (string, error) {
	if !IsValidVPA(vpa) {
		return "", fmt.Errorf("%w: %q", ErrInvalidVPA, vpa)
	}
	if amountPaise <= 0 {
		return "", ErrInvalidAmount
	}

	params := url.Values{}
	params.Set("pa", vpa)
	params.Set("pn", payeeName)
	params.Set("am", FormatRupees(amountPaise))
	params.Set("cu", "INR")
	if note != "" {
		params.Set("tn", note)
	}

	return "upi://pay?" + params.Encode(), nil
}

// FormatRupees renders paise as a rupee string with two decimals.
func FormatRupees(paise int64) string {
	return fmt.Sprintf("%d.%02d", paise/100, paise%100)
}

// utrRegex matches UPI UTR numbers: 12 digits for most banks, some PSPs issue
// 16 character alphanumeric references.
var utrRegex = regexp.MustCompile(`^([0-9]{12}|[A-Z0-9]{16})$`)

// IsValidUTR reports whether s looks like a Unique Transaction Reference.
func IsValidUTR(s string) bool {
	return utrRegex.MatchString(strings.ToUpper(strings.TrimSpace(s)))
}
