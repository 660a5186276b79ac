package upi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanmay/courtside/internal/pkg/upi"
)

func TestIsValidVPA(t *testing.T) {
	cases := []struct {
		vpa   string
		valid bool
	}{
		{"courtside.ind@okaxis", true},
		{"9876543210@ybl", true},
		{"rohan_mehta@icici", true},
		{"ab@cd", true},
		{"a@okaxis", false},
		{"courtside@1bank", false},
		{"no-handle", false},
		{"@okaxis", false},
		{"name@", false},
		{"", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.valid, upi.IsValidVPA(tc.vpa), "vpa %q", tc.vpa)
	}
}

func TestPayLink(t *testing.T) {
	link, err := upi.PayLink("courtside.ind@okaxis", "Courtside Indiranagar", 450000, "Quarterly fee")
	require.NoError(t, err)

	// url.Values.Encode sorts parameters alphabetically.
	assert.Equal(t,
		"upi://pay?am=4500.00&cu=INR&pa=courtside.ind%40okaxis&pn=Courtside+Indiranagar&tn=Quarterly+fee",
		link)
}

func TestPayLinkWithoutNote(t *testing.T) {
	link, err := upi.PayLink("courtside.ind@okaxis", "Courtside", 9900, "")
	require.NoError(t, err)
	assert.NotContains(t, link, "tn=")
	assert.Contains(t, link, "am=99.00")
}

func TestPayLinkRejectsBadInput(t *testing.T) {
	_, err := upi.PayLink("not a vpa", "Courtside", 450000, "")
	assert.ErrorIs(t, err, upi.ErrInvalidVPA)

	_, err = upi.PayLink("courtside.ind@okaxis", "Courtside", 0, "")
	assert.ErrorIs(t, err, upi.ErrInvalidAmount)

	_, err = upi.PayLink("courtside.ind@okaxis", "Courtside", -100, "")
	assert.ErrorIs(t, err, upi.ErrInvalidAmount)
}

func TestFormatRupees(t *testing.T) {
	cases := []struct {
		paise int64
		want  string
	}{
		{450000, "4500.00"},
		{9950, "99.50"},
		{5, "0.05"},
		{100, "1.00"},
		{0, "0.00"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, upi.FormatRupees(tc.paise))
	}
}

func TestIsValidUTR(t *testing.T) {
	cases := []struct {
		utr   string
		valid bool
	}{
		{"412345678901", true},
		{"AXIS1234567890AB", true},
		{"axis1234567890ab", true}, // uppercased before matching
		{"  412345678901  ", true}, // trimmed before matching
		{"41234567890", false},     // 11 digits
		{"4123456789012", false},   // 13 digits
		{"AXIS12345", false},
		{"", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.valid, upi.IsValidUTR(tc.utr), "utr %q", tc.utr)
	}
}
