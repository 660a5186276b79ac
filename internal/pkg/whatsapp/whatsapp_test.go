package whatsapp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanmay/courtside/internal/pkg/whatsapp"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		name  string
		phone string
		want  string
	}{
		{"bare indian mobile", "9876543210", "919876543210"},
		{"formatted with spaces", "98765 43210", "919876543210"},
		{"plus country code", "+919876543210", "919876543210"},
		{"dashes and parens", "(91) 98765-43210", "919876543210"},
		{"other country code kept", "+14155551234", "14155551234"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := whatsapp.NormalizePhone(tc.phone)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizePhoneInvalid(t *testing.T) {
	for _, phone := range []string{"", "12345", "123456789012345678"} {
		_, err := whatsapp.NormalizePhone(phone)
		assert.ErrorIs(t, err, whatsapp.ErrInvalidPhone, "phone %q", phone)
	}
}

func TestChatLink(t *testing.T) {
	link, err := whatsapp.ChatLink("9876543210", "Hi Rohan, your trial is tomorrow!")
	require.NoError(t, err)
	assert.Equal(t, "https://wa.me/919876543210?text=Hi+Rohan%2C+your+trial+is+tomorrow%21", link)
}

func TestChatLinkWithoutMessage(t *testing.T) {
	link, err := whatsapp.ChatLink("+919876543210", "")
	require.NoError(t, err)
	assert.Equal(t, "https://wa.me/919876543210", link)
}

func TestChatLinkInvalidPhone(t *testing.T) {
	_, err := whatsapp.ChatLink("badminton", "hello")
	assert.ErrorIs(t, err, whatsapp.ErrInvalidPhone)
}

func TestRenderTemplate(t *testing.T) {
	out := whatsapp.RenderTemplate(
		"Hi {{name}}, your {{sport}} trial at {{center}} is confirmed.",
		map[string]string{
			"name":  "Rohan",
			"sport": "badminton",
		})

	// Known placeholders are substituted, unknown ones stay visible.
	assert.Equal(t, "Hi Rohan, your badminton trial at {{center}} is confirmed.", out)
}

func TestRenderTemplateRepeatedPlaceholder(t *testing.T) {
	out := whatsapp.RenderTemplate("{{name}} {{name}}", map[string]string{"name": "Rohan"})
	assert.Equal(t, "Rohan Rohan", out)
}
