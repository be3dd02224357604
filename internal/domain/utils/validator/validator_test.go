package validator

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestParseLogoScale(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"30", 30, true},
		{" 30% ", 30, true},
		{"0", 0, true},
		{"100", 100, true},
		{"101", 0, false},
		{"-1", 0, false},
		{"thirty", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseLogoScale(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, LogoScale(tt.in, nil))
		})
	}
}

func TestText(t *testing.T) {
	assert.True(t, Text("https://example.com", nil))
	assert.False(t, Text("   ", nil))
	assert.False(t, Text(strings.Repeat("a", maxTextLength+1), nil))
	assert.False(t, Text("\xff\xfe", nil))
}

func TestEmail(t *testing.T) {
	t.Cleanup(viper.Reset)

	viper.Set("bot.mail.valid-email-domains", []string{})
	assert.True(t, Email("user@example.com", nil))
	assert.False(t, Email("not an address", nil))

	viper.Set("bot.mail.valid-email-domains", []string{"@example.com"})
	assert.True(t, Email("user@example.com", nil))
	assert.False(t, Email("user@example.org", nil))
}
