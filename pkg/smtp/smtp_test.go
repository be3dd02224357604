package smtp

import (
	"bytes"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type recordingSender struct {
	messages []*gomail.Message
	err      error
}

func (s *recordingSender) DialAndSend(m ...*gomail.Message) error {
	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, m...)
	return nil
}

func TestSendExport(t *testing.T) {
	sender := &recordingSender{}
	c := NewClient(sender, Options{From: "qr@example.com", Domain: "example.com"})

	png := []byte("\x89PNG fake image bytes")
	require.NoError(t, c.SendExport("user@example.com", "qr-2026-10-15T12-34-56-789Z.png", png))
	require.Len(t, sender.messages, 1)

	msg := sender.messages[0]
	assert.Equal(t, []string{"user@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"qr@example.com"}, msg.GetHeader("From"))
	assert.Regexp(t, regexp.MustCompile(`^<[0-9a-f-]{36}@example\.com>$`), msg.GetHeader("Message-ID")[0])

	var raw bytes.Buffer
	_, err := msg.WriteTo(&raw)
	require.NoError(t, err)
	assert.Contains(t, raw.String(), `filename="qr-2026-10-15T12-34-56-789Z.png"`)
	assert.Contains(t, raw.String(), "image/png")
}

func TestSendExport_Error(t *testing.T) {
	c := NewClient(&recordingSender{err: errors.New("connection refused")}, Options{From: "qr@example.com"})

	err := c.SendExport("user@example.com", "qr.png", []byte("x"))
	assert.ErrorContains(t, err, "connection refused")
}
