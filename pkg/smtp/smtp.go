package smtp

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

// Sender delivers a composed message. *gomail.Dialer implements it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type Options struct {
	From   string
	Domain string
}

// Client is the mail client used for exports.
type Client struct {
	sender Sender
	opts   Options
	now    func() time.Time
}

// NewClient initializes Client.
func NewClient(sender Sender, opts Options) *Client {
	return &Client{
		sender: sender,
		opts:   opts,
		now:    time.Now,
	}
}

// SendExport sends png to the given address as an attachment named filename.
func (c *Client) SendExport(to, filename string, png []byte) error {
	msg := c.newMessage(to, "Your QR code")
	msg.SetBody("text/plain", fmt.Sprintf("The QR code you exported is attached as %s.", filename))
	msg.Attach(filename,
		gomail.SetHeader(map[string][]string{"Content-Type": {"image/png"}}),
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(png)
			return err
		}),
	)

	if err := c.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send %s to %s: %w", filename, to, err)
	}
	return nil
}

func (c *Client) newMessage(to, subject string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("Message-ID", generateMessageID(c.opts.Domain))
	msg.SetHeader("Date", c.now().Format(time.RFC1123Z))
	msg.SetHeader("From", c.opts.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	return msg
}

func generateMessageID(domain string) string {
	uniqueID := uuid.New().String()
	return fmt.Sprintf("<%s@%s>", uniqueID, domain)
}
