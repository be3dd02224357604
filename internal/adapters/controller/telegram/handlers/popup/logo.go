package popup

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Badsnus/tabqr/internal/domain/entity"
	tele "gopkg.in/telebot.v3"
)

// Logo asks for a picture and puts it in the centre of the code.
func (h Handler) Logo(c tele.Context) error {
	state, ok := h.requireCurrent(c)
	if !ok {
		return nil
	}

	message, ok := h.ask(c, h.layout.Text(c, "input_logo"), h.layout.Text(c, "invalid_logo"), func(m *tele.Message) bool {
		return logoFile(m) != nil
	})
	if !ok {
		return nil
	}

	file, name := logoFile(message), logoName(message)
	if h.maxLogoBytes > 0 && file.FileSize > h.maxLogoBytes {
		return c.Send(h.layout.Text(c, "logo_too_large", h.maxLogoBytes>>10))
	}

	data, err := h.download(file)
	if err != nil {
		h.logger.Errorf("(user: %d) error while downloading logo: %v", c.Sender().ID, err)
		return c.Send(h.layout.Text(c, "technical_issues", err.Error()))
	}

	state = h.popupService.SelectLogo(context.Background(), state, entity.LogoAsset{Name: name, Data: data})
	return h.show(c, state, false)
}

func (h Handler) NoLogo(c tele.Context) error {
	state, ok := h.requireCurrent(c)
	if !ok {
		return nil
	}
	state = h.popupService.ClearLogo(context.Background(), state)
	return h.show(c, state, false)
}

func (h Handler) download(file *tele.File) ([]byte, error) {
	reader, err := h.bot.File(file)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	limit := h.maxLogoBytes
	if limit <= 0 {
		limit = 20 << 20
	}
	data, err := io.ReadAll(io.LimitReader(reader, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("logo is larger than %d bytes", limit)
	}
	return data, nil
}

// logoFile returns the picture of m: a photo, or a document that is an image.
func logoFile(m *tele.Message) *tele.File {
	switch {
	case m == nil:
		return nil
	case m.Photo != nil:
		return &m.Photo.File
	case m.Document != nil && isImageDocument(m.Document):
		return &m.Document.File
	default:
		return nil
	}
}

func logoName(m *tele.Message) string {
	if m.Document != nil && m.Document.FileName != "" {
		return m.Document.FileName
	}
	return "photo.jpg"
}

func isImageDocument(d *tele.Document) bool {
	if strings.HasPrefix(d.MIME, "image/") {
		return true
	}
	name := strings.ToLower(d.FileName)
	for _, ext := range []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp", ".svg"} {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
