package entity

import "image"

// LogoAsset is a logo the user picked for the current popup session.
type LogoAsset struct {
	Name string
	Data []byte
}

func (l *LogoAsset) Available() bool {
	return l != nil && len(l.Data) > 0
}

// RenderedImage is a finished code. It is never modified after creation,
// a re-render produces a new one.
type RenderedImage struct {
	Image    *image.RGBA
	Text     string
	Settings RenderSettings
	Logo     bool
	// LogoDegraded is set when a logo was requested but could not be decoded.
	LogoDegraded bool
}

// PopupState is everything one popup session works with.
type PopupState struct {
	SessionID   string
	ProfileID   string
	Text        string
	Settings    RenderSettings
	Diagnostics SettingsDiagnostics
	Logo        *LogoAsset
}

// Frame is the content of a display surface: either an image or a textual
// placeholder shown in place of it.
type Frame struct {
	Seq         uint64
	Image       *RenderedImage
	Placeholder string
}

func (f Frame) Empty() bool {
	return f.Image == nil && f.Placeholder == ""
}
