package entity

import (
	"slices"
	"strings"
	"time"

	qr "github.com/Badsnus/tabqr/pkg/qrcode"
)

type ErrorCorrection string

const (
	ErrorCorrectionL ErrorCorrection = "L"
	ErrorCorrectionM ErrorCorrection = "M"
	ErrorCorrectionQ ErrorCorrection = "Q"
	ErrorCorrectionH ErrorCorrection = "H"
)

const (
	DefaultSize            = 240
	DefaultErrorCorrection = ErrorCorrectionM
	DefaultLogoScale       = 20
)

// Names of the persisted settings keys.
const (
	FieldSize      = "size"
	FieldEC        = "ec"
	FieldLogoScale = "logoScale"
)

// SupportedSizes are the code sizes in pixels the popup offers.
var SupportedSizes = []int{200, 240, 300, 400}

var ErrorCorrections = []ErrorCorrection{
	ErrorCorrectionL,
	ErrorCorrectionM,
	ErrorCorrectionQ,
	ErrorCorrectionH,
}

// ParseErrorCorrection accepts "l", " M " and so on.
func ParseErrorCorrection(s string) (ErrorCorrection, bool) {
	ec := ErrorCorrection(strings.ToUpper(strings.TrimSpace(s)))
	return ec, ec.Valid()
}

func (e ErrorCorrection) Valid() bool {
	return slices.Contains(ErrorCorrections, e)
}

// Level returns the renderer level, M for anything unknown.
func (e ErrorCorrection) Level() qr.Level {
	switch e {
	case ErrorCorrectionL:
		return qr.LevelL
	case ErrorCorrectionQ:
		return qr.LevelQ
	case ErrorCorrectionH:
		return qr.LevelH
	default:
		return qr.LevelM
	}
}

// RenderSettings are the user adjustable rendering options.
type RenderSettings struct {
	Size             int             `json:"size"`
	ErrorCorrection  ErrorCorrection `json:"ec"`
	LogoScalePercent int             `json:"logoScale"`
}

func DefaultSettings() RenderSettings {
	return RenderSettings{
		Size:             DefaultSize,
		ErrorCorrection:  DefaultErrorCorrection,
		LogoScalePercent: DefaultLogoScale,
	}
}

// SettingsDiagnostics lists the fields whose value was outside the supported
// domain and got replaced by a default or clamped.
type SettingsDiagnostics struct {
	Substituted []string `json:"substituted,omitempty"`
}

func (d SettingsDiagnostics) Clean() bool {
	return len(d.Substituted) == 0
}

func (d SettingsDiagnostics) Has(field string) bool {
	return slices.Contains(d.Substituted, field)
}

// Normalize returns s with unsupported sizes and levels replaced by defaults
// and the logo scale clamped to [0, 100].
func (s RenderSettings) Normalize() (RenderSettings, SettingsDiagnostics) {
	var diag SettingsDiagnostics

	if !slices.Contains(SupportedSizes, s.Size) {
		s.Size = DefaultSize
		diag.Substituted = append(diag.Substituted, FieldSize)
	}
	if !s.ErrorCorrection.Valid() {
		s.ErrorCorrection = DefaultErrorCorrection
		diag.Substituted = append(diag.Substituted, FieldEC)
	}
	if clamped := qr.ClampScale(s.LogoScalePercent); clamped != s.LogoScalePercent {
		s.LogoScalePercent = clamped
		diag.Substituted = append(diag.Substituted, FieldLogoScale)
	}

	return s, diag
}

// Stored converts s into the persisted shape with every key present.
func (s RenderSettings) Stored() StoredSettings {
	size, ec, scale := s.Size, string(s.ErrorCorrection), s.LogoScalePercent
	return StoredSettings{Size: &size, EC: &ec, LogoScale: &scale}
}

// StoredSettings is the flat persisted settings record. A nil key means the
// default applies.
type StoredSettings struct {
	Size      *int    `json:"size,omitempty"`
	EC        *string `json:"ec,omitempty"`
	LogoScale *int    `json:"logoScale,omitempty"`
}

// Resolve merges s over the defaults and normalizes the result.
func (s StoredSettings) Resolve() (RenderSettings, SettingsDiagnostics) {
	return s.Over(DefaultSettings()).Normalize()
}

// Over returns base with every key present in s replaced. The result is not
// normalized.
func (s StoredSettings) Over(base RenderSettings) RenderSettings {
	if s.Size != nil {
		base.Size = *s.Size
	}
	if s.EC != nil {
		base.ErrorCorrection, _ = ParseErrorCorrection(*s.EC)
	}
	if s.LogoScale != nil {
		base.LogoScalePercent = *s.LogoScale
	}
	return base
}

// SettingsRecord is the database row behind the settings store.
type SettingsRecord struct {
	ProfileID string `gorm:"primaryKey"`
	Size      *int
	EC        *string
	LogoScale *int
	UpdatedAt time.Time
}

func (r SettingsRecord) Stored() StoredSettings {
	return StoredSettings{Size: r.Size, EC: r.EC, LogoScale: r.LogoScale}
}
