package entity

import "time"

// Export is a downloaded or mailed code.
type Export struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	ProfileID string    `gorm:"index;not null" json:"-"`
	Filename  string    `gorm:"not null" json:"filename"`
	Text      string    `json:"text"`
	Size      int       `json:"size"`
	EC        string    `json:"ec"`
	LogoScale int       `json:"logoScale"`
	HasLogo   bool      `json:"hasLogo"`
	Bytes     int       `json:"bytes"`
	Channel   string    `json:"channel"`
}

// Export channels.
const (
	ChannelDownload = "download"
	ChannelMail     = "mail"
	ChannelChat     = "chat"
)
