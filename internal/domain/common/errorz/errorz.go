package errorz

import "errors"

var (
	ErrEncoding         = errors.New("text cannot be encoded with the selected settings")
	ErrLogoDecode       = errors.New("logo cannot be decoded")
	ErrPersistence      = errors.New("settings could not be saved")
	ErrSourceResolution = errors.New("no text available to encode")
	ErrSessionNotFound  = errors.New("popup session not found")
	ErrMailDisabled     = errors.New("mail export is not configured")
	ErrInvalidSettings  = errors.New("invalid settings")
	ErrNothingRendered  = errors.New("nothing rendered yet")
)
