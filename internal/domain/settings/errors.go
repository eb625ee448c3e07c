package settings

import "errors"

var (
	ErrUnsupportedLogo  = errors.New("logo must be a PNG or JPEG image")
	ErrLogoTooLarge     = errors.New("logo must not exceed 2 MB")
	ErrUnknownShiftType = errors.New("auto-plan shift type does not exist")
)
