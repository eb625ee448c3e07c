package settings

import (
	"context"
	"io"
)

type SettingsRepository interface {
	// Get returns the settings row, creating an empty one when missing.
	Get(ctx context.Context) (Settings, error)
	Update(ctx context.Context, s Settings) error
}

type SettingsService interface {
	Get(ctx context.Context) (SettingsResponse, error)
	Update(ctx context.Context, req UpdateSettingsRequest) (SettingsResponse, error)
	UploadLogo(ctx context.Context, r io.Reader, size int64) (SettingsResponse, error)
	DeleteLogo(ctx context.Context) (SettingsResponse, error)
	// Logo returns the stored logo bytes and type ("PNG" or "JPG"), or
	// nil when none is configured.
	Logo(ctx context.Context) (data []byte, imageType string, err error)
}
