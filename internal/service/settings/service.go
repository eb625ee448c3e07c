package settings

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/grafik-backend-go/internal/service/file"
)

type SettingsServiceImpl struct {
	settings.SettingsRepository
	files file.FileService
}

func NewSettingsService(repo settings.SettingsRepository, files file.FileService) settings.SettingsService {
	return &SettingsServiceImpl{SettingsRepository: repo, files: files}
}

func (s *SettingsServiceImpl) response(ctx context.Context, st settings.Settings) settings.SettingsResponse {
	var logoURL *string
	if st.LogoPath != nil {
		url, err := s.files.GetFileURL(ctx, *st.LogoPath, 0)
		if err != nil {
			slog.Error("failed to resolve logo url", "error", err, "path", *st.LogoPath)
		} else {
			logoURL = &url
		}
	}
	return settings.NewSettingsResponse(st, logoURL)
}

// Get implements settings.SettingsService.
func (s *SettingsServiceImpl) Get(ctx context.Context) (settings.SettingsResponse, error) {
	st, err := s.SettingsRepository.Get(ctx)
	if err != nil {
		return settings.SettingsResponse{}, err
	}
	return s.response(ctx, st), nil
}

// Update implements settings.SettingsService. The logo is left untouched.
func (s *SettingsServiceImpl) Update(ctx context.Context, req settings.UpdateSettingsRequest) (settings.SettingsResponse, error) {
	st, err := s.SettingsRepository.Get(ctx)
	if err != nil {
		return settings.SettingsResponse{}, err
	}
	st.CompanyName = strings.TrimSpace(req.CompanyName)
	st.CompanyAddress = strings.TrimSpace(req.CompanyAddress)
	st.AutoPlanShiftID = req.AutoPlanShiftID
	st.AutoPlanFreeID = req.AutoPlanFreeID

	if err := s.SettingsRepository.Update(ctx, st); err != nil {
		return settings.SettingsResponse{}, err
	}
	return s.Get(ctx)
}

// UploadLogo implements settings.SettingsService. The previous logo file is
// removed once the new one is stored.
func (s *SettingsServiceImpl) UploadLogo(ctx context.Context, r io.Reader, size int64) (settings.SettingsResponse, error) {
	if size > file.MaxLogoBytes {
		return settings.SettingsResponse{}, settings.ErrLogoTooLarge
	}
	st, err := s.SettingsRepository.Get(ctx)
	if err != nil {
		return settings.SettingsResponse{}, err
	}

	key, err := s.files.UploadLogo(ctx, r)
	if err != nil {
		return settings.SettingsResponse{}, err
	}

	previous := st.LogoPath
	st.LogoPath = &key
	if err := s.SettingsRepository.Update(ctx, st); err != nil {
		if delErr := s.files.DeleteFile(ctx, key); delErr != nil {
			slog.Error("failed to remove orphaned logo", "error", delErr, "path", key)
		}
		return settings.SettingsResponse{}, err
	}
	s.removeFile(ctx, previous)

	return s.Get(ctx)
}

// DeleteLogo implements settings.SettingsService.
func (s *SettingsServiceImpl) DeleteLogo(ctx context.Context) (settings.SettingsResponse, error) {
	st, err := s.SettingsRepository.Get(ctx)
	if err != nil {
		return settings.SettingsResponse{}, err
	}
	previous := st.LogoPath
	st.LogoPath = nil
	if err := s.SettingsRepository.Update(ctx, st); err != nil {
		return settings.SettingsResponse{}, err
	}
	s.removeFile(ctx, previous)
	return s.response(ctx, st), nil
}

// Logo implements settings.SettingsService. A logo that cannot be read is
// logged and treated as missing so documents still render.
func (s *SettingsServiceImpl) Logo(ctx context.Context) ([]byte, string, error) {
	st, err := s.SettingsRepository.Get(ctx)
	if err != nil {
		return nil, "", err
	}
	if st.LogoPath == nil {
		return nil, "", nil
	}
	data, typ, err := s.files.ReadImage(ctx, *st.LogoPath)
	if err != nil {
		slog.Error("failed to read company logo", "error", err, "path", *st.LogoPath)
		return nil, "", nil
	}
	return data, typ, nil
}

func (s *SettingsServiceImpl) removeFile(ctx context.Context, key *string) {
	if key == nil {
		return
	}
	if err := s.files.DeleteFile(ctx, *key); err != nil {
		slog.Error("failed to delete old logo", "error", err, "path", *key)
	}
}
