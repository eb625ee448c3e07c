package file

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path"
	"strings"
	"time"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	// MaxLogoBytes is the largest accepted logo upload.
	MaxLogoBytes = 2 << 20
	// MaxLogoWidth is the width logos are scaled down to before storing.
	MaxLogoWidth = 400
)

type FileService interface {
	// UploadLogo validates, downscales and stores a company logo and
	// returns its storage key.
	UploadLogo(ctx context.Context, file io.Reader) (string, error)

	// ReadImage returns a stored image with its type ("PNG" or "JPG").
	ReadImage(ctx context.Context, key string) ([]byte, string, error)

	// Generic operations
	DeleteFile(ctx context.Context, key string) error
	GetFileURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// UploadLogo implements FileService. PNG logos stay PNG, everything else is
// stored as JPEG.
func (s *fileServiceImpl) UploadLogo(ctx context.Context, file io.Reader) (string, error) {
	buffer, err := io.ReadAll(io.LimitReader(file, MaxLogoBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read logo: %w", err)
	}
	if len(buffer) > MaxLogoBytes {
		return "", settings.ErrLogoTooLarge
	}

	img, format, err := image.Decode(bytes.NewReader(buffer))
	if err != nil || (format != "png" && format != "jpeg") {
		return "", settings.ErrUnsupportedLogo
	}

	if img.Bounds().Dx() > MaxLogoWidth {
		img = scaleToWidth(img, MaxLogoWidth)
	}

	var (
		out         bytes.Buffer
		ext         string
		contentType string
	)
	if format == "png" {
		ext, contentType = ".png", "image/png"
		err = png.Encode(&out, img)
	} else {
		ext, contentType = ".jpg", "image/jpeg"
		err = jpeg.Encode(&out, img, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return "", fmt.Errorf("failed to encode logo: %w", err)
	}

	key := path.Join("logos", uuid.New().String()+ext)
	uploaded, err := s.storage.Upload(ctx, &out, key, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload company logo: %w", err)
	}
	return uploaded, nil
}

// ReadImage implements FileService.
func (s *fileServiceImpl) ReadImage(ctx context.Context, key string) ([]byte, string, error) {
	rc, err := s.storage.Download(ctx, key)
	if err != nil {
		return nil, "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, imageType(key), nil
}

// DeleteFile deletes a file from storage
func (s *fileServiceImpl) DeleteFile(ctx context.Context, key string) error {
	return s.storage.Delete(ctx, key)
}

// GetFileURL gets the URL for a file. Keys whose file is gone return
// storage.ErrFileNotFound rather than a dead link.
func (s *fileServiceImpl) GetFileURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	ok, err := s.storage.Exists(ctx, key)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: %s", storage.ErrFileNotFound, key)
	}
	return s.storage.GetURL(ctx, key, expiry)
}

// ==================== HELPER FUNCTIONS ====================

func imageType(key string) string {
	if strings.EqualFold(path.Ext(key), ".png") {
		return "PNG"
	}
	return "JPG"
}

// scaleToWidth resizes src to width keeping the aspect ratio, using
// CatmullRom for high-quality downscaling.
func scaleToWidth(src image.Image, width int) image.Image {
	b := src.Bounds()
	height := b.Dy() * width / b.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
