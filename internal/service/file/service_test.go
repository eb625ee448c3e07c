package file

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) FileService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)
	return NewFileService(store)
}

func solid(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}
	return img
}

func TestUploadLogo_DownscalesWidePNG(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(800, 200)))

	key, err := svc.UploadLogo(ctx, &buf)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "logos/"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	data, typ, err := svc.ReadImage(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "PNG", typ)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 400, cfg.Width)
	assert.Equal(t, 100, cfg.Height)
}

func TestUploadLogo_KeepsSmallJPEG(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, solid(120, 60), nil))

	key, err := svc.UploadLogo(ctx, &buf)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(key, ".jpg"))

	data, typ, err := svc.ReadImage(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "JPG", typ)
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.Width)

	url, err := svc.GetFileURL(ctx, key, 0)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/"+key, url)

	require.NoError(t, svc.DeleteFile(ctx, key))
	_, _, err = svc.ReadImage(ctx, key)
	assert.ErrorIs(t, err, storage.ErrFileNotFound)
}

func TestUploadLogo_Rejects(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.UploadLogo(ctx, strings.NewReader("GIF89a not really an image"))
	assert.ErrorIs(t, err, settings.ErrUnsupportedLogo)

	_, err = svc.UploadLogo(ctx, bytes.NewReader(make([]byte, MaxLogoBytes+10)))
	assert.ErrorIs(t, err, settings.ErrLogoTooLarge)
}
