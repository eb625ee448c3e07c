package settings

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/grafik-backend-go/internal/service/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySettings struct {
	value settings.Settings
}

func (m *memorySettings) Get(ctx context.Context) (settings.Settings, error) { return m.value, nil }

func (m *memorySettings) Update(ctx context.Context, s settings.Settings) error {
	m.value = s
	return nil
}

func newService(t *testing.T) (settings.SettingsService, *memorySettings, *storage.LocalStorage) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)
	repo := &memorySettings{}
	return NewSettingsService(repo, file.NewFileService(store)), repo, store
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestUpdate(t *testing.T) {
	svc, repo, _ := newService(t)
	shift, free := int64(1), int64(5)

	resp, err := svc.Update(context.Background(), settings.UpdateSettingsRequest{
		CompanyName:     "  Hotel Pod Lipami ",
		CompanyAddress:  "ul. Lipowa 1\n00-950 Warszawa",
		AutoPlanShiftID: &shift,
		AutoPlanFreeID:  &free,
	})
	require.NoError(t, err)
	assert.Equal(t, "Hotel Pod Lipami", resp.CompanyName)
	assert.Equal(t, &free, resp.AutoPlanFreeID)
	assert.Nil(t, resp.LogoURL)
	assert.Equal(t, "Hotel Pod Lipami", repo.value.CompanyName)
}

func TestLogoLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, repo, store := newService(t)

	data, typ, err := svc.Logo(ctx)
	require.NoError(t, err)
	assert.Nil(t, data)
	assert.Empty(t, typ)

	img := pngBytes(t, 50, 20)
	resp, err := svc.UploadLogo(ctx, bytes.NewReader(img), int64(len(img)))
	require.NoError(t, err)
	require.NotNil(t, resp.LogoURL)
	assert.True(t, strings.HasPrefix(*resp.LogoURL, "/uploads/logos/"))
	first := *repo.value.LogoPath

	data, typ, err = svc.Logo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "PNG", typ)
	assert.NotEmpty(t, data)

	// A second upload replaces and removes the first file.
	_, err = svc.UploadLogo(ctx, bytes.NewReader(img), int64(len(img)))
	require.NoError(t, err)
	exists, err := store.Exists(ctx, first)
	require.NoError(t, err)
	assert.False(t, exists)

	second := *repo.value.LogoPath
	resp, err = svc.DeleteLogo(ctx)
	require.NoError(t, err)
	assert.Nil(t, resp.LogoURL)
	assert.Nil(t, repo.value.LogoPath)
	exists, err = store.Exists(ctx, second)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGet_MissingLogoFileHasNoURL(t *testing.T) {
	svc, repo, _ := newService(t)
	gone := "logos/removed.png"
	repo.value.LogoPath = &gone

	resp, err := svc.Get(context.Background())

	require.NoError(t, err)
	assert.Nil(t, resp.LogoURL)
}

func TestUploadLogo_TooLarge(t *testing.T) {
	svc, _, _ := newService(t)
	_, err := svc.UploadLogo(context.Background(), strings.NewReader(""), file.MaxLogoBytes+1)
	assert.ErrorIs(t, err, settings.ErrLogoTooLarge)
}
