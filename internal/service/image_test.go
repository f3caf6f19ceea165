package service_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkful/backend/internal/service"
)

func TestImageStoreLocal(t *testing.T) {
	dir := t.TempDir()
	svc := service.NewImageService(nil, dir)

	url, err := svc.Store(context.Background(), "data:image/png;base64,aGVsbG8=")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "/media/recipes/images/"), url)
	assert.True(t, strings.HasSuffix(url, ".png"), url)

	data, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(url, "/media/")))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestImageStoreNormalizesJpeg(t *testing.T) {
	svc := service.NewImageService(nil, t.TempDir())

	url, err := svc.Store(context.Background(), "data:image/jpeg;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(url, ".jpg"), url)
}

func TestImageStoreRejectsBadInput(t *testing.T) {
	svc := service.NewImageService(nil, t.TempDir())
	ctx := context.Background()

	var fieldErr *service.FieldError

	_, err := svc.Store(ctx, "https://example.com/image.png")
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "image", fieldErr.Field)

	_, err = svc.Store(ctx, "data:image/png;base64,not-base64!!!")
	require.ErrorAs(t, err, &fieldErr)

	_, err = svc.Store(ctx, "data:image/png;base64,")
	require.ErrorAs(t, err, &fieldErr)
}
