package service

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"room_chat/internal/domain"
	"room_chat/pkg/errors"
	"room_chat/pkg/logger"
)

func newTestMedia(t *testing.T, maxBytes int64) MediaService {
	t.Helper()
	cfg := testConfig()
	cfg.Upload.Dir = t.TempDir()
	cfg.Upload.MaxBytes = maxBytes
	svc, err := NewMediaService(cfg, logger.NewNop())
	require.NoError(t, err)
	return svc
}

func multipartFile(t *testing.T, filename, contentType, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := w.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	_, header, err := req.FormFile("file")
	require.NoError(t, err)
	return header
}

func TestStoreImage(t *testing.T) {
	cfg := testConfig()
	cfg.Upload.Dir = t.TempDir()
	cfg.Upload.MaxBytes = 1024
	svc, err := NewMediaService(cfg, logger.NewNop())
	require.NoError(t, err)

	res, err := svc.Store(multipartFile(t, "cat.png", "image/png", "pngdata"))
	require.NoError(t, err)

	assert.Equal(t, "cat.png", res.OriginalName)
	assert.Equal(t, domain.MessageKindImage, res.Kind)
	assert.True(t, strings.HasPrefix(res.URL, "/uploads/"))
	assert.True(t, strings.HasSuffix(res.URL, ".png"))

	// the file landed on disk under the generated name
	stored := filepath.Join(cfg.Upload.Dir, strings.TrimPrefix(res.URL, "/uploads/"))
	data, err := os.ReadFile(stored)
	require.NoError(t, err)
	assert.Equal(t, "pngdata", string(data))
}

func TestStoreVideoKind(t *testing.T) {
	svc := newTestMedia(t, 1024)

	res, err := svc.Store(multipartFile(t, "clip.mp4", "video/mp4", "mp4data"))
	require.NoError(t, err)
	assert.Equal(t, domain.MessageKindVideo, res.Kind)
}

func TestStoreRejectsOversize(t *testing.T) {
	svc := newTestMedia(t, 4)

	_, err := svc.Store(multipartFile(t, "big.png", "image/png", "way too big"))
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestStoreUniqueNames(t *testing.T) {
	svc := newTestMedia(t, 1024)

	a, err := svc.Store(multipartFile(t, "same.png", "image/png", "one"))
	require.NoError(t, err)
	b, err := svc.Store(multipartFile(t, "same.png", "image/png", "two"))
	require.NoError(t, err)

	assert.NotEqual(t, a.URL, b.URL)
}
