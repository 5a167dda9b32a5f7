package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"room_chat/internal/config"
	"room_chat/internal/domain"
	"room_chat/pkg/errors"
	"room_chat/pkg/logger"
)

// UploadResult is what the upload endpoint hands back to the client; the
// client passes it through verbatim as a message's fileData.
type UploadResult struct {
	URL          string `json:"url"`
	OriginalName string `json:"originalName"`
	Kind         string `json:"type"`
}

type MediaService interface {
	Store(file *multipart.FileHeader) (*UploadResult, error)
}

type mediaService struct {
	dir      string
	maxBytes int64
	log      logger.Logger
}

func NewMediaService(cfg *config.Config, log logger.Logger) (MediaService, error) {
	if err := os.MkdirAll(cfg.Upload.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &mediaService{
		dir:      cfg.Upload.Dir,
		maxBytes: cfg.Upload.MaxBytes,
		log:      log,
	}, nil
}

func (s *mediaService) Store(file *multipart.FileHeader) (*UploadResult, error) {
	if file.Size > s.maxBytes {
		return nil, fmt.Errorf("%w: file too large", errors.ErrValidation)
	}

	name := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), filepath.Ext(file.Filename))

	src, err := file.Open()
	if err != nil {
		s.log.Error("Failed to open uploaded file", "error", err)
		return nil, errors.ErrInternalServer
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		s.log.Error("Failed to create upload file", "error", err)
		return nil, errors.ErrInternalServer
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		s.log.Error("Failed to write upload file", "error", err)
		return nil, errors.ErrInternalServer
	}

	kind := domain.MessageKindImage
	if strings.HasPrefix(file.Header.Get("Content-Type"), "video/") {
		kind = domain.MessageKindVideo
	}

	return &UploadResult{
		URL:          "/uploads/" + name,
		OriginalName: file.Filename,
		Kind:         kind,
	}, nil
}
