package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atlas-sports/site-api/internal/dto"
	"github.com/atlas-sports/site-api/internal/form"
	appErrors "github.com/atlas-sports/site-api/pkg/errors"
)

// DefaultUploadFolder is used when the client names no folder.
const DefaultUploadFolder = "images"

type objectStore interface {
	Put(ctx context.Context, key string, r io.Reader) (string, error)
}

// UploadConfig limits accepted images.
type UploadConfig struct {
	MaxBytes int64
	MaxWidth int
}

// imageFormats maps sniffed content types to the extension and the imaging
// format used to re-encode a downscaled copy. Types without an imaging
// format are stored as received.
var imageFormats = map[string]struct {
	ext    string
	format imaging.Format
	ok     bool
}{
	"image/jpeg": {"jpg", imaging.JPEG, true},
	"image/png":  {"png", imaging.PNG, true},
	"image/gif":  {"gif", imaging.GIF, true},
	"image/bmp":  {"bmp", imaging.BMP, true},
	"image/webp": {"webp", 0, false},
}

// UploadService stores images for program logos and announcements.
type UploadService struct {
	store  objectStore
	cfg    UploadConfig
	now    func() time.Time
	logger *zap.Logger
}

// NewUploadService constructs the service.
func NewUploadService(store objectStore, cfg UploadConfig, logger *zap.Logger) *UploadService {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 2 * 1024 * 1024
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadService{store: store, cfg: cfg, now: time.Now, logger: logger}
}

// Upload validates an image, downscales it to the configured maximum width
// and stores it under folder/<unix-millis>-<random>.<ext>.
func (s *UploadService) Upload(ctx context.Context, folder string, declaredSize int64, r io.Reader) (*dto.UploadResponse, error) {
	if declaredSize > s.cfg.MaxBytes {
		return nil, tooLarge(s.cfg.MaxBytes)
	}
	data, err := io.ReadAll(io.LimitReader(r, s.cfg.MaxBytes+1))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to read upload")
	}
	if int64(len(data)) > s.cfg.MaxBytes {
		return nil, tooLarge(s.cfg.MaxBytes)
	}
	if len(data) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "File is required")
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedMedia, "Only image files can be uploaded")
	}
	kind, known := imageFormats[contentType]
	if !known {
		kind.ext = strings.TrimPrefix(contentType, "image/")
	}

	resp := &dto.UploadResponse{}
	if kind.ok {
		img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrUnsupportedMedia.Code, appErrors.ErrUnsupportedMedia.Status, "The file is not a readable image")
		}
		if s.cfg.MaxWidth > 0 && img.Bounds().Dx() > s.cfg.MaxWidth {
			img = imaging.Resize(img, s.cfg.MaxWidth, 0, imaging.Lanczos)
			var buf bytes.Buffer
			if err := imaging.Encode(&buf, img, kind.format, imaging.JPEGQuality(85)); err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resize image")
			}
			data = buf.Bytes()
		}
		resp.Width, resp.Height = dimensions(img)
	}

	key := s.objectKey(folder, kind.ext)
	url, err := s.store.Put(ctx, key, bytes.NewReader(data))
	if err != nil {
		return nil, appErrors.Store(err, "upload image")
	}
	s.logger.Info("image uploaded", zap.String("key", key), zap.Int("bytes", len(data)))

	resp.URL = url
	resp.Key = key
	resp.Bytes = int64(len(data))
	return resp, nil
}

func (s *UploadService) objectKey(folder, ext string) string {
	folder = form.GenerateSlug(folder)
	if folder == "" {
		folder = DefaultUploadFolder
	}
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%s/%d-%s.%s", folder, s.now().UnixMilli(), random, ext)
}

func dimensions(img image.Image) (int, int) {
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func tooLarge(limit int64) error {
	return appErrors.Clone(appErrors.ErrPayloadTooLarge, fmt.Sprintf("Images must be %d MB or smaller", limit/(1024*1024)))
}
