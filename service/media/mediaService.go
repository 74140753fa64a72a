package mediasvc

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	storagerepo "campuscloset/repository/storage"
	"campuscloset/util/apperr"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
)

// MaxWidth is the widest image we store; wider JPEG/PNG uploads are scaled down.
const MaxWidth = 800

type Service interface {
	// Upload stores one image and returns its public URL and object key.
	Upload(ctx context.Context, data []byte, originalName, mimeType string) (url, key string, err error)
}

type service struct {
	store storagerepo.Repo
	log   *slog.Logger
	now   func() time.Time
}

func New(store storagerepo.Repo, log *slog.Logger) Service {
	if log == nil {
		log = slog.Default()
	}
	return &service{store: store, log: log, now: time.Now}
}

func (s *service) Upload(ctx context.Context, data []byte, originalName, mimeType string) (string, string, error) {
	if len(data) == 0 {
		return "", "", apperr.New(apperr.ErrValidation, "Image file is empty")
	}
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if !strings.HasPrefix(mimeType, "image/") {
		return "", "", apperr.New(apperr.ErrValidation, "Only image uploads are allowed")
	}

	body, err := downscale(data, mimeType)
	if err != nil {
		// undecodable but image-typed payloads are stored as sent
		s.log.Warn("image downscale skipped", "err", err, "mime", mimeType)
		body = data
	}

	key := ObjectKey(s.now(), uuid.NewString(), originalName)
	url, err := s.store.Put(ctx, key, body, mimeType)
	if err != nil {
		return "", "", apperr.Wrap(apperr.ErrStorage, "Error uploading image", err)
	}
	return url, key, nil
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ObjectKey builds <unix-millis>_<uuid>_<sanitized name>.
func ObjectKey(at time.Time, id, originalName string) string {
	name := filepath.Base(strings.ReplaceAll(originalName, `\`, "/"))
	name = strings.Trim(unsafeName.ReplaceAllString(name, "_"), "._")
	if name == "" {
		name = "image"
	}
	if len(name) > 100 {
		name = name[len(name)-100:]
	}
	return fmt.Sprintf("%d_%s_%s", at.UnixMilli(), id, name)
}

func downscale(data []byte, mimeType string) ([]byte, error) {
	var decode func([]byte) (image.Image, error)
	var encode func(*bytes.Buffer, image.Image) error

	switch mimeType {
	case "image/jpeg", "image/jpg":
		decode = func(b []byte) (image.Image, error) { return jpeg.Decode(bytes.NewReader(b)) }
		encode = func(w *bytes.Buffer, m image.Image) error { return jpeg.Encode(w, m, &jpeg.Options{Quality: 85}) }
	case "image/png":
		decode = func(b []byte) (image.Image, error) { return png.Decode(bytes.NewReader(b)) }
		encode = func(w *bytes.Buffer, m image.Image) error { return png.Encode(w, m) }
	default:
		return data, nil
	}

	img, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", mimeType, err)
	}
	if img.Bounds().Dx() <= MaxWidth {
		return data, nil
	}

	// height 0 keeps the aspect ratio
	small := resize.Resize(MaxWidth, 0, img, resize.Lanczos3)
	var buf bytes.Buffer
	if err := encode(&buf, small); err != nil {
		return nil, fmt.Errorf("encode %s: %w", mimeType, err)
	}
	return buf.Bytes(), nil
}
