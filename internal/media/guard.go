package media

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
)

// AllowedFormats are the image formats accepted for upload.
var AllowedFormats = []string{"jpg", "jpeg", "png", "webp", "gif"}

// Guard validates uploads before they reach the host.
type Guard struct {
	next     Store
	maxBytes int64
}

// NewGuard wraps next with size and content-type checks.
func NewGuard(next Store, maxBytes int64) *Guard {
	return &Guard{next: next, maxBytes: maxBytes}
}

// MaxBytes returns the configured size limit.
func (g *Guard) MaxBytes() int64 { return g.maxBytes }

func (g *Guard) Store(ctx context.Context, f File) (StoredImage, error) {
	if len(f.Data) == 0 {
		return StoredImage{}, fmt.Errorf("%w: empty file", ErrUpload)
	}
	if g.maxBytes > 0 && int64(len(f.Data)) > g.maxBytes {
		return StoredImage{}, fmt.Errorf("%w: file is %s, limit is %s", ErrUpload,
			humanize.IBytes(uint64(len(f.Data))), humanize.IBytes(uint64(g.maxBytes)))
	}
	// заявленный тип клиента не проверяем на совпадение, но он обязан быть image/*
	if f.ContentType != "" && !strings.HasPrefix(strings.ToLower(f.ContentType), "image/") {
		return StoredImage{}, fmt.Errorf("%w: only image files are allowed (got %s)", ErrUpload, f.ContentType)
	}
	detected := mimetype.Detect(f.Data)
	if !isAllowed(detected) {
		return StoredImage{}, fmt.Errorf("%w: unsupported image format %s", ErrUpload, detected.String())
	}
	f.ContentType = detected.String()
	return g.next.Store(ctx, f)
}

func (g *Guard) Delete(ctx context.Context, handle string) error {
	if strings.TrimSpace(handle) == "" {
		return fmt.Errorf("%w: empty handle", ErrDelete)
	}
	return g.next.Delete(ctx, handle)
}

func (g *Guard) DeriveHandle(url string) (string, error) {
	return g.next.DeriveHandle(url)
}

func (g *Guard) List(ctx context.Context) ([]Object, error) {
	l, ok := g.next.(Lister)
	if !ok {
		return nil, ErrListUnsupported
	}
	return l.List(ctx)
}

func isAllowed(m *mimetype.MIME) bool {
	ext := strings.TrimPrefix(m.Extension(), ".")
	for _, f := range AllowedFormats {
		if ext == f {
			return true
		}
	}
	return false
}
