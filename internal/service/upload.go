package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"Gallerist/internal/media"

	"go.uber.org/zap"
)

// MaxUploadFiles — лимит файлов в одном запросе /upload/multiple.
const MaxUploadFiles = 10

// UploadService — прямые операции с media store без записи в галерею.
type UploadService struct {
	media  media.Store
	logger *zap.SugaredLogger
}

func NewUploadService(store media.Store, logger *zap.SugaredLogger) *UploadService {
	return &UploadService{media: store, logger: logger}
}

func (s *UploadService) Single(ctx context.Context, f *media.File) (media.StoredImage, error) {
	if f == nil {
		return media.StoredImage{}, newError(ErrValidation, "No image file provided")
	}
	img, err := s.media.Store(ctx, *f)
	if err != nil {
		return media.StoredImage{}, fmt.Errorf("store image: %w", err)
	}
	s.logger.Infow("image uploaded", "handle", img.Handle, "size", img.Size)
	return img, nil
}

// Multiple сохраняет все файлы или ни одного: при ошибке уже сохранённые удаляются (best-effort).
func (s *UploadService) Multiple(ctx context.Context, files []media.File) ([]media.StoredImage, error) {
	if len(files) == 0 {
		return nil, newError(ErrValidation, "No image files provided")
	}
	if len(files) > MaxUploadFiles {
		return nil, newError(ErrValidation, "Too many files, maximum is %d", MaxUploadFiles)
	}
	out := make([]media.StoredImage, 0, len(files))
	for i, f := range files {
		img, err := s.media.Store(ctx, f)
		if err != nil {
			for _, done := range out {
				if derr := s.media.Delete(context.WithoutCancel(ctx), done.Handle); derr != nil {
					s.logger.Warnw("rollback of uploaded image failed", "handle", done.Handle, "error", derr)
				}
			}
			return nil, fmt.Errorf("store image %d (%s): %w", i+1, f.Name, err)
		}
		out = append(out, img)
	}
	s.logger.Infow("images uploaded", "count", len(out))
	return out, nil
}

// DeleteByURL удаляет изображение по его публичному URL. Ошибка media store возвращается вызывающему.
func (s *UploadService) DeleteByURL(ctx context.Context, imageURL string) error {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return newError(ErrValidation, "Image URL is required")
	}
	handle, err := s.media.DeriveHandle(imageURL)
	if err != nil {
		if errors.Is(err, media.ErrBadURL) {
			return newError(ErrValidation, "Invalid image URL")
		}
		return fmt.Errorf("derive handle: %w", err)
	}
	if err := s.media.Delete(ctx, handle); err != nil {
		return fmt.Errorf("delete image %s: %w", handle, err)
	}
	s.logger.Infow("image deleted", "handle", handle)
	return nil
}
