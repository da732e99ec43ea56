package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"Gallerist/internal/media"
	"Gallerist/internal/model"
	"Gallerist/internal/repo"

	"go.uber.org/zap"
)

// ItemInput — поля создания/обновления элемента галереи.
// nil означает «поле не передано»; при обновлении такие поля не меняются.
type ItemInput struct {
	Title       *string
	CategoryID  *string
	Image       *string // URL уже загруженного изображения
	ImageHandle *string
	Description *string
	Medium      *string
	Size        *string
	// File — новый файл изображения; имеет приоритет над Image.
	File *media.File
}

// GalleryService управляет жизненным циклом элемента галереи вместе с его изображением.
//
// Порядок операций: изображение сохраняется до записи в БД, а старое изображение
// удаляется только после успешной записи и без отката при ошибке удаления.
// Запись никогда не указывает на несохранённое изображение; осиротевшие объекты
// в media store допустимы и убираются ReconcileService.
type GalleryService struct {
	items      repo.GalleryRepository
	categories repo.CategoryRepository
	media      media.Store
	logger     *zap.SugaredLogger
}

func NewGalleryService(items repo.GalleryRepository, categories repo.CategoryRepository, store media.Store, logger *zap.SugaredLogger) *GalleryService {
	return &GalleryService{items: items, categories: categories, media: store, logger: logger}
}

// List возвращает элементы (новые первыми), опционально только одной категории.
func (s *GalleryService) List(ctx context.Context, categoryID string) ([]model.GalleryItem, error) {
	return s.items.List(ctx, strings.TrimSpace(categoryID))
}

func (s *GalleryService) Get(ctx context.Context, id string) (*model.GalleryItem, error) {
	it, err := s.items.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, newError(ErrNotFound, "Gallery item not found")
	}
	return it, err
}

// Create сохраняет изображение (если передан файл) и только затем создаёт запись.
func (s *GalleryService) Create(ctx context.Context, in ItemInput) (*model.GalleryItem, error) {
	title := strings.TrimSpace(deref(in.Title))
	categoryID := strings.TrimSpace(deref(in.CategoryID))
	imageURL := strings.TrimSpace(deref(in.Image))
	if title == "" || categoryID == "" || (in.File == nil && imageURL == "") {
		return nil, newError(ErrValidation, "Title, category, and image are required")
	}
	if err := s.ensureCategory(ctx, categoryID); err != nil {
		return nil, err
	}

	it := &model.GalleryItem{
		Title:       title,
		CategoryID:  categoryID,
		Description: deref(in.Description),
		Medium:      deref(in.Medium),
		Size:        deref(in.Size),
	}

	var storedNow bool
	if in.File != nil {
		img, err := s.media.Store(ctx, *in.File)
		if err != nil {
			return nil, fmt.Errorf("store image: %w", err)
		}
		it.Image, it.ImageHandle, storedNow = img.URL, img.Handle, true
	} else {
		it.Image = imageURL
		it.ImageHandle = s.resolveHandle(imageURL, in.ImageHandle)
	}

	if err := s.items.Create(ctx, it); err != nil {
		if storedNow {
			s.discard(ctx, "", it.ImageHandle)
		}
		if errors.Is(err, repo.ErrCategoryMissing) {
			return nil, newError(ErrValidation, "Category not found")
		}
		return nil, fmt.Errorf("create gallery item: %w", err)
	}
	s.logger.Infow("gallery item created", "item_id", it.ID, "category_id", it.CategoryID, "handle", it.ImageHandle)
	return it, nil
}

// Update применяет переданные поля. Новое изображение сохраняется до изменения записи;
// старое удаляется после, ошибка удаления только логируется.
func (s *GalleryService) Update(ctx context.Context, id string, in ItemInput) (*model.GalleryItem, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, newError(ErrValidation, "Title cannot be empty")
		}
		updates["title"] = title
	}
	if in.CategoryID != nil {
		categoryID := strings.TrimSpace(*in.CategoryID)
		if categoryID == "" {
			return nil, newError(ErrValidation, "Category cannot be empty")
		}
		if categoryID != existing.CategoryID {
			if err := s.ensureCategory(ctx, categoryID); err != nil {
				return nil, err
			}
			updates["category_id"] = categoryID
		}
	}
	for col, v := range map[string]*string{"description": in.Description, "medium": in.Medium, "size": in.Size} {
		if v != nil {
			updates[col] = *v
		}
	}

	var (
		newHandle  string
		storedNow  bool
		imageMoved bool
	)
	switch {
	case in.File != nil:
		img, err := s.media.Store(ctx, *in.File)
		if err != nil {
			// запись и её текущее изображение остаются нетронутыми
			return nil, fmt.Errorf("store image: %w", err)
		}
		updates["image"], newHandle, storedNow, imageMoved = img.URL, img.Handle, true, true
	case in.Image != nil && strings.TrimSpace(*in.Image) != "" && strings.TrimSpace(*in.Image) != existing.Image:
		url := strings.TrimSpace(*in.Image)
		updates["image"], newHandle, imageMoved = url, s.resolveHandle(url, in.ImageHandle), true
	}
	var (
		oldHandle string
		replaced  bool
	)
	if imageMoved {
		updates["image_handle"] = newHandle
		// другой URL (версия, трансформация) может указывать на тот же объект
		oldHandle = s.handleOf(existing)
		replaced = oldHandle != newHandle
	}

	if len(updates) == 0 {
		return existing, nil
	}

	updated, err := s.items.Update(ctx, id, updates)
	if err != nil {
		if storedNow {
			s.discard(ctx, id, newHandle)
		}
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return nil, newError(ErrNotFound, "Gallery item not found")
		case errors.Is(err, repo.ErrCategoryMissing):
			return nil, newError(ErrValidation, "Category not found")
		}
		return nil, fmt.Errorf("update gallery item: %w", err)
	}

	if replaced {
		s.release(ctx, id, oldHandle)
	}
	s.logger.Infow("gallery item updated", "item_id", id, "image_replaced", replaced)
	return updated, nil
}

// Delete удаляет запись, затем пытается удалить её изображение.
// Запись удаляется первой, чтобы неудачное удаление записи не оставило её без изображения.
// Ошибка удаления изображения не влияет на результат.
func (s *GalleryService) Delete(ctx context.Context, id string) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.items.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return newError(ErrNotFound, "Gallery item not found")
		}
		return fmt.Errorf("delete gallery item: %w", err)
	}
	s.release(ctx, id, s.handleOf(existing))
	s.logger.Infow("gallery item deleted", "item_id", id)
	return nil
}

func (s *GalleryService) ensureCategory(ctx context.Context, id string) error {
	_, err := s.categories.GetByID(ctx, id)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return newError(ErrValidation, "Category not found")
	case err != nil:
		return fmt.Errorf("load category: %w", err)
	}
	return nil
}

// resolveHandle предпочитает явно переданный handle, иначе выводит его из URL.
func (s *GalleryService) resolveHandle(url string, explicit *string) string {
	if h := strings.TrimSpace(deref(explicit)); h != "" {
		return h
	}
	h, err := s.media.DeriveHandle(url)
	if err != nil {
		s.logger.Warnw("cannot derive image handle", "url", url, "error", err)
		return ""
	}
	return h
}

// handleOf возвращает handle изображения записи; для старых записей без handle — выводит из URL.
func (s *GalleryService) handleOf(it *model.GalleryItem) string {
	if it.ImageHandle != "" {
		return it.ImageHandle
	}
	return s.resolveHandle(it.Image, nil)
}

// release удаляет изображение, которое запись itemID больше не использует,
// если на тот же объект не ссылается ни одна другая запись.
func (s *GalleryService) release(ctx context.Context, itemID, handle string) {
	if handle == "" {
		return
	}
	shared, err := s.referenced(context.WithoutCancel(ctx), handle)
	if err != nil {
		s.logger.Warnw("image kept: cannot check other references", "item_id", itemID, "handle", handle, "error", err)
		return
	}
	if shared {
		s.logger.Infow("image kept: still referenced", "item_id", itemID, "handle", handle)
		return
	}
	s.discard(ctx, itemID, handle)
}

// referenced сообщает, ссылается ли какая-либо запись на объект handle.
// Вызывается после изменения записи, поэтому сама запись уже не учитывается.
func (s *GalleryService) referenced(ctx context.Context, handle string) (bool, error) {
	refs, err := s.items.ListImageRefs(ctx)
	if err != nil {
		return false, fmt.Errorf("list image refs: %w", err)
	}
	for _, it := range refs {
		h := it.ImageHandle
		if h == "" {
			if h, err = s.media.DeriveHandle(it.Image); err != nil {
				continue
			}
		}
		if h == handle {
			return true, nil
		}
	}
	return false, nil
}

// discard — best-effort удаление изображения. Ошибка логируется и не возвращается.
func (s *GalleryService) discard(ctx context.Context, itemID, handle string) {
	if handle == "" {
		return
	}
	// запрос мог быть отменён клиентом, а запись уже изменена
	if err := s.media.Delete(context.WithoutCancel(ctx), handle); err != nil {
		s.logger.Warnw("best-effort image delete failed", "item_id", itemID, "handle", handle, "error", err)
		return
	}
	s.logger.Infow("image deleted", "item_id", itemID, "handle", handle)
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
