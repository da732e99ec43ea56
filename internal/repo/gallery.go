package repo

import (
	"context"
	"errors"

	"Gallerist/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GalleryRepository определяет контракт доступа к GalleryItem.
// Все методы чтения возвращают элементы с подгруженной категорией.
type GalleryRepository interface {
	// List возвращает элементы по убыванию created_at, при равенстве по убыванию id; пустой categoryID — без фильтра.
	List(ctx context.Context, categoryID string) ([]model.GalleryItem, error)
	GetByID(ctx context.Context, id string) (*model.GalleryItem, error)
	// Create проверяет существование категории (ErrCategoryMissing) и вставляет запись.
	Create(ctx context.Context, it *model.GalleryItem) error
	// Update применяет updates (ключи — имена колонок) к существующей записи.
	Update(ctx context.Context, id string, updates map[string]any) (*model.GalleryItem, error)
	Delete(ctx context.Context, id string) error
	// CountByCategory — число элементов, ссылающихся на категорию.
	CountByCategory(ctx context.Context, categoryID string) (int64, error)
	// ListImageRefs возвращает только id/image/image_handle всех элементов.
	ListImageRefs(ctx context.Context) ([]model.GalleryItem, error)
}

type galleryRepo struct {
	db *gorm.DB
}

// NewGalleryRepository создаёт реализацию репозитория для GalleryItem.
func NewGalleryRepository(db *gorm.DB) GalleryRepository {
	return &galleryRepo{db: db}
}

func (r *galleryRepo) List(ctx context.Context, categoryID string) ([]model.GalleryItem, error) {
	q := r.db.WithContext(ctx).Preload("Category").Order("created_at DESC").Order("id DESC")
	if categoryID != "" {
		q = q.Where("category_id = ?", categoryID)
	}
	var out []model.GalleryItem
	if err := q.Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (r *galleryRepo) GetByID(ctx context.Context, id string) (*model.GalleryItem, error) {
	return r.getByID(r.db.WithContext(ctx), id)
}

func (r *galleryRepo) getByID(db *gorm.DB, id string) (*model.GalleryItem, error) {
	var it model.GalleryItem
	if err := db.Preload("Category").Where("id = ?", id).First(&it).Error; err != nil {
		return nil, translate(err)
	}
	return &it, nil
}

func (r *galleryRepo) Create(ctx context.Context, it *model.GalleryItem) error {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureCategory(tx, it.CategoryID); err != nil {
			return err
		}
		// Category не должна вставляться ассоциацией
		if err := tx.Omit("Category").Create(it).Error; err != nil {
			return err
		}
		loaded, err := r.getByID(tx, it.ID)
		if err != nil {
			return err
		}
		*it = *loaded
		return nil
	})
	return r.mapWriteErr(err)
}

func (r *galleryRepo) Update(ctx context.Context, id string, updates map[string]any) (*model.GalleryItem, error) {
	var out *model.GalleryItem
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur model.GalleryItem
		if err := tx.Where("id = ?", id).First(&cur).Error; err != nil {
			return err
		}
		if catID, ok := updates["category_id"].(string); ok {
			if err := ensureCategory(tx, catID); err != nil {
				return err
			}
		}
		if len(updates) > 0 {
			if err := tx.Model(&cur).Omit("Category").Updates(updates).Error; err != nil {
				return err
			}
		}
		loaded, err := r.getByID(tx, id)
		if err != nil {
			return err
		}
		out = loaded
		return nil
	})
	if err != nil {
		return nil, r.mapWriteErr(err)
	}
	return out, nil
}

func (r *galleryRepo) Delete(ctx context.Context, id string) error {
	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.GalleryItem{})
	if tx.Error != nil {
		return translate(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *galleryRepo) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.GalleryItem{}).Where("category_id = ?", categoryID).Count(&n).Error
	return n, translate(err)
}

func (r *galleryRepo) ListImageRefs(ctx context.Context) ([]model.GalleryItem, error) {
	var out []model.GalleryItem
	if err := r.db.WithContext(ctx).Select("id", "image", "image_handle").Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (r *galleryRepo) mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrCategoryMissing) || isForeignKeyViolation(err) {
		return ErrCategoryMissing
	}
	return translate(err)
}

func ensureCategory(tx *gorm.DB, categoryID string) error {
	if categoryID == "" {
		return ErrCategoryMissing
	}
	var n int64
	if err := tx.Model(&model.Category{}).Where("id = ?", categoryID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrCategoryMissing
	}
	return nil
}
