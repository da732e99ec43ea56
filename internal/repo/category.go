package repo

import (
	"context"

	"Gallerist/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryRepository определяет контракт доступа к Category.
type CategoryRepository interface {
	// List возвращает все категории, отсортированные по имени.
	List(ctx context.Context) ([]model.Category, error)
	GetByID(ctx context.Context, id string) (*model.Category, error)
	// Create вставляет категорию. Дубликат имени — ErrDuplicate (уникальный индекс, без check-then-write).
	Create(ctx context.Context, c *model.Category) error
	Update(ctx context.Context, id, name string) (*model.Category, error)
	// Delete удаляет категорию. Если на неё ссылаются элементы галереи — ErrCategoryInUse.
	Delete(ctx context.Context, id string) error
}

type categoryRepo struct {
	db *gorm.DB
}

// NewCategoryRepository создаёт реализацию репозитория для Category.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) List(ctx context.Context) ([]model.Category, error) {
	var out []model.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (r *categoryRepo) GetByID(ctx context.Context, id string) (*model.Category, error) {
	var c model.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *categoryRepo) Create(ctx context.Context, c *model.Category) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *categoryRepo) Update(ctx context.Context, id, name string) (*model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&c).Error; err != nil {
			return err
		}
		if err := tx.Model(&c).Update("name", name).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&c).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *categoryRepo) Delete(ctx context.Context, id string) error {
	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Category{})
	if tx.Error != nil {
		if isForeignKeyViolation(tx.Error) {
			return ErrCategoryInUse
		}
		return translate(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
