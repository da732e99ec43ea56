package repo

import (
	"context"

	"Gallerist/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminRepository определяет контракт доступа к Admin.
type AdminRepository interface {
	// CreateAdmin вставляет администратора; занятый username/email — ErrDuplicate.
	CreateAdmin(ctx context.Context, admin *model.Admin) (*model.Admin, error)
	GetAdminByID(ctx context.Context, id string) (*model.Admin, error)
	GetAdminByUsername(ctx context.Context, username string) (*model.Admin, error)
	// ExistsByUsernameOrEmail — true, если занят хотя бы один из идентификаторов.
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
}

type adminRepo struct {
	db *gorm.DB
}

// NewAdminRepository создаёт реализацию репозитория для Admin.
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepo{db: db}
}

func (r *adminRepo) CreateAdmin(ctx context.Context, admin *model.Admin) (*model.Admin, error) {
	if admin.ID == "" {
		admin.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(admin).Error; err != nil {
		return nil, translate(err)
	}
	return admin, nil
}

func (r *adminRepo) GetAdminByID(ctx context.Context, id string) (*model.Admin, error) {
	var a model.Admin
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *adminRepo) GetAdminByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var a model.Admin
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&a).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *adminRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Admin{}).
		Where("username = ? OR email = ?", username, email).
		Count(&n).Error
	if err != nil {
		return false, translate(err)
	}
	return n > 0, nil
}
