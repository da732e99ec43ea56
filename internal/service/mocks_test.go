package service

import (
	"context"

	"Gallerist/internal/media"
	"Gallerist/internal/model"
	"Gallerist/internal/repo"

	"github.com/stretchr/testify/mock"
)

// мок для repo.CategoryRepository
type mockCategoryRepo struct{ mock.Mock }

func (m *mockCategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	if v, ok := args.Get(0).([]model.Category); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCategoryRepo) GetByID(ctx context.Context, id string) (*model.Category, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*model.Category); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCategoryRepo) Create(ctx context.Context, c *model.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockCategoryRepo) Update(ctx context.Context, id, name string) (*model.Category, error) {
	args := m.Called(ctx, id, name)
	if v, ok := args.Get(0).(*model.Category); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCategoryRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

var _ repo.CategoryRepository = (*mockCategoryRepo)(nil)

// мок для repo.GalleryRepository
type mockGalleryRepo struct{ mock.Mock }

func (m *mockGalleryRepo) List(ctx context.Context, categoryID string) ([]model.GalleryItem, error) {
	args := m.Called(ctx, categoryID)
	if v, ok := args.Get(0).([]model.GalleryItem); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGalleryRepo) GetByID(ctx context.Context, id string) (*model.GalleryItem, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*model.GalleryItem); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGalleryRepo) Create(ctx context.Context, it *model.GalleryItem) error {
	return m.Called(ctx, it).Error(0)
}

func (m *mockGalleryRepo) Update(ctx context.Context, id string, updates map[string]any) (*model.GalleryItem, error) {
	args := m.Called(ctx, id, updates)
	if v, ok := args.Get(0).(*model.GalleryItem); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGalleryRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockGalleryRepo) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockGalleryRepo) ListImageRefs(ctx context.Context) ([]model.GalleryItem, error) {
	args := m.Called(ctx)
	if v, ok := args.Get(0).([]model.GalleryItem); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repo.GalleryRepository = (*mockGalleryRepo)(nil)

// мок для repo.AdminRepository
type mockAdminRepo struct{ mock.Mock }

func (m *mockAdminRepo) CreateAdmin(ctx context.Context, admin *model.Admin) (*model.Admin, error) {
	args := m.Called(ctx, admin)
	if v, ok := args.Get(0).(*model.Admin); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAdminRepo) GetAdminByID(ctx context.Context, id string) (*model.Admin, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*model.Admin); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAdminRepo) GetAdminByUsername(ctx context.Context, username string) (*model.Admin, error) {
	args := m.Called(ctx, username)
	if v, ok := args.Get(0).(*model.Admin); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAdminRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	args := m.Called(ctx, username, email)
	return args.Bool(0), args.Error(1)
}

var _ repo.AdminRepository = (*mockAdminRepo)(nil)

// мок для media.Store + media.Lister
type mockStore struct{ mock.Mock }

func (m *mockStore) Store(ctx context.Context, f media.File) (media.StoredImage, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(media.StoredImage), args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, handle string) error {
	return m.Called(ctx, handle).Error(0)
}

func (m *mockStore) DeriveHandle(url string) (string, error) {
	args := m.Called(url)
	return args.String(0), args.Error(1)
}

func (m *mockStore) List(ctx context.Context) ([]media.Object, error) {
	args := m.Called(ctx)
	if v, ok := args.Get(0).([]media.Object); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

var (
	_ media.Store  = (*mockStore)(nil)
	_ media.Lister = (*mockStore)(nil)
)

func strp(s string) *string { return &s }
