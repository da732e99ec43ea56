package model

import "time"

// GalleryItem — работа в портфолио. Image указывает на живой объект во внешнем media store.
type GalleryItem struct {
	ID         string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Title      string `gorm:"not null" json:"title"`
	CategoryID string `gorm:"type:varchar(36);not null;index" json:"-"`

	// Связи
	Category *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`

	Image string `gorm:"not null" json:"image"`
	// ImageHandle — идентификатор объекта в media store; пустой у старых записей.
	ImageHandle string `json:"-"`

	Description string `json:"description,omitempty"`
	Medium      string `json:"medium,omitempty"`
	Size        string `json:"size,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// CategoryRef возвращает подгруженную категорию в виде {id, name}.
// Если категория не подгружена, возвращается только id.
func (g *GalleryItem) CategoryRef() CategoryRef {
	if g.Category != nil {
		return CategoryRef{ID: g.Category.ID, Name: g.Category.Name}
	}
	return CategoryRef{ID: g.CategoryID}
}
