package model

import "time"

// Category — рубрика галереи. Имя уникально на уровне БД.
type Category struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// CategoryRef — сокращённое представление категории внутри элемента галереи.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
