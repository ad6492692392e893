package domain

import (
	"context"
	"time"
)

const (
	BlogDraft     = "draft"
	BlogPublished = "published"
)

type Blog struct {
	ID            string     `gorm:"primaryKey;size:36" json:"_id"`
	Title         string     `gorm:"size:255;not null" json:"title"`
	Thumbnail     string     `gorm:"size:512" json:"thumbnail"`
	Content       string     `gorm:"type:text" json:"content"`
	AuthorName    string     `gorm:"size:128" json:"authorName"`
	AuthorEmail   string     `gorm:"size:191;index" json:"authorEmail"`
	Status        string     `gorm:"size:16;not null;default:draft;index" json:"status"`
	PublishedDate *time.Time `json:"publishedDate"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (Blog) TableName() string { return "blogs" }

type BlogRepository interface {
	Insert(ctx context.Context, b *Blog) error
	FindByID(ctx context.Context, id string) (*Blog, error)
	List(ctx context.Context, f BlogFilter) ([]Blog, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
}
