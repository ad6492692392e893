package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"lifeflow-backend/internal/domain"
)

type BlogInput struct {
	Title      string `json:"title"`
	Thumbnail  string `json:"thumbnail"`
	Content    string `json:"content"`
	AuthorName string `json:"authorName"`
}

type BlogService struct {
	blogs domain.BlogRepository
	users domain.UserRepository
	log   *zap.Logger
	now   func() time.Time
}

func NewBlogService(blogs domain.BlogRepository, users domain.UserRepository, l *zap.Logger) *BlogService {
	return &BlogService{blogs: blogs, users: users, log: l, now: time.Now}
}

func (s *BlogService) List(ctx context.Context, f domain.BlogFilter) ([]domain.Blog, error) {
	return s.blogs.List(ctx, f)
}

// Create stores a draft authored by the caller.
func (s *BlogService) Create(ctx context.Context, caller string, in BlogInput) (*domain.Blog, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.InvalidInput("title is required")
	}
	author := strings.TrimSpace(in.AuthorName)
	if author == "" {
		u, err := actor(ctx, s.users, caller)
		if err != nil {
			return nil, err
		}
		author = u.Name
	}
	b := &domain.Blog{
		Title:       title,
		Thumbnail:   in.Thumbnail,
		Content:     in.Content,
		AuthorName:  author,
		AuthorEmail: caller,
		Status:      domain.BlogDraft,
	}
	if err := s.blogs.Insert(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// SetStatus publishes or unpublishes a post. The published date is stamped
// on publish and cleared otherwise.
func (s *BlogService) SetStatus(ctx context.Context, rawID, status string) (*domain.Blog, error) {
	id, err := domain.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{"status": status}
	switch status {
	case domain.BlogPublished:
		fields["published_date"] = s.now().UTC()
	case domain.BlogDraft:
		fields["published_date"] = nil
	default:
		return nil, domain.InvalidInput("invalid status")
	}
	if err := s.blogs.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.blogs.FindByID(ctx, id)
}

func (s *BlogService) Delete(ctx context.Context, rawID string) error {
	id, err := domain.ParseID(rawID)
	if err != nil {
		return err
	}
	return s.blogs.Delete(ctx, id)
}
