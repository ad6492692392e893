package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lifeflow-backend/internal/domain"
)

func TestBlogService_CreateDraft(t *testing.T) {
	users := &mockUserRepo{}
	users.add(domain.User{Email: "w@x.io", Name: "Writer"})
	svc := NewBlogService(&mockBlogRepo{}, users, zap.NewNop())

	b, err := svc.Create(context.Background(), "w@x.io", BlogInput{Title: " Giving blood ", Content: "<p>hi</p>"})
	require.NoError(t, err)
	assert.Equal(t, "Giving blood", b.Title)
	assert.Equal(t, "Writer", b.AuthorName)
	assert.Equal(t, "w@x.io", b.AuthorEmail)
	assert.Equal(t, domain.BlogDraft, b.Status)
	assert.Nil(t, b.PublishedDate)

	_, err = svc.Create(context.Background(), "w@x.io", BlogInput{})
	assert.Equal(t, domain.KindInvalidInput, domain.KindOf(err))
}

func TestBlogService_PublishTogglesDate(t *testing.T) {
	blogs := &mockBlogRepo{}
	svc := NewBlogService(blogs, &mockUserRepo{}, zap.NewNop())
	fixed := time.Date(2024, 6, 14, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	ctx := context.Background()

	b, err := svc.Create(ctx, "w@x.io", BlogInput{Title: "t", AuthorName: "W"})
	require.NoError(t, err)

	pub, err := svc.SetStatus(ctx, b.ID, domain.BlogPublished)
	require.NoError(t, err)
	require.NotNil(t, pub.PublishedDate)
	assert.True(t, fixed.Equal(*pub.PublishedDate))

	draft, err := svc.SetStatus(ctx, b.ID, domain.BlogDraft)
	require.NoError(t, err)
	assert.Nil(t, draft.PublishedDate)

	_, err = svc.SetStatus(ctx, b.ID, "archived")
	assert.Equal(t, domain.KindInvalidInput, domain.KindOf(err))

	require.NoError(t, svc.Delete(ctx, b.ID))
	assert.True(t, domain.IsNotFound(svc.Delete(ctx, b.ID)))
}
