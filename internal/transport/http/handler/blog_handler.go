package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lifeflow-backend/internal/domain"
	"lifeflow-backend/internal/feature/filter"
	"lifeflow-backend/internal/service"
	"lifeflow-backend/internal/transport/http/ez"
	mdw "lifeflow-backend/internal/transport/http/middleware"
)

type BlogHandler struct {
	blogs *service.BlogService
}

func NewBlogHandler(blogs *service.BlogService) *BlogHandler {
	return &BlogHandler{blogs: blogs}
}

type blogStatusIn struct {
	Status string `json:"status" binding:"required"`
}

func (h *BlogHandler) Mount(g Groups) {
	ez.RegisterAction(g.Session, ez.Action[empty, []domain.Blog]{
		Method: http.MethodGet, Path: "/blogs", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *empty) ([]domain.Blog, error) {
			return h.blogs.List(c.Request.Context(), filter.Blogs(c.Request.URL.Query()))
		},
	})
	ez.RegisterAction(g.Session, ez.Action[service.BlogInput, *domain.Blog]{
		Method: http.MethodPost, Path: "/blogs", Binder: ez.BindJSON, Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.BlogInput) (*domain.Blog, error) {
			return h.blogs.Create(c.Request.Context(), mdw.CallerEmail(c), *in)
		},
	})
	ez.RegisterAction(g.Admin, ez.Action[blogStatusIn, *domain.Blog]{
		Method: http.MethodPatch, Path: "/blogs/:id", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *blogStatusIn) (*domain.Blog, error) {
			return h.blogs.SetStatus(c.Request.Context(), c.Param("id"), in.Status)
		},
	})
	ez.RegisterAction(g.Admin, ez.Action[empty, okOut]{
		Method: http.MethodDelete, Path: "/blogs/:id", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *empty) (okOut, error) {
			if err := h.blogs.Delete(c.Request.Context(), c.Param("id")); err != nil {
				return okOut{}, err
			}
			return okOut{Success: true}, nil
		},
	})
}
