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

type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type registerOut struct {
	Created bool         `json:"created"`
	User    *domain.User `json:"user"`
}

type roleIn struct {
	Role string `json:"role" binding:"required"`
}

func (h *UserHandler) Mount(g Groups) {
	ez.RegisterAction(g.Admin, ez.Action[empty, []domain.User]{
		Method: http.MethodGet, Path: "/users", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *empty) ([]domain.User, error) {
			return h.users.List(c.Request.Context(), filter.Users(c.Request.URL.Query()))
		},
	})
	ez.RegisterAction(g.Session, ez.Action[empty, *domain.User]{
		Method: http.MethodGet, Path: "/users/:email", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *empty) (*domain.User, error) {
			return h.users.Get(c.Request.Context(), c.Param("email"))
		},
	})
	ez.RegisterAction(g.Session, ez.Action[empty, *service.UserStatus]{
		Method: http.MethodGet, Path: "/userStatus/:email", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *empty) (*service.UserStatus, error) {
			return h.users.Status(c.Request.Context(), c.Param("email"))
		},
	})
	ez.RegisterAction(g.Session, ez.Action[empty, []domain.User]{
		Method: http.MethodGet, Path: "/searchUser", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *empty) ([]domain.User, error) {
			return h.users.Search(c.Request.Context(), filter.UserSearch(c.Request.URL.Query()))
		},
	})
	ez.RegisterAction(g.Session, ez.Action[service.Profile, registerOut]{
		Method: http.MethodPut, Path: "/users/:email", Binder: ez.BindJSON, Handler: h.register,
	})
	ez.RegisterAction(g.Session, ez.Action[service.Profile, *domain.User]{
		Method: http.MethodPatch, Path: "/users/:email", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.Profile) (*domain.User, error) {
			return h.users.UpdateProfile(c.Request.Context(), mdw.CallerEmail(c), c.Param("email"), *in)
		},
	})
	ez.RegisterAction(g.Admin, ez.Action[empty, okOut]{
		Method: http.MethodPatch, Path: "/blockUser/:id", Binder: ez.BindNone, Handler: h.setStatus(domain.StatusBlocked),
	})
	ez.RegisterAction(g.Admin, ez.Action[empty, okOut]{
		Method: http.MethodPatch, Path: "/activeUser/:id", Binder: ez.BindNone, Handler: h.setStatus(domain.StatusActive),
	})
	ez.RegisterAction(g.Admin, ez.Action[roleIn, okOut]{
		Method: http.MethodPatch, Path: "/changeRole/:id", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *roleIn) (okOut, error) {
			if err := h.users.SetRole(c.Request.Context(), c.Param("id"), in.Role); err != nil {
				return okOut{}, err
			}
			return okOut{Success: true}, nil
		},
	})
}

// register is the upsert-on-login: the body may be empty on repeat logins.
func (h *UserHandler) register(c *gin.Context, in *service.Profile) (registerOut, error) {
	u, created, err := h.users.Register(c.Request.Context(), mdw.CallerEmail(c), c.Param("email"), *in)
	if err != nil {
		return registerOut{}, err
	}
	return registerOut{Created: created, User: u}, nil
}

func (h *UserHandler) setStatus(status string) func(*gin.Context, *empty) (okOut, error) {
	return func(c *gin.Context, _ *empty) (okOut, error) {
		if err := h.users.SetStatus(c.Request.Context(), c.Param("id"), status); err != nil {
			return okOut{}, err
		}
		return okOut{Success: true}, nil
	}
}
