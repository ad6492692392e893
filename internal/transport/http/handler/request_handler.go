package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"lifeflow-backend/internal/domain"
	"lifeflow-backend/internal/service"
	"lifeflow-backend/internal/transport/http/ez"
	mdw "lifeflow-backend/internal/transport/http/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type RequestHandler struct {
	requests *service.RequestService
	export   *service.ExportService
}

func NewRequestHandler(requests *service.RequestService, export *service.ExportService) *RequestHandler {
	return &RequestHandler{requests: requests, export: export}
}

type countOut struct {
	Count int64 `json:"count"`
}

func (h *RequestHandler) Mount(g Groups) {
	ez.RegisterAction(g.Public, ez.Action[empty, []domain.BloodRequest]{
		Method: http.MethodGet, Path: "/requests", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *empty) ([]domain.BloodRequest, error) {
			return h.requests.All(c.Request.Context())
		},
	})
	ez.RegisterAction(g.Public, ez.Action[empty, *domain.BloodRequest]{
		Method: http.MethodGet, Path: "/request/:id", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *empty) (*domain.BloodRequest, error) {
			return h.requests.Get(c.Request.Context(), c.Param("id"))
		},
	})
	ez.RegisterAction(g.Public, ez.Action[empty, countOut]{
		Method: http.MethodGet, Path: "/requestsCount", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *empty) (countOut, error) {
			n, err := h.requests.Count(c.Request.Context())
			return countOut{Count: n}, err
		},
	})

	// :email is kept for client compatibility; the session decides whose
	// requests are listed.
	ez.RegisterAction(g.Session, ez.Action[empty, []domain.BloodRequest]{
		Method: http.MethodGet, Path: "/requests/:email", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *empty) ([]domain.BloodRequest, error) {
			return h.requests.ListFor(c.Request.Context(), mdw.CallerEmail(c), c.Query("page"))
		},
	})
	ez.RegisterAction(g.Session, ez.Action[empty, []domain.BloodRequest]{
		Method: http.MethodGet, Path: "/pendingRequests", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *empty) ([]domain.BloodRequest, error) {
			return h.requests.ByStatus(c.Request.Context(), c.Query("status"))
		},
	})
	ez.RegisterAction(g.Session, ez.Action[service.RequestInput, *domain.BloodRequest]{
		Method: http.MethodPost, Path: "/requests", Binder: ez.BindJSON, Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.RequestInput) (*domain.BloodRequest, error) {
			return h.requests.Create(c.Request.Context(), mdw.CallerEmail(c), *in)
		},
	})
	ez.RegisterAction(g.Session, ez.Action[service.RequestInput, *domain.BloodRequest]{
		Method: http.MethodPatch, Path: "/requests/:id", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.RequestInput) (*domain.BloodRequest, error) {
			return h.requests.Update(c.Request.Context(), mdw.CallerEmail(c), c.Param("id"), *in)
		},
	})
	ez.RegisterAction(g.Session, ez.Action[service.StatusChange, *domain.BloodRequest]{
		Method: http.MethodPatch, Path: "/requestStatusChange/:id", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.StatusChange) (*domain.BloodRequest, error) {
			return h.requests.ChangeStatus(c.Request.Context(), mdw.CallerEmail(c), c.Param("id"), *in)
		},
	})
	ez.RegisterAction(g.Session, ez.Action[empty, okOut]{
		Method: http.MethodDelete, Path: "/requests/:id", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *empty) (okOut, error) {
			if err := h.requests.Delete(c.Request.Context(), mdw.CallerEmail(c), c.Param("id")); err != nil {
				return okOut{}, err
			}
			return okOut{Success: true}, nil
		},
	})

	g.Staff.Group().GET("/requests-export", h.exportXLSX(g.Staff))
}

func (h *RequestHandler) exportXLSX(e ez.EZ) gin.HandlerFunc {
	return func(c *gin.Context) {
		buf, name, err := h.export.RequestsXLSX(c.Request.Context())
		if err != nil {
			ez.Fail(c, e.Logger(), err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
		c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
	}
}
