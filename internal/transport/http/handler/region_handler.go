package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lifeflow-backend/internal/domain"
	"lifeflow-backend/internal/service"
	"lifeflow-backend/internal/transport/http/ez"
)

type RegionHandler struct {
	regions *service.RegionService
}

func NewRegionHandler(regions *service.RegionService) *RegionHandler {
	return &RegionHandler{regions: regions}
}

func (h *RegionHandler) Mount(g Groups) {
	ez.RegisterAction(g.Public, ez.Action[empty, []domain.District]{
		Method: http.MethodGet, Path: "/districts", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *empty) ([]domain.District, error) {
			return h.regions.Districts(c.Request.Context())
		},
	})
	upazilas := func(c *gin.Context, _ *empty) ([]domain.Upazila, error) {
		return h.regions.Upazilas(c.Request.Context(), c.Param("name"))
	}
	ez.RegisterAction(g.Public, ez.Action[empty, []domain.Upazila]{
		Method: http.MethodGet, Path: "/upazilas", Binder: ez.BindNone, Handler: upazilas,
	})
	ez.RegisterAction(g.Public, ez.Action[empty, []domain.Upazila]{
		Method: http.MethodGet, Path: "/upazilas/:name", Binder: ez.BindNone, Handler: upazilas,
	})
}
