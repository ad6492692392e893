package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"lifeflow-backend/internal/domain"
	"lifeflow-backend/internal/service"
	"lifeflow-backend/internal/transport/http/ez"
	resp "lifeflow-backend/internal/transport/http/response"
)

const signatureHeader = "Stripe-Signature"

type PaymentHandler struct {
	payments *service.PaymentService
	stats    *service.StatsService
}

func NewPaymentHandler(payments *service.PaymentService, stats *service.StatsService) *PaymentHandler {
	return &PaymentHandler{payments: payments, stats: stats}
}

type intentIn struct {
	Price float64 `json:"price"`
}

type intentOut struct {
	ClientSecret string `json:"clientSecret"`
}

type confirmOut struct {
	Created bool            `json:"created"`
	Payment *domain.Payment `json:"payment"`
}

func (h *PaymentHandler) Mount(g Groups) {
	ez.RegisterAction(g.Public, ez.Action[intentIn, intentOut]{
		Method: http.MethodPost, Path: "/create-payment-intent", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *intentIn) (intentOut, error) {
			secret, err := h.payments.CreateIntent(c.Request.Context(), in.Price)
			return intentOut{ClientSecret: secret}, err
		},
	})
	ez.RegisterAction(g.Public, ez.Action[empty, []domain.Payment]{
		Method: http.MethodGet, Path: "/payments", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *empty) ([]domain.Payment, error) {
			return h.payments.List(c.Request.Context())
		},
	})
	ez.RegisterAction(g.Public, ez.Action[service.Confirmation, confirmOut]{
		Method: http.MethodPost, Path: "/payments", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.Confirmation) (confirmOut, error) {
			p, created, err := h.payments.Confirm(c.Request.Context(), *in)
			return confirmOut{Created: created, Payment: p}, err
		},
	})
	g.Public.Group().POST("/payments/webhook", h.webhook(g.Public))

	ez.RegisterAction(g.Session, ez.Action[empty, *domain.Stats]{
		Method: http.MethodGet, Path: "/allStats", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *empty) (*domain.Stats, error) {
			return h.stats.Compute(c.Request.Context())
		},
	})
}

// webhook needs the raw body for signature verification.
func (h *PaymentHandler) webhook(e ez.EZ) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := io.ReadAll(c.Request.Body)
		if err != nil {
			ez.FailBody(c, e.Logger(), err)
			return
		}
		if err := h.payments.HandleWebhook(c.Request.Context(), payload, c.GetHeader(signatureHeader)); err != nil {
			ez.Fail(c, e.Logger(), err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(gin.H{"received": true}))
	}
}
