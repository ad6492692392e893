// Package ez registers JSON actions on gin groups: bind the input, run the
// handler, and answer with the response envelope. Errors are translated to
// HTTP status codes in one place.
package ez

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lifeflow-backend/internal/domain"
	resp "lifeflow-backend/internal/transport/http/response"
)

type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ {
	if l == nil {
		l = zap.NewNop()
	}
	return EZ{g: g, log: l}
}

// Group exposes the underlying group for handlers that write raw bodies.
func (e EZ) Group() *gin.RouterGroup { return e.g }
func (e EZ) Logger() *zap.Logger     { return e.log }

type Binder string

const (
	BindJSON  Binder = "json"
	BindQuery Binder = "query"
	BindNone  Binder = "none" // handler reads c.Param / c.Query itself
)

// Action describes one endpoint; I is the bound input, O the data payload.
type Action[I any, O any] struct {
	Method  string
	Path    string
	Binder  Binder
	Status  int // success status, 200 when zero
	Handler func(c *gin.Context, in *I) (O, error)
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	h := func(c *gin.Context) {
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			// an empty body leaves the zero value for the handler to validate
			if c.Request.ContentLength != 0 {
				bindErr = c.ShouldBindJSON(&in)
			}
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			FailBody(c, e.log, bindErr)
			return
		}
		out, err := a.Handler(c, &in)
		if err != nil {
			Fail(c, e.log, err)
			return
		}
		c.JSON(status, resp.OK(out))
	}
	e.g.Handle(strings.ToUpper(a.Method), a.Path, h)
}

// StatusOf maps an error to the HTTP status it is answered with. Untagged
// deadline errors count as timeouts.
func StatusOf(err error) int {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return http.StatusGatewayTimeout
	}
	switch domain.KindOf(err) {
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindInvalidInput:
		return http.StatusBadRequest
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Fail writes err as an envelope. Server-side failures are logged and their
// causes are never sent to the client.
func Fail(c *gin.Context, l *zap.Logger, err error) {
	status := StatusOf(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		fields := []zap.Field{
			zap.String("path", c.FullPath()),
			zap.String("kind", domain.KindOf(err).String()),
			zap.Error(err),
		}
		if cause := errors.Unwrap(err); cause != nil {
			fields = append(fields, zap.NamedError("cause", cause))
		}
		if status == http.StatusGatewayTimeout {
			l.Warn("request timed out", fields...)
		} else {
			l.Error("request failed", fields...)
		}
		var de *domain.Error
		if !errors.As(err, &de) || de.Msg == "" {
			msg = ""
		} else {
			msg = de.Msg
		}
	}
	c.AbortWithStatusJSON(status, resp.Error(status, msg))
}

// FailBody answers a request whose body could not be read or decoded:
// 413 past the body limit, 400 otherwise.
func FailBody(c *gin.Context, l *zap.Logger, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, resp.Error(resp.CodeTooLarge, ""))
		return
	}
	Fail(c, l, domain.InvalidInput("invalid request body: "+err.Error()))
}
