package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Options struct {
	AllowOrigins []string
	// Recovery answers recovered panics; gin's default 500 when nil.
	Recovery gin.RecoveryFunc
}

// NewRouter returns an engine with zap recovery and credentialed CORS for
// the configured browser origins.
func NewRouter(l *zap.Logger, o Options) *gin.Engine {
	r := gin.New()
	if o.Recovery != nil {
		r.Use(ginzap.CustomRecoveryWithZap(l, true, o.Recovery))
	} else {
		r.Use(ginzap.RecoveryWithZap(l, true))
	}
	cc := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(o.AllowOrigins) == 0 {
		cc.AllowOrigins = []string{"http://localhost:5173"}
	} else {
		cc.AllowOrigins = o.AllowOrigins
	}
	r.Use(cors.New(cc))
	return r
}

func BuildServer(addr string, handler http.Handler, rt, wt, it time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       rt,
		ReadHeaderTimeout: rt,
		WriteTimeout:      wt,
		IdleTimeout:       it,
		MaxHeaderBytes:    1 << 20,
	}
}

func Addr(host string, port int) string { return fmt.Sprintf("%s:%d", host, port) }
