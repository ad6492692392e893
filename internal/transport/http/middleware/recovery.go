package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PanicResponse answers a recovered panic with the 500 envelope. It is the
// gin.RecoveryFunc handed to ginzap's recovery.
func PanicResponse(c *gin.Context, _ any) {
	abort(c, http.StatusInternalServerError, "internal error")
}
