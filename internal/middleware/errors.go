package middleware

import (
	"log"
	"net/http"

	"hrms/internal/apperror"
	"hrms/pkg/response"

	"github.com/gin-gonic/gin"
)

// ErrorHandler funnels every error a handler records via c.Error into one
// place. Operational errors (apperror.AppError) render their message
// verbatim; anything else is logged with request context and rendered as a
// generic 500 outside of debug mode.
func ErrorHandler(debug bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		if appErr := apperror.From(err); appErr != nil {
			if appErr.Status >= http.StatusInternalServerError {
				log.Printf("internal error: %s %s from %s: %v", c.Request.Method, c.Request.URL.Path, c.ClientIP(), err)
			}
			c.JSON(appErr.Status, response.Error(appErr.Status, appErr.Message))
			return
		}

		log.Printf("unhandled error: %s %s from %s: %v", c.Request.Method, c.Request.URL.Path, c.ClientIP(), err)
		message := "Internal server error"
		if debug {
			message = err.Error()
		}
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, message))
	}
}
