package middleware

import (
	"fmt"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/yatube/pkg/logger"
	"github.com/d60-Lab/yatube/pkg/response"
)

// Recovery turns panics into the 500 page and reports them.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("panic recovered",
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", GetRequestID(c)),
			zap.Any("panic", recovered),
		)
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.RecoverWithContext(c.Request.Context(), recovered)
		}
		response.ServerError(c)
	})
}

// ReportError logs an unexpected error and forwards it to Sentry when enabled.
func ReportError(c *gin.Context, err error) {
	_ = c.Error(err)
	logger.Error("request failed",
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", GetRequestID(c)),
		zap.Error(err),
	)
	hub := sentrygin.GetHubFromContext(c)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.CaptureException(fmt.Errorf("%s %s: %w", c.Request.Method, c.Request.URL.Path, err))
}
