package middleware

import (
	"github.com/MIKU-7437/astrawood/internal/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorMonitorMiddleware 将请求中产生的错误记录到错误分析器
func ErrorMonitorMiddleware(analytics *errors.ErrorAnalytics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			for _, e := range c.Errors {
				traced := errors.NewTracedError(e.Err, errors.ErrorContext{
					UserID: c.GetInt("user_id"),
					Path:   c.Request.URL.Path,
					Method: c.Request.Method,
				})
				analytics.Record(traced)

				if appErr, ok := e.Err.(*errors.AppError); ok {
					zap.L().Error("请求处理错误",
						zap.Int("error_code", int(appErr.Code)),
						zap.String("error_message", appErr.Message),
						zap.Error(appErr.Err),
						zap.String("path", c.Request.URL.Path),
						zap.String("method", c.Request.Method))
				}
			}
		}
	}
}
