package middleware

import (
	"github.com/MIKU-7437/astrawood/internal/errors"
	"github.com/MIKU-7437/astrawood/internal/service"
	"github.com/MIKU-7437/astrawood/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StaffMiddleware 确保只有后台人员可以访问某些路由
func StaffMiddleware(userService service.UserServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "需要认证"))
			c.Abort()
			return
		}

		isStaff, err := userService.IsStaff(userID.(int))
		if err != nil || !isStaff {
			util.Logger.Warn("非管理人员访问后台接口",
				zap.Int("user_id", userID.(int)),
				zap.String("path", c.Request.URL.Path))
			errors.HandleError(c, errors.New(errors.ErrForbidden, "需要管理员权限"))
			c.Abort()
			return
		}

		c.Next()
	}
}
