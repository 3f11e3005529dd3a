package user

import (
	"net/http"
	"strconv"

	"github.com/MIKU-7437/astrawood/internal/errors"
	"github.com/MIKU-7437/astrawood/internal/model"
	"github.com/MIKU-7437/astrawood/internal/service"
	"github.com/MIKU-7437/astrawood/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler 处理用户列表查询
type UserHandler struct {
	userService service.UserServiceInterface
}

func NewUserHandler(userService service.UserServiceInterface) *UserHandler {
	return &UserHandler{userService}
}

// ListUsers 返回所有用户的公开资料。
// 该接口不要求认证，来自上游的历史决定，待产品侧确认是否收紧。
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 50
	}

	util.Logger.Warn("未认证的用户列表查询",
		zap.String("remote_addr", c.ClientIP()),
		zap.Int("page", page))

	users, err := h.userService.ListUsers(page, pageSize)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	if users == nil {
		users = make([]*model.User, 0)
	}

	c.JSON(http.StatusOK, users)
}
