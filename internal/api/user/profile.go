package user

import (
	"fmt"
	"net/http"

	"github.com/MIKU-7437/astrawood/config"
	"github.com/MIKU-7437/astrawood/internal/errors"
	"github.com/MIKU-7437/astrawood/internal/service"
	"github.com/MIKU-7437/astrawood/internal/storage"
	"github.com/MIKU-7437/astrawood/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProfileHandler 处理当前用户自己的资料操作。
// 操作对象始终是认证中间件写入上下文的调用者本人。
type ProfileHandler struct {
	userService service.UserServiceInterface
	storage     storage.FileStorage
}

func NewProfileHandler(userService service.UserServiceInterface, storage storage.FileStorage) *ProfileHandler {
	return &ProfileHandler{userService, storage}
}

// GetProfile 返回调用者自己的资料
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID := c.GetInt("user_id")
	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		util.Logger.Error("获取用户资料失败", zap.Error(err))
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateProfile 更新调用者自己的资料，支持部分字段更新
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	currentUser, err := h.userService.GetUserByID(userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	// 目标对象必须是调用者本人。get 之后恒成立，
	// 保留该检查以防将来的改动允许指定其他用户。
	if currentUser.ID != userID {
		errors.HandleError(c, errors.New(errors.ErrForbidden, "You do not have permission to update this user."))
		return
	}

	var updateData struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Username  string `json:"username"`
		City      string `json:"city"`
		Region    string `json:"region"`
		Address   string `json:"address"`
		Phone     string `json:"phone"`
	}

	if err := c.ShouldBindJSON(&updateData); err != nil {
		util.Logger.Warn("更新用户资料失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	// 只更新允许用户修改的字段
	if updateData.FirstName != "" {
		currentUser.FirstName = updateData.FirstName
	}
	if updateData.LastName != "" {
		currentUser.LastName = updateData.LastName
	}
	if updateData.Username != "" {
		currentUser.Username = updateData.Username
	}
	if updateData.City != "" {
		currentUser.City = updateData.City
	}
	if updateData.Region != "" {
		currentUser.Region = updateData.Region
	}
	if updateData.Address != "" {
		currentUser.Address = updateData.Address
	}
	if updateData.Phone != "" {
		if !util.PhoneValid(updateData.Phone) {
			errors.HandleError(c, errors.NewValidation(map[string][]string{
				"phone": {"Enter a valid phone number."},
			}))
			return
		}
		currentUser.Phone = updateData.Phone
	}

	if err := h.userService.UpdateUser(currentUser); err != nil {
		util.Logger.Error("更新用户资料失败", zap.Error(err))
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, currentUser)
}

// DeleteAccount 永久删除调用者自己的账户。
// 确认消息随200返回，204会被HTTP层丢弃响应体。
func (h *ProfileHandler) DeleteAccount(c *gin.Context) {
	userID := c.GetInt("user_id")

	email, err := h.userService.DeleteAccount(userID)
	if err != nil {
		util.Logger.Error("注销账户失败", zap.Error(err))
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("User with email %s deleted successfully", email),
	})
}

// ChangePassword 修改调用者自己的密码
func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	userID := c.GetInt("user_id")

	var passwordData struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}

	if err := c.ShouldBindJSON(&passwordData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	fields := make(map[string][]string)
	if passwordData.OldPassword == "" {
		fields["old_password"] = []string{"This field is required."}
	}
	if passwordData.NewPassword == "" {
		fields["new_password"] = []string{"This field is required."}
	}
	if len(fields) > 0 {
		errors.HandleError(c, errors.NewValidation(fields))
		return
	}

	if err := h.userService.ChangePassword(userID, passwordData.OldPassword, passwordData.NewPassword); err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"code":    http.StatusOK,
		"message": "Password updated successfully",
		"data":    []string{},
	})
}

// UploadPhoto 上传并更新用户头像
func (h *ProfileHandler) UploadPhoto(c *gin.Context) {
	userID := c.GetInt("user_id")

	file, err := c.FormFile("photo")
	if err != nil {
		util.Logger.Error("获取上传文件失败", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrBadRequest, "无法获取上传文件", err))
		return
	}

	filename := util.GenerateUniqueFilename(file.Filename)
	path := fmt.Sprintf("customer_photos/%d/%s", userID, filename)

	photoPath, err := h.storage.UploadFile(file, path)
	if err != nil {
		util.Logger.Error("上传头像失败", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "上传头像失败", err))
		return
	}

	fullPhotoURL := fmt.Sprintf("%s/uploads/%s", config.AppConfig.BackendURL, photoPath)

	if err := h.userService.UpdatePhoto(userID, fullPhotoURL); err != nil {
		util.Logger.Error("更新用户头像失败", zap.Error(err))
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"photo": fullPhotoURL,
	}, "头像上传成功")
}
