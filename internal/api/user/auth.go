package user

import (
	"net/http"

	"github.com/MIKU-7437/astrawood/internal/errors"
	"github.com/MIKU-7437/astrawood/internal/model"
	"github.com/MIKU-7437/astrawood/internal/service"
	"github.com/MIKU-7437/astrawood/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// AuthHandler 处理与注册、验证和登录相关的HTTP请求
type AuthHandler struct {
	userService service.UserServiceInterface
	validate    *validator.Validate
}

// NewAuthHandler 创建一个新的 AuthHandler 实例
func NewAuthHandler(userService service.UserServiceInterface) *AuthHandler {
	v := validator.New()
	v.RegisterValidation("phone", util.ValidatePhone)
	return &AuthHandler{userService: userService, validate: v}
}

type registerRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required"`
	PasswordConf string `json:"password_conf"`
	FirstName    string `json:"first_name" validate:"required"`
	LastName     string `json:"last_name" validate:"required"`
	Username     string `json:"username"`
	City         string `json:"city" validate:"required"`
	Region       string `json:"region" validate:"required"`
	Address      string `json:"address" validate:"required"`
	Phone        string `json:"phone" validate:"required,phone"`
}

// Register 处理用户注册请求。
// 密码与确认密码的比较先于其他所有校验。
func (h *AuthHandler) Register(c *gin.Context) {
	var registerData registerRequest

	if err := c.ShouldBindJSON(&registerData); err != nil {
		util.Logger.Warn("注册失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	if registerData.Password != registerData.PasswordConf {
		errors.HandleError(c, errors.New(errors.ErrValidation, "Passwords didn't match"))
		return
	}

	if err := h.validate.Struct(&registerData); err != nil {
		errors.HandleError(c, errors.NewValidation(fieldErrors(err)))
		return
	}

	user := &model.User{
		Email:     registerData.Email,
		FirstName: registerData.FirstName,
		LastName:  registerData.LastName,
		Username:  registerData.Username,
		City:      registerData.City,
		Region:    registerData.Region,
		Address:   registerData.Address,
		Phone:     registerData.Phone,
	}

	token, err := h.userService.Register(user, registerData.Password)
	if err != nil {
		util.Logger.Warn("注册失败", zap.Error(err), zap.String("email", registerData.Email))
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user_data":    user,
		"access_token": token,
	})
}

// ResendVerification 重新发送验证邮件
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var requestData struct {
		Email string `json:"email"`
	}

	if err := c.ShouldBindJSON(&requestData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	if requestData.Email == "" {
		errors.HandleError(c, errors.NewValidation(map[string][]string{
			"email": {"Email is required"},
		}))
		return
	}

	token, err := h.userService.ResendVerification(requestData.Email)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"email":        requestData.Email,
		"access_token": token,
	})
}

// VerifyEmail 处理邮箱激活。令牌从查询参数读取。
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")

	if err := h.userService.VerifyEmail(token); err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"email": "Successfully activated"})
}

// Login 处理用户登录请求
func (h *AuthHandler) Login(c *gin.Context) {
	var loginData struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&loginData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	user, err := h.userService.Login(loginData.Email, loginData.Password)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	token, err := util.GenerateAccessToken(user.ID)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "生成令牌失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"token": token,
		"user":  user,
	}, "登录成功")
}

// fieldErrors 将校验错误转为 {字段: [消息]} 的形式
func fieldErrors(err error) map[string][]string {
	fields := make(map[string][]string)
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		fields["non_field_errors"] = []string{err.Error()}
		return fields
	}
	for _, fe := range validationErrs {
		name := jsonFieldName(fe.Field())
		switch fe.Tag() {
		case "required":
			fields[name] = append(fields[name], "This field is required.")
		case "email":
			fields[name] = append(fields[name], "Enter a valid email address.")
		case "phone":
			fields[name] = append(fields[name], "Enter a valid phone number.")
		default:
			fields[name] = append(fields[name], "This field is invalid.")
		}
	}
	return fields
}

var jsonFieldNames = map[string]string{
	"Email":        "email",
	"Password":     "password",
	"PasswordConf": "password_conf",
	"FirstName":    "first_name",
	"LastName":     "last_name",
	"Username":     "username",
	"City":         "city",
	"Region":       "region",
	"Address":      "address",
	"Phone":        "phone",
}

func jsonFieldName(structField string) string {
	if name, ok := jsonFieldNames[structField]; ok {
		return name
	}
	return structField
}
