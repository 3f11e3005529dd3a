package service

import (
	"fmt"

	"github.com/MIKU-7437/astrawood/internal/errors"
	"github.com/MIKU-7437/astrawood/internal/model"
	"github.com/MIKU-7437/astrawood/internal/repository/interfaces"
	"github.com/MIKU-7437/astrawood/internal/util"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserService 处理与用户账户相关的业务逻辑
type UserService struct {
	userRepo     interfaces.UserRepository
	emailService EmailSender
}

// NewUserService 创建一个新的 UserService 实例
func NewUserService(userRepo interfaces.UserRepository, emailService EmailSender) *UserService {
	return &UserService{
		userRepo:     userRepo,
		emailService: emailService,
	}
}

// Register 注册新用户，返回签发的验证令牌。
// 新用户始终以未激活状态创建，直到邮箱验证通过。
func (s *UserService) Register(user *model.User, password string) (string, error) {
	existing, err := s.userRepo.FindByEmail(user.Email)
	if err != nil {
		return "", errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if existing != nil {
		return "", errors.NewValidation(map[string][]string{
			"email": {"user with this email already exists"},
		})
	}

	existing, err = s.userRepo.FindByPhone(user.Phone)
	if err != nil {
		return "", errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if existing != nil {
		return "", errors.NewValidation(map[string][]string{
			"phone": {"user with this phone already exists"},
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(errors.ErrInternal, "生成密码哈希失败", err)
	}
	user.PasswordHash = string(hashedPassword)
	user.IsActive = false
	if user.Photo == "" {
		user.Photo = model.DefaultUserPhoto
	}

	if err := s.userRepo.Create(user); err != nil {
		// 仓储层对唯一索引冲突已给出字段级校验错误，原样上抛
		if appErr, ok := err.(*errors.AppError); ok {
			return "", appErr
		}
		return "", errors.Wrap(errors.ErrDatabase, "创建用户失败", err)
	}

	token, err := util.GenerateVerificationToken(user.ID)
	if err != nil {
		return "", errors.Wrap(errors.ErrInternal, "生成验证令牌失败", err)
	}

	// 发送失败不回滚注册
	if err := s.emailService.SendVerificationEmail(user.Email, user.Email, token); err != nil {
		util.Logger.Error("发送验证邮件失败", zap.Error(err), zap.String("email", user.Email))
	}

	return token, nil
}

// ResendVerification 重新签发验证令牌并再次发送验证邮件。
// 不改变用户的激活状态。
func (s *UserService) ResendVerification(email string) (string, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return "", errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if user == nil {
		return "", errors.New(errors.ErrUserNotFound, "User with this email does not exist.")
	}

	token, err := util.GenerateVerificationToken(user.ID)
	if err != nil {
		return "", errors.Wrap(errors.ErrInternal, "生成验证令牌失败", err)
	}

	if err := s.emailService.SendVerificationEmail(user.Email, user.Username, token); err != nil {
		util.Logger.Error("发送验证邮件失败", zap.Error(err), zap.String("email", user.Email))
	}

	return token, nil
}

// VerifyEmail 校验激活令牌并激活对应账户。
// 对已激活的账户重复验证同样返回成功。
func (s *UserService) VerifyEmail(token string) error {
	userID, err := util.ValidateToken(token)
	if err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if user == nil {
		return errors.New(errors.ErrUserNotFound, "user not found")
	}

	if !user.IsActive {
		if err := s.userRepo.Activate(user.ID); err != nil {
			return errors.Wrap(errors.ErrDatabase, "激活用户失败", err)
		}
		util.Logger.Info("邮箱验证成功", zap.Int("user_id", user.ID))
	}

	return nil
}

// Login 用户登录。令牌签发不以 is_active 为前提。
func (s *UserService) Login(email, password string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrInvalidCredentials, "invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.New(errors.ErrInvalidCredentials, "invalid email or password")
	}

	return user, nil
}

// GetUserByID 通过ID获取用户信息
func (s *UserService) GetUserByID(id int) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "user not found")
	}
	return user, nil
}

// UpdateUser 更新用户资料。更换电话号码时重新检查唯一性。
func (s *UserService) UpdateUser(user *model.User) error {
	existing, err := s.userRepo.FindByPhone(user.Phone)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if existing != nil && existing.ID != user.ID {
		return errors.NewValidation(map[string][]string{
			"phone": {"user with this phone already exists"},
		})
	}

	if err := s.userRepo.Update(user); err != nil {
		return errors.Wrap(errors.ErrDatabase, "更新用户失败", err)
	}
	return nil
}

// UpdatePhoto 更新用户头像引用
func (s *UserService) UpdatePhoto(userID int, photo string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	user.Photo = photo
	return s.UpdateUser(user)
}

// DeleteAccount 永久删除用户自己的账户，返回被删除的邮箱
func (s *UserService) DeleteAccount(userID int) (string, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return "", err
	}
	if err := s.userRepo.Delete(user.ID); err != nil {
		return "", errors.Wrap(errors.ErrDatabase, "删除用户失败", err)
	}
	return user.Email, nil
}

// ListUsers 返回分页的用户列表
func (s *UserService) ListUsers(page, pageSize int) ([]*model.User, error) {
	users, err := s.userRepo.FindAll(page, pageSize)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, fmt.Sprintf("查询用户列表失败 page=%d", page), err)
	}
	return users, nil
}

// ChangePassword 修改密码。旧密码不匹配时不改动已存储的哈希。
func (s *UserService) ChangePassword(userID int, oldPassword, newPassword string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return errors.NewValidation(map[string][]string{
			"old_password": {"Wrong password."},
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(errors.ErrInternal, "生成密码哈希失败", err)
	}

	if err := s.userRepo.UpdatePassword(user.ID, string(hashedPassword)); err != nil {
		return errors.Wrap(errors.ErrDatabase, "更新用户密码失败", err)
	}

	util.Logger.Info("密码修改成功", zap.Int("user_id", user.ID))
	return nil
}

// IsStaff 判断用户是否具有后台管理权限
func (s *UserService) IsStaff(userID int) (bool, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return false, err
	}
	return user.IsStaff || user.IsSuperuser, nil
}

type UserServiceInterface interface {
	Register(user *model.User, password string) (string, error)
	ResendVerification(email string) (string, error)
	VerifyEmail(token string) error
	Login(email, password string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	UpdateUser(user *model.User) error
	UpdatePhoto(userID int, photo string) error
	DeleteAccount(userID int) (string, error)
	ListUsers(page, pageSize int) ([]*model.User, error)
	ChangePassword(userID int, oldPassword, newPassword string) error
	IsStaff(userID int) (bool, error)
}

// 确保 UserService 实现了 UserServiceInterface
var _ UserServiceInterface = (*UserService)(nil)
