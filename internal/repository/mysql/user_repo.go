package mysql

import (
	"database/sql"
	"strings"
	"time"

	"github.com/MIKU-7437/astrawood/internal/errors"
	"github.com/MIKU-7437/astrawood/internal/model"
	"github.com/MIKU-7437/astrawood/internal/util"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

const userColumns = `id, email, first_name, last_name, username, city, region, address, phone, photo,
              password_hash, is_active, is_staff, is_superuser, created_at, updated_at`

// userRepository 实现了 UserRepository 接口
type userRepository struct {
	db *sql.DB
}

// NewUserRepository 创建一个新的 userRepository 实例
func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{db}
}

// Create 创建一个新用户
func (r *userRepository) Create(user *model.User) error {
	query := `INSERT INTO users (email, first_name, last_name, username, city, region, address, phone, photo,
              password_hash, is_active, is_staff, is_superuser)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.Exec(query,
		user.Email, user.FirstName, user.LastName, user.Username,
		user.City, user.Region, user.Address, user.Phone, user.Photo,
		user.PasswordHash, user.IsActive, user.IsStaff, user.IsSuperuser)
	if err != nil {
		// 并发注册可能越过服务层的预检直接撞上唯一索引
		if me, ok := err.(*mysql.MySQLError); ok && me.Number == 1062 {
			field := "email"
			message := "user with this email already exists"
			if strings.Contains(me.Message, "phone") {
				field = "phone"
				message = "user with this phone already exists"
			}
			return errors.NewValidation(map[string][]string{field: {message}})
		}
		util.Logger.Error("创建用户失败", zap.Error(err), zap.String("email", user.Email))
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = int(id)
	util.Logger.Info("用户创建成功", zap.Int("user_id", user.ID))
	return nil
}

// FindByID 通过ID查找用户
func (r *userRepository) FindByID(id int) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return r.scanOne(r.db.QueryRow(query, id))
}

// FindByEmail 通过邮箱查找用户
func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return r.scanOne(r.db.QueryRow(query, email))
}

// FindByPhone 通过电话号码查找用户
func (r *userRepository) FindByPhone(phone string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE phone = ?`
	return r.scanOne(r.db.QueryRow(query, phone))
}

// scanOne 扫描单行用户数据，未找到时返回 (nil, nil)
func (r *userRepository) scanOne(row *sql.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.Username,
		&user.City, &user.Region, &user.Address, &user.Phone, &user.Photo,
		&user.PasswordHash, &user.IsActive, &user.IsStaff, &user.IsSuperuser,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Update 更新用户资料字段
func (r *userRepository) Update(user *model.User) error {
	_, err := r.db.Exec(`
		UPDATE users
		SET first_name = ?, last_name = ?, username = ?, city = ?, region = ?,
		    address = ?, phone = ?, photo = ?, updated_at = ?
		WHERE id = ?`,
		user.FirstName, user.LastName, user.Username, user.City, user.Region,
		user.Address, user.Phone, user.Photo, time.Now(), user.ID)
	return err
}

// UpdatePassword 更新用户密码哈希
func (r *userRepository) UpdatePassword(id int, passwordHash string) error {
	_, err := r.db.Exec(`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, time.Now(), id)
	return err
}

// Activate 将用户标记为已激活
func (r *userRepository) Activate(id int) error {
	_, err := r.db.Exec(`UPDATE users SET is_active = true, updated_at = ? WHERE id = ?`,
		time.Now(), id)
	if err != nil {
		util.Logger.Error("激活用户失败", zap.Error(err), zap.Int("user_id", id))
		return err
	}
	util.Logger.Info("用户已激活", zap.Int("user_id", id))
	return nil
}

// Delete 删除用户
func (r *userRepository) Delete(id int) error {
	query := `DELETE FROM users WHERE id = ?`
	_, err := r.db.Exec(query, id)
	if err != nil {
		util.Logger.Error("删除用户失败", zap.Error(err), zap.Int("user_id", id))
		return err
	}
	util.Logger.Info("用户删除成功", zap.Int("user_id", id))
	return nil
}

// Count 返回用户总数
func (r *userRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// FindAll 返回分页的用户列表
func (r *userRepository) FindAll(page, pageSize int) ([]*model.User, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id LIMIT ? OFFSET ?`
	rows, err := r.db.Query(query, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		var user model.User
		err := rows.Scan(
			&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.Username,
			&user.City, &user.Region, &user.Address, &user.Phone, &user.Photo,
			&user.PasswordHash, &user.IsActive, &user.IsStaff, &user.IsSuperuser,
			&user.CreatedAt, &user.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		users = append(users, &user)
	}
	return users, rows.Err()
}
