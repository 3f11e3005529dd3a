package model

import "time"

// DefaultUserPhoto 新用户的默认头像路径
const DefaultUserPhoto = "customer_photos/default-profile-picture.jpg"

// User 结构体表示用户模型
type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Username     string    `json:"username"`
	City         string    `json:"city"`
	Region       string    `json:"region"`
	Address      string    `json:"address"`
	Phone        string    `json:"phone"`
	Photo        string    `json:"photo"`
	PasswordHash string    `json:"-"` // 密码哈希不应在JSON中暴露
	IsActive     bool      `json:"is_active"`
	IsStaff      bool      `json:"is_staff"`
	IsSuperuser  bool      `json:"is_superuser"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
