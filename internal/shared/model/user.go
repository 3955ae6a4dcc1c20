package model

import "time"

// User 用户账号
//
// Username 作为 MongoDB 的 _id，天然保证唯一性（重复注册会触发
// duplicate key 错误）。创建后不可变更。
type User struct {
	Username       string    `json:"username" bson:"_id"`
	Email          string    `json:"email" bson:"email"`
	FullName       *string   `json:"full_name" bson:"full_name,omitempty"`
	HashedPassword string    `json:"-" bson:"hashed_password"` // never expose in JSON
	Disabled       bool      `json:"disabled" bson:"disabled"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}

// PublicUser 用户公开视图（注册响应、/users/me）
// 不包含密码哈希和 disabled 状态
type PublicUser struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	FullName *string `json:"full_name"`
}

// Public 返回用户的公开视图
func (u *User) Public() *PublicUser {
	return &PublicUser{
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
	}
}
