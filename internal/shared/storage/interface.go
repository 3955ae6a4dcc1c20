// Package storage 定义持久化存储层抽象接口
//
// 设计原则：依赖倒置 (DIP)
//   - 调用方只依赖接口，不知道具体实现
//   - 具体实现在子包中：mongostore/
//   - 初始化时通过依赖注入传入实现
package storage

import (
	"context"

	"kitchen-server/internal/shared/model"
)

// UserStore 用户凭证存储接口
//
// 查询约定：用户不存在时返回 (nil, nil)，由调用方统一处理，
// 避免在认证路径上区分"不存在"和"其他失败"。
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

// RecipeStore 菜谱存储接口
type RecipeStore interface {
	CreateRecipe(ctx context.Context, recipe *model.Recipe) error
	GetRecipe(ctx context.Context, id string) (*model.Recipe, error)
	ListRecipes(ctx context.Context, limit int) ([]*model.Recipe, error)
	ListRecipesByOwner(ctx context.Context, owner string, limit int) ([]*model.Recipe, error)
	UpdateRecipe(ctx context.Context, id string, upd *model.RecipeUpdate) error
	DeleteRecipe(ctx context.Context, id string) error
}

// SupportStore 反馈消息存储接口
type SupportStore interface {
	CreateSupportMessage(ctx context.Context, msg *model.SupportMessage) error
}

// PersistentStore 持久化存储组合接口
type PersistentStore interface {
	UserStore
	RecipeStore
	SupportStore
	Close() error
}
