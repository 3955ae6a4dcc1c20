// Package storage 定义存储层领域错误
//
// 这些错误用于隔离业务层与底层存储引擎的错误类型，
// 驱动实现（mongostore）负责将底层错误转换为这些领域错误。
package storage

import "errors"

var (
	// ErrNotFound 实体不存在
	// 替代 mongo.ErrNoDocuments
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate 唯一键冲突（INSERT 重复 _id）
	ErrDuplicate = errors.New("duplicate: entity already exists")

	// ErrUnavailable 存储暂时不可达（连接超时、选主失败等瞬时故障）
	ErrUnavailable = errors.New("storage temporarily unavailable")
)
