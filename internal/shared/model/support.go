package model

import "time"

// SupportMessage 用户反馈消息（公开接口，无需认证）
type SupportMessage struct {
	ID         string    `json:"id" bson:"_id"`
	Message    string    `json:"message" bson:"message"`
	ReceivedAt time.Time `json:"received_at" bson:"received_at"`
}
