package model

import "time"

// Log 是一条后台操作审计日志。Data 存 JSON 序列化后的上下文。
type Log struct {
	ID        uint      `json:"id"`
	Module    string    `json:"module"`
	Action    string    `json:"action"`
	Message   string    `json:"message"`
	Data      string    `json:"data"`
	UserID    uint      `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
