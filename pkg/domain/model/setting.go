package model

import "time"

// Setting 是一条持久化的运行时配置项。
type Setting struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ConfigKey string    `json:"key"`
	Value     string    `json:"value"`
	Comment   string    `json:"comment"`
}
