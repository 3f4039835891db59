package model

import "time"

// Tag 是标签及其归属。一个标签通过 (OwnerType, OwnerID) 挂在具体对象上。
type Tag struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	OwnerType string    `json:"ownerType"`
	OwnerID   uint      `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
}

// TagOwnerConditions 是按归属查询标签的条件。
type TagOwnerConditions struct {
	OwnerType string
	OwnerID   uint
}
