package model

import "time"

// Category 是资讯分类，按 ParentID 构成一棵树。本服务只读。
type Category struct {
	ID        uint      `json:"id"`
	ParentID  uint      `json:"parentId"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Weight    int       `json:"weight"`
	CreatedAt time.Time `json:"createdAt"`
}

// CategoryTreeNode 是带子节点的分类树节点，用于后台导航。
type CategoryTreeNode struct {
	Category
	Children []*CategoryTreeNode `json:"children"`
}
