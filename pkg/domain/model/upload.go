package model

import "time"

// UploadFile 是一条已上传文件的记录。URI 使用 "local://" 协议，
// 对外暴露前需要经过路径解析器转换为公开 URL。
type UploadFile struct {
	ID        uint      `json:"id"`
	Filename  string    `json:"filename"`
	URI       string    `json:"uri"`
	Size      int64     `json:"size"`
	MimeType  string    `json:"mimeType"`
	CreatedAt time.Time `json:"createdAt"`
}

// FileUse 把一个已上传文件挂到目标对象上（例如文章的附件）。
type FileUse struct {
	ID         uint      `json:"id"`
	FileID     uint      `json:"fileId"`
	TargetType string    `json:"targetType"`
	TargetID   uint      `json:"targetId"`
	UseType    string    `json:"type"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ImageSize 表示一张图片的宽高。
type ImageSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// CropSelection 是一次封面裁剪请求中的一个选区。
type CropSelection struct {
	Name   string `json:"name"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// CropFile 是裁剪产物的描述，URL 由上层解析 URI 后填入。
type CropFile struct {
	Name string      `json:"name"`
	File *UploadFile `json:"file"`
	URL  string      `json:"url"`
}
