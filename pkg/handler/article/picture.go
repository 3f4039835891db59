// pkg/handler/article/picture.go
package article

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/qingshu-lab/qingshu-app/pkg/domain/model"
	"github.com/qingshu-lab/qingshu-app/pkg/response"

	articleSvc "github.com/qingshu-lab/qingshu-app/pkg/service/article"
)

// sessionPictureFileID 是封面裁剪流程在会话里暂存的待裁剪文件 ID 的键。
const sessionPictureFileID = "picture_file_id"

// ShowUpload 返回封面上传弹窗的视图模型。
// 会话里已有待裁剪文件时一并带回，方便前端直接进入裁剪步骤。
func (h *Handler) ShowUpload(c *gin.Context) {
	response.Success(c, gin.H{
		"fileId":  sessionFileID(c),
		"boxSize": articleSvc.CropBoxSize,
	}, "获取上传视图成功")
}

// UploadPicture 接收封面图片上传，建档后把文件 ID 暂存进会话，
// 供后续的裁剪接口使用。
func (h *Handler) UploadPicture(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "无效的文件上传请求")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		response.Fail(c, http.StatusBadRequest, "只支持上传图片文件")
		return
	}

	reader, err := fileHeader.Open()
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "无法处理上传的文件")
		return
	}
	defer reader.Close()

	record, err := h.fileSvc.SaveUpload(c.Request.Context(), fileHeader.Filename, contentType, fileHeader.Size, reader)
	if err != nil {
		handleError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(sessionPictureFileID, record.ID)
	if err := session.Save(); err != nil {
		log.Printf("[Handler.UploadPicture] 保存会话失败: %v", err)
		response.Fail(c, http.StatusInternalServerError, "保存会话失败")
		return
	}

	response.Success(c, gin.H{
		"fileId": record.ID,
		"url":    h.fileSvc.PublicURL(record),
	}, "图片上传成功")
}

// ShowCrop 返回裁剪界面的几何信息：图片 URL、原始尺寸，
// 以及缩放进显示框后的尺寸。会话里没有待裁剪文件时拒绝。
func (h *Handler) ShowCrop(c *gin.Context) {
	fileID := sessionFileID(c)
	if fileID == 0 {
		response.Fail(c, http.StatusBadRequest, "请先上传图片")
		return
	}

	meta, err := h.fileSvc.GetImgFileMetaInfo(c.Request.Context(), fileID, articleSvc.CropBoxSize, articleSvc.CropBoxSize)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, meta, "获取裁剪信息成功")
}

// cropRequest 是一次裁剪提交的请求体，选区数组沿用原接口的 images 字段名。
type cropRequest struct {
	Images []model.CropSelection `json:"images" binding:"required"`
}

// Crop 按选区生成封面图变体并返回各变体的文件描述与公开 URL。
func (h *Handler) Crop(c *gin.Context) {
	fileID := sessionFileID(c)
	if fileID == 0 {
		response.Fail(c, http.StatusBadRequest, "请先上传图片")
		return
	}

	var req cropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "无效的请求参数: "+err.Error())
		return
	}

	files, err := h.svc.CropIndexPicture(c.Request.Context(), fileID, req.Images)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, files, "封面裁剪成功")
}

// sessionFileID 从会话里取出待裁剪的文件 ID，没有时返回 0。
func sessionFileID(c *gin.Context) uint {
	switch v := sessions.Default(c).Get(sessionPictureFileID).(type) {
	case uint:
		return v
	case int:
		if v > 0 {
			return uint(v)
		}
	case int64:
		if v > 0 {
			return uint(v)
		}
	}
	return 0
}
