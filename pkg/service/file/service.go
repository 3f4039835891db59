// pkg/service/file/service.go
package file

import (
	"context"
	"fmt"
	"image"
	"io"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/qingshu-lab/qingshu-app/internal/infra/storage"
	"github.com/qingshu-lab/qingshu-app/internal/pkg/uri"
	"github.com/qingshu-lab/qingshu-app/pkg/constant"
	"github.com/qingshu-lab/qingshu-app/pkg/domain/model"
	"github.com/qingshu-lab/qingshu-app/pkg/domain/repository"
)

// ImgMetaInfo 是裁剪界面需要的图片元信息：
// 公开 URL、原始尺寸，以及等比缩放进给定显示框后的尺寸。
type ImgMetaInfo struct {
	URL     string          `json:"url"`
	Natural model.ImageSize `json:"natural"`
	Scaled  model.ImageSize `json:"scaled"`
}

// Service 负责上传文件的落盘、建档与关联。
type Service struct {
	repo     repository.UploadFileRepository
	storage  *storage.LocalStorage
	resolver *uri.Resolver
}

// NewService 是文件服务的构造函数
func NewService(repo repository.UploadFileRepository, store *storage.LocalStorage, resolver *uri.Resolver) *Service {
	return &Service{
		repo:     repo,
		storage:  store,
		resolver: resolver,
	}
}

// SaveUpload 把上传内容写入存储并建档。存储文件名用 UUID 前缀隔离，
// 避免同名上传互相覆盖。
func (s *Service) SaveUpload(ctx context.Context, filename, mimeType string, size int64, r io.Reader) (*model.UploadFile, error) {
	storedName := uuid.NewString() + filepath.Ext(filename)
	fileURI, err := s.storage.Save(storedName, r)
	if err != nil {
		return nil, fmt.Errorf("保存上传文件失败: %w", err)
	}

	record := &model.UploadFile{
		Filename: filename,
		URI:      fileURI,
		Size:     size,
		MimeType: mimeType,
	}
	return s.repo.Create(ctx, record)
}

// FindByID 查询单个上传文件的记录。
func (s *Service) FindByID(ctx context.Context, id uint) (*model.UploadFile, error) {
	return s.repo.FindByID(ctx, id)
}

// PublicURL 返回上传文件对外可访问的 URL。
func (s *Service) PublicURL(f *model.UploadFile) string {
	return s.resolver.PublicURL(f.URI)
}

// LoadImage 把上传文件按图片解码，裁剪等图像操作在它之上进行。
func (s *Service) LoadImage(ctx context.Context, fileID uint) (image.Image, error) {
	record, err := s.repo.FindByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	path, err := s.storage.Path(record.URI)
	if err != nil {
		return nil, fmt.Errorf("解析文件路径失败: %w", err)
	}
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开图片文件失败: %w", err)
	}
	return img, nil
}

// CreateUseFiles 把提交随带的附件挂到目标文章上。
// attachment 为空或不含文件时什么都不做。
func (s *Service) CreateUseFiles(ctx context.Context, attachment *model.Attachment, targetID uint) error {
	if attachment == nil || len(attachment.FileIDs) == 0 {
		return nil
	}
	targetType := attachment.TargetType
	if targetType == "" {
		targetType = constant.FileTargetTypeArticle
	}
	useType := attachment.Type
	if useType == "" {
		useType = constant.FileUseTypeAttachment
	}
	return s.repo.CreateUses(ctx, attachment.FileIDs, targetType, targetID, useType)
}

// GetImgFileMetaInfo 返回图片的公开 URL、原始尺寸，
// 以及等比缩放进 boxWidth×boxHeight 显示框后的尺寸。
// 图片本身小于显示框时不做放大。
func (s *Service) GetImgFileMetaInfo(ctx context.Context, fileID uint, boxWidth, boxHeight int) (*ImgMetaInfo, error) {
	record, err := s.repo.FindByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	img, err := s.LoadImage(ctx, fileID)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	natural := model.ImageSize{Width: bounds.Dx(), Height: bounds.Dy()}
	return &ImgMetaInfo{
		URL:     s.resolver.PublicURL(record.URI),
		Natural: natural,
		Scaled:  fitInBox(natural, boxWidth, boxHeight),
	}, nil
}

// fitInBox 把尺寸等比缩放进显示框，原图不超框时保持原尺寸。
func fitInBox(natural model.ImageSize, boxWidth, boxHeight int) model.ImageSize {
	if natural.Width <= 0 || natural.Height <= 0 {
		return model.ImageSize{}
	}
	if natural.Width <= boxWidth && natural.Height <= boxHeight {
		return natural
	}

	ratioW := float64(boxWidth) / float64(natural.Width)
	ratioH := float64(boxHeight) / float64(natural.Height)
	ratio := ratioW
	if ratioH < ratio {
		ratio = ratioH
	}
	return model.ImageSize{
		Width:  int(float64(natural.Width) * ratio),
		Height: int(float64(natural.Height) * ratio),
	}
}
