// internal/infra/storage/local.go
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/qingshu-lab/qingshu-app/internal/pkg/uri"
)

// LocalStorage 把文件写到本地目录，并用 "local://" URI 标识它们。
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage 构造本地存储，baseDir 不存在时会自动创建。
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "data/uploads"
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("创建上传目录失败: %w", err)
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

// Save 将内容写入存储，name 是相对存储根的文件名，返回文件的 URI。
func (s *LocalStorage) Save(name string, r io.Reader) (string, error) {
	name = strings.TrimPrefix(filepath.Clean(name), "/")
	if name == "" || strings.HasPrefix(name, "..") {
		return "", fmt.Errorf("非法的存储文件名: %q", name)
	}

	fullPath := filepath.Join(s.baseDir, name)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("创建存储子目录失败: %w", err)
	}

	f, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("创建存储文件失败: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("写入存储文件失败: %w", err)
	}

	return "local://" + name, nil
}

// Path 返回 URI 对应的本地文件系统路径。
func (s *LocalStorage) Path(uriStr string) (string, error) {
	parsed, err := uri.Parse(uriStr)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, parsed.Path), nil
}
