package filestore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStore 把上传的票据图片落到本地磁盘
// 文件名用 uuid 重命名，避免用户上传的名字互相覆盖
type LocalStore struct {
	baseDir string
}

func NewLocalStore(baseDir string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("创建上传目录失败: %w", err)
	}
	return &LocalStore{baseDir: baseDir}, nil
}

// Save 保存图片字节，返回相对路径（落库用）
func (s *LocalStore) Save(data []byte, originalName string) (string, error) {
	ext := filepath.Ext(originalName)
	name := uuid.NewString() + ext
	path := filepath.Join(s.baseDir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("写入图片失败: %w", err)
	}
	return name, nil
}

// Load 按 Save 返回的相对路径读回图片
func (s *LocalStore) Load(name string) ([]byte, error) {
	// Clean + Base 防止路径逃逸出上传目录
	return os.ReadFile(filepath.Join(s.baseDir, filepath.Base(filepath.Clean(name))))
}

// Remove 删除图片，票据删除时调用，文件不存在不算错
func (s *LocalStore) Remove(name string) error {
	err := os.Remove(filepath.Join(s.baseDir, filepath.Base(filepath.Clean(name))))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
