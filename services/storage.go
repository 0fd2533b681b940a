package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Storage 文件字节的存取后端。
// Delete 对不存在的对象是幂等的空操作。
type Storage interface {
	Store(ctx context.Context, r io.Reader, originalName string) (string, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Exists(ctx context.Context, path string) (bool, error)
	Delete(ctx context.Context, path string) error
	URL(path string) string
}

// LocalStorage 本地磁盘存储
type LocalStorage struct {
	fs      afero.Fs
	dir     string
	baseURL string
}

// NewLocalStorage 创建本地存储，目录不存在时自动创建
func NewLocalStorage(fs afero.Fs, dir, baseURL string) (*LocalStorage, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	return &LocalStorage{
		fs:      fs,
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Store 写入字节，返回相对存储路径。
// 对象名用 uuid 生成，不使用客户端文件名。
func (s *LocalStorage) Store(ctx context.Context, r io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	name := uuid.New().String() + ext
	path := filepath.Join(s.dir, name)

	f, err := s.fs.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		s.fs.Remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	if err := f.Close(); err != nil {
		s.fs.Remove(path)
		return "", fmt.Errorf("failed to close file: %w", err)
	}

	return filepath.ToSlash(path), nil
}

// Open 打开已存储的对象
func (s *LocalStorage) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	f, err := s.fs.Open(filepath.FromSlash(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

// Exists 检查对象是否存在
func (s *LocalStorage) Exists(ctx context.Context, path string) (bool, error) {
	return afero.Exists(s.fs, filepath.FromSlash(path))
}

// Delete 删除对象，不存在时直接返回 nil
func (s *LocalStorage) Delete(ctx context.Context, path string) error {
	p := filepath.FromSlash(path)
	exists, err := afero.Exists(s.fs, p)
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}
	if !exists {
		return nil
	}

	if err := s.fs.Remove(p); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// URL 返回可公开访问的下载地址。
// 本地存储通过静态路由暴露上传目录。
func (s *LocalStorage) URL(path string) string {
	return s.baseURL + "/" + filepath.ToSlash(path)
}
