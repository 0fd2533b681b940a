package services

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// 校验失败的原因，handler 据此返回 422。
// 报错文案直接面向客户端展示。
var (
	ErrUnsupportedType = errors.New("File type not allowed. Only PDF, PNG, JPG, and JPEG files are accepted.")
	ErrFileTooLarge    = errors.New("File is too large.")
	ErrMissingFile     = errors.New("Please select a file to upload.")
)

// UploadPolicy 上传文件的类型与大小限制
type UploadPolicy struct {
	AllowedExtensions map[string]bool
	MaxSizeBytes      int64
}

// DefaultUploadPolicy 默认限制：pdf/png/jpg/jpeg，4096 KB
func DefaultUploadPolicy() UploadPolicy {
	return UploadPolicy{
		AllowedExtensions: map[string]bool{
			"pdf":  true,
			"png":  true,
			"jpg":  true,
			"jpeg": true,
		},
		MaxSizeBytes: 4096 * 1024,
	}
}

// Validate 校验文件名后缀和大小，第一个失败的检查即为拒绝原因。
// 纯函数，不做任何 I/O。
func (p UploadPolicy) Validate(originalName string, size int64) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(originalName), "."))
	if !p.AllowedExtensions[ext] {
		return ErrUnsupportedType
	}

	if size > p.MaxSizeBytes {
		return fmt.Errorf("%w Maximum size allowed is %dMB.", ErrFileTooLarge, p.MaxSizeBytes/1024/1024)
	}

	return nil
}

// IsValidationError 判断是否为客户端可修复的校验错误
func IsValidationError(err error) bool {
	return errors.Is(err, ErrUnsupportedType) ||
		errors.Is(err, ErrFileTooLarge) ||
		errors.Is(err, ErrMissingFile)
}
