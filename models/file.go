package models

import (
	"fmt"
	"strings"
	"time"
)

// File 一条已上传文件的元数据记录。
// upload_type / upload_session_id / step_index / file_index 仅在
// 多步骤会话上传时存在，普通上传为 NULL。
type File struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Filename     string `json:"filename" gorm:"type:varchar(255);not null"`
	OriginalName string `json:"original_name" gorm:"type:varchar(255);not null"`
	Type         string `json:"type" gorm:"type:varchar(100)"`
	Size         int64  `json:"size"`
	Path         string `json:"path" gorm:"type:varchar(500);uniqueIndex"`

	UploadType      *string `json:"upload_type,omitempty" gorm:"type:varchar(50);index"`
	UploadSessionID *string `json:"upload_session_id,omitempty" gorm:"type:varchar(100);index"`
	StepIndex       *int    `json:"step_index,omitempty"`
	FileIndex       *int    `json:"file_index,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FormattedSize 人类可读的文件大小，序列化时计算，不落库
func (f *File) FormattedSize() string {
	bytes := f.Size
	if bytes >= 1048576 {
		return fmt.Sprintf("%.2f MB", float64(bytes)/1048576)
	}
	if bytes >= 1024 {
		return fmt.Sprintf("%.2f KB", float64(bytes)/1024)
	}
	return fmt.Sprintf("%d B", bytes)
}

// Category 文件的展示分组。
// 优先使用 upload_type，否则按 MIME 类型归入 images / pdfs / others。
func (f *File) Category() string {
	if f.UploadType != nil && *f.UploadType != "" {
		return *f.UploadType
	}
	if strings.Contains(f.Type, "image") {
		return "images"
	}
	if f.Type == "application/pdf" {
		return "pdfs"
	}
	return "others"
}

// FileResponse 返回给客户端的文件记录，附带计算字段
type FileResponse struct {
	File
	FormattedSize string `json:"formatted_size"`
	Category      string `json:"category"`
	URL           string `json:"url"`
}

// ToResponse 构造响应结构，url 由存储后端决定
func (f File) ToResponse(url string) FileResponse {
	return FileResponse{
		File:          f,
		FormattedSize: f.FormattedSize(),
		Category:      f.Category(),
		URL:           url,
	}
}
