package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"

	"github.com/gabriel-vasile/mimetype"
	"gorm.io/gorm"

	"docmanager/models"
)

// ErrFileNotFound 按 id 查找不到记录
var ErrFileNotFound = errors.New("file not found")

// 分组视图里始终出现的 key，哪怕是空组
var fixedGroups = []string{"financial", "travel", "education", "images", "pdfs", "others"}

// FileService 上传编排：校验 → 写存储 → 落库，以及列表、删除
type FileService struct {
	db      *gorm.DB
	storage Storage
	policy  UploadPolicy
}

func NewFileService(db *gorm.DB, storage Storage, policy UploadPolicy) *FileService {
	return &FileService{
		db:      db,
		storage: storage,
		policy:  policy,
	}
}

// UploadInput 一次上传的输入
type UploadInput struct {
	Reader       io.Reader
	OriginalName string
	ContentType  string // 客户端声明的 MIME，可为空
	Size         int64
}

// SessionMeta 多步骤会话上传的附加信息
type SessionMeta struct {
	UploadType string
	SessionID  string
	StepIndex  int
	FileIndex  int
}

// UploadFile 普通单文件上传
func (s *FileService) UploadFile(ctx context.Context, in UploadInput) (*models.File, error) {
	return s.upload(ctx, in, nil)
}

// UploadSingleFile 会话上传：同一 sessionID 下多个文件共同组成一次提交。
// 会话内各文件之间没有原子性，后面的文件失败不回滚前面的。
func (s *FileService) UploadSingleFile(ctx context.Context, in UploadInput, meta SessionMeta) (*models.File, error) {
	return s.upload(ctx, in, &meta)
}

func (s *FileService) upload(ctx context.Context, in UploadInput, meta *SessionMeta) (*models.File, error) {
	// 校验在任何副作用之前，拒绝时不碰存储和数据库
	if err := s.policy.Validate(in.OriginalName, in.Size); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(in.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	contentType := in.ContentType
	if contentType == "" {
		// 客户端没给 Content-Type 时按内容嗅探
		contentType = mimetype.Detect(data).String()
	}

	storagePath, err := s.storage.Store(ctx, bytes.NewReader(data), in.OriginalName)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	file := &models.File{
		Filename:     path.Base(storagePath),
		OriginalName: in.OriginalName,
		Type:         contentType,
		Size:         int64(len(data)),
		Path:         storagePath,
	}
	if meta != nil {
		file.UploadType = &meta.UploadType
		file.UploadSessionID = &meta.SessionID
		stepIndex, fileIndex := meta.StepIndex, meta.FileIndex
		file.StepIndex = &stepIndex
		file.FileIndex = &fileIndex
	}

	if err := s.db.WithContext(ctx).Create(file).Error; err != nil {
		// 落库失败时清理刚写入的字节，避免孤儿对象。
		// 清理失败只记日志，对外仍然报原始错误。
		if derr := s.storage.Delete(ctx, storagePath); derr != nil {
			log.Printf("清理孤儿文件失败 %s: %v", storagePath, derr)
		}
		return nil, fmt.Errorf("failed to save file record: %w", err)
	}

	return file, nil
}

// GetFile 按 id 查找记录
func (s *FileService) GetFile(ctx context.Context, id uint) (*models.File, error) {
	var file models.File
	if err := s.db.WithContext(ctx).First(&file, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to find file: %w", err)
	}
	return &file, nil
}

// GetGroupedFiles 返回按分组整理的全部文件，新的在前。
// 每次全量重算，固定分组即使为空也出现在结果里。
func (s *FileService) GetGroupedFiles(ctx context.Context) (map[string][]models.FileResponse, error) {
	var files []models.File
	if err := s.db.WithContext(ctx).Order("created_at desc, id desc").Find(&files).Error; err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	grouped := make(map[string][]models.FileResponse, len(fixedGroups))
	for _, key := range fixedGroups {
		grouped[key] = []models.FileResponse{}
	}

	for _, f := range files {
		key := f.Category()
		grouped[key] = append(grouped[key], s.ToResponse(f))
	}

	return grouped, nil
}

// GetSessionFiles 返回一个上传会话的全部文件，按槽位顺序排列
func (s *FileService) GetSessionFiles(ctx context.Context, sessionID string) ([]models.FileResponse, error) {
	var files []models.File
	err := s.db.WithContext(ctx).
		Where("upload_session_id = ?", sessionID).
		Order("step_index, file_index, created_at").
		Find(&files).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list session files: %w", err)
	}

	responses := make([]models.FileResponse, 0, len(files))
	for _, f := range files {
		responses = append(responses, s.ToResponse(f))
	}
	return responses, nil
}

// DeleteFile 删除字节和记录。
// 记录删除放在最后：存储删除失败时错误直接上抛，不留悬空的行。
func (s *FileService) DeleteFile(ctx context.Context, id uint) error {
	file, err := s.GetFile(ctx, id)
	if err != nil {
		return err
	}

	exists, err := s.storage.Exists(ctx, file.Path)
	if err != nil {
		return fmt.Errorf("failed to check file: %w", err)
	}
	if exists {
		if err := s.storage.Delete(ctx, file.Path); err != nil {
			return fmt.Errorf("failed to delete file bytes: %w", err)
		}
	}

	if err := s.db.WithContext(ctx).Delete(&models.File{}, file.ID).Error; err != nil {
		return fmt.Errorf("failed to delete file record: %w", err)
	}

	return nil
}

// Open 读取一条记录对应的字节
func (s *FileService) Open(ctx context.Context, file *models.File) (io.ReadCloser, error) {
	return s.storage.Open(ctx, file.Path)
}

// ToResponse 构造带 url 的响应结构
func (s *FileService) ToResponse(f models.File) models.FileResponse {
	return f.ToResponse(s.storage.URL(f.Path))
}
