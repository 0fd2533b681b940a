package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"docmanager/middleware"
	"docmanager/models"
	"docmanager/services"
)

type FileHandler struct {
	fileService *services.FileService
}

func NewFileHandler(fileService *services.FileService) *FileHandler {
	return &FileHandler{
		fileService: fileService,
	}
}

// GetUploadRequirements 返回各上传类型需要提交哪些文件
// GET /api/files/requirements
func (h *FileHandler) GetUploadRequirements(c *gin.Context) {
	c.JSON(http.StatusOK, models.GetUploadRequirements())
}

// Store 普通单文件上传
// POST /api/files
func (h *FileHandler) Store(c *gin.Context) {
	in, ok := h.uploadInput(c)
	if !ok {
		return
	}

	file, err := h.fileService.UploadFile(c.Request.Context(), in)
	if err != nil {
		h.uploadError(c, err)
		return
	}

	middleware.UploadsTotal.WithLabelValues("success").Inc()
	c.JSON(http.StatusCreated, h.fileService.ToResponse(*file))
}

// StoreSingle 会话上传：多文件向导里的一个文件
// POST /api/files/single
func (h *FileHandler) StoreSingle(c *gin.Context) {
	// 先取文件：这一步解析 multipart 表单，超限时在这里报 413，
	// 否则表单字段会静默读成空值
	in, ok := h.uploadInput(c)
	if !ok {
		return
	}

	uploadType := c.PostForm("upload_type")
	sessionID := c.PostForm("upload_session_id")
	if uploadType == "" || sessionID == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "upload_type and upload_session_id are required.",
		})
		return
	}

	stepIndex, err := strconv.Atoi(c.DefaultPostForm("step_index", "0"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "step_index must be an integer."})
		return
	}
	fileIndex, err := strconv.Atoi(c.DefaultPostForm("file_index", "0"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "file_index must be an integer."})
		return
	}

	file, err := h.fileService.UploadSingleFile(c.Request.Context(), in, services.SessionMeta{
		UploadType: uploadType,
		SessionID:  sessionID,
		StepIndex:  stepIndex,
		FileIndex:  fileIndex,
	})
	if err != nil {
		h.uploadError(c, err)
		return
	}

	middleware.UploadsTotal.WithLabelValues("success").Inc()
	c.JSON(http.StatusCreated, h.fileService.ToResponse(*file))
}

// Index 按分组返回全部文件
// GET /api/files
func (h *FileHandler) Index(c *gin.Context) {
	grouped, err := h.fileService.GetGroupedFiles(c.Request.Context())
	if err != nil {
		log.Printf("获取文件列表失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list files."})
		return
	}

	c.JSON(http.StatusOK, grouped)
}

// SessionFiles 返回一个上传会话的全部文件
// GET /api/files/sessions/:sessionId
func (h *FileHandler) SessionFiles(c *gin.Context) {
	files, err := h.fileService.GetSessionFiles(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		log.Printf("获取会话文件失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list session files."})
		return
	}

	c.JSON(http.StatusOK, files)
}

// Download 下载文件字节
// GET /api/files/:id/download
func (h *FileHandler) Download(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found."})
		return
	}

	file, err := h.fileService.GetFile(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrFileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found."})
			return
		}
		log.Printf("查找文件失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to download file."})
		return
	}

	reader, err := h.fileService.Open(c.Request.Context(), file)
	if err != nil {
		log.Printf("读取文件内容失败 %s: %v", file.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to download file."})
		return
	}
	defer reader.Close()

	c.DataFromReader(http.StatusOK, file.Size, file.Type, reader, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", file.OriginalName),
	})
}

// Destroy 删除文件记录及其字节
// DELETE /api/files/:id
func (h *FileHandler) Destroy(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found."})
		return
	}

	if err := h.fileService.DeleteFile(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrFileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found."})
			return
		}
		log.Printf("删除文件失败 id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete file."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File deleted"})
}

// uploadInput 从 multipart 表单取出文件，失败时已写好响应
func (h *FileHandler) uploadInput(c *gin.Context) (services.UploadInput, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": "File is too large. Maximum allowed size is 4MB.",
			})
			return services.UploadInput{}, false
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": services.ErrMissingFile.Error()})
		return services.UploadInput{}, false
	}

	return services.UploadInput{
		Reader:       file,
		OriginalName: header.Filename,
		ContentType:  header.Header.Get("Content-Type"),
		Size:         header.Size,
	}, true
}

// uploadError 把上传错误映射成 HTTP 响应
func (h *FileHandler) uploadError(c *gin.Context, err error) {
	if services.IsValidationError(err) {
		middleware.UploadsTotal.WithLabelValues("rejected").Inc()
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	middleware.UploadsTotal.WithLabelValues("error").Inc()
	log.Printf("上传文件失败: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload file."})
}
