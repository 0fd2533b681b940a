package models

// RequirementSlot 某一类上传中的一个文件槽位
type RequirementSlot struct {
	Type  string `json:"type"` // pdf / image / png
	Count int    `json:"count"`
	Label string `json:"label"`
}

// UploadRequirement 一类上传需要提交哪些文件
type UploadRequirement struct {
	Label        string            `json:"label"`
	Description  string            `json:"description"`
	Requirements []RequirementSlot `json:"requirements"`
}

// 静态配置，进程启动后只读，由前端向导消费。
// 服务端不强制校验一个会话是否凑齐这些数量。
var uploadRequirements = map[string]UploadRequirement{
	"financial": {
		Label:       "Financial Documents",
		Description: "Bank statements, tax documents, etc.",
		Requirements: []RequirementSlot{
			{Type: "pdf", Count: 1, Label: "1 PDF document"},
			{Type: "image", Count: 2, Label: "2 PNG/JPG images"},
		},
	},
	"travel": {
		Label:       "Travel Documents",
		Description: "Passport, itinerary, hotel bookings, etc.",
		Requirements: []RequirementSlot{
			{Type: "pdf", Count: 2, Label: "2 PDF documents"},
			{Type: "image", Count: 1, Label: "1 PNG/JPG image"},
		},
	},
	"education": {
		Label:       "Education Documents",
		Description: "Transcripts, certificates, etc.",
		Requirements: []RequirementSlot{
			{Type: "pdf", Count: 2, Label: "2 PDF documents"},
			{Type: "png", Count: 1, Label: "1 PNG image"},
		},
	},
}

// GetUploadRequirements 获取全部上传类型的文件要求
func GetUploadRequirements() map[string]UploadRequirement {
	return uploadRequirements
}

// RequirementsFor 获取单个上传类型的文件要求
func RequirementsFor(uploadType string) (UploadRequirement, bool) {
	req, ok := uploadRequirements[uploadType]
	return req, ok
}
