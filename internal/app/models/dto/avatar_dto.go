package dto

// AvatarSource selects where an avatar is read from
type AvatarSource string

const (
	AvatarSourceDB AvatarSource = "db"
	AvatarSourceFS AvatarSource = "fs"
)

// AvatarUploadResponse acknowledges a stored avatar
type AvatarUploadResponse struct {
	StudentID int64  `json:"studentId" example:"1"`
	FileSize  int64  `json:"fileSize" example:"2048"`
	MediaType string `json:"mediaType" example:"image/png"`
}
