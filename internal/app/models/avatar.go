package models

import "time"

// Avatar is the image attached to a student. At most one exists per student;
// uploads replace it in place.
type Avatar struct {
	ID        int64     `json:"id" db:"id"`
	StudentID int64     `json:"studentId" db:"student_id"`
	Data      []byte    `json:"-" db:"data"`
	FileSize  int64     `json:"fileSize" db:"file_size"`
	MediaType string    `json:"mediaType" db:"media_type"`
	FilePath  string    `json:"filePath" db:"file_path"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Clone returns a copy of the avatar with its own payload buffer.
func (a *Avatar) Clone() *Avatar {
	if a == nil {
		return nil
	}
	c := *a
	c.Data = append([]byte(nil), a.Data...)
	return &c
}

// AvatarContent is an avatar payload paired with its media type.
type AvatarContent struct {
	Data      []byte
	MediaType string
}
