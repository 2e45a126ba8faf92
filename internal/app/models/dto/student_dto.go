package dto

import "github.com/yigit/schoolrecords/internal/app/models"

// FacultyIDRequest references a faculty inside a student request.
// A null object or a null id both mean "no faculty".
type FacultyIDRequest struct {
	ID *int64 `json:"id" example:"1"`
}

// StudentRequest represents student create and update data
type StudentRequest struct {
	Name    string            `json:"name" binding:"required" example:"Harry"`
	Age     int               `json:"age" binding:"gte=0" example:"11"`
	Faculty *FacultyIDRequest `json:"faculty"`
}

// ToInput converts the request into a service input
func (r StudentRequest) ToInput() models.StudentInput {
	ref := models.NoFaculty()
	if r.Faculty != nil {
		ref = models.FacultyRefFromPtr(r.Faculty.ID)
	}
	return models.StudentInput{Name: r.Name, Age: r.Age, Faculty: ref}
}
