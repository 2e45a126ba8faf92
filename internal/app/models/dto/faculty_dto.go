package dto

import "github.com/yigit/schoolrecords/internal/app/models"

// FacultyRequest represents faculty create and update data
type FacultyRequest struct {
	Name  string `json:"name" binding:"required" example:"Gryffindor"`
	Color string `json:"color" binding:"required" example:"red"`
}

// ToModel converts the request into a faculty record without an id
func (r FacultyRequest) ToModel() *models.Faculty {
	return &models.Faculty{Name: r.Name, Color: r.Color}
}

// FacultyNameResponse carries a single faculty name
type FacultyNameResponse struct {
	Name string `json:"name" example:"Hufflepuff"`
}
