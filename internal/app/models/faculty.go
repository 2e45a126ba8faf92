package models

// Faculty represents a faculty of the school
type Faculty struct {
	ID    int64  `json:"id" db:"id" example:"1"`
	Name  string `json:"name" db:"name" example:"Gryffindor"`
	Color string `json:"color" db:"color" example:"red"`
}

// Clone returns a copy of the faculty, or nil for a nil receiver.
func (f *Faculty) Clone() *Faculty {
	if f == nil {
		return nil
	}
	c := *f
	return &c
}
