package models

// Student defines the student model based on the 'students' table.
// Faculty is a snapshot of the referenced faculty taken when the student was
// last written; later changes to the faculty are not reflected here.
type Student struct {
	ID      int64    `json:"id" db:"id" example:"1"`
	Name    string   `json:"name" db:"name" example:"Harry"`
	Age     int      `json:"age" db:"age" example:"11"`
	Faculty *Faculty `json:"faculty"`
}

// FacultyID returns the id of the faculty snapshot and whether one is present.
func (s *Student) FacultyID() (int64, bool) {
	if s == nil || s.Faculty == nil {
		return 0, false
	}
	return s.Faculty.ID, true
}

// Clone returns a deep copy of the student.
func (s *Student) Clone() *Student {
	if s == nil {
		return nil
	}
	c := *s
	c.Faculty = s.Faculty.Clone()
	return &c
}

// StudentInput carries the caller-controlled fields of a student write.
type StudentInput struct {
	Name    string
	Age     int
	Faculty FacultyRef
}

// StudentStats aggregates figures over all stored students
type StudentStats struct {
	Count      int64   `json:"count" example:"3"`
	AverageAge float64 `json:"averageAge" example:"12.5"`
}
