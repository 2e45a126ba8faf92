package models

// FacultyRef is an optional reference to a faculty by identifier.
// The zero value references no faculty.
type FacultyRef struct {
	id    int64
	valid bool
}

// SomeFaculty references the faculty with the given id.
func SomeFaculty(id int64) FacultyRef {
	return FacultyRef{id: id, valid: true}
}

// NoFaculty references no faculty.
func NoFaculty() FacultyRef {
	return FacultyRef{}
}

// FacultyRefFromPtr converts a nullable id into a reference.
func FacultyRefFromPtr(id *int64) FacultyRef {
	if id == nil {
		return NoFaculty()
	}
	return SomeFaculty(*id)
}

// Get returns the referenced id and whether a faculty is referenced at all.
func (r FacultyRef) Get() (int64, bool) {
	return r.id, r.valid
}
