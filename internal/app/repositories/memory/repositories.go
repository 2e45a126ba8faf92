package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/yigit/schoolrecords/internal/app/models"
	"github.com/yigit/schoolrecords/internal/app/repositories"
)

var (
	_ repositories.FacultyRepository = (*FacultyRepository)(nil)
	_ repositories.StudentRepository = (*StudentRepository)(nil)
	_ repositories.AvatarRepository  = (*AvatarRepository)(nil)
)

// NewRepositories initializes in-memory repositories sharing nothing but the process
func NewRepositories() *repositories.Repositories {
	return &repositories.Repositories{
		FacultyRepository: NewFacultyRepository(),
		StudentRepository: NewStudentRepository(),
		AvatarRepository:  NewAvatarRepository(),
	}
}

// FacultyRepository keeps faculties in memory
type FacultyRepository struct {
	t *table[*models.Faculty]
}

// NewFacultyRepository creates an empty FacultyRepository
func NewFacultyRepository() *FacultyRepository {
	return &FacultyRepository{
		t: newTable((*models.Faculty).Clone, func(f *models.Faculty, id int64) { f.ID = id }),
	}
}

func (r *FacultyRepository) Create(_ context.Context, faculty *models.Faculty) error {
	faculty.ID = r.t.insert(faculty)
	return nil
}

func (r *FacultyRepository) GetByID(_ context.Context, id int64) (*models.Faculty, error) {
	faculty, ok := r.t.get(id)
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return faculty, nil
}

func (r *FacultyRepository) Update(_ context.Context, faculty *models.Faculty) error {
	if !r.t.replace(faculty.ID, faculty) {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *FacultyRepository) Delete(_ context.Context, id int64) (*models.Faculty, error) {
	faculty, ok := r.t.remove(id)
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return faculty, nil
}

func (r *FacultyRepository) Exists(_ context.Context, id int64) (bool, error) {
	return r.t.has(id), nil
}

func (r *FacultyRepository) List(_ context.Context, offset uint64, limit int) ([]*models.Faculty, int64, error) {
	faculties, total := r.t.page(offset, limit)
	return faculties, total, nil
}

func (r *FacultyRepository) FindAll(_ context.Context) ([]*models.Faculty, error) {
	return r.t.filter(nil), nil
}

func (r *FacultyRepository) FindByColor(_ context.Context, color string) ([]*models.Faculty, error) {
	return r.t.filter(func(f *models.Faculty) bool { return f.Color == color }), nil
}

func (r *FacultyRepository) FindByColorOrName(_ context.Context, term string) ([]*models.Faculty, error) {
	return r.t.filter(func(f *models.Faculty) bool {
		return strings.EqualFold(f.Color, term) || strings.EqualFold(f.Name, term)
	}), nil
}

// StudentRepository keeps students and their faculty snapshots in memory
type StudentRepository struct {
	t *table[*models.Student]
}

// NewStudentRepository creates an empty StudentRepository
func NewStudentRepository() *StudentRepository {
	return &StudentRepository{
		t: newTable((*models.Student).Clone, func(s *models.Student, id int64) { s.ID = id }),
	}
}

func (r *StudentRepository) Create(_ context.Context, student *models.Student) error {
	student.ID = r.t.insert(student)
	return nil
}

func (r *StudentRepository) GetByID(_ context.Context, id int64) (*models.Student, error) {
	student, ok := r.t.get(id)
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return student, nil
}

func (r *StudentRepository) Update(_ context.Context, student *models.Student) error {
	if !r.t.replace(student.ID, student) {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *StudentRepository) Delete(_ context.Context, id int64) (*models.Student, error) {
	student, ok := r.t.remove(id)
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return student, nil
}

func (r *StudentRepository) Exists(_ context.Context, id int64) (bool, error) {
	return r.t.has(id), nil
}

func (r *StudentRepository) List(_ context.Context, offset uint64, limit int) ([]*models.Student, int64, error) {
	students, total := r.t.page(offset, limit)
	return students, total, nil
}

func (r *StudentRepository) FindAll(_ context.Context) ([]*models.Student, error) {
	return r.t.filter(nil), nil
}

func (r *StudentRepository) FindByAge(_ context.Context, age int) ([]*models.Student, error) {
	return r.t.filter(func(s *models.Student) bool { return s.Age == age }), nil
}

func (r *StudentRepository) FindByAgeBetween(_ context.Context, minAge, maxAge int) ([]*models.Student, error) {
	return r.t.filter(func(s *models.Student) bool { return s.Age >= minAge && s.Age <= maxAge }), nil
}

func (r *StudentRepository) FindByFacultyID(_ context.Context, facultyID int64) ([]*models.Student, error) {
	return r.t.filter(func(s *models.Student) bool {
		id, ok := s.FacultyID()
		return ok && id == facultyID
	}), nil
}

func (r *StudentRepository) Stats(_ context.Context) (*models.StudentStats, error) {
	students := r.t.filter(nil)
	stats := &models.StudentStats{Count: int64(len(students))}
	if len(students) == 0 {
		return stats, nil
	}
	var sum int
	for _, s := range students {
		sum += s.Age
	}
	stats.AverageAge = float64(sum) / float64(len(students))
	return stats, nil
}

func (r *StudentRepository) FindLatest(_ context.Context, limit int) ([]*models.Student, error) {
	if limit < 0 {
		limit = 0
	}
	return r.t.last(limit), nil
}

// AvatarRepository keeps avatars keyed by student id
type AvatarRepository struct {
	mu        sync.Mutex
	seq       int64
	byStudent map[int64]*models.Avatar
}

// NewAvatarRepository creates an empty AvatarRepository
func NewAvatarRepository() *AvatarRepository {
	return &AvatarRepository{byStudent: make(map[int64]*models.Avatar)}
}

func (r *AvatarRepository) FindByStudentID(_ context.Context, studentID int64) (*models.Avatar, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	avatar, ok := r.byStudent[studentID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return avatar.Clone(), nil
}

// Upsert keeps the avatar id of an existing record and replaces everything else.
func (r *AvatarRepository) Upsert(_ context.Context, avatar *models.Avatar) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byStudent[avatar.StudentID]; ok {
		avatar.ID = existing.ID
	} else {
		r.seq++
		avatar.ID = r.seq
	}
	avatar.UpdatedAt = time.Now()
	r.byStudent[avatar.StudentID] = avatar.Clone()
	return nil
}

func (r *AvatarRepository) DeleteByStudentID(_ context.Context, studentID int64) (*models.Avatar, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	avatar, ok := r.byStudent[studentID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	delete(r.byStudent, studentID)
	return avatar, nil
}
