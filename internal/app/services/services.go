package services

import (
	"context"

	"github.com/yigit/schoolrecords/internal/app/repositories"
	"github.com/yigit/schoolrecords/internal/pkg/filestorage"
	"github.com/yigit/schoolrecords/internal/pkg/keylock"
)

// Services defined in this package:
// - FacultyService: faculty CRUD and faculty filters
// - StudentService: student CRUD, faculty resolution and student queries
// - AvatarService: avatar upload and retrieval from the store or the filesystem
type Services struct {
	FacultyService FacultyService
	StudentService StudentService
	AvatarService  AvatarService
}

// NewServices wires all services on top of one set of repositories
func NewServices(repos *repositories.Repositories, locker keylock.Locker, storage filestorage.FileStorage) *Services {
	avatarService := NewAvatarService(repos.AvatarRepository, repos.StudentRepository, storage, locker)
	resolver := NewFacultyResolver(repos.FacultyRepository)

	return &Services{
		FacultyService: NewFacultyService(repos.FacultyRepository, locker),
		StudentService: NewStudentService(repos.StudentRepository, resolver, avatarService, locker),
		AvatarService:  avatarService,
	}
}

// withLock runs fn while holding key
func withLock(ctx context.Context, locker keylock.Locker, key string, fn func() error) error {
	unlock, err := locker.Lock(ctx, key)
	if err != nil {
		return err
	}
	defer unlock()
	return fn()
}
