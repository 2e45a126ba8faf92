package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yigit/schoolrecords/internal/app/repositories"
	"github.com/yigit/schoolrecords/internal/app/repositories/memory"
	"github.com/yigit/schoolrecords/internal/pkg/filestorage"
	"github.com/yigit/schoolrecords/internal/pkg/keylock"
)

type testEnv struct {
	repos   *repositories.Repositories
	storage *filestorage.LocalStorage
	*Services
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	storage, err := filestorage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	repos := memory.NewRepositories()
	return &testEnv{
		repos:    repos,
		storage:  storage,
		Services: NewServices(repos, keylock.NewMemoryLocker(), storage),
	}
}
