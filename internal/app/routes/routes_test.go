package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/schoolrecords/internal/app/controllers"
	"github.com/yigit/schoolrecords/internal/app/repositories"
	"github.com/yigit/schoolrecords/internal/app/repositories/memory"
	"github.com/yigit/schoolrecords/internal/app/services"
	"github.com/yigit/schoolrecords/internal/pkg/filestorage"
	"github.com/yigit/schoolrecords/internal/pkg/keylock"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Field   string          `json:"field"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

type testServer struct {
	router *gin.Engine
	repos  *repositories.Repositories
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	storage, err := filestorage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	repos := memory.NewRepositories()
	svc := services.NewServices(repos, keylock.NewMemoryLocker(), storage)

	router := NewEngine()
	SetupRouter(router,
		controllers.NewStudentController(svc.StudentService),
		controllers.NewFacultyController(svc.FacultyService, svc.StudentService),
		controllers.NewAvatarController(svc.AvatarService),
	)
	return &testServer{router: router, repos: repos}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func (s *testServer) upload(t *testing.T, path string, payload []byte, filename, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="avatar"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

type studentJSON struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Age     int    `json:"age"`
	Faculty *struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Color string `json:"color"`
	} `json:"faculty"`
}

func TestHealthAndPing(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	rec, _ = s.do(t, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStudentLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodPost, "/api/v1/faculties", map[string]interface{}{"id": 50, "name": "Gryffindor", "color": "red"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":1,"name":"Gryffindor","color":"red"}`, string(env.Data))

	rec, env = s.do(t, http.MethodPost, "/api/v1/students", map[string]interface{}{
		"name": "Harry", "age": 11, "faculty": map[string]interface{}{"id": 1},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var harry studentJSON
	require.NoError(t, json.Unmarshal(env.Data, &harry))
	assert.Equal(t, int64(1), harry.ID)
	require.NotNil(t, harry.Faculty)
	assert.Equal(t, "Gryffindor", harry.Faculty.Name)

	rec, env = s.do(t, http.MethodGet, "/api/v1/students?minAge=10&maxAge=12", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var inRange []studentJSON
	require.NoError(t, json.Unmarshal(env.Data, &inRange))
	require.Len(t, inRange, 1)
	assert.Equal(t, int64(1), inRange[0].ID)

	rec, env = s.do(t, http.MethodGet, "/api/v1/students/1/faculty", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"name":"Gryffindor","color":"red"}`, string(env.Data))

	rec, _ = s.do(t, http.MethodDelete, "/api/v1/faculties/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = s.do(t, http.MethodGet, "/api/v1/students/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &harry))
	require.NotNil(t, harry.Faculty)
	assert.Equal(t, "Gryffindor", harry.Faculty.Name)

	rec, env = s.do(t, http.MethodPut, "/api/v1/students/1", map[string]interface{}{"name": "Harry", "age": 12, "faculty": nil})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &harry))
	assert.Nil(t, harry.Faculty)
	assert.Equal(t, 12, harry.Age)

	rec, env = s.do(t, http.MethodDelete, "/api/v1/students/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &harry))
	assert.Equal(t, int64(1), harry.ID)

	rec, env = s.do(t, http.MethodGet, "/api/v1/students/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "RES_001", env.Error.Code)
}

func TestStudentErrors(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodPost, "/api/v1/students", map[string]interface{}{
		"name": "Ghost", "age": 300, "faculty": map[string]interface{}{"id": 9},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "RES_004", env.Error.Code)
	assert.JSONEq(t, `{"facultyId":9}`, string(env.Error.Details))
	assert.Empty(t, mustAllStudents(t, s))

	rec, env = s.do(t, http.MethodPost, "/api/v1/students", map[string]interface{}{"age": 3})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VAL_001", env.Error.Code)
	assert.Equal(t, "Name", env.Error.Field)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/students", map[string]interface{}{"name": "Neg", "age": -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/students/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/students?age=old", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/students?minAge=3", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		rec, env = s.do(t, method, "/api/v1/students/77", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, method)
		assert.Equal(t, "Student not found", env.Error.Message)
	}
	rec, env = s.do(t, http.MethodPut, "/api/v1/students/77", map[string]interface{}{"name": "x", "age": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Student not found", env.Error.Message)
}

func mustAllStudents(t *testing.T, s *testServer) []studentJSON {
	t.Helper()
	rec, env := s.do(t, http.MethodGet, "/api/v1/students", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var students []studentJSON
	require.NoError(t, json.Unmarshal(env.Data, &students))
	return students
}

func TestStudentQueries(t *testing.T) {
	s := newTestServer(t)
	for i, name := range []string{"Alicia", "Bob", "Angelina"} {
		rec, _ := s.do(t, http.MethodPost, "/api/v1/students", map[string]interface{}{"name": name, "age": 10 + i})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	_, env := s.do(t, http.MethodGet, "/api/v1/students?age=11", nil)
	var byAge []studentJSON
	require.NoError(t, json.Unmarshal(env.Data, &byAge))
	require.Len(t, byAge, 1)
	assert.Equal(t, "Bob", byAge[0].Name)

	_, env = s.do(t, http.MethodGet, "/api/v1/students/stats", nil)
	assert.JSONEq(t, `{"count":3,"averageAge":11}`, string(env.Data))

	_, env = s.do(t, http.MethodGet, "/api/v1/students/latest?limit=2", nil)
	var latest []studentJSON
	require.NoError(t, json.Unmarshal(env.Data, &latest))
	require.Len(t, latest, 2)
	assert.Equal(t, "Angelina", latest[0].Name)

	_, env = s.do(t, http.MethodGet, "/api/v1/students/names", nil)
	assert.JSONEq(t, `["ALICIA","ANGELINA"]`, string(env.Data))

	_, env = s.do(t, http.MethodGet, "/api/v1/students?page=2&size=2", nil)
	var page struct {
		Items      []studentJSON `json:"items"`
		Pagination struct {
			CurrentPage int   `json:"currentPage"`
			TotalPages  int   `json:"totalPages"`
			TotalItems  int64 `json:"totalItems"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Angelina", page.Items[0].Name)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.Equal(t, int64(3), page.Pagination.TotalItems)
}

func TestFacultyQueries(t *testing.T) {
	s := newTestServer(t)
	for _, f := range []map[string]string{
		{"name": "Gryffindor", "color": "Red"},
		{"name": "Hufflepuff", "color": "yellow"},
	} {
		rec, _ := s.do(t, http.MethodPost, "/api/v1/faculties", f)
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	rec, _ := s.do(t, http.MethodPost, "/api/v1/students", map[string]interface{}{"name": "Cedric", "age": 15, "faculty": map[string]int{"id": 2}})
	require.Equal(t, http.StatusCreated, rec.Code)

	_, env := s.do(t, http.MethodGet, "/api/v1/faculties?colorOrName=RED", nil)
	assert.JSONEq(t, `[{"id":1,"name":"Gryffindor","color":"Red"}]`, string(env.Data))

	_, env = s.do(t, http.MethodGet, "/api/v1/faculties?color=red", nil)
	assert.JSONEq(t, `[]`, string(env.Data))

	_, env = s.do(t, http.MethodGet, "/api/v1/faculties/longest-name", nil)
	assert.JSONEq(t, `{"name":"Gryffindor"}`, string(env.Data))

	_, env = s.do(t, http.MethodGet, "/api/v1/faculties/2/students", nil)
	var members []studentJSON
	require.NoError(t, json.Unmarshal(env.Data, &members))
	require.Len(t, members, 1)
	assert.Equal(t, "Cedric", members[0].Name)

	rec, env = s.do(t, http.MethodPut, "/api/v1/faculties/9", map[string]string{"name": "x", "color": "y"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Faculty not found", env.Error.Message)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/faculties", map[string]string{"name": "NoColor"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLongestNameWithoutFaculties(t *testing.T) {
	s := newTestServer(t)
	rec, _ := s.do(t, http.MethodGet, "/api/v1/faculties/longest-name", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAvatarRoundTrip(t *testing.T) {
	s := newTestServer(t)
	rec, _ := s.do(t, http.MethodPost, "/api/v1/students", map[string]interface{}{"name": "Harry", "age": 11})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.upload(t, "/api/v1/students/1/avatar", []byte{0x01, 0x02}, "harry.png", "image/png")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"studentId":1,"fileSize":2,"mediaType":"image/png"}`, extractData(t, rec))

	for _, path := range []string{"/api/v1/students/1/avatar", "/api/v1/students/1/avatar?source=db", "/api/v1/students/1/avatar?source=fs"} {
		rec, _ = s.do(t, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.Equal(t, []byte{0x01, 0x02}, rec.Body.Bytes())
	}

	avatar, err := s.repos.AvatarRepository.FindByStudentID(context.Background(), 1)
	require.NoError(t, err)
	require.NoError(t, os.Remove(avatar.FilePath))

	rec, env := s.do(t, http.MethodGet, "/api/v1/students/1/avatar?source=fs", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "SRV_004", env.Error.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/students/1/avatar?source=db", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/students/1/avatar?source=cache", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAvatarErrors(t *testing.T) {
	s := newTestServer(t)

	rec := s.upload(t, "/api/v1/students/5/avatar", []byte{1}, "x.png", "image/png")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/students", map[string]interface{}{"name": "Ron", "age": 11})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/students/1/avatar", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env := s.do(t, http.MethodGet, "/api/v1/students/1/avatar", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Avatar not found", env.Error.Message)
}

func extractData(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return string(env.Data)
}
