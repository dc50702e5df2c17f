package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nz1manager/ielts-backend/internal/models"
	"github.com/nz1manager/ielts-backend/internal/users"
)

// brokenRepo fails every operation, simulating a store outage.
type brokenRepo struct{}

var errStore = errors.New("connection refused")

func (brokenRepo) GetByGoogleID(context.Context, string) (*models.User, error) {
	return nil, errStore
}
func (brokenRepo) GetByID(context.Context, int64) (*models.User, error) { return nil, errStore }
func (brokenRepo) Create(context.Context, *models.User) (*models.User, bool, error) {
	return nil, false, errStore
}
func (brokenRepo) UpdateAvatar(context.Context, int64, string) error { return errStore }
func (brokenRepo) CompleteProfile(context.Context, int64, users.ProfileUpdate) (*models.User, error) {
	return nil, errStore
}
func (brokenRepo) List(context.Context) ([]models.User, error) { return nil, errStore }

func newUserRouter(repo users.UserRepository) *gin.Engine {
	r := gin.New()
	NewUserHandler(users.NewService(repo)).Register(r)
	return r
}

func seedUser(t *testing.T, repo *users.MemoryRepo, sub, email string) *models.User {
	t.Helper()
	u, _, err := repo.Create(context.Background(), &models.User{GoogleID: sub, Email: email})
	require.NoError(t, err)
	return u
}

func TestCompleteProfileMissingID(t *testing.T) {
	r := newUserRouter(users.NewMemoryRepo())

	req := httptest.NewRequest("POST", "/api/profile", strings.NewReader(`{"first_name":"Ann"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompleteProfileUnknownID(t *testing.T) {
	r := newUserRouter(users.NewMemoryRepo())

	req := httptest.NewRequest("POST", "/api/profile", strings.NewReader(`{"id":7,"first_name":"Ann"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCompleteProfileSuccess(t *testing.T) {
	repo := users.NewMemoryRepo()
	u := seedUser(t, repo, "sub-7", "seven@e.com")
	r := newUserRouter(repo)

	body := `{"id":` + strconv.FormatInt(u.ID, 10) + `,"first_name":"Ann","last_name":"Lee","phone":"555","group_name":"B2"}`
	req := httptest.NewRequest("POST", "/api/profile", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Success bool        `json:"success"`
		User    models.User `json:"user"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.True(t, got.Success)
	assert.True(t, got.User.IsProfileComplete)
	assert.Equal(t, "Ann", got.User.FirstName)
	assert.Equal(t, "Lee", got.User.LastName)
	require.NotNil(t, got.User.Phone)
	assert.Equal(t, "555", *got.User.Phone)
	require.NotNil(t, got.User.GroupName)
	assert.Equal(t, "B2", *got.User.GroupName)
	// identity fields stay untouched
	assert.Equal(t, "seven@e.com", got.User.Email)
	assert.Equal(t, "sub-7", got.User.GoogleID)
}

func TestCompleteProfileStoreError(t *testing.T) {
	r := newUserRouter(brokenRepo{})

	req := httptest.NewRequest("POST", "/api/profile", strings.NewReader(`{"id":7}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestListUsersNewestFirst(t *testing.T) {
	repo := users.NewMemoryRepo()
	var ids []int64
	for _, sub := range []string{"sub-a", "sub-b", "sub-c"} {
		u := seedUser(t, repo, sub, sub+"@e.com")
		ids = append(ids, u.ID)
		time.Sleep(time.Millisecond)
	}
	r := newUserRouter(repo)

	req := httptest.NewRequest("GET", "/api/users", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Success bool          `json:"success"`
		Count   int           `json:"count"`
		Users   []models.User `json:"users"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.True(t, got.Success)
	require.Equal(t, 3, got.Count)
	assert.Equal(t, ids[2], got.Users[0].ID)
	assert.Equal(t, ids[1], got.Users[1].ID)
	assert.Equal(t, ids[0], got.Users[2].ID)
}

func TestListUsersStoreError(t *testing.T) {
	r := newUserRouter(brokenRepo{})

	req := httptest.NewRequest("GET", "/api/users", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
}
