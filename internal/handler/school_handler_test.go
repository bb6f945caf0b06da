package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/result-magic-api/internal/models"
	"github.com/noah-isme/result-magic-api/internal/service"
	appErrors "github.com/noah-isme/result-magic-api/pkg/errors"
)

type schoolServiceMock struct {
	lastID  string
	deleted string
}

func (m *schoolServiceMock) Get(ctx context.Context, id string) (*models.School, error) {
	m.lastID = id
	return &models.School{ID: id, Name: "Springfield"}, nil
}

func (m *schoolServiceMock) Update(ctx context.Context, id string, req service.UpdateSchoolRequest) (*models.School, error) {
	return &models.School{ID: id, Name: req.Name, HeadPosition: req.HeadPosition}, nil
}

func (m *schoolServiceMock) Delete(ctx context.Context, id string) error {
	m.deleted = id
	return nil
}

type userServiceMock struct {
	actorID   string
	deletedID string
	createErr error
}

func (m *userServiceMock) List(ctx context.Context, schoolID string) ([]models.User, error) {
	return []models.User{{ID: "u1", SchoolID: schoolID}}, nil
}

func (m *userServiceMock) Create(ctx context.Context, schoolID string, req service.CreateUserRequest) (*models.User, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &models.User{ID: "u2", SchoolID: schoolID, Email: req.Email}, nil
}

func (m *userServiceMock) Update(ctx context.Context, schoolID, id string, req service.UpdateUserRequest) (*models.User, error) {
	return &models.User{ID: id, SchoolID: schoolID, FullName: req.FullName}, nil
}

func (m *userServiceMock) Delete(ctx context.Context, schoolID, actorID, id string) error {
	m.actorID = actorID
	m.deletedID = id
	return nil
}

func TestSchoolHandlerRequiresClaims(t *testing.T) {
	h := NewSchoolHandler(&schoolServiceMock{})
	c, w := newGinContext(http.MethodGet, "/school", nil)
	h.Get(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSchoolHandlerScopesToTokenSchool(t *testing.T) {
	mock := &schoolServiceMock{}
	h := NewSchoolHandler(mock)

	c, w := newGinContext(http.MethodGet, "/school", nil)
	withClaims(c, adminClaims())
	h.Get(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "school-1", mock.lastID)

	c, w = newGinContext(http.MethodPut, "/school", mustJSON(t, service.UpdateSchoolRequest{Name: "New", HeadPosition: "Rector"}))
	withClaims(c, adminClaims())
	h.Update(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"head_position":"Rector"`)

	c, w = newGinContext(http.MethodDelete, "/school", nil)
	withClaims(c, adminClaims())
	h.Delete(c)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "school-1", mock.deleted)
}

func TestUserHandler(t *testing.T) {
	mock := &userServiceMock{}
	h := NewUserHandler(mock)

	c, w := newGinContext(http.MethodGet, "/school/users", nil)
	withClaims(c, adminClaims())
	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"school_id":"school-1"`)

	c, w = newGinContext(http.MethodPost, "/school/users", mustJSON(t, service.CreateUserRequest{Email: "t@example.com"}))
	withClaims(c, adminClaims())
	h.Create(c)
	assert.Equal(t, http.StatusCreated, w.Code)

	mock.createErr = appErrors.Clone(appErrors.ErrConflict, "email already exists")
	c, w = newGinContext(http.MethodPost, "/school/users", mustJSON(t, service.CreateUserRequest{Email: "t@example.com"}))
	withClaims(c, adminClaims())
	h.Create(c)
	assert.Equal(t, http.StatusConflict, w.Code)

	c, w = newGinContext(http.MethodDelete, "/school/users/u9", nil)
	c.Params = gin.Params{{Key: "id", Value: "u9"}}
	withClaims(c, adminClaims())
	h.Delete(c)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "admin-1", mock.actorID)
	assert.Equal(t, "u9", mock.deletedID)
}
