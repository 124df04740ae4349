package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/krishnapranayangara/linksdisplay/internal/domain/link"
	"github.com/krishnapranayangara/linksdisplay/internal/service"
)

// MockLinkService is a mock implementation of service.LinkService
type MockLinkService struct {
	mock.Mock
}

func (m *MockLinkService) GetAll(categoryID *int64) ([]*link.Link, error) {
	args := m.Called(categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*link.Link), args.Error(1)
}

func (m *MockLinkService) GetByID(id int64) (*link.Link, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*link.Link), args.Error(1)
}

func (m *MockLinkService) Create(req *link.CreateLinkRequest) (*link.Link, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*link.Link), args.Error(1)
}

func (m *MockLinkService) Update(id int64, req *link.UpdateLinkRequest) (*link.Link, error) {
	args := m.Called(id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*link.Link), args.Error(1)
}

func (m *MockLinkService) Delete(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockLinkService) TogglePin(id int64) (*link.Link, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*link.Link), args.Error(1)
}

func (m *MockLinkService) Search(term string) ([]*link.Link, error) {
	args := m.Called(term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*link.Link), args.Error(1)
}

func (m *MockLinkService) GetPinned() ([]*link.Link, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*link.Link), args.Error(1)
}

func (m *MockLinkService) Stats() (*link.Stats, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*link.Stats), args.Error(1)
}

func setupLinkRouter(svc *MockLinkService) *gin.Engine {
	handler := NewLinkHandler(svc)
	router := gin.New()
	router.GET("/api/links", handler.GetLinks)
	router.POST("/api/links", handler.CreateLink)
	router.GET("/api/links/search", handler.SearchLinks)
	router.GET("/api/links/pinned", handler.GetPinnedLinks)
	router.GET("/api/links/stats", handler.GetLinkStats)
	router.GET("/api/links/:id", handler.GetLink)
	router.PUT("/api/links/:id", handler.UpdateLink)
	router.DELETE("/api/links/:id", handler.DeleteLink)
	router.PATCH("/api/links/:id/pin", handler.TogglePin)
	return router
}

// ==================== GetLinks Tests ====================

func TestLinkHandler_GetLinks_Success(t *testing.T) {
	mockService := new(MockLinkService)
	links := []*link.Link{
		{ID: 1, Title: "Go blog", URL: "https://go.dev/blog", Pinned: true},
		{ID: 2, Title: "Gin docs", URL: "https://gin-gonic.com"},
	}
	mockService.On("GetAll", (*int64)(nil)).Return(links, nil)

	router := setupLinkRouter(mockService)
	req, _ := http.NewRequest("GET", "/api/links", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Go blog")
	mockService.AssertExpectations(t)
}

func TestLinkHandler_GetLinks_ByCategory(t *testing.T) {
	mockService := new(MockLinkService)
	mockService.On("GetAll", mock.MatchedBy(func(id *int64) bool {
		return id != nil && *id == 3
	})).Return([]*link.Link{}, nil)

	router := setupLinkRouter(mockService)
	req, _ := http.NewRequest("GET", "/api/links?category_id=3", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestLinkHandler_GetLinks_InvalidCategoryID(t *testing.T) {
	mockService := new(MockLinkService)

	router := setupLinkRouter(mockService)
	req, _ := http.NewRequest("GET", "/api/links?category_id=abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "GetAll")
}

// ==================== CreateLink Tests ====================

func TestLinkHandler_CreateLink_Success(t *testing.T) {
	mockService := new(MockLinkService)
	created := &link.Link{ID: 1, Title: "Go blog", URL: "https://go.dev/blog"}
	mockService.On("Create", mock.Anything).Return(created, nil)

	router := setupLinkRouter(mockService)
	body, _ := json.Marshal(map[string]string{"title": "Go blog", "url": "https://go.dev/blog"})
	req, _ := http.NewRequest("POST", "/api/links", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

func TestLinkHandler_CreateLink_MissingFields(t *testing.T) {
	mockService := new(MockLinkService)

	router := setupLinkRouter(mockService)
	body, _ := json.Marshal(map[string]string{"title": "No URL"})
	req, _ := http.NewRequest("POST", "/api/links", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Create")
}

func TestLinkHandler_CreateLink_InvalidURL(t *testing.T) {
	mockService := new(MockLinkService)
	mockService.On("Create", mock.Anything).
		Return(nil, &service.ValidationError{Message: "Invalid URL format. Must include scheme (http/https) and domain."})

	router := setupLinkRouter(mockService)
	body, _ := json.Marshal(map[string]string{"title": "Bad", "url": "not-a-url"})
	req, _ := http.NewRequest("POST", "/api/links", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid URL format")
}

func TestLinkHandler_CreateLink_DuplicateURL(t *testing.T) {
	mockService := new(MockLinkService)
	mockService.On("Create", mock.Anything).
		Return(nil, fmt.Errorf("link with URL 'https://go.dev' already exists: %w", service.ErrConflict))

	router := setupLinkRouter(mockService)
	body, _ := json.Marshal(map[string]string{"title": "Dup", "url": "https://go.dev"})
	req, _ := http.NewRequest("POST", "/api/links", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")
}

// ==================== UpdateLink Tests ====================

func TestLinkHandler_UpdateLink_Success(t *testing.T) {
	mockService := new(MockLinkService)
	updated := &link.Link{ID: 5, Title: "Renamed", URL: "https://go.dev"}
	mockService.On("Update", int64(5), mock.MatchedBy(func(req *link.UpdateLinkRequest) bool {
		return req.Title != nil && *req.Title == "Renamed" && req.URL == nil
	})).Return(updated, nil)

	router := setupLinkRouter(mockService)
	body := bytes.NewBufferString(`{"title": "Renamed"}`)
	req, _ := http.NewRequest("PUT", "/api/links/5", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestLinkHandler_UpdateLink_NotFound(t *testing.T) {
	mockService := new(MockLinkService)
	mockService.On("Update", int64(99), mock.Anything).Return(nil, service.ErrNotFound)

	router := setupLinkRouter(mockService)
	body := bytes.NewBufferString(`{"title": "Renamed"}`)
	req, _ := http.NewRequest("PUT", "/api/links/99", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ==================== DeleteLink Tests ====================

func TestLinkHandler_DeleteLink_Success(t *testing.T) {
	mockService := new(MockLinkService)
	mockService.On("Delete", int64(7)).Return(nil)

	router := setupLinkRouter(mockService)
	req, _ := http.NewRequest("DELETE", "/api/links/7", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestLinkHandler_DeleteLink_NotFound(t *testing.T) {
	mockService := new(MockLinkService)
	mockService.On("Delete", int64(99)).Return(service.ErrNotFound)

	router := setupLinkRouter(mockService)
	req, _ := http.NewRequest("DELETE", "/api/links/99", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ==================== TogglePin Tests ====================

func TestLinkHandler_TogglePin_Success(t *testing.T) {
	mockService := new(MockLinkService)
	pinned := &link.Link{ID: 3, Title: "Go blog", URL: "https://go.dev/blog", Pinned: true}
	mockService.On("TogglePin", int64(3)).Return(pinned, nil)

	router := setupLinkRouter(mockService)
	req, _ := http.NewRequest("PATCH", "/api/links/3/pin", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Link pinned")
	mockService.AssertExpectations(t)
}

// ==================== SearchLinks Tests ====================

func TestLinkHandler_SearchLinks_Success(t *testing.T) {
	mockService := new(MockLinkService)
	mockService.On("Search", "golang").Return([]*link.Link{{ID: 1, Title: "Golang weekly"}}, nil)

	router := setupLinkRouter(mockService)
	req, _ := http.NewRequest("GET", "/api/links/search?q=golang", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestLinkHandler_SearchLinks_TermTooShort(t *testing.T) {
	mockService := new(MockLinkService)
	mockService.On("Search", "a").
		Return(nil, &service.ValidationError{Message: "Search term must be at least 2 characters long"})

	router := setupLinkRouter(mockService)
	req, _ := http.NewRequest("GET", "/api/links/search?q=a", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ==================== Stats Tests ====================

func TestLinkHandler_GetLinkStats_Success(t *testing.T) {
	mockService := new(MockLinkService)
	stats := &link.Stats{TotalLinks: 10, PinnedLinks: 2, UncategorizedLinks: 3}
	mockService.On("Stats").Return(stats, nil)

	router := setupLinkRouter(mockService)
	req, _ := http.NewRequest("GET", "/api/links/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(10), data["total_links"])
	mockService.AssertExpectations(t)
}
