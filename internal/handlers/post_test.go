package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"social-service/internal/mocks"
	"social-service/internal/models"
	"social-service/internal/repositories"
)

func setupPostRouter(handler *PostHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.GET("/posts", handler.ListPosts)
	r.POST("/posts", handler.CreatePost)
	r.PUT("/posts/:post_id", handler.EditPost)
	r.DELETE("/posts/:post_id", handler.DeletePost)
	return r
}

func TestListPostsIncludesTallies(t *testing.T) {
	postRepo := new(mocks.PostRepositoryMock)
	handler := NewPostHandler(postRepo)
	router := setupPostRouter(handler)

	postRepo.On("ListPostsWithVotes", mock.Anything).Return([]models.Post{
		{ID: 9, Title: "hello", Votes: []models.PostVote{
			{ID: 1, PostID: 9, UserID: 1, IsPositive: true},
			{ID: 2, PostID: 9, UserID: 2, IsPositive: false},
		}},
	}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"tally":{"positive":1,"negative":1}`)
	postRepo.AssertExpectations(t)
}

func TestCreatePostSuccess(t *testing.T) {
	postRepo := new(mocks.PostRepositoryMock)
	handler := NewPostHandler(postRepo)
	router := setupPostRouter(handler)

	postRepo.On("CreatePost", mock.Anything, 1, "hello", "world").Return(models.Post{ID: 9, UserID: 1, Title: "hello", Content: "world"}, nil).Once()

	body := bytes.NewBufferString(`{"title":"hello","content":"world"}`)
	req := httptest.NewRequest(http.MethodPost, "/posts", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	postRepo.AssertExpectations(t)
}

func TestCreatePostRejectsLongTitle(t *testing.T) {
	postRepo := new(mocks.PostRepositoryMock)
	handler := NewPostHandler(postRepo)
	router := setupPostRouter(handler)

	body := bytes.NewBufferString(`{"title":"` + strings.Repeat("x", 41) + `","content":"world"}`)
	req := httptest.NewRequest(http.MethodPost, "/posts", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	postRepo.AssertNotCalled(t, "CreatePost", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreatePostRejectsEmptyContent(t *testing.T) {
	postRepo := new(mocks.PostRepositoryMock)
	handler := NewPostHandler(postRepo)
	router := setupPostRouter(handler)

	body := bytes.NewBufferString(`{"title":"hello","content":""}`)
	req := httptest.NewRequest(http.MethodPost, "/posts", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	postRepo.AssertNotCalled(t, "CreatePost", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEditPostSuccess(t *testing.T) {
	postRepo := new(mocks.PostRepositoryMock)
	handler := NewPostHandler(postRepo)
	router := setupPostRouter(handler)

	postRepo.On("GetPostWithVotes", mock.Anything, 9).Return(models.Post{ID: 9, UserID: 1}, nil).Once()
	postRepo.On("UpdatePost", mock.Anything, 9, "edited", "new content").Return(nil).Once()

	body := bytes.NewBufferString(`{"title":"edited","content":"new content"}`)
	req := httptest.NewRequest(http.MethodPut, "/posts/9", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	postRepo.AssertExpectations(t)
}

func TestEditPostOwnershipEnforced(t *testing.T) {
	postRepo := new(mocks.PostRepositoryMock)
	handler := NewPostHandler(postRepo)
	router := setupPostRouter(handler)

	postRepo.On("GetPostWithVotes", mock.Anything, 9).Return(models.Post{ID: 9, UserID: 2}, nil).Once()

	body := bytes.NewBufferString(`{"title":"edited","content":"new content"}`)
	req := httptest.NewRequest(http.MethodPut, "/posts/9", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	postRepo.AssertNotCalled(t, "UpdatePost", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEditPostValidatesBeforeLoading(t *testing.T) {
	postRepo := new(mocks.PostRepositoryMock)
	handler := NewPostHandler(postRepo)
	router := setupPostRouter(handler)

	body := bytes.NewBufferString(`{"title":"` + strings.Repeat("x", 41) + `","content":"new content"}`)
	req := httptest.NewRequest(http.MethodPut, "/posts/9", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	postRepo.AssertNotCalled(t, "GetPostWithVotes", mock.Anything, mock.Anything)
}

func TestDeletePostSuccess(t *testing.T) {
	postRepo := new(mocks.PostRepositoryMock)
	handler := NewPostHandler(postRepo)
	router := setupPostRouter(handler)

	postRepo.On("GetPostWithVotes", mock.Anything, 9).Return(models.Post{ID: 9, UserID: 1}, nil).Once()
	postRepo.On("DeletePost", mock.Anything, 9).Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/posts/9", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	postRepo.AssertExpectations(t)
}

func TestDeletePostOwnershipEnforced(t *testing.T) {
	postRepo := new(mocks.PostRepositoryMock)
	handler := NewPostHandler(postRepo)
	router := setupPostRouter(handler)

	postRepo.On("GetPostWithVotes", mock.Anything, 9).Return(models.Post{ID: 9, UserID: 2}, nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/posts/9", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	postRepo.AssertNotCalled(t, "DeletePost", mock.Anything, mock.Anything)
}

func TestDeletePostNotFound(t *testing.T) {
	postRepo := new(mocks.PostRepositoryMock)
	handler := NewPostHandler(postRepo)
	router := setupPostRouter(handler)

	postRepo.On("GetPostWithVotes", mock.Anything, 9).Return(models.Post{}, repositories.ErrPostNotFound).Once()

	req := httptest.NewRequest(http.MethodDelete, "/posts/9", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	postRepo.AssertNotCalled(t, "DeletePost", mock.Anything, mock.Anything)
}
