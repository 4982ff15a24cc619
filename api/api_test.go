package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"blogcms/common"
	"blogcms/database"
	"blogcms/models"
	"blogcms/store"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := common.OpenSqlite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))
	return db
}

func setupTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewAPIModule(store.New(db)).RegisterRoutes(router)
	return router
}

func createTestPost(t *testing.T, db *gorm.DB, title string, createdAt time.Time, categoryIDs ...string) *models.Post {
	post := &models.Post{
		Title:         title,
		Content:       "<b>Hi</b>",
		CoverImageURL: "http://x/y.png",
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
	require.NoError(t, db.Create(post).Error)
	for _, id := range categoryIDs {
		require.NoError(t, db.Create(&models.PostCategory{PostID: post.ID, CategoryID: id}).Error)
	}
	return post
}

func closeDB(t *testing.T, db *gorm.DB) {
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestListPosts_CategoryIDs(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	cat := &models.Category{Name: "Go"}
	require.NoError(t, db.Create(cat).Error)
	older := createTestPost(t, db, "Older", time.Now().Add(-time.Hour))
	newer := createTestPost(t, db, "Hello", time.Now(), cat.ID)

	w := get(router, "/api/posts")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")

	var body []models.PostWithCategoryIDs
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, models.PostWithCategoryIDs{
		ID:            newer.ID,
		Title:         "Hello",
		Content:       "<b>Hi</b>",
		CoverImageURL: "http://x/y.png",
		CategoryIDs:   []string{cat.ID},
	}, body[0])
	assert.Equal(t, older.ID, body[1].ID)
	assert.Equal(t, []string{}, body[1].CategoryIDs)
}

func TestListPosts_EmptyIsArray(t *testing.T) {
	router := setupTestRouter(setupTestDB(t))

	w := get(router, "/api/posts")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestListPosts_ExpandCategories(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	cat := &models.Category{Name: "Go"}
	require.NoError(t, db.Create(cat).Error)
	createTestPost(t, db, "Hello", time.Now(), cat.ID)

	w := get(router, "/api/posts?expand=categories")
	require.Equal(t, http.StatusOK, w.Code)

	var body []models.PostWithCategories
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, []models.CategoryName{{ID: cat.ID, Name: "Go"}}, body[0].Categories)
	assert.NotContains(t, w.Body.String(), "categoryIds")
}

func TestListPosts_StoreFailure(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	closeDB(t, db)

	w := get(router, "/api/posts")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body models.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Error)
	assert.NotContains(t, body.Error, "sql")
}

func TestGetPost(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	post := createTestPost(t, db, "Hello", time.Now())

	w := get(router, "/api/posts/"+post.ID)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")

	var body models.PostWithCategoryIDs
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, post.ID, body.ID)
	assert.Equal(t, "Hello", body.Title)
}

func TestGetPost_NotFound(t *testing.T) {
	router := setupTestRouter(setupTestDB(t))

	w := get(router, "/api/posts/does-not-exist")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Post not found"}`, w.Body.String())
}

func TestGetPost_StoreFailure(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	closeDB(t, db)

	w := get(router, "/api/posts/anything")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch the post"}`, w.Body.String())
}

func TestListCategories(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	require.NoError(t, db.Create(&models.Category{Name: "Go"}).Error)

	w := get(router, "/api/categories")
	require.Equal(t, http.StatusOK, w.Code)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "Go", body[0]["name"])
	assert.Contains(t, body[0], "id")
	assert.Contains(t, body[0], "createdAt")
	assert.Contains(t, body[0], "updatedAt")
}

func TestListCategories_StoreFailure(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	closeDB(t, db)

	w := get(router, "/api/categories")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetCategory_NotFound(t *testing.T) {
	router := setupTestRouter(setupTestDB(t))

	w := get(router, "/api/categories/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
