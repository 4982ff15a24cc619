package pages

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogcms/client"
	"blogcms/models"
)

// scenarioServer serves one fixed post and records the last PUT body.
type scenarioServer struct {
	mu      sync.Mutex
	lastPut *models.PostInput
}

func (s *scenarioServer) router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/posts", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(
			`[{"id":"1","title":"Hello","content":"<b>Hi</b>","coverImageURL":"http://x/y.png","categoryIds":["c1"]}]`))
	})
	router.GET("/api/categories", func(c *gin.Context) {
		c.JSON(http.StatusOK, []gin.H{
			{"id": "c1", "name": "Go", "createdAt": "2024-01-01T00:00:00Z", "updatedAt": "2024-01-01T00:00:00Z"},
			{"id": "c2", "name": "Rust", "createdAt": "2024-01-01T00:00:00Z", "updatedAt": "2024-01-01T00:00:00Z"},
		})
	})
	router.PUT("/api/admin/posts/:id", func(c *gin.Context) {
		var in models.PostInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post"})
			return
		}
		s.mu.Lock()
		s.lastPut = &in
		s.mu.Unlock()
		c.JSON(http.StatusOK, models.PostWithCategoryIDs{
			ID:            c.Param("id"),
			Title:         in.Title,
			Content:       in.Content,
			CoverImageURL: in.CoverImageURL,
			CategoryIDs:   in.CategoryIDs,
		})
	})
	router.DELETE("/api/admin/posts/:id", func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete the post"})
	})
	return router
}

func setupScenario(t *testing.T) (*scenarioServer, *client.Client) {
	s := &scenarioServer{}
	srv := httptest.NewServer(s.router())
	t.Cleanup(srv.Close)
	return s, client.New(srv.URL, nil)
}

func TestScenario_ToggleThenSubmit(t *testing.T) {
	s, c := setupScenario(t)

	list := NewPostList(c, nil)
	list.Mount(context.Background())
	require.Equal(t, Loaded, list.Status())
	require.Equal(t, []models.PostWithCategoryIDs{{
		ID:            "1",
		Title:         "Hello",
		Content:       "<b>Hi</b>",
		CoverImageURL: "http://x/y.png",
		CategoryIDs:   []string{"c1"},
	}}, list.Items())

	editor := NewPostEditor(c, nil, "1")
	editor.Mount(context.Background())
	require.Equal(t, Resolved, editor.State())
	assert.Equal(t, []string{"c1"}, editor.SelectedCategories())

	editor.ToggleCategory("c2", true)
	assert.Equal(t, []CategoryOption{
		{ID: "c1", Name: "Go", Checked: true},
		{ID: "c2", Name: "Rust", Checked: true},
	}, editor.CategoryOptions())

	require.True(t, editor.CanSubmit())
	require.True(t, editor.Submit(context.Background()))

	s.mu.Lock()
	put := s.lastPut
	s.mu.Unlock()
	require.NotNil(t, put)
	assert.Equal(t, []string{"c1", "c2"}, put.CategoryIDs)
	assert.Equal(t, "Hello", put.Title)
	assert.Equal(t, []string{"c1", "c2"}, editor.Posts()[0].CategoryIDs)
	assert.False(t, editor.Submitting())
}

func TestEditor_NotFound(t *testing.T) {
	_, c := setupScenario(t)
	editor := NewPostEditor(c, nil, "missing")

	editor.Mount(context.Background())

	assert.Equal(t, Unresolved, editor.State())
	assert.Equal(t, "Post not found.", editor.Message())
	assert.False(t, editor.CanSubmit())
}

func TestEditor_LoadFailure(t *testing.T) {
	c, db := setupTestServer(t)
	closeDB(t, db)
	editor := NewPostEditor(c, nil, "1")

	editor.Mount(context.Background())

	assert.Equal(t, Unresolved, editor.State())
	assert.Contains(t, editor.Message(), "500: Internal Server Error")
	assert.NotEqual(t, "Post not found.", editor.Message())
}

func TestEditor_FieldValidation(t *testing.T) {
	_, c := setupScenario(t)
	editor := NewPostEditor(c, nil, "1")
	editor.Mount(context.Background())
	require.True(t, editor.CanSubmit())

	editor.SetTitle(strings.Repeat("a", 101))
	assert.NotEmpty(t, editor.Fields().TitleError)
	assert.False(t, editor.CanSubmit())

	editor.SetTitle(strings.Repeat("a", 100))
	assert.Empty(t, editor.Fields().TitleError)
	assert.True(t, editor.CanSubmit())

	editor.SetContent("")
	assert.NotEmpty(t, editor.Fields().ContentError)
	assert.False(t, editor.CanSubmit())
	editor.SetContent("x")
	assert.True(t, editor.CanSubmit())

	editor.SetCoverImageURL("not a url")
	assert.NotEmpty(t, editor.Fields().CoverImageURLError)
	assert.Empty(t, editor.Fields().TitleError)
	assert.False(t, editor.CanSubmit())

	editor.SetCoverImageURL("")
	assert.False(t, editor.CanSubmit())

	editor.SetCoverImageURL("https://example.com/a.png")
	assert.True(t, editor.CanSubmit())
}

func TestEditor_ToggleOff(t *testing.T) {
	_, c := setupScenario(t)
	editor := NewPostEditor(c, nil, "1")
	editor.Mount(context.Background())

	editor.ToggleCategory("c1", false)
	editor.ToggleCategory("c1", false)

	assert.Empty(t, editor.SelectedCategories())
	assert.True(t, editor.CanSubmit())
}

// gatedUpdater blocks UpdatePost until release is closed.
type gatedUpdater struct {
	EditorAPI
	started chan struct{}
	release chan struct{}
}

func (g *gatedUpdater) UpdatePost(ctx context.Context, id string, in models.PostInput) (*models.PostWithCategoryIDs, error) {
	close(g.started)
	<-g.release
	return g.EditorAPI.UpdatePost(ctx, id, in)
}

func TestEditor_SubmitDisabledWhileInFlight(t *testing.T) {
	_, c := setupScenario(t)
	api := &gatedUpdater{EditorAPI: c, started: make(chan struct{}), release: make(chan struct{})}
	editor := NewPostEditor(api, nil, "1")
	editor.Mount(context.Background())

	done := make(chan bool)
	go func() { done <- editor.Submit(context.Background()) }()
	<-api.started

	assert.True(t, editor.Submitting())
	assert.False(t, editor.CanSubmit())
	assert.False(t, editor.Submit(context.Background()))

	close(api.release)
	assert.True(t, <-done)
	assert.True(t, editor.CanSubmit())
}

func TestEditor_SubmitFailureRaisesAlert(t *testing.T) {
	c, db := setupTestServer(t)
	post := createTestPost(t, db, "Hello")
	editor := NewPostEditor(c, nil, post.ID)
	editor.Mount(context.Background())
	require.Equal(t, Resolved, editor.State())

	editor.ToggleCategory("missing", true)
	assert.False(t, editor.Submit(context.Background()))

	assert.Contains(t, editor.Alert(), "400: Bad Request")
	assert.True(t, editor.CanSubmit())
	editor.DismissAlert()
	assert.Empty(t, editor.Alert())
}

func TestEditor_SubmitPersists(t *testing.T) {
	c, db := setupTestServer(t)
	cat := createTestCategory(t, db, "Go")
	post := createTestPost(t, db, "Hello")
	editor := NewPostEditor(c, nil, post.ID)
	editor.Mount(context.Background())

	editor.SetTitle("Renamed")
	editor.ToggleCategory(cat.ID, true)
	require.True(t, editor.Submit(context.Background()))

	var stored models.Post
	require.NoError(t, db.Preload("Categories").First(&stored, "id = ?", post.ID).Error)
	assert.Equal(t, "Renamed", stored.Title)
	assert.Equal(t, []string{cat.ID}, stored.CategoryIDs())
	assert.Equal(t, "Renamed", editor.Fields().Title)
}

func TestEditor_DeleteConfirmed(t *testing.T) {
	c, db := setupTestServer(t)
	post := createTestPost(t, db, "Hello")
	nav := &recordingNav{}
	editor := NewPostEditor(c, nav, post.ID)
	editor.Mount(context.Background())

	assert.False(t, editor.ConfirmDelete(context.Background()))
	require.True(t, editor.RequestDelete())
	assert.Equal(t, `Delete "Hello"?`, editor.ConfirmPrompt())

	require.True(t, editor.ConfirmDelete(context.Background()))

	assert.Equal(t, []string{PostsIndex}, nav.Paths())
	assert.Empty(t, editor.Posts())
	var count int64
	db.Model(&models.Post{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestEditor_DeleteCancelled(t *testing.T) {
	c, db := setupTestServer(t)
	post := createTestPost(t, db, "Hello")
	editor := NewPostEditor(c, nil, post.ID)
	editor.Mount(context.Background())

	require.True(t, editor.RequestDelete())
	editor.CancelDelete()

	assert.Empty(t, editor.ConfirmPrompt())
	assert.False(t, editor.ConfirmDelete(context.Background()))
	var count int64
	db.Model(&models.Post{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestEditor_DeleteFailure(t *testing.T) {
	_, c := setupScenario(t)
	nav := &recordingNav{}
	editor := NewPostEditor(c, nav, "1")
	editor.Mount(context.Background())

	require.True(t, editor.RequestDelete())
	assert.False(t, editor.ConfirmDelete(context.Background()))

	assert.Contains(t, editor.Alert(), "500: Internal Server Error")
	assert.Len(t, editor.Posts(), 1)
	assert.True(t, editor.CanSubmit())
	assert.Empty(t, nav.Paths())
}

func TestEditor_CloseDropsSubmitResult(t *testing.T) {
	_, c := setupScenario(t)
	api := &gatedUpdater{EditorAPI: c, started: make(chan struct{}), release: make(chan struct{})}
	editor := NewPostEditor(api, nil, "1")
	editor.Mount(context.Background())
	editor.SetTitle("Changed")

	done := make(chan bool)
	go func() { done <- editor.Submit(context.Background()) }()
	<-api.started
	editor.Close()
	close(api.release)

	assert.False(t, <-done)
	assert.Empty(t, editor.Alert())
	assert.Equal(t, "Hello", editor.Posts()[0].Title)
}

// failingCategories serves posts normally but fails the category list.
type failingCategories struct {
	EditorAPI
}

func (failingCategories) ListCategories(ctx context.Context) ([]client.Category, error) {
	return nil, &client.StatusError{Code: http.StatusInternalServerError, Text: "Internal Server Error"}
}

func TestEditor_CategoryLoadFailureStillResolves(t *testing.T) {
	_, c := setupScenario(t)
	editor := NewPostEditor(failingCategories{EditorAPI: c}, nil, "1")

	editor.Mount(context.Background())

	require.Equal(t, Resolved, editor.State())
	assert.Empty(t, editor.Message())
	assert.Contains(t, editor.OptionsMessage(), "500: Internal Server Error")
	assert.Empty(t, editor.CategoryOptions())
	assert.Equal(t, []string{"c1"}, editor.SelectedCategories())
	assert.Equal(t, "Hello", editor.Fields().Title)
	assert.True(t, editor.CanSubmit())
}

func TestEditor_SubmitDisabledWhileConfirmingDelete(t *testing.T) {
	s, c := setupScenario(t)
	editor := NewPostEditor(c, nil, "1")
	editor.Mount(context.Background())

	require.True(t, editor.RequestDelete())
	assert.False(t, editor.CanSubmit())
	assert.False(t, editor.Submit(context.Background()))
	s.mu.Lock()
	assert.Nil(t, s.lastPut)
	s.mu.Unlock()

	editor.CancelDelete()
	assert.True(t, editor.CanSubmit())
}

func TestEditor_AcceptsNonHTTPAbsoluteCoverURL(t *testing.T) {
	c, db := setupTestServer(t)
	post := createTestPost(t, db, "Hello")
	editor := NewPostEditor(c, nil, post.ID)
	editor.Mount(context.Background())

	editor.SetCoverImageURL("file:///tmp/a.png")
	assert.Empty(t, editor.Fields().CoverImageURLError)
	require.True(t, editor.Submit(context.Background()))

	var stored models.Post
	require.NoError(t, db.First(&stored, "id = ?", post.ID).Error)
	assert.Equal(t, "file:///tmp/a.png", stored.CoverImageURL)
}
