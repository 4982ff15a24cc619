package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"blogcms/cache"
	"blogcms/common"
	"blogcms/models"
)

// ContentReader is the read side of the content store.
type ContentReader interface {
	ListPosts(ctx context.Context, expand bool) ([]models.Post, error)
	GetPost(ctx context.Context, id string, expand bool) (*models.Post, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id string) (*models.Category, error)
}

type APIModule struct {
	content ContentReader
}

func NewAPIModule(content ContentReader) *APIModule {
	return &APIModule{content: content}
}

func (a *APIModule) RegisterRoutes(router *gin.Engine) {
	apiGroup := router.Group("/api")
	apiGroup.Use(cache.NoStore())
	{
		apiGroup.GET("/posts", a.listPosts)
		apiGroup.GET("/posts/:id", a.getPost)
		apiGroup.GET("/categories", a.listCategories)
		apiGroup.GET("/categories/:id", a.getCategory)
	}
}

// expandCategories reports whether the caller asked for the {id, name}
// category shape instead of bare ids.
func expandCategories(c *gin.Context) bool {
	return c.Query("expand") == "categories"
}

func (a *APIModule) listPosts(c *gin.Context) {
	expand := expandCategories(c)

	posts, err := a.content.ListPosts(c.Request.Context(), expand)
	if err != nil {
		common.ServerError(c, "Failed to fetch the post list", err)
		return
	}

	if expand {
		out := make([]models.PostWithCategories, 0, len(posts))
		for i := range posts {
			out = append(out, models.NewPostWithCategories(&posts[i]))
		}
		c.JSON(http.StatusOK, out)
		return
	}

	out := make([]models.PostWithCategoryIDs, 0, len(posts))
	for i := range posts {
		out = append(out, models.NewPostWithCategoryIDs(&posts[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (a *APIModule) getPost(c *gin.Context) {
	expand := expandCategories(c)

	post, err := a.content.GetPost(c.Request.Context(), c.Param("id"), expand)
	if errors.Is(err, common.ErrPostNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		common.ServerError(c, "Failed to fetch the post", err)
		return
	}

	if expand {
		c.JSON(http.StatusOK, models.NewPostWithCategories(post))
		return
	}
	c.JSON(http.StatusOK, models.NewPostWithCategoryIDs(post))
}

func (a *APIModule) listCategories(c *gin.Context) {
	categories, err := a.content.ListCategories(c.Request.Context())
	if err != nil {
		common.ServerError(c, "Failed to fetch the category list", err)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	c.JSON(http.StatusOK, categories)
}

func (a *APIModule) getCategory(c *gin.Context) {
	category, err := a.content.GetCategory(c.Request.Context(), c.Param("id"))
	if errors.Is(err, common.ErrCategoryNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	if err != nil {
		common.ServerError(c, "Failed to fetch the category", err)
		return
	}
	c.JSON(http.StatusOK, category)
}
