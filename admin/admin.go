package admin

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"blogcms/cache"
	"blogcms/common"
	"blogcms/models"
)

const sessionUserKey = "user_id"

// ContentWriter is the write side of the content store.
type ContentWriter interface {
	CreatePost(ctx context.Context, in models.PostInput) (*models.Post, error)
	UpdatePost(ctx context.Context, id string, in models.PostInput) (*models.Post, error)
	DeletePost(ctx context.Context, id string) error
	CreateCategory(ctx context.Context, in models.CategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, id string, in models.CategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

type AdminModule struct {
	db      *gorm.DB
	content ContentWriter
}

func NewAdminModule(db *gorm.DB, content ContentWriter) *AdminModule {
	return &AdminModule{
		db:      db,
		content: content,
	}
}

func (a *AdminModule) RegisterRoutes(router *gin.Engine) {
	adminGroup := router.Group("/api/admin")
	adminGroup.Use(cache.NoStore())

	adminGroup.POST("/login", a.login)
	adminGroup.POST("/logout", a.logout)

	authed := adminGroup.Group("")
	authed.Use(a.requireAuth)
	{
		authed.POST("/posts", a.createPost)
		authed.PUT("/posts/:id", a.updatePost)
		authed.DELETE("/posts/:id", a.deletePost)
		authed.POST("/categories", a.createCategory)
		authed.PUT("/categories/:id", a.updateCategory)
		authed.DELETE("/categories/:id", a.deleteCategory)
	}
}

func (a *AdminModule) requireAuth(c *gin.Context) {
	session := sessions.Default(c)
	userID := session.Get(sessionUserKey)

	if userID == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Login required"})
		return
	}

	c.Set(sessionUserKey, userID)
	c.Next()
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *AdminModule) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	user, err := Authenticate(a.db, req.Email, req.Password)
	if errors.Is(err, common.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect email or password"})
		return
	}
	if err != nil {
		common.ServerError(c, "Failed to log in", err)
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserKey, user.ID)
	if err := session.Save(); err != nil {
		common.ServerError(c, "Failed to log in", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged in"})
}

func (a *AdminModule) logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		common.ServerError(c, "Failed to log out", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// bindPost decodes and validates a full post field set. It writes the 400
// response itself and reports whether the handler may continue.
func bindPost(c *gin.Context) (models.PostInput, bool) {
	var in models.PostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return in, false
	}
	if in.CategoryIDs == nil {
		in.CategoryIDs = []string{}
	}

	fields := gin.H{}
	if msg := common.ValidateTitle(in.Title); msg != "" {
		fields["title"] = msg
	}
	if msg := common.ValidateContent(in.Content); msg != "" {
		fields["content"] = msg
	}
	if msg := common.ValidateCoverImageURL(in.CoverImageURL); msg != "" {
		fields["coverImageURL"] = msg
	}
	if len(fields) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post", "fields": fields})
		return in, false
	}
	return in, true
}

func bindCategory(c *gin.Context) (models.CategoryInput, bool) {
	var in models.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return in, false
	}
	if msg := common.ValidateCategoryName(in.Name); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category", "fields": gin.H{"name": msg}})
		return in, false
	}
	return in, true
}

func (a *AdminModule) createPost(c *gin.Context) {
	in, ok := bindPost(c)
	if !ok {
		return
	}

	post, err := a.content.CreatePost(c.Request.Context(), in)
	if errors.Is(err, common.ErrUnknownCategory) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
		return
	}
	if err != nil {
		common.ServerError(c, "Failed to create the post", err)
		return
	}

	c.JSON(http.StatusCreated, models.NewPostWithCategoryIDs(post))
}

func (a *AdminModule) updatePost(c *gin.Context) {
	in, ok := bindPost(c)
	if !ok {
		return
	}

	post, err := a.content.UpdatePost(c.Request.Context(), c.Param("id"), in)
	switch {
	case errors.Is(err, common.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	case errors.Is(err, common.ErrUnknownCategory):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
		return
	case err != nil:
		common.ServerError(c, "Failed to update the post", err)
		return
	}

	c.JSON(http.StatusOK, models.NewPostWithCategoryIDs(post))
}

func (a *AdminModule) deletePost(c *gin.Context) {
	err := a.content.DeletePost(c.Request.Context(), c.Param("id"))
	if errors.Is(err, common.ErrPostNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		common.ServerError(c, "Failed to delete the post", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

func (a *AdminModule) createCategory(c *gin.Context) {
	in, ok := bindCategory(c)
	if !ok {
		return
	}

	category, err := a.content.CreateCategory(c.Request.Context(), in)
	if err != nil {
		common.ServerError(c, "Failed to create the category", err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

func (a *AdminModule) updateCategory(c *gin.Context) {
	in, ok := bindCategory(c)
	if !ok {
		return
	}

	category, err := a.content.UpdateCategory(c.Request.Context(), c.Param("id"), in)
	if errors.Is(err, common.ErrCategoryNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	if err != nil {
		common.ServerError(c, "Failed to update the category", err)
		return
	}

	c.JSON(http.StatusOK, category)
}

func (a *AdminModule) deleteCategory(c *gin.Context) {
	err := a.content.DeleteCategory(c.Request.Context(), c.Param("id"))
	if errors.Is(err, common.ErrCategoryNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	if err != nil {
		common.ServerError(c, "Failed to delete the category", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
