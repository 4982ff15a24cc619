package blog

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"blogcms/cache"
	"blogcms/common"
	"blogcms/models"
	"blogcms/sanitize"
)

//go:embed views/*.html
var views embed.FS

// ContentReader is the subset of the content store the public pages read.
type ContentReader interface {
	ListPosts(ctx context.Context, expand bool) ([]models.Post, error)
	GetPost(ctx context.Context, id string, expand bool) (*models.Post, error)
}

// Options tune how posts are displayed. A zero cover dimension omits the
// corresponding attribute and lets the browser use the intrinsic size.
type Options struct {
	CoverWidth  int
	CoverHeight int
	Now         func() time.Time
}

type BlogModule struct {
	content ContentReader
	opts    Options
}

func NewBlogModule(content ContentReader, opts Options) *BlogModule {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &BlogModule{content: content, opts: opts}
}

// Templates parses the embedded public page templates.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{
		"date": func(t time.Time) string {
			return t.Format("2006-01-02")
		},
	}).ParseFS(views, "views/*.html"))
}

func (b *BlogModule) RegisterRoutes(router *gin.Engine) {
	blogGroup := router.Group("/")
	blogGroup.Use(cache.NoStore())
	{
		blogGroup.GET("/", b.index)
		blogGroup.GET("/posts/:id", b.post)
	}
}

// postView is the display shape of a post.
type postView struct {
	ID          string
	Title       string
	ContentHTML template.HTML
	CreatedAt   time.Time
	CoverURL    string
	CoverWidth  int
	CoverHeight int
	Categories  []models.CategoryName
}

func (b *BlogModule) toView(p *models.Post) postView {
	shape := models.NewPostWithCategories(p)

	createdAt := shape.CreatedAt
	if createdAt.IsZero() {
		// Display fallback only, not the real creation time.
		createdAt = b.opts.Now()
	}

	return postView{
		ID:          shape.ID,
		Title:       shape.Title,
		ContentHTML: template.HTML(sanitize.Inline(shape.Content)),
		CreatedAt:   createdAt,
		CoverURL:    shape.CoverImageURL,
		CoverWidth:  b.opts.CoverWidth,
		CoverHeight: b.opts.CoverHeight,
		Categories:  shape.Categories,
	}
}

func (b *BlogModule) index(c *gin.Context) {
	posts, err := b.content.ListPosts(c.Request.Context(), true)
	if err != nil {
		log := common.RequestLog(c)
		log.Error().Err(err).Msg("failed to load posts")
		c.HTML(http.StatusInternalServerError, "blog_error.html", gin.H{
			"error": "Could not fetch the posts.",
		})
		return
	}

	summaries := make([]postView, 0, len(posts))
	for i := range posts {
		summaries = append(summaries, b.toView(&posts[i]))
	}

	c.HTML(http.StatusOK, "blog_index.html", gin.H{
		"posts": summaries,
	})
}

func (b *BlogModule) post(c *gin.Context) {
	id := c.Param("id")

	post, err := b.content.GetPost(c.Request.Context(), id, true)
	if errors.Is(err, common.ErrPostNotFound) {
		c.HTML(http.StatusNotFound, "blog_error.html", gin.H{
			"error": "Post not found.",
		})
		return
	}
	if err != nil {
		log := common.RequestLog(c)
		log.Error().Err(err).Str("post_id", id).Msg("failed to load post")
		c.HTML(http.StatusInternalServerError, "blog_error.html", gin.H{
			"error": "Could not fetch the post with the given id.",
		})
		return
	}

	c.HTML(http.StatusOK, "blog_post.html", gin.H{
		"post": b.toView(post),
	})
}
