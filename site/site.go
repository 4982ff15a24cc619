package site

import (
	"context"
	"encoding/xml"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"blogcms/common"
	"blogcms/models"
)

type PostLister interface {
	ListPosts(ctx context.Context, expand bool) ([]models.Post, error)
}

type SiteModule struct {
	content PostLister
	domain  string
}

func NewSiteModule(content PostLister, domain string) *SiteModule {
	if domain == "" {
		domain = "http://localhost:8080"
	}
	return &SiteModule{content: content, domain: strings.TrimSuffix(domain, "/")}
}

func (s *SiteModule) RegisterRoutes(router *gin.Engine) {
	router.GET("/sitemap.xml", s.sitemap)
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

func (s *SiteModule) sitemap(c *gin.Context) {
	posts, err := s.content.ListPosts(c.Request.Context(), false)
	if err != nil {
		common.ServerError(c, "Failed to build the sitemap", err)
		return
	}

	set := urlSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	set.URLs = append(set.URLs, sitemapURL{
		Loc:        s.domain + "/",
		ChangeFreq: "weekly",
		Priority:   "1.0",
	})
	for _, post := range posts {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        s.domain + "/posts/" + post.ID,
			LastMod:    post.UpdatedAt.UTC().Format(time.RFC3339),
			ChangeFreq: "monthly",
			Priority:   "0.6",
		})
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		common.ServerError(c, "Failed to build the sitemap", err)
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", append([]byte(xml.Header), out...))
}
