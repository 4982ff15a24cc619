package cmd

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"blogcms/admin"
	"blogcms/api"
	"blogcms/blog"
	"blogcms/cache"
	"blogcms/common"
	"blogcms/config"
	"blogcms/logger"
	"blogcms/site"
	"blogcms/store"
)

const sessionName = "blogcms-session"

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.RequireSessionSecret(); err != nil {
				return err
			}

			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}

			if cfg.Env != "development" && cfg.Env != "dev" {
				gin.SetMode(gin.ReleaseMode)
			}
			router := NewRouter(cfg, db)

			logger.Get().Info().Str("port", cfg.Port).Str("db_driver", cfg.DBDriver).Msg("Starting server")
			return router.Run(":" + cfg.Port)
		},
	}
}

// NewRouter wires every module onto one gin engine.
func NewRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(common.RequestLogger())
	// Group middleware does not run for unmatched routes.
	router.Use(cache.NoStorePaths("/api/", "/posts/"))

	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(sessionName, sessionStore))

	router.SetHTMLTemplate(blog.Templates())

	content := store.New(db)
	api.NewAPIModule(content).RegisterRoutes(router)
	admin.NewAdminModule(db, content).RegisterRoutes(router)
	blog.NewBlogModule(content, blog.Options{
		CoverWidth:  cfg.CoverWidth,
		CoverHeight: cfg.CoverHeight,
	}).RegisterRoutes(router)
	site.NewSiteModule(content, cfg.Domain).RegisterRoutes(router)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	return router
}
