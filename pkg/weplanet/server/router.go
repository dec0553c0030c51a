package server

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/weplanet/weplanet/pkg/weplanet/activities"
	"github.com/weplanet/weplanet/pkg/weplanet/apikeys"
	"github.com/weplanet/weplanet/pkg/weplanet/auth"
	"github.com/weplanet/weplanet/pkg/weplanet/badges"
	"github.com/weplanet/weplanet/pkg/weplanet/config"
	"github.com/weplanet/weplanet/pkg/weplanet/families"
	"github.com/weplanet/weplanet/pkg/weplanet/logging"
	"github.com/weplanet/weplanet/pkg/weplanet/metrics"
	"github.com/weplanet/weplanet/pkg/weplanet/users"
	"github.com/weplanet/weplanet/pkg/weplanet/validation"

	_ "github.com/weplanet/weplanet/api/swagger"
)

// Option customises the services behind the router
type Option func(*options)

type options struct {
	familyOpts   []families.Option
	activityOpts []activities.Option
}

// WithFamilyOptions passes options to the family lifecycle service
func WithFamilyOptions(opts ...families.Option) Option {
	return func(o *options) { o.familyOpts = append(o.familyOpts, opts...) }
}

// WithActivityOptions passes options to the activity service
func WithActivityOptions(opts ...activities.Option) Option {
	return func(o *options) { o.activityOpts = append(o.activityOpts, opts...) }
}

// NewRouter builds the gin engine with every route registered
func NewRouter(db *gorm.DB, cfg *config.Config, opts ...Option) *gin.Engine {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	validation.Register()

	r := gin.New()
	r.Use(logging.Recovery(), logging.RequestLogger(), metrics.Middleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "ok",
				"service": "weplanet",
			})
		})

		// Public
		auth.NewHandler(db).RegisterRoutes(api.Group("/auth"))

		// API keys are managed with a JWT only
		apikeys.NewHandler(db).RegisterRoutes(api.Group("", auth.AuthMiddleware()))

		combinedAuth := apikeys.CombinedAuthMiddleware(db)

		familiesHandler := families.NewHandler(db, o.familyOpts...)
		familiesGroup := api.Group("/families", combinedAuth)
		familiesHandler.RegisterRoutes(familiesGroup)
		familiesHandler.RegisterMemberRoutes(familiesGroup)

		badgeService := badges.NewService(db)
		activityService := activities.NewService(db, badgeService, o.activityOpts...)
		activitiesHandler := activities.NewHandler(activityService)
		activitiesHandler.RegisterRoutes(api.Group("/activities", combinedAuth))
		activitiesHandler.RegisterDashboardRoutes(api.Group("/dashboard", combinedAuth))
		badges.NewHandler(badgeService).RegisterRoutes(api.Group("/badges", combinedAuth))

		usersHandler := users.NewHandler(db, families.NewService(db, o.familyOpts...))
		usersHandler.RegisterRoutes(api.Group("/users", combinedAuth))
		usersHandler.RegisterAccountRoutes(api.Group("/users", auth.AuthMiddleware()))
	}

	return r
}
