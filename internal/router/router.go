package router

import (
	"time"

	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/config"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/handler"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/infra"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/middleware"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/rbac"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/repository"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/repository/memory"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/service"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Repos bundles the repository set behind the data source switch.
type Repos struct {
	Users      repository.UserRepository
	Categories repository.CategoryRepository
	Dishes     repository.DishRepository
	Tables     repository.TableRepository
	Orders     repository.OrderRepository
	Stats      repository.StatsRepository
}

// NewRepos builds the repository set for the configured data source.
// db == nil selects the in-memory store.
func NewRepos(db *gorm.DB) Repos {
	if db == nil {
		store := memory.NewStore()
		return Repos{
			Users:      memory.NewUserRepository(store),
			Categories: memory.NewCategoryRepository(store),
			Dishes:     memory.NewDishRepository(store),
			Tables:     memory.NewTableRepository(store),
			Orders:     memory.NewOrderRepository(store),
			Stats:      memory.NewStatsRepository(store),
		}
	}
	return Repos{
		Users:      repository.NewUserRepository(db),
		Categories: repository.NewCategoryRepository(db),
		Dishes:     repository.NewDishRepository(db),
		Tables:     repository.NewTableRepository(db),
		Orders:     repository.NewOrderRepository(db),
		Stats:      repository.NewStatsRepository(db),
	}
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, repos Repos, dispatcher *worker.Dispatcher, menuCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	var syncClient *infra.MenuSyncClient
	if cfg.MenuSyncURL != "" {
		syncClient = infra.NewMenuSyncClient(cfg.MenuSyncURL)
	}

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(repos.Users, cfg)
	menuSvc := service.NewMenuService(repos.Dishes, repos.Categories, rdb, syncClient, menuCB)
	tableSvc := service.NewTableService(repos.Tables, repos.Orders)
	orderSvc := service.NewOrderService(repos.Orders, repos.Tables, repos.Dishes, dispatcher)
	statsSvc := service.NewStatsService(repos.Stats, repos.Users)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc, statsSvc)
	categoriesH := handler.NewCategoriesHandler(menuSvc)
	dishesH := handler.NewDishesHandler(menuSvc)
	tablesH := handler.NewTablesHandler(tableSvc)
	ordersH := handler.NewOrdersHandler(orderSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, menuCB))

	// Auth (public)
	auth := r.Group("/api/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes. Route guards mirror the permission matrix; the
	// services re-check it, so the matrix stays authoritative.
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	api := r.Group("/api", jwtMW)
	{
		api.GET("/auth/me", authH.Me)

		users := api.Group("/users")
		{
			admin := middleware.RequireRole(rbac.RolesFor(rbac.ActionManageEmployees)...)
			users.POST("", admin, usersH.Create)
			users.GET("", admin, usersH.List)
			users.PATCH("/:id", admin, usersH.Update)
			users.DELETE("/:id", admin, usersH.Deactivate)
			users.PATCH("/:id/reactivate", admin, usersH.Reactivate)
			// own record and own stats are allowed for every role
			users.GET("/:id", usersH.Get)
			users.GET("/:id/stats", usersH.Stats)
		}

		// Menu — every role reads, admins write
		api.GET("/categories", categoriesH.List)
		api.GET("/dishes", dishesH.List)
		api.GET("/dishes/:id", dishesH.Get)

		menuAdmin := middleware.RequireRole(rbac.RolesFor(rbac.ActionManageMenu)...)
		categories := api.Group("/categories", menuAdmin)
		{
			categories.POST("", categoriesH.Create)
			categories.PATCH("/:id", categoriesH.Update)
			categories.DELETE("/:id", categoriesH.Delete)
		}
		dishes := api.Group("/dishes", menuAdmin)
		{
			dishes.POST("", dishesH.Create)
			dishes.PATCH("/:id", dishesH.Update)
			dishes.DELETE("/:id", dishesH.Delete)
			dishes.POST("/import", dishesH.Import)
		}

		// Tables — every role reads, admins write
		api.GET("/tables", tablesH.List)
		api.GET("/tables/:id", tablesH.Get)
		api.GET("/tables/number/:number", tablesH.GetByNumber)

		tableAdmin := middleware.RequireRole(rbac.RolesFor(rbac.ActionManageTables)...)
		tables := api.Group("/tables", tableAdmin)
		{
			tables.POST("", tablesH.Create)
			tables.PATCH("/:id", tablesH.Update)
			tables.DELETE("/:id", tablesH.Delete)
		}

		// Orders
		orders := api.Group("/orders")
		{
			orders.POST("", middleware.RequireRole(rbac.RolesFor(rbac.ActionCreateOrder)...), ordersH.Create)
			orders.GET("", ordersH.List)
			orders.GET("/:id", ordersH.Get)
			orders.POST("/:id/items", middleware.RequireRole(rbac.RolesFor(rbac.ActionCreateOrder)...), ordersH.AddItems)
			// per-event role checks happen in the service
			orders.POST("/:id/transition", ordersH.Transition)
			orders.DELETE("/:id", middleware.RequireRole(rbac.RolesFor(rbac.ActionDeleteOrder)...), ordersH.Delete)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
