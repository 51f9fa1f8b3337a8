package routes

import (
	"time"

	"vgt-backoffice/internal/adapters/http/handlers"
	"vgt-backoffice/internal/adapters/http/middleware"
	"vgt-backoffice/internal/adapters/identity"
	"vgt-backoffice/internal/adapters/persistence/repositories"
	"vgt-backoffice/internal/config"
	"vgt-backoffice/internal/core/access"
	"vgt-backoffice/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

const branchCacheAge = 10 * time.Minute

// Services holds the application services shared by the HTTP layer, the
// seeder and the background jobs.
type Services struct {
	Auth        *services.AuthService
	User        *services.UserService
	Party       *services.PartyService
	Branch      *services.BranchService
	Consignment *services.ConsignmentService
	Challan     *services.ChallanService
	Cron        *services.CronService
}

// NewServices wires repositories, the identity provider and services
func NewServices(db *gorm.DB, cfg *config.Config) *Services {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	identityRepo := repositories.NewIdentityRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	branchRepo := repositories.NewBranchRepository(db)
	partyRepo := repositories.NewPartyRepository(db)
	consignmentRepo := repositories.NewConsignmentRepository(db)
	challanRepo := repositories.NewChallanRepository(db)

	provider := identity.NewLocalProvider(identityRepo, refreshTokenRepo, cfg.JWT)

	return &Services{
		Auth:        services.NewAuthService(userRepo, sessionRepo, provider),
		User:        services.NewUserService(userRepo, sessionRepo, provider),
		Party:       services.NewPartyService(partyRepo, branchRepo),
		Branch:      services.NewBranchService(branchRepo),
		Consignment: services.NewConsignmentService(consignmentRepo, partyRepo, branchRepo),
		Challan:     services.NewChallanService(challanRepo, branchRepo),
		Cron:        services.NewCronService(refreshTokenRepo, sessionRepo, cfg.Cleanup.Schedule, cfg.RefreshTokenLifetime()),
	}
}

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, svc *Services) {
	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, cfg)
	authHandler := handlers.NewAuthHandler(svc.Auth, cfg)
	userHandler := handlers.NewUserHandler(svc.User)
	partyHandler := handlers.NewPartyHandler(svc.Party)
	branchHandler := handlers.NewBranchHandler(svc.Branch)
	consignmentHandler := handlers.NewConsignmentHandler(svc.Consignment)
	challanHandler := handlers.NewChallanHandler(svc.Challan)
	calcHandler := handlers.NewCalcHandler()

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Auth routes (public apart from logout-all and me)
	setupAuthRoutes(apiV1.Group("/auth"), authHandler, svc.Auth)

	// Everything below needs a resolved actor
	auth := middleware.AuthMiddleware(svc.Auth)
	noCache := middleware.NoCacheHeaders()

	setupUserRoutes(apiV1.Group("/users", auth, noCache), userHandler)
	setupProfileRoutes(apiV1.Group("/profile", auth, noCache), userHandler)
	setupPartyRoutes(apiV1.Group("/parties", auth, noCache), partyHandler)
	setupBranchRoutes(apiV1.Group("/branches", auth), branchHandler)
	setupConsignmentRoutes(apiV1.Group("/consignments", auth, noCache), consignmentHandler)
	setupChallanRoutes(apiV1.Group("/challans", auth, noCache), challanHandler)
	setupCalcRoutes(apiV1.Group("/calc", auth), calcHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, resolver middleware.ActorResolver) {
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", middleware.OptionalAuth(resolver), handler.Logout)

	router.Post("/logout-all", middleware.AuthMiddleware(resolver), handler.LogoutAll)
	router.Get("/me", middleware.AuthMiddleware(resolver), handler.Me)
}

// setupUserRoutes configures user management routes. Reads of a single user
// and its sessions are also open to the user themself.
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/:id", handler.GetUser)
	router.Get("/:id/sessions", handler.ListSessions)

	router.Get("/", middleware.Require(access.ViewUsers), handler.ListUsers)
	router.Post("/", middleware.Require(access.MutateUser), handler.CreateUser)
	router.Patch("/:id", middleware.Require(access.MutateUser), handler.UpdateUser)
	router.Delete("/:id", middleware.Require(access.MutateUser), handler.DeactivateUser)
}

// setupProfileRoutes configures self-service profile routes
func setupProfileRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.GetProfile)
	router.Put("/", handler.UpdateProfile)
	router.Put("/password", middleware.StrictRateLimiter(), handler.ChangePassword)
}

// setupPartyRoutes configures party directory routes
func setupPartyRoutes(router fiber.Router, handler *handlers.PartyHandler) {
	router.Get("/", handler.ListParties)
	router.Get("/:code", handler.GetParty)
	router.Post("/", handler.CreateParty)
	router.Put("/:code", handler.UpdateParty)
	router.Delete("/:code", middleware.Require(access.DeactivateParty), handler.DeactivateParty)
}

// setupBranchRoutes configures branch directory routes
func setupBranchRoutes(router fiber.Router, handler *handlers.BranchHandler) {
	router.Get("/", middleware.MasterDataCache(branchCacheAge), handler.ListBranches)
	router.Get("/:code", middleware.MasterDataCache(branchCacheAge), handler.GetBranch)

	router.Post("/", middleware.Require(access.MutateBranch), handler.CreateBranch)
	router.Put("/:code", middleware.Require(access.MutateBranch), handler.UpdateBranch)
	router.Delete("/:code", middleware.Require(access.MutateBranch), handler.DeactivateBranch)
}

// setupConsignmentRoutes configures consignment booking routes
func setupConsignmentRoutes(router fiber.Router, handler *handlers.ConsignmentHandler) {
	router.Get("/", handler.ListConsignments)
	router.Post("/", handler.CreateConsignment)
	router.Get("/:cn_no", handler.GetConsignment)
	router.Post("/:cn_no/tracking", handler.AddTrackingEvent)
	router.Post("/:cn_no/cancel", handler.CancelConsignment)
}

// setupChallanRoutes configures challan routes
func setupChallanRoutes(router fiber.Router, handler *handlers.ChallanHandler) {
	router.Get("/", handler.ListChallans)
	router.Post("/", handler.CreateChallan)
	// export must be registered before the challan number route
	router.Get("/export", handler.ExportChallans)
	router.Get("/:challan_no", handler.GetChallan)
}

// setupCalcRoutes configures calculator routes
func setupCalcRoutes(router fiber.Router, handler *handlers.CalcHandler) {
	router.Post("/hire", handler.Hire)
	router.Post("/freight", handler.Freight)
}
