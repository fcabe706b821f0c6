package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"carservice/internal/config"
	"carservice/internal/domain"
	"carservice/internal/middleware"
	"carservice/internal/modules/account"
	"carservice/internal/modules/booking"
	"carservice/internal/modules/catalog"
	jwtsvc "carservice/internal/pkg/jwt"
	"carservice/internal/pkg/response"
	"carservice/internal/repository"
)

// newRouter wires repositories, services and handlers. rdb may be nil, in
// which case branch schedules are read straight from the database.
func newRouter(cfg *config.Config, lg *zap.Logger, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	appointmentRepo := repository.NewAppointmentRepository(db)
	branchRepo := repository.NewBranchRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)

	var schedules booking.ScheduleLookup = branchRepo
	var scheduleCache catalog.ScheduleCache
	if rdb != nil {
		cached := repository.NewCachedScheduleLookup(branchRepo, rdb, cfg.ScheduleCacheTTL, lg.Named("schedule_cache"))
		schedules = cached
		scheduleCache = cached
	}

	clock := booking.SystemClock()
	bookingService := booking.NewService(
		appointmentRepo,
		booking.NewAvailability(schedules, appointmentRepo, clock, lg.Named("availability")),
		booking.NewGuard(serviceRepo, branchRepo, vehicleRepo, employeeRepo, appointmentRepo, clock),
		employeeRepo,
		lg.Named("booking"),
	)
	bookingHandler := booking.NewHandler(bookingService)

	catalogHandler := catalog.NewHandler(catalog.NewService(branchRepo, serviceRepo, scheduleCache, lg.Named("catalog")))
	accountHandler := account.NewHandler(account.NewService(repository.NewUserRepository(db), vehicleRepo))

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	staffOnly := middleware.RequireRole(string(domain.RoleAdmin), string(domain.RoleBranchManager))

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(lg),
		middleware.RequestLogger(lg.Named("http")),
		middleware.CORS(cfg.AllowedOrigins()),
		middleware.RateLimit(cfg.RateLimitPerMin, cfg.RateLimitBurst, lg),
	)

	r.GET("/healthz", healthz(db))

	v1 := r.Group("/api/v1")
	{
		// public
		catalogHandler.RegisterPublicRoutes(v1)
		bookingHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(j))
		{
			bookingHandler.RegisterRoutes(protected, staffOnly)
			accountHandler.RegisterRoutes(protected)

			staff := protected.Group("")
			staff.Use(staffOnly)
			catalogHandler.RegisterStaffRoutes(staff)
		}
	}

	return r
}

func healthz(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			response.Error(c, http.StatusServiceUnavailable, "UNHEALTHY", "database unreachable")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	}
}
