package app

import (
	"io"
	"net/http"

	"github.com/bogdanSgithub/autovitals-backend/internal/auth/credentials"
	"github.com/bogdanSgithub/autovitals-backend/internal/auth/handler"
	"github.com/bogdanSgithub/autovitals-backend/internal/car"
	"github.com/bogdanSgithub/autovitals-backend/internal/config"
	"github.com/bogdanSgithub/autovitals-backend/internal/email"
	"github.com/bogdanSgithub/autovitals-backend/internal/maintenance"
	"github.com/bogdanSgithub/autovitals-backend/internal/middleware"
	"github.com/bogdanSgithub/autovitals-backend/internal/profile"
	"github.com/bogdanSgithub/autovitals-backend/internal/session"
	"github.com/bogdanSgithub/autovitals-backend/internal/visit"

	"github.com/gin-gonic/gin"
)

const notFoundMessage = "Page not found. Please try again."

// Accounts is everything the router needs from the credential store.
type Accounts interface {
	handler.CredentialVerifier
	handler.AccountCreator
	profile.Accounts
}

// backends are the stores the router's handlers sit on.
type backends struct {
	Sessions    session.Store
	Accounts    Accounts
	Profiles    profile.Repository
	Cars        car.Repository
	Maintenance maintenance.Repository
	Mail        email.Sender
	Visits      io.Writer
}

func mongoBackends(infra *Infra, sessions session.Store) backends {
	database := infra.DB.Database
	return backends{
		Sessions:    sessions,
		Accounts:    credentials.NewService(database),
		Profiles:    profile.NewMongoRepository(database),
		Cars:        car.NewMongoRepository(database),
		Maintenance: maintenance.NewMongoRepository(database),
		Mail:        infra.Mail,
		Visits:      infra.VisitLog,
	}
}

func setupHTTP(cfg config.Config, b backends) (*gin.Engine, error) {
	sameSite, err := config.ParseSameSite(cfg.CookieSameSite)
	if err != nil {
		return nil, err
	}
	cookies := session.CookieOptions{
		Secure:   cfg.CookieSecure,
		SameSite: sameSite,
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	profileService := profile.NewService(b.Profiles, b.Accounts, b.Mail)
	carService := car.NewService(b.Cars, b.Accounts, b.Maintenance)
	maintenanceService := maintenance.NewService(b.Maintenance, carService)

	gate := middleware.NewGate(b.Sessions, profileService)

	authHandler := handler.NewHandler(
		b.Sessions,
		b.Accounts,
		b.Accounts,
		profileService,
		handler.Options{
			LoginTTL:    cfg.SessionTTL,
			RegisterTTL: cfg.RegisterSessionTTL,
			Cookies:     cookies,
		},
	)
	tracker := visit.NewTracker(b.Visits)

	// ----------------------------
	// Router
	// ----------------------------

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.AccessLog(),
		middleware.CORS(cfg.CORSOrigin),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ----------------------------
	// Routes with visit tracking
	// ----------------------------

	tracked := router.Group("/", tracker.Middleware())
	profile.NewHandler(profileService, b.Sessions, cookies).RegisterRoutes(tracked, gate)
	authHandler.RegisterUserRoutes(tracked)

	// ----------------------------
	// Session, garage and maintenance routes
	// ----------------------------

	authHandler.RegisterRoutes(router, gate)
	car.NewHandler(carService).RegisterRoutes(router, gate)
	maintenance.NewHandler(maintenanceService).RegisterRoutes(router, gate)

	router.NoRoute(func(c *gin.Context) {
		c.String(http.StatusNotFound, notFoundMessage)
	})

	return router, nil
}
