package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"farmbooking/config"
	"farmbooking/internal/admin"
	"farmbooking/internal/auth"
	"farmbooking/internal/booking"
	"farmbooking/internal/db"
	"farmbooking/internal/health"
	"farmbooking/internal/logs"
	"farmbooking/internal/middleware"
	"farmbooking/internal/models"
	"farmbooking/internal/repo"
)

type App struct {
	cfg        *config.Config
	db         *gorm.DB
	Router     *mux.Router
	httpServer *http.Server

	ctx    context.Context
	cancel context.CancelFunc
}

func (a *App) Initialize(cfg *config.Config) {
	a.cfg = cfg

	/* 1) Logs */
	logs.Init(logs.Options{
		Level:  a.cfg.Logging.Level,
		Format: a.cfg.Logging.Format,
		File:   a.cfg.Logging.File,
	})

	/* 2) DB */
	d, err := db.Open(a.cfg.Database.Driver, a.cfg.Database.DSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	a.db = d

	if err := a.db.AutoMigrate(
		&models.Account{},
		&models.Farmhouse{},
		&models.DayStatus{},
	); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	loc, err := time.LoadLocation(a.cfg.Calendar.Timezone)
	if err != nil {
		log.Fatalf("calendar timezone: %v", err)
	}

	/* 3) Stores and services */
	accounts := repo.NewAccountStore(a.db)
	farms := repo.NewFarmhouseStore(a.db)
	calendar := repo.NewCalendarStore(a.db)

	a.seedAdmin(accounts)

	secret := []byte(a.cfg.Auth.JWTSecret)
	resolver := auth.NewResolver(accounts, secret)
	authH := auth.NewHandler(accounts, secret, a.cfg.TokenTTL())

	svc := booking.NewService(calendar, farms, loc)
	disc := booking.NewDiscovery(calendar, farms)
	bookingH := booking.NewHandler(svc, disc, farms)

	adminH := admin.NewHandler(admin.NewService(accounts, farms))

	/* 4) Router + middleware */
	a.Router = mux.NewRouter().StrictSlash(true)
	a.Router.Use(
		middleware.RequestID,
		middleware.Recoverer,
		middleware.LoggerMW,
	)

	/* 5) Health */
	health.RegisterRoutesWithDB(a.Router, a.db) // /healthz, /readyz

	/* 6) Public auth */
	auth.RegisterPublicRoutes(a.Router, authH)

	/* 7) Everything else requires a resolved session */
	api := a.Router.PathPrefix("/").Subrouter()
	api.Use(resolver.Middleware)
	auth.RegisterProtectedRoutes(api, authH)
	booking.RegisterRoutes(api, bookingH)
	admin.RegisterRoutes(api, adminH)

	/* Log known routes at startup */
	_ = a.Router.Walk(func(rt *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, _ := rt.GetPathTemplate()
		methods, _ := rt.GetMethods()
		if len(methods) == 0 {
			methods = []string{"ANY"}
		}
		log.Printf("route: %-6v %s", methods, path)
		return nil
	})
}

// seedAdmin provisions the bootstrap administrator unless one exists or
// seeding is disabled (empty password).
func (a *App) seedAdmin(accounts *repo.AccountStore) {
	pass := a.cfg.Auth.SeedAdminPass
	if pass == "" {
		return
	}
	hash, err := auth.HashPassword(pass)
	if err != nil {
		log.Fatalf("seed admin hash: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := accounts.SeedAdmin(ctx, a.cfg.Auth.SeedAdminUser, a.cfg.Auth.SeedAdminEmail, hash, ""); err != nil {
		log.Fatalf("seed admin: %v", err)
	}
}

func (a *App) Run() error {
	if a.Router == nil || a.cfg == nil {
		return fmt.Errorf("server not initialized")
	}

	bind := net.JoinHostPort(a.cfg.Server.Address, a.cfg.Server.HTTPPort)

	a.ctx, a.cancel = context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigs
		logs.Logger.Infof("shutdown signal: %s", s)
		a.cancel()
	}()

	// Hard timeouts matter in production.
	a.httpServer = &http.Server{
		Addr:              bind,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logs.Logger.Infof("HTTP listening on %s", bind)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logs.Logger.Fatalf("http server error: %v", err)
		}
	}()

	<-a.ctx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.httpServer.Shutdown(ctx); err != nil {
		logs.Logger.Errorf("http shutdown: %v", err)
	}
	return nil
}
