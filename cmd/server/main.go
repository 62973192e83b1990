package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/soniq/shop-backend/internal/config"
	"github.com/soniq/shop-backend/internal/geoip"
	"github.com/soniq/shop-backend/internal/handlers"
	"github.com/soniq/shop-backend/internal/logging"
	"github.com/soniq/shop-backend/internal/mailer"
	"github.com/soniq/shop-backend/internal/middleware"
	"github.com/soniq/shop-backend/internal/mykafka"
	"github.com/soniq/shop-backend/internal/otp"
	"github.com/soniq/shop-backend/internal/repo"
	"github.com/soniq/shop-backend/internal/service"
	"github.com/soniq/shop-backend/internal/session"
	"github.com/soniq/shop-backend/internal/sms"
	httpserver "github.com/soniq/shop-backend/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("db init failed: %v", err)
	}

	jwtSecret := []byte(configuration.JWT_SECRET)

	prod, err := mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
	if err != nil {
		log.Fatal(err)
	}
	defer prod.Close()

	store := repo.NewStore(db)
	authService := &service.AuthService{
		Store:    store,
		OTP:      &otp.Engine{Store: store},
		Sessions: &session.Manager{Store: store, JWTSecret: jwtSecret},
		Mailer:   mailer.NewSMTPMailer(configuration),
		SMS:      &sms.NoopSender{Logger: logger},
		Geo:      geoip.NewIPAPIResolver(),
		Producer: prod,
	}

	e := echo.New()
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := logging.IntoContext(c.Request().Context(), logger)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})

	deps := httpserver.Deps{
		Auth:            middleware.NewAuth(store, jwtSecret),
		AuthHandler:     &handlers.AuthHandler{Svc: authService},
		CategoryHandler: &handlers.CategoryHandler{DB: db},
		BrandHandler:    &handlers.BrandHandler{DB: db},
		ProductHandler:  &handlers.ProductHandler{DB: db},
		BannerHandler:   &handlers.BannerHandler{DB: db},
		WishlistHandler: &handlers.WishlistHandler{DB: db},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
