// Package main Campus Closet API.
//
// @title           Campus Closet API
// @version         1.0
// @description     Peer-to-peer clothing rentals for Spelman and Morehouse students.
// @BasePath        /
// @schemes         http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campuscloset/app/echoServer"
	authctrl "campuscloset/app/echoServer/controller/auth"
	listingctrl "campuscloset/app/echoServer/controller/listing"
	rentalctrl "campuscloset/app/echoServer/controller/rental"
	"campuscloset/app/echoServer/validation"
	"campuscloset/config"
	identityrepo "campuscloset/repository/identity"
	listingrepo "campuscloset/repository/listing"
	profilerepo "campuscloset/repository/profile"
	rentalrepo "campuscloset/repository/rental"
	squarerepo "campuscloset/repository/square"
	storagerepo "campuscloset/repository/storage"
	authsvc "campuscloset/service/auth"
	listingsvc "campuscloset/service/listing"
	mediasvc "campuscloset/service/media"
	"campuscloset/service/notify"
	rentalsvc "campuscloset/service/rental"
	"campuscloset/util/database"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	// DB: pgx pool + sqlx
	db, err := database.New(ctx, cfg.DatabaseURL, database.Options{MaxConns: int32(cfg.DBMaxConns)})
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Error("db migrate failed", "err", err)
		os.Exit(1)
	}

	// repos
	pr := profilerepo.New(db)
	lr := listingrepo.New(db)
	rr := rentalrepo.New(db)
	ir := identityrepo.NewHTTP(cfg.Supabase.URL, cfg.Supabase.ServiceRoleKey)
	sq := squarerepo.NewHTTP(squarerepo.BaseURL(cfg.Square.Environment), cfg.Square.AccessToken)
	st, err := storagerepo.NewS3(ctx, storagerepo.Config{
		Endpoint:        cfg.Storage.Endpoint,
		Region:          cfg.Storage.Region,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
		Bucket:          cfg.Storage.Bucket,
		PublicURL:       cfg.Storage.PublicURL,
	})
	if err != nil {
		log.Error("storage client failed", "err", err)
		os.Exit(1)
	}

	// services
	as := authsvc.New(ir, pr, authsvc.Options{
		AllowedDomains: cfg.AllowedEmailDomains,
		JWTSecret:      cfg.JWTSecret,
		TTLHours:       cfg.JWTTTLHours,
		Log:            log,
	})
	ms := mediasvc.New(st, log)
	ls := listingsvc.New(lr, pr, ms, log)
	ns := notify.New(notify.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		User:     cfg.SMTP.User,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}, log)
	rs := rentalsvc.New(rr, lr, pr, sq, ns, rentalsvc.Options{Currency: cfg.Square.Currency, Log: log})

	// controllers
	v := validation.New()
	authC := &authctrl.Controller{Svc: as, V: v.Engine(), Log: log}
	listingC := &listingctrl.Controller{Svc: ls, Log: log}
	rentalC := &rentalctrl.Controller{Svc: rs, V: v.Engine(), Log: log}

	// echo
	e := echo.New()
	e.HideBanner = true
	echoServer.RegisterMiddlewares(e, cfg.CORSOrigin)
	e.Validator = v

	e.GET("/health", func(c echo.Context) error {
		if err := db.Pool.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]any{
				"status":  "degraded",
				"message": "Database unreachable",
			})
		}
		return c.JSON(http.StatusOK, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:    authC,
		Listing: listingC,
		Rental:  rentalC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	if port == "" {
		port = "8080"
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "PORT_env", os.Getenv("PORT"), "chosen_port", port, "env", cfg.Env)
		if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "err", err)
	}
}
