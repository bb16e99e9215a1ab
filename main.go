package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gameslibrary/internal/auth"
	"gameslibrary/internal/cache"
	intconfig "gameslibrary/internal/config"
	intdb "gameslibrary/internal/db"
	router "gameslibrary/internal/http"
	h "gameslibrary/internal/http/handlers"
	"gameslibrary/internal/logger"
	"gameslibrary/internal/metrics"
	"gameslibrary/internal/notify"
	"gameslibrary/internal/repositories"
	"gameslibrary/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	env, err := intconfig.LoadEnv()
	if err == nil {
		err = env.Validate()
	}
	logger.Init(logger.Config{Env: env.AppEnv, Level: env.LogLevel, ServiceName: "gameslibrary"})
	log := logger.L()
	defer func() { _ = logger.Sync() }()
	if err != nil {
		log.Fatal("invalid configuration", logger.Err(err))
	}

	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := intconfig.ConnectDB(env.DB)
	if err != nil {
		log.Fatal("database connection failed", logger.Err(err))
	}
	defer intconfig.CloseDB()

	if err := intdb.EnsureSchema(ctx, db); err != nil {
		log.Fatal("schema bootstrap failed", logger.Err(err))
	}

	ledger, err := cache.New(ctx, cache.Config{
		Driver:   env.Cache.Driver,
		Addr:     env.Cache.RedisAddr,
		Password: env.Cache.RedisPassword,
		DB:       env.Cache.RedisDB,
		Prefix:   env.Cache.Prefix,
	})
	if err != nil {
		log.Fatal("cache init failed", logger.Err(err), zap.String("driver", env.Cache.Driver))
	}
	defer ledger.Close()

	deps, err := buildDeps(env, db, ledger)
	if err != nil {
		log.Fatal("service wiring failed", logger.Err(err))
	}

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           router.NewRouter(env, deps),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("addr", env.AppAddr), zap.String("env", env.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", logger.Err(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", logger.Err(err))
		return
	}
	log.Info("server stopped")
}

func buildDeps(env intconfig.Env, db *sql.DB, ledger cache.Client) (router.Deps, error) {
	key := []byte(env.JWT.Key)
	issuer, err := auth.NewIssuer(auth.TokenConfig{Key: key, Issuer: env.JWT.Issuer, TTL: env.Recovery.TokenTTL})
	if err != nil {
		return router.Deps{}, err
	}
	validator, err := auth.NewValidator(auth.TokenConfig{Key: key, Issuer: env.JWT.Issuer, TTL: env.Recovery.TokenTTL})
	if err != nil {
		return router.Deps{}, err
	}
	access, err := auth.NewAccessTokens(auth.TokenConfig{Key: key, Issuer: env.JWT.Issuer, TTL: env.JWT.AccessTTL})
	if err != nil {
		return router.Deps{}, err
	}

	var sender notify.Sender = notify.LogSender{ShowBody: env.AppEnv != "prod"}
	if env.SMTP.Enabled() {
		s := env.SMTP
		sender = notify.NewSMTPSender(s.Host, s.Port, s.From, s.User, s.Password, s.TLSMode)
	}

	m := metrics.Default
	games := repositories.GameRepository{DB: db}
	reviews := repositories.ReviewRepository{DB: db}
	purchases := repositories.PurchaseRepository{DB: db}
	users := repositories.UserRepository{DB: db}

	api := &h.API{
		Games:     services.GameService{Repo: games, Metrics: m},
		Reviews:   services.ReviewService{Repo: reviews, Metrics: m},
		Purchases: services.PurchaseService{Repo: purchases, Metrics: m},
		Receipts:  services.ReceiptService{Purchases: purchases, Games: games, Users: users},
		Accounts:  services.AccountService{Users: users, Tokens: access},
		Recovery: services.RecoveryService{
			Identities:       users,
			Issuer:           issuer,
			Validator:        validator,
			Sender:           sender,
			Ledger:           ledger,
			Metrics:          m,
			ResetURLBase:     env.Recovery.ResetURLBase,
			SingleUse:        env.Recovery.SingleUse,
			MaskUnknownEmail: env.Recovery.MaskUnknownEmail,
		},
	}
	return router.Deps{API: api, Tokens: access, Metrics: m}, nil
}
