package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/internal/auth"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/internal/cognition"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/internal/config"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/internal/event"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/internal/notify"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/internal/registry"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/internal/server"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/internal/store"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/internal/version"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/pkg/plugin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// app is the composed runtime shared by serve and the offline commands.
type app struct {
	viper  *viper.Viper
	logger *zap.Logger
	db     *store.SQLiteStore
	bus    *event.Bus
	reg    *registry.Registry
}

// loadConfig reads configuration and builds the logger. Configuration comes
// first so log level and format can be configured.
func loadConfig() (*viper.Viper, *zap.Logger, error) {
	v, err := server.LoadConfig(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	logger, err := config.NewLogger(v)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize logger: %w", err)
	}
	return v, logger, nil
}

// newApp opens the database and initializes every module. Callers must
// call close.
func newApp(ctx context.Context, v *viper.Viper, logger *zap.Logger) (*app, error) {
	dbPath := v.GetString("database.path")
	if dbPath == "" {
		dbPath = "alzheon.db"
	}
	db, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.CheckVersion(ctx, version.Short()); err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("database initialized",
		zap.String("component", "database"),
		zap.String("path", dbPath),
	)

	a := &app{
		viper:  v,
		logger: logger,
		db:     db,
		bus:    event.NewBus(logger.Named("event")),
		reg:    registry.New(logger.Named("registry")),
	}

	// Compile-time composition.
	for _, m := range []plugin.Plugin{cognition.New(), notify.New()} {
		if err := a.reg.Register(m); err != nil {
			db.Close()
			return nil, err
		}
	}
	if err := a.reg.Validate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("module validation: %w", err)
	}

	cfg := config.New(v)
	if err := a.reg.InitAll(ctx, func(name string) plugin.Dependencies {
		return plugin.Dependencies{
			Config:  cfg.Sub("plugins." + name),
			Logger:  logger.Named(name),
			Store:   db,
			Bus:     a.bus,
			Plugins: a.reg,
		}
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize modules: %w", err)
	}
	return a, nil
}

func (a *app) close(ctx context.Context) {
	a.reg.StopAll(ctx)
	if err := a.db.Close(); err != nil {
		a.logger.Error("database close failed", zap.Error(err))
	}
}

// tokenService builds the JWT service from auth.* settings. An empty secret
// is replaced by a random one when ephemeral is true.
func tokenService(v *viper.Viper, logger *zap.Logger, ephemeral bool) (*auth.TokenService, error) {
	secret := v.GetString("auth.jwt_secret")
	if secret == "" {
		if !ephemeral {
			return nil, errors.New("auth.jwt_secret is not configured")
		}
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			return nil, fmt.Errorf("generate JWT secret: %w", err)
		}
		secret = hex.EncodeToString(b)
		logger.Warn("using auto-generated JWT secret; tokens will not survive restarts",
			zap.String("component", "auth"),
		)
	}

	ttl := v.GetDuration("auth.access_token_ttl")
	if ttl == 0 {
		ttl = 15 * time.Minute
	}
	return auth.NewTokenService([]byte(secret), ttl), nil
}
