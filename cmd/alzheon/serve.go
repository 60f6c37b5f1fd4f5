package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/api/swagger"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/internal/auth"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/internal/server"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/internal/version"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/internal/ws"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	v, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Alzheon server starting", zap.String("version", version.Short()))
	if f := v.ConfigFileUsed(); f != "" {
		logger.Info("configuration loaded", zap.String("component", "config"), zap.String("source", f))
	} else {
		logger.Warn("no configuration file found, using defaults", zap.String("component", "config"))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := newApp(ctx, v, logger)
	if err != nil {
		return err
	}
	if err := a.reg.StartAll(ctx); err != nil {
		a.close(ctx)
		return fmt.Errorf("start modules: %w", err)
	}
	unsubscribe := a.reg.Subscribe(a.bus)

	tokens, err := tokenService(v, logger, true)
	if err != nil {
		unsubscribe()
		a.close(ctx)
		return err
	}

	wsHandler := ws.NewHandler(tokens, a.bus, logger.Named("ws"))
	defer wsHandler.Close()

	var srvCfg server.Config
	if err := v.UnmarshalKey("server", &srvCfg); err != nil {
		unsubscribe()
		a.close(ctx)
		return fmt.Errorf("server configuration: %w", err)
	}
	srv := server.New(a.reg, logger.Named("server"), server.Options{
		Addr:           srvCfg.Addr(),
		DevMode:        srvCfg.DevMode,
		RateLimitRPS:   srvCfg.RateLimitRPS,
		RateLimitBurst: srvCfg.RateLimitBurst,
		Ready: func(ctx context.Context) error {
			return a.db.DB().PingContext(ctx)
		},
		Auth:  auth.AuthMiddleware(tokens),
		Extra: []server.RouteRegistrar{wsHandler},
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()
	logger.Info("Alzheon server ready", zap.String("addr", srvCfg.Addr()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err = <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	timeout, perr := time.ParseDuration(srvCfg.ShutdownTimeout)
	if perr != nil || timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
	defer shutdownCancel()

	if serr := srv.Shutdown(shutdownCtx); serr != nil {
		logger.Error("server shutdown error", zap.Error(serr))
	}
	unsubscribe()
	a.close(shutdownCtx)

	logger.Info("Alzheon server stopped")
	return err
}
