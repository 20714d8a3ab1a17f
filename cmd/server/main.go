package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resume-sync/internal/app"
	"resume-sync/internal/config"

	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	application, cleanup, err := app.Bootstrap(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to bootstrap app")
	}
	defer func() {
		if err := cleanup(); err != nil {
			log.WithError(err).Error("cleanup error")
		}
	}()

	addr, err := app.ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		log.WithError(err).Fatal("invalid HTTP port")
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- application.Fiber.Listen(addr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.WithError(err).Fatal("server error")
		}
	case <-sigCh:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := application.Fiber.ShutdownWithContext(ctx); err != nil {
			log.WithError(err).Error("shutdown error")
		}
	}
}
