package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/scoreit/scoreit/config"
	"github.com/scoreit/scoreit/internal/scorehttp"
	"github.com/scoreit/scoreit/internal/worker"
)

var log = logrus.StandardLogger().WithFields(logrus.Fields{
	"component": "main",
})

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "scoreit.yaml", "path to the YAML config file")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *configPath); err != nil {
		log.WithError(err).Error("shutting down")
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	cfg, err := config.LoadFromFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.WithField("path", path).Info("no config file, using defaults")
		cfg, err = config.Default(), nil
	}
	if err != nil {
		return config.Config{}, err
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, cfg.ConfigureLogging(logrus.StandardLogger())
}

func run(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	svc, cleanup, err := InitializeService(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := svc.Restore(ctx); err != nil {
		return err
	}

	var wg sync.WaitGroup

	saver := worker.NewSaveSessionWorker(worker.NewSaveSessionWorkerOptions{
		Saver:    svc,
		Interval: cfg.AutosaveInterval,
	})
	wg.Add(1)
	go func() {
		defer wg.Done()
		saver.Start(ctx)
	}()

	api := scorehttp.NewServer(svc)

	if cfg.DiscordToken != "" {
		b, cleanupBot, err := InitializeBot(cfg, svc)
		if err != nil {
			return err
		}
		defer cleanupBot()

		api.AddHealthCheck("discord", b.session.Health)

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := b.bot.Listen(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.WithError(err).Error("bot stopped")
			}
		}()
	} else {
		log.Warn("no discord token configured, chat commands are disabled")
	}

	if cfg.HTTPListen != "" {
		server := &http.Server{
			Addr:              cfg.HTTPListen,
			Handler:           api.Routes(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			log.WithField("addr", cfg.HTTPListen).Info("listening")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Error("http server stopped")
			}
		}()

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				log.WithError(err).Error("failed to shut down http server")
			}
		}()
	}

	<-ctx.Done()
	wg.Wait()
	log.Info("stopped")
	return nil
}
