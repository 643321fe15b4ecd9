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

	"falcon-scn/cli"
	"falcon-scn/config"
	"falcon-scn/core/storage"
	"falcon-scn/core/store"
	"falcon-scn/core/utils"
	"falcon-scn/observe"
)

func main() {
	if len(os.Args) > 1 {
		cli.Run()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	logger := utils.NewLogger()
	medium, err := storage.OpenSQLite(context.Background(), cfg.StatePath, logger)
	if err != nil {
		logger.Fatalf("storage init: %v", err)
	}
	defer medium.Close()

	st, err := store.New(context.Background(), cfg, medium, logger)
	if err != nil {
		logger.Fatalf("store init: %v", err)
	}

	if st.IsFirstRun() && !st.CredentialsShown(context.Background()) {
		logger.Printf("first run: default admin credentials are printed by `init`")
	}

	var srv *observe.Server
	if cfg.Observability.MetricsEnabled {
		srv = observe.NewServer(cfg, st, medium, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Errorf("observe listener: %v", err)
			}
		}()
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if srv != nil {
		if err := srv.Stop(ctx); err != nil {
			logger.Errorf("graceful shutdown: %v", err)
		}
	}
	if err := st.Close(ctx); err != nil {
		logger.Errorf("final flush: %v", err)
	}
}
