package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"paracletus/internal/config"
	"paracletus/internal/web"
)

func main() {
	var configPath string
	var summarize string
	flag.StringVar(&configPath, "config", "./paracletus.yaml", "Path to YAML config")
	flag.StringVar(&summarize, "summarize", "", "Print a parse summary of a capture log and exit")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("config load failed")
	}

	logs := web.NewLogBuffer(2000)
	setupLogging(cfg.Log, os.Stderr, logs)

	if summarize != "" {
		if err := printCaptureSummary(os.Stdout, summarize, cfg.NMEA); err != nil {
			log.Fatal().Err(err).Str("path", summarize).Msg("summarize failed")
		}
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a := newApp(cfg, logs)
	defer a.Close()

	log.Info().Str("config", configPath).Msg("paracletus starting")
	if err := a.Start(ctx); err != nil {
		log.Error().Err(err).Msg("gps start failed")
	}

	<-ctx.Done()
	log.Info().Msg("paracletus stopping")
}
