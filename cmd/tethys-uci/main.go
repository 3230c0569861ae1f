package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"tethysbook/internal/app"
	"tethysbook/internal/config"
	"tethysbook/internal/logx"
	"tethysbook/internal/uci"
)

func main() {
	cfg := config.FromEnv()
	// stdout carries the protocol; logs go to stderr.
	log := logx.NewLogger(cfg.LogLevel)

	application, err := app.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := uci.NewServer("tethys", application.Player(), os.Stdout, log)
	if err := server.Run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("uci loop failed")
	}
}
