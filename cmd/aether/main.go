package main

import (
	"context"

	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether"
	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/config"
	_ "github.com/jimmicro/version"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create config")
	}
	server, err := aether.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create server")
	}
	if err := server.Run(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to run server")
	}
}
