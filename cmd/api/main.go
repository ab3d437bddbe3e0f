package main

import (
	"errors"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"SessionInsightsServer/internal/model"
	"SessionInsightsServer/internal/server"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	config, err := model.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("could not load config")
	}

	srv, err := server.NewServer(config)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create server")
	}

	log.Info().Int("port", config.Port).Bool("production", config.Production).Msg("starting server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
