package server

import (
	"fmt"
	"net/http"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"SessionInsightsServer/internal/auth"
	"SessionInsightsServer/internal/database"
	"SessionInsightsServer/internal/model"
)

const sessionTTL = 12 * time.Hour

type Server struct {
	config model.Config

	db       database.Service
	verifier auth.Verifier
	sessions *auth.SessionStore
}

func NewServer(config model.Config) (*http.Server, error) {
	verifier, err := auth.NewVerifier(config.AdminUsername, config.AdminPassword)
	if err != nil {
		return nil, err
	}

	newServer := &Server{
		config: config,

		db:       database.New(config.DatabaseURL),
		verifier: verifier,
		sessions: auth.NewSessionStore(config.SecretKey, sessionTTL),
	}

	// Declare Server config
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", config.Port),
		Handler:      newServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server, nil
}
