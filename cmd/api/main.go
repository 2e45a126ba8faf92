package main

import (
	"context"
	"os"

	"github.com/yigit/schoolrecords/internal/pkg/logger"
	"github.com/yigit/schoolrecords/internal/server"
)

// @title School Records API
// @version 1.0
// @description API for faculties, students and student avatars

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http

func main() {
	srv, err := server.NewServer(context.Background())
	if err != nil {
		// Error details are logged within the bootstrap functions
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
