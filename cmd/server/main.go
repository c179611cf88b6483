// main.go
//
// A classifieds bulletin board with rubrics, ads, comments and user accounts
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of callboard.
// callboard is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// callboard is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with callboard.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/localnerve/callboard/internal/config"
	"github.com/localnerve/callboard/internal/database"
	"github.com/localnerve/callboard/internal/forms"
	"github.com/localnerve/callboard/internal/handlers"
	"github.com/localnerve/callboard/internal/logging"
	"github.com/localnerve/callboard/internal/mail"
	"github.com/localnerve/callboard/internal/media"
	"github.com/localnerve/callboard/internal/server"
	"github.com/localnerve/callboard/internal/signer"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// @title Callboard API
// @version 1.0.0
// @description Read-only JSON API of the callboard bulletin board
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localnerve/callboard
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Connect(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	sign, err := signer.New(cfg.SecretKey, signer.DefaultSalt)
	if err != nil {
		logger.Fatal("failed to create signer", zap.Error(err))
	}

	storage, err := media.NewFileStorage(cfg.MediaRoot, logger)
	if err != nil {
		logger.Fatal("failed to prepare media storage", zap.Error(err))
	}

	sessions := session.New(session.Config{
		Expiration:     14 * 24 * time.Hour,
		KeyLookup:      "cookie:callboard_session",
		CookieHTTPOnly: true,
		CookieSecure:   strings.HasPrefix(cfg.BaseURL, "https://"),
		CookieSameSite: "Lax",
	})

	h := &handlers.Handler{
		DB:       db,
		Sessions: sessions,
		Log:      logger,
		Signer:   sign,
		Mailer:   mail.New(cfg, logger),
		Media:    storage,
		Captcha:  forms.DigitCaptcha{},
		BaseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
	}

	app := server.New(h, server.Options{
		Config:     cfg,
		Registerer: prometheus.DefaultRegisterer,
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		logger.Info("gracefully shutting down")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	logger.Info("starting server", zap.String("port", cfg.Port), zap.String("base_url", h.BaseURL))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	logger.Info("server stopped")
}
