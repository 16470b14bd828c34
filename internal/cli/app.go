// Package cli is the interactive console over the catalog: browse courses,
// tutors and contact messages, and manage the local account list.
package cli

import (
	"bufio"
	"context"
	"errors"
	"os"

	"github.com/edkeeper/classvault/internal/catalog"
	"github.com/edkeeper/classvault/internal/catalog/migrate"
	"github.com/edkeeper/classvault/internal/config"
	"github.com/edkeeper/classvault/internal/logging"
	"github.com/edkeeper/classvault/internal/shared"
	"github.com/edkeeper/classvault/internal/storage"
	"github.com/edkeeper/classvault/internal/users"
)

type App struct {
	config    *config.Config
	store     *storage.Manager
	catalog   *catalog.Catalog
	users     *users.Service
	log       logging.Logger
	reader    *bufio.Reader
	userEmail string
}

// NewApp opens the storage medium, runs the one-time schema migration, and
// wires up the catalog and user services. A partial migration is not fatal:
// the session continues on defaults and the legacy record stays for a retry.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	store, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	userSvc := users.NewService(store.Documents(), log, []byte(cfg.SecretKey), cfg.SessionTokenValidityDuration)

	engine := migrate.NewEngine(store.Documents(), store.Blobs(), log)
	doc, err := engine.Run(ctx)
	if err != nil {
		if !errors.Is(err, shared.ErrPartialMigration) {
			_ = store.Close()
			return nil, err
		}
	}
	log.Info(ctx, "catalog ready", "classroom", doc.ClassroomName, "courses", len(doc.Courses))

	return &App{
		config:  cfg,
		store:   store,
		catalog: catalog.New(store.Documents(), store.Blobs(), userSvc, log),
		users:   userSvc,
		log:     log,
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.userEmail != ""
}

func (a *App) Run(ctx context.Context) {
	defer func() { _ = a.store.Close() }()
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}

func (a *App) getStatus() string {
	if a.userEmail == "" {
		return ""
	}
	return "(" + a.userEmail + ")"
}
