package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/dmitrijs2005/tablekeeper/internal/client/client"
	"github.com/dmitrijs2005/tablekeeper/internal/client/config"
	"github.com/dmitrijs2005/tablekeeper/internal/client/records"
	"github.com/dmitrijs2005/tablekeeper/internal/client/repositories/kv"
	"github.com/dmitrijs2005/tablekeeper/internal/client/services"
	"github.com/dmitrijs2005/tablekeeper/internal/cryptox"
	"github.com/dmitrijs2005/tablekeeper/internal/logging"
)

// App is the interactive shell. It holds the session capability and the
// record view; the two never talk to each other directly.
type App struct {
	config   *config.Config
	sessions services.SessionService
	view     *records.RecordView
	reader   *bufio.Reader
	out      io.Writer
	log      logging.Logger

	db *sql.DB
}

func NewApp(c *config.Config, sessions services.SessionService, view *records.RecordView,
	log logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		config:   c,
		sessions: sessions,
		view:     view,
		reader:   bufio.NewReader(in),
		out:      out,
		log:      log,
	}
}

// Open builds an App from configuration: it opens and migrates the
// database, restores accounts and the session, and seeds the record view.
// Close releases the database.
func Open(ctx context.Context, c *config.Config, log logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	codec, err := cryptox.NewCodec(c.CredentialCodec)
	if err != nil {
		return nil, err
	}
	mode, err := services.ParseSignupMode(c.SignupMode)
	if err != nil {
		return nil, err
	}

	db, err := client.OpenDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", c.DatabasePath, "err", err)
		return nil, err
	}

	sessions := services.NewSessionStore(kv.NewSQLiteStore(db), codec,
		services.WithLogger(log), services.WithSignupMode(mode))
	if err := sessions.Load(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("load session: %w", err)
	}

	view, err := records.NewRecordView(c.PageSize, records.WithRecords(c.SeedRecords))
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a := NewApp(c, sessions, view, log, in, out)
	a.db = db
	return a, nil
}

// Run blocks until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *App) isLoggedIn() bool {
	_, ok := a.sessions.Current()
	return ok
}
