package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aygame101/cardboard/internal/checklist"
	"github.com/aygame101/cardboard/internal/config"
	"github.com/aygame101/cardboard/internal/logging"
	"github.com/aygame101/cardboard/internal/prefs"
	"github.com/aygame101/cardboard/internal/state"
	"github.com/aygame101/cardboard/internal/trello"
	"github.com/aygame101/cardboard/internal/ui"
)

// ErrMissingCredentials is returned when neither the config file nor the
// environment provide an API key and token.
var ErrMissingCredentials = errors.New("api key and token required (set api_key/api_token or CARDBOARD_API_KEY/CARDBOARD_API_TOKEN)")

// Remote is everything cardboard asks of the task board API.
type Remote interface {
	checklist.Store
	ListBoards(ctx context.Context) ([]trello.Board, error)
	ListLists(ctx context.Context, boardID string) ([]trello.List, error)
	ListCards(ctx context.Context, listID string) ([]trello.Card, error)
}

var _ Remote = (*trello.Client)(nil)

// Options configure the cardboard application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/cardboard/prefs.toml

	// LogWriter receives log output instead of the configured log file.
	LogWriter io.Writer
	// Remote replaces the HTTP client built from the config.
	Remote Remote
}

// App is the wired application: config, logger, remote client, checklist
// service and the session cache.
type App struct {
	Config     config.Config
	Prefs      prefs.Prefs
	PrefsPath  string
	Log        *slog.Logger
	Remote     Remote
	Checklists *checklist.Service
	Cache      *state.Store

	logCloser io.Closer
}

// New loads configuration and builds every dependency. Close releases the
// log file.
func New(opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	prefsPath := opts.PrefsPath
	if strings.TrimSpace(prefsPath) == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, _ := prefs.Load(prefsPath)

	a := &App{
		Config:    cfg,
		Prefs:     userPrefs,
		PrefsPath: prefsPath,
		Cache:     &state.Store{},
	}

	if opts.LogWriter != nil {
		a.Log = logging.New(opts.LogWriter, cfg.LogLevel)
	} else if logger, closer, err := logging.Open(cfg.LogPath(), cfg.LogLevel); err == nil {
		a.Log = logger
		a.logCloser = closer
	} else {
		a.Log = logging.Discard()
	}

	remote := opts.Remote
	if remote == nil {
		if !cfg.HasCredentials() {
			_ = a.Close()
			return nil, ErrMissingCredentials
		}
		client, err := trello.NewClient(trello.Options{
			BaseURL: cfg.APIURL,
			Key:     cfg.APIKey,
			Token:   cfg.APIToken,
			Timeout: cfg.Timeout,
		})
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("init api client: %w", err)
		}
		remote = client
	}
	a.Remote = remote
	a.Checklists = checklist.NewService(remote, checklist.Options{
		Parallelism: cfg.Parallelism,
		Logger:      a.Log,
	})
	return a, nil
}

// Close releases the log file, if one was opened.
func (a *App) Close() error {
	if a.logCloser == nil {
		return nil
	}
	err := a.logCloser.Close()
	a.logCloser = nil
	return err
}

// RememberCard stores cardID as the last edited card.
func (a *App) RememberCard(cardID string) {
	a.Prefs.LastCard = cardID
	if err := prefs.Update(a.PrefsPath, func(p *prefs.Prefs) { p.LastCard = cardID }); err != nil {
		a.Log.Warn("save prefs failed", "error", err)
	}
}

// RunEditor opens the checklist editor for cardID until the user quits or
// ctx is cancelled.
func (a *App) RunEditor(ctx context.Context, cardID string) error {
	a.RememberCard(cardID)
	a.Log.Info("editor started", "card", cardID)
	defer a.Log.Info("editor stopped", "card", cardID)

	return ui.Run(ui.Options{
		Context:   ctx,
		Backend:   a,
		CardID:    cardID,
		ThemeName: a.Prefs.Theme,
		PrefsPath: a.PrefsPath,
	})
}
