// Package app wires the client together: config -> session store -> HTTP
// gateway -> slices -> mutation bridge. The session is app-session scoped and
// threaded through explicitly; there is no global mutable singleton.
package app

import (
	"fmt"
	"time"

	"bookstore/internal/api"
	"bookstore/internal/config"
	"bookstore/internal/media"
	"bookstore/internal/session"
	"bookstore/internal/state"
)

// Config holds runtime configuration for the client core.
type Config struct {
	BaseURL        string
	RequestTimeout time.Duration
	SessionBackend string
	SessionPath    string
	RedisAddr      string
	RedisPassword  string
	MaxUploadBytes int64
	ImageMaxWidth  int
	ImageQuality   int

	// Sessions overrides the configured backend, used by tests.
	Sessions session.Store
}

// App is the assembled client: one gateway, one session store, four slices
// and the bridge across them.
type App struct {
	Sessions session.Store
	Client   *api.Client
	Auth     *state.Auth
	Feed     *state.Feed
	Submit   *state.Submit
	Profile  *state.Profile
	Bridge   *state.Bridge
}

// New constructs the client and restores any persisted session.
func New(cfg Config) (*App, error) {
	sessions := cfg.Sessions
	if sessions == nil {
		var err error
		switch cfg.SessionBackend {
		case "", "file":
			sessions, err = session.NewFileStore(cfg.SessionPath)
			if err != nil {
				return nil, fmt.Errorf("init session store: %w", err)
			}
		case "redis":
			sessions = session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword)
		default:
			return nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
		}
	}

	client := api.NewClient(cfg.BaseURL, cfg.RequestTimeout, sessions)

	prepare := func(path string) (api.FormFile, error) {
		prepared, err := media.PrepareImage(path, cfg.ImageMaxWidth, cfg.ImageQuality, cfg.MaxUploadBytes)
		if err != nil {
			return api.FormFile{}, err
		}
		return api.FormFile{
			Name:        prepared.Name,
			ContentType: prepared.ContentType,
			Data:        prepared.Data,
		}, nil
	}

	auth := state.NewAuth(client, sessions, prepare)
	feed := state.NewFeed(client, sessions)
	submit := state.NewSubmit(client, sessions, prepare)
	profile := state.NewProfile(client, sessions)

	auth.Restore()

	return &App{
		Sessions: sessions,
		Client:   client,
		Auth:     auth,
		Feed:     feed,
		Submit:   submit,
		Profile:  profile,
		Bridge:   state.NewBridge(auth, feed, submit, profile),
	}, nil
}

// FromFileConfig maps the loaded file config onto the app config.
func FromFileConfig(cfg config.FileConfig) (Config, error) {
	timeout, err := config.ParseRequestTimeout(cfg.RequestTimeout)
	if err != nil {
		return Config{}, err
	}
	return Config{
		BaseURL:        cfg.BaseURL,
		RequestTimeout: timeout,
		SessionBackend: cfg.SessionBackend,
		SessionPath:    cfg.SessionPath,
		RedisAddr:      cfg.RedisAddr,
		RedisPassword:  cfg.RedisPassword,
		MaxUploadBytes: cfg.MaxUploadBytes,
		ImageMaxWidth:  cfg.ImageMaxWidth,
		ImageQuality:   cfg.ImageJPEGQuality,
	}, nil
}
