package cmd

import (
	"fmt"
	"os"

	"github.com/vedsharma/resterx/internal/collection"
	"github.com/vedsharma/resterx/internal/format"
	httpclient "github.com/vedsharma/resterx/internal/http"
	"github.com/vedsharma/resterx/internal/pipeline"
	"github.com/vedsharma/resterx/internal/recorder"
	"github.com/vedsharma/resterx/internal/storage"
)

// app wires the stores and the send pipeline for one command invocation
type app struct {
	kv          storage.KV
	history     *storage.HistoryStore
	envs        *storage.EnvironmentStore
	collections *collection.Store
	client      *httpclient.Client
	recorder    *recorder.Recorder
	sender      *pipeline.Sender
	closed      bool
}

var (
	// openApp is closed by exit so storage is released on failure paths
	openApp *app
	osExit  = os.Exit
)

func newApp() (*app, error) {
	if cfgErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", cfgErr)
	}

	kv, err := storage.Open(cfg.Storage, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage, err)
	}
	logger.Debug("storage opened", "backend", cfg.Storage, "dir", cfg.DataDir)

	history := storage.NewHistoryStore(kv, cfg.HistoryLimit)
	envs := storage.NewEnvironmentStore(kv)
	client := httpclient.NewClient(httpclient.WithLogger(logger))
	rec := recorder.New(history)

	openApp = &app{
		kv:          kv,
		history:     history,
		envs:        envs,
		collections: collection.NewStore(storage.NewCollectionRepo(kv)),
		client:      client,
		recorder:    rec,
		sender: pipeline.NewSender(envs, client, rec,
			pipeline.WithPolicy(policy()),
			pipeline.WithLogger(logger),
		),
	}
	return openApp, nil
}

func (a *app) Close() {
	if a.closed {
		return
	}
	a.closed = true
	if openApp == a {
		openApp = nil
	}
	if err := a.kv.Close(); err != nil {
		logger.Warn("failed to close storage", "error", err)
	}
}

func policy() httpclient.Policy {
	return httpclient.Policy{
		Timeout:    cfg.Timeout,
		Retries:    cfg.Retries,
		RetryDelay: cfg.RetryDelay,
	}
}

// mustApp opens the app or exits with msg
func mustApp(msg string) *app {
	a, err := newApp()
	if err != nil {
		fail(msg, err)
	}
	return a
}

func fail(msg string, err error) {
	format.PrintError(fmt.Sprintf("%s: %v", msg, err))
	exit(1)
}

// exit closes the open app, since deferred closes do not run on os.Exit
func exit(code int) {
	if openApp != nil {
		openApp.Close()
	}
	osExit(code)
}
