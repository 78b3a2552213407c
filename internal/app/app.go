package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/wpstores/internal/account"
	"github.com/five82/wpstores/internal/config"
	"github.com/five82/wpstores/internal/dispatch"
	"github.com/five82/wpstores/internal/metrics"
	"github.com/five82/wpstores/internal/session"
	"github.com/five82/wpstores/internal/site"
	"github.com/five82/wpstores/internal/wpcom"
)

// Options configure the application.
type Options struct {
	ConfigPath  string
	SessionPath string    // empty uses the config value
	LogLevel    string    // empty uses the config value
	LogOutput   io.Writer // nil uses the configured log file or stderr
	HTTPClient  *http.Client
}

// App holds every wired component. It is built once by New and passed
// explicitly to the CLI and UI.
type App struct {
	Config     config.Config
	Log        *logrus.Logger
	Session    *session.Session
	Metrics    *metrics.Metrics
	Queue      *wpcom.Queue
	Dispatcher *dispatch.Dispatcher
	Sites      *site.Store
	Account    *account.Store

	logFile io.Closer
}

// New loads configuration and wires the request queue, dispatcher, rest
// clients and stores. Call Start before dispatching.
func New(opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.SessionPath != "" {
		cfg.SessionPath = opts.SessionPath
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}

	log, logFile, err := newLogger(cfg, opts.LogOutput)
	if err != nil {
		return nil, err
	}

	endpoints, err := wpcom.NewEndpoints(cfg.APIBase)
	if err != nil {
		if logFile != nil {
			_ = logFile.Close()
		}
		return nil, fmt.Errorf("init endpoints: %w", err)
	}

	sess := session.Open(cfg.SessionPath)
	m := metrics.New()

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	queue := wpcom.NewQueue(wpcom.QueueOptions{
		HTTPClient:    httpClient,
		Workers:       cfg.Workers,
		RatePerSecond: cfg.RatePerSecond,
		Tokens:        sess,
		Logger:        log,
		Metrics:       m,
	})

	d := dispatch.New(log, m)
	secrets := wpcom.AppSecrets{AppID: cfg.AppID, AppSecret: cfg.AppSecret}

	sites := site.NewStore(site.NewRestClient(d, queue, endpoints, secrets, log), log)
	acct := account.NewStore(
		account.NewRestClient(d, queue, endpoints, log),
		account.NewAuthenticator(d, queue, endpoints, secrets, log),
		sess,
		log,
	)
	d.Register(sites)
	d.Register(acct)

	return &App{
		Config:     cfg,
		Log:        log,
		Session:    sess,
		Metrics:    m,
		Queue:      queue,
		Dispatcher: d,
		Sites:      sites,
		Account:    acct,
		logFile:    logFile,
	}, nil
}

// Start launches the request workers. They stop when ctx is cancelled.
func (a *App) Start(ctx context.Context) {
	a.Queue.Start(ctx)
}

// Close drains the request queue and closes the log file.
func (a *App) Close() {
	a.Queue.Close()
	if a.logFile != nil {
		_ = a.logFile.Close()
		a.logFile = nil
	}
}

// ServeMetrics exposes the prometheus registry on addr until ctx is done.
func (a *App) ServeMetrics(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.Metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	a.Log.WithField("addr", addr).Info("serving metrics")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve metrics: %w", err)
	}
	return nil
}

// newLogger logs text to out, or JSON lines to cfg.LogFile when out is nil
// and a file is configured. The returned closer is nil unless a file was
// opened.
func newLogger(cfg config.Config, out io.Writer) (*logrus.Logger, io.Closer, error) {
	lvl, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("parse log level: %w", err)
	}
	log := logrus.New()
	log.SetLevel(lvl)

	var closer io.Closer
	switch {
	case out != nil:
		log.SetOutput(out)
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case cfg.LogFile != "":
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o700); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		log.SetOutput(f)
		log.SetFormatter(&logrus.JSONFormatter{})
		closer = f
	default:
		log.SetOutput(os.Stderr)
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log, closer, nil
}
