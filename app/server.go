// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package app

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/sitechat/server/v5/einterfaces"
	"github.com/sitechat/server/v5/mlog"
	"github.com/sitechat/server/v5/model"
	"github.com/sitechat/server/v5/store"
	"github.com/sitechat/server/v5/store/chatcache"
	"github.com/sitechat/server/v5/store/sqlstore"
)

const TIME_TO_WAIT_FOR_CONNECTIONS_TO_DRAIN_DURING_SHUTDOWN = time.Second * 10

type Server struct {
	Store     store.Store
	ChatCache *chatcache.ChatCache

	RootRouter *mux.Router
	Server     *http.Server

	Metrics einterfaces.MetricsInterface
	Log     *mlog.Logger

	configLock sync.RWMutex
	config     *model.Config
	configFile string

	newStore func() store.Store
}

type Option func(s *Server) error

// ConfigFile loads the server configuration from the given path before
// anything else starts. The empty path falls back to the default search
// locations.
func ConfigFile(configFile string) Option {
	return func(s *Server) error {
		cfg, err := LoadConfig(configFile)
		if err != nil {
			return err
		}
		s.configFile = configFile
		s.config = cfg
		return nil
	}
}

// SetStore overrides the SQL supplier, used by tests.
func SetStore(st store.Store) Option {
	return func(s *Server) error {
		s.newStore = func() store.Store { return st }
		return nil
	}
}

func SetMetrics(metrics einterfaces.MetricsInterface) Option {
	return func(s *Server) error {
		s.Metrics = metrics
		return nil
	}
}

func NewServer(options ...Option) (*Server, error) {
	s := &Server{
		RootRouter: mux.NewRouter(),
	}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, errors.Wrap(err, "failed to apply option")
		}
	}

	if s.config == nil {
		cfg, err := LoadConfig("")
		if err != nil {
			return nil, err
		}
		s.config = cfg
	}

	s.Log = mlog.NewLogger(utilsMLogSettings(&s.config.LogSettings))
	mlog.RedirectStdLog(s.Log)
	mlog.InitGlobalLogger(s.Log)

	mlog.Info("Server is initializing...")

	if s.newStore == nil {
		s.newStore = func() store.Store {
			return sqlstore.NewSqlSupplier(s.config.SqlSettings, s.Metrics)
		}
	}
	s.Store = s.newStore()

	s.ChatCache = chatcache.New(s.Store, s.config, s.Metrics)

	return s, nil
}

func utilsMLogSettings(s *model.LogSettings) *mlog.LoggerConfiguration {
	return &mlog.LoggerConfiguration{
		EnableConsole: *s.EnableConsole,
		ConsoleJson:   *s.ConsoleJson,
		ConsoleLevel:  *s.ConsoleLevel,
		EnableFile:    *s.EnableFile,
		FileJson:      *s.FileJson,
		FileLevel:     *s.FileLevel,
		FileLocation:  *s.FileLocation,
	}
}

func (s *Server) Config() *model.Config {
	s.configLock.RLock()
	defer s.configLock.RUnlock()
	return s.config
}

func (s *Server) Start() error {
	mlog.Info("Starting Server...")

	if s.Metrics != nil {
		s.Metrics.StartServer()
	}

	s.Server = &http.Server{
		Handler:      gziphandler.GzipHandler(s.RootRouter),
		Addr:         *s.Config().ServiceSettings.ListenAddress,
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
	}

	mlog.Info("Server is listening on " + s.Server.Addr)
	if err := s.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "unable to start the server")
	}

	return nil
}

func (s *Server) Shutdown() error {
	mlog.Info("Stopping Server...")

	if s.Server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), TIME_TO_WAIT_FOR_CONNECTIONS_TO_DRAIN_DURING_SHUTDOWN)
		defer cancel()
		if err := s.Server.Shutdown(ctx); err != nil {
			mlog.Warn("Unable to shutdown server", mlog.Err(err))
		}
		s.Server = nil
	}

	if s.Store != nil {
		s.Store.Close()
	}

	if s.Metrics != nil {
		s.Metrics.StopServer()
	}

	mlog.Info("Server stopped")
	return nil
}
