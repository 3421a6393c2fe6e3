package echoapi

import (
	"context"
	"net/http"
	"sync"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"github.com/BillJr99/Ursinus-Boilerplate-Code/core"
	"github.com/BillJr99/Ursinus-Boilerplate-Code/core/schedule"
	"github.com/BillJr99/Ursinus-Boilerplate-Code/core/syllabus"
)

type (
	Options struct {
		Address        string
		Debug          bool
		DisableReqLogs bool
		// Path is where the syllabus is saved; Doc is its parsed content.
		Path   string
		Doc    *syllabus.Document
		Logger core.Logger
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts       *Options
		app        *echo.Echo
		validate   *validator.Validate
		translator ut.Translator

		// mu guards board, which handlers edit in place.
		mu    sync.Mutex
		board *schedule.Board
	}
)

var _ Server = (*server)(nil)

// NewServer lays out the schedule of opts.Doc as a board and serves it.
func NewServer(opts *Options) (Server, error) {
	var entries []syllabus.Entry
	if err := opts.Doc.Decode("schedule", &entries); err != nil {
		return nil, errors.Wrap(err, "reading schedule")
	}
	validate, translator := core.NewValidator()
	s := &server{
		opts:       opts,
		app:        echo.New(),
		validate:   validate,
		translator: translator,
		board:      schedule.NewBoard(schedule.FromEntries(entries)),
	}
	s.setup()
	return s, nil
}

func (s *server) setup() {
	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in debug mode
	if !s.opts.Debug {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger)
	s.app.Debug = s.opts.Debug

	s.app.GET("/", s.home)

	v1 := s.app.Group("/v1")
	registerBoardAPI(v1, s)
}

func (s *server) Start() error {
	err := s.app.Start(s.opts.Address)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Schedule editor for "+s.opts.Path)
}
