package rest

import (
	"context"
	"net/http"

	"github.com/evergreen-ci/binseg"
	"github.com/evergreen-ci/gimlet"
	"github.com/mongodb/amboy"
	"github.com/pkg/errors"
	"github.com/rs/cors"
)

type Service struct {
	Port        int
	Prefix      string
	Environment binseg.Environment

	// internal settings
	queue amboy.Queue
	conf  *binseg.Configuration
	app   *gimlet.APIApp
}

func (s *Service) Validate() error {
	var err error

	if s.Environment == nil {
		return errors.New("must specify an environment")
	}

	if s.conf == nil {
		s.conf, err = s.Environment.GetConf()
		if err != nil {
			return errors.Wrap(err, "problem getting configuration")
		}
	}

	if s.queue == nil {
		s.queue, err = s.Environment.GetQueue()
		if err != nil {
			return errors.Wrap(err, "problem getting queue")
		}
		if s.queue == nil {
			return errors.New("no queue defined")
		}
	}

	if s.app == nil {
		s.app = gimlet.NewApp()
	}

	if s.Port == 0 {
		s.Port = s.conf.ServicePort
	}

	if err := s.app.SetPort(s.Port); err != nil {
		return errors.WithStack(err)
	}

	if s.Prefix == "" {
		s.Prefix = "rest"
	}
	s.app.SetPrefix(s.Prefix)

	if len(s.conf.CORSOrigins) > 0 {
		s.app.AddMiddleware(cors.New(cors.Options{
			AllowedOrigins: s.conf.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
			AllowedHeaders: []string{"Content-Type"},
		}))
	}

	return nil
}

func (s *Service) Start(ctx context.Context) error {
	if s.queue == nil || s.app == nil {
		return errors.New("application is not valid")
	}

	s.addRoutes()

	if !s.queue.Info().Started {
		if err := s.queue.Start(ctx); err != nil {
			return errors.Wrap(err, "problem starting queue")
		}
	}

	if err := s.app.Resolve(); err != nil {
		return errors.Wrap(err, "problem resolving routes")
	}

	return s.app.Run(ctx)
}

func (s *Service) addRoutes() {
	s.app.AddRoute("/status").Version(1).Get().RouteHandler(makeStatusHandler(s.queue))
	s.app.AddRoute("/split").Version(1).Post().RouteHandler(makeFindSplit(s.conf.DefaultCost))
	s.app.AddRoute("/split/jobs").Version(1).Post().RouteHandler(makeCreateSplitJob(s.queue, s.conf.DefaultCost))
	s.app.AddRoute("/split/jobs/{id}").Version(1).Get().RouteHandler(makeGetSplitJob(s.queue))
}
