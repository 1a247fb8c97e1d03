package authz

import (
	"context"
	"fmt"
	"sync"

	"github.com/casbin/casbin/v2"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
	"github.com/sirupsen/logrus"

	"github.com/renterra/backoffice/pkg/serrors"
)

// Request describes a single authorization check: may subject perform
// action on object at all. This gate is independent of review gating —
// a denial here means no change request is ever created.
type Request struct {
	Subject string
	Object  string
	Action  string
}

// Config carries enforcer inputs.
type Config struct {
	ModelPath  string
	PolicyPath string
	Logger     *logrus.Logger
}

func (c Config) validate() error {
	if c.ModelPath == "" {
		return fmt.Errorf("authz: model path is required")
	}
	if c.PolicyPath == "" {
		return fmt.Errorf("authz: policy path is required")
	}
	return nil
}

// Service provides helpers for enforcing authorization decisions.
type Service struct {
	enforcer *casbin.Enforcer
	logger   *logrus.Entry
	mu       sync.RWMutex
}

// NewService constructs a Service with the provided config.
func NewService(cfg Config) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	var logger *logrus.Entry
	if cfg.Logger != nil {
		logger = cfg.Logger.WithField("component", "authz")
	} else {
		logger = logrus.WithField("component", "authz")
	}

	enf, err := casbin.NewEnforcer(cfg.ModelPath, fileadapter.NewAdapter(cfg.PolicyPath))
	if err != nil {
		return nil, fmt.Errorf("authz: failed to initialize enforcer: %w", err)
	}
	if err := enf.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("authz: failed to load policies: %w", err)
	}

	return &Service{
		enforcer: enf,
		logger:   logger,
	}, nil
}

// Check evaluates the request without side effects.
func (s *Service) Check(ctx context.Context, req Request) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enforcer.Enforce(req.Subject, req.Object, req.Action)
}

// Authorize returns a forbidden error if the request is denied.
func (s *Service) Authorize(ctx context.Context, req Request) error {
	allowed, err := s.Check(ctx, req)
	if err != nil {
		return err
	}
	if !allowed {
		s.logger.WithContext(ctx).WithFields(logrus.Fields{
			"subject": req.Subject,
			"object":  req.Object,
			"action":  req.Action,
		}).Warn("authz denied request")
		return forbiddenError(req)
	}
	return nil
}

func forbiddenError(req Request) *serrors.BaseError {
	return serrors.NewError(
		"AUTHZ_FORBIDDEN",
		fmt.Sprintf("subject %q may not %s %s", req.Subject, req.Action, req.Object),
		"Authorization.PermissionDenied",
	)
}
