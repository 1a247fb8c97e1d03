package composables

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/renterra/backoffice/pkg/constants"
)

var (
	ErrNoActor = errors.New("no actor found in context")
)

// Actor identifies the human on whose behalf a request runs. Authentication
// lives outside this application; the actor arrives as trusted headers and is
// threaded explicitly through every operation.
type Actor struct {
	ID   uuid.UUID
	Name string
	Role string
}

func (a Actor) IsZero() bool {
	return a.ID == uuid.Nil
}

func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, constants.ActorKey, actor)
}

func UseActor(ctx context.Context) (Actor, error) {
	actor, ok := ctx.Value(constants.ActorKey).(Actor)
	if !ok || actor.IsZero() {
		return Actor{}, ErrNoActor
	}
	return actor, nil
}

func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, constants.LoggerKey, logger)
}

// UseLogger returns the request-scoped logger. Panics when the logging
// middleware did not run.
func UseLogger(ctx context.Context) *logrus.Entry {
	logger := ctx.Value(constants.LoggerKey)
	if logger == nil {
		panic("logger not found")
	}
	return logger.(*logrus.Entry)
}

type PaginationParams struct {
	Limit  int
	Offset int
	Page   int
}

// UsePaginated extracts page/limit query parameters with sane bounds.
func UsePaginated(r *http.Request) PaginationParams {
	limit := 25
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	page := 1
	if v := strings.TrimSpace(r.URL.Query().Get("page")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			page = parsed
		}
	}
	return PaginationParams{
		Limit:  limit,
		Offset: (page - 1) * limit,
		Page:   page,
	}
}
