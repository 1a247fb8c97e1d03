package middleware

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/renterra/backoffice/pkg/composables"
)

// WithPool makes the database pool available to downstream handlers.
func WithPool(pool *pgxpool.Pool) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r = r.WithContext(composables.WithPool(r.Context(), pool))
			next.ServeHTTP(w, r)
		})
	}
}

// WithTransaction wraps the request in a single transaction, committing on
// success and rolling back when the handler never committed.
func WithTransaction() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			pool, err := composables.UsePool(r.Context())
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			tx, err := pool.Begin(r.Context())
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			defer func() {
				if err := tx.Rollback(r.Context()); err != nil {
					if errors.Is(err, pgx.ErrTxClosed) {
						return
					}
					composables.UseLogger(r.Context()).WithError(err).Error("failed to rollback transaction")
				}
			}()
			r = r.WithContext(composables.WithTx(r.Context(), tx))
			next.ServeHTTP(w, r)
			if err := tx.Commit(r.Context()); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
				composables.UseLogger(r.Context()).WithError(err).Error("failed to commit transaction")
			}
		})
	}
}
