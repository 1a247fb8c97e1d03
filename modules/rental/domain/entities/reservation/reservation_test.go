package reservation_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/renterra/backoffice/modules/rental/domain/entities/reservation"
)

func TestValidate(t *testing.T) {
	starts := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)

	entity := reservation.New(uuid.New(), nil, starts, starts.Add(24*time.Hour), "")
	require.ErrorIs(t, entity.Validate(), reservation.ErrNoProducts)

	entity = reservation.New(uuid.New(), []uuid.UUID{uuid.New()}, starts, starts, "")
	require.ErrorIs(t, entity.Validate(), reservation.ErrInvalidPeriod)

	entity = reservation.New(uuid.New(), []uuid.UUID{uuid.New()}, starts, starts.Add(24*time.Hour), "")
	require.NoError(t, entity.Validate())
	require.Equal(t, reservation.StatusBooked, entity.Status())
}

func TestSnapshot_RoundTripsThroughJSON(t *testing.T) {
	customerID := uuid.New()
	productIDs := []uuid.UUID{uuid.New(), uuid.New()}
	starts := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	ends := starts.Add(72 * time.Hour)

	entity := reservation.New(customerID, productIDs, starts, ends, "weekend trip")

	raw, err := json.Marshal(entity.Snapshot())
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	restored, err := reservation.FromSnapshot(decoded)
	require.NoError(t, err)
	require.Equal(t, customerID, restored.CustomerID())
	require.Equal(t, productIDs, restored.ProductIDs())
	require.True(t, restored.StartsAt().Equal(starts))
	require.True(t, restored.EndsAt().Equal(ends))
	require.Equal(t, reservation.StatusBooked, restored.Status())
	require.Equal(t, "weekend trip", restored.Notes())
}

func TestFromSnapshot_DefaultsMissingStatus(t *testing.T) {
	restored, err := reservation.FromSnapshot(map[string]any{
		"customer_id": uuid.NewString(),
		"product_ids": []any{uuid.NewString()},
		"starts_at":   "2025-07-01T09:00:00Z",
		"ends_at":     "2025-07-04T09:00:00Z",
	})
	require.NoError(t, err)
	require.Equal(t, reservation.StatusBooked, restored.Status())
}
