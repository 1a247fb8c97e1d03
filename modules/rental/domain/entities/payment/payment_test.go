package payment_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/renterra/backoffice/modules/rental/domain/entities/payment"
)

func TestValidate_RejectsNonPositiveAmount(t *testing.T) {
	entity := payment.New(
		uuid.New(), nil, decimal.Zero, "usd", payment.MethodCash,
		time.Now(), "", nil,
	)
	require.ErrorIs(t, entity.Validate(), payment.ErrInvalidAmount)
	require.Equal(t, "USD", entity.Currency())
}

func TestSnapshot_RoundTripsWithoutAttachments(t *testing.T) {
	entity := payment.New(
		uuid.New(), nil, decimal.RequireFromString("149.90"), "USD",
		payment.MethodCard, time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		"deposit", nil,
	)

	raw, err := json.Marshal(entity.Snapshot())
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	restored, err := payment.FromSnapshot(decoded)
	require.NoError(t, err)
	require.Equal(t, entity.CustomerID(), restored.CustomerID())
	require.True(t, entity.Amount().Equal(restored.Amount()))
	require.Equal(t, entity.Method(), restored.Method())
	require.True(t, entity.PaidAt().Equal(restored.PaidAt()))
	require.Empty(t, restored.Attachments())
	require.Nil(t, restored.ReservationID())
}
