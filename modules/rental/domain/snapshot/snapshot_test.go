package snapshot_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/renterra/backoffice/modules/rental/domain/snapshot"
)

func TestDecimal_AcceptsWireShapes(t *testing.T) {
	for name, value := range map[string]any{
		"string": "149.90",
		"float":  149.90,
	} {
		t.Run(name, func(t *testing.T) {
			d, err := snapshot.Decimal(map[string]any{"amount": value}, "amount")
			require.NoError(t, err)
			require.True(t, d.Equal(decimal.RequireFromString("149.90")))
		})
	}

	d, err := snapshot.Decimal(map[string]any{}, "amount")
	require.NoError(t, err)
	require.True(t, d.IsZero())

	_, err = snapshot.Decimal(map[string]any{"amount": "not-a-number"}, "amount")
	require.Error(t, err)
}

func TestTime_AcceptsNativeAndRFC3339(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)

	parsed, err := snapshot.Time(map[string]any{"paid_at": now}, "paid_at")
	require.NoError(t, err)
	require.True(t, parsed.Equal(now))

	parsed, err = snapshot.Time(map[string]any{"paid_at": now.Format(time.RFC3339)}, "paid_at")
	require.NoError(t, err)
	require.True(t, parsed.Equal(now))

	_, err = snapshot.Time(map[string]any{"paid_at": "yesterday"}, "paid_at")
	require.Error(t, err)
}

func TestUUIDSlice_SurvivesJSONRoundTrip(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	raw, err := json.Marshal(map[string]any{"product_ids": snapshot.UUIDStrings(ids)})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	parsed, err := snapshot.UUIDSlice(decoded, "product_ids")
	require.NoError(t, err)
	require.Equal(t, ids, parsed)
}

func TestUUIDSlice_RejectsNonIdentifiers(t *testing.T) {
	_, err := snapshot.UUIDSlice(map[string]any{"product_ids": []any{42}}, "product_ids")
	require.Error(t, err)

	_, err = snapshot.UUIDSlice(map[string]any{"product_ids": []any{"nope"}}, "product_ids")
	require.Error(t, err)
}

func TestRefs_DecodesAttachmentList(t *testing.T) {
	refs, err := snapshot.Refs(map[string]any{
		"attachments": []any{
			map[string]any{"name": "contract.pdf", "sizeBytes": float64(2048), "locator": "/files/abc.pdf"},
		},
	}, "attachments")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	require.Equal(t, "contract.pdf", refs[0].Name)
	require.Equal(t, int64(2048), refs[0].SizeBytes)
	require.Equal(t, "/files/abc.pdf", refs[0].Locator)

	refs, err = snapshot.Refs(map[string]any{}, "attachments")
	require.NoError(t, err)
	require.Nil(t, refs)
}

func TestRefs_EmptyListIsValid(t *testing.T) {
	refs, err := snapshot.Refs(map[string]any{"attachments": []any{}}, "attachments")
	require.NoError(t, err)
	require.Empty(t, refs)
}
