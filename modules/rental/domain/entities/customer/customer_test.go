package customer_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/renterra/backoffice/modules/approval/domain/attachment"
	"github.com/renterra/backoffice/modules/rental/domain/entities/customer"
)

func TestNew_NormalizesFields(t *testing.T) {
	entity := customer.New("  Jamie Fox  ", " Jamie.Fox@Example.COM ", " 555-1 ", "", "", nil)
	require.Equal(t, "Jamie Fox", entity.Name())
	require.Equal(t, "jamie.fox@example.com", entity.Email())
	require.Equal(t, "555-1", entity.Phone())
	require.False(t, entity.IsZero())
}

func TestSnapshot_RoundTripsThroughJSON(t *testing.T) {
	entity := customer.New(
		"Jamie Fox",
		"jamie@example.com",
		"555-1",
		"1 Main St",
		"vip",
		[]attachment.Ref{{Name: "id.pdf", SizeBytes: 512, Locator: "/files/abc.pdf"}},
	)

	raw, err := json.Marshal(entity.Snapshot())
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	restored, err := customer.FromSnapshot(decoded)
	require.NoError(t, err)
	require.Equal(t, entity.Name(), restored.Name())
	require.Equal(t, entity.Email(), restored.Email())
	require.Equal(t, entity.Phone(), restored.Phone())
	require.Equal(t, entity.Address(), restored.Address())
	require.Equal(t, entity.Notes(), restored.Notes())
	require.Equal(t, entity.Attachments(), restored.Attachments())
}

func TestSnapshot_RoundTripsWithoutAttachments(t *testing.T) {
	entity := customer.New("Jamie Fox", "jamie@example.com", "555-1", "", "", nil)

	raw, err := json.Marshal(entity.Snapshot())
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	restored, err := customer.FromSnapshot(decoded)
	require.NoError(t, err)
	require.Equal(t, entity.Name(), restored.Name())
	require.Empty(t, restored.Attachments())
}

func TestFromSnapshot_RejectsBadID(t *testing.T) {
	_, err := customer.FromSnapshot(map[string]any{"id": "not-a-uuid", "name": "x"})
	require.Error(t, err)
}
