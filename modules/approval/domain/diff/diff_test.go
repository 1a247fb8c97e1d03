package diff_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/renterra/backoffice/modules/approval/domain/attachment"
	"github.com/renterra/backoffice/modules/approval/domain/diff"
)

func TestChangeSet_OnlyChangedKeys(t *testing.T) {
	original := map[string]any{
		"phone": "555-1",
		"email": "a@b.c",
		"name":  "Acme",
	}
	proposed := map[string]any{
		"phone": "555-2",
		"email": "a@b.c",
	}

	changes := diff.ChangeSet(original, proposed)
	require.Equal(t, map[string]any{"phone": "555-2"}, changes)
}

func TestChangeSet_MissingFromOriginalCountsAsChanged(t *testing.T) {
	changes := diff.ChangeSet(map[string]any{}, map[string]any{"note": "new"})
	require.Equal(t, map[string]any{"note": "new"}, changes)
}

func TestChangeSet_EmptyProposed(t *testing.T) {
	changes := diff.ChangeSet(map[string]any{"amount": 100}, map[string]any{})
	require.Empty(t, changes)
}

func TestChangeSet_Minimality(t *testing.T) {
	original := map[string]any{
		"a": "x",
		"b": 10,
		"c": []any{"1", "2"},
	}
	proposed := map[string]any{
		"a": "x",
		"b": 10,
		"c": []any{"2", "1"},
		"d": true,
	}

	changes := diff.ChangeSet(original, proposed)
	for key := range changes {
		require.False(t, diff.Equal(original[key], proposed[key]),
			"change-set contains unchanged key %q", key)
	}
	require.Equal(t, map[string]any{"d": true}, changes)
}

func TestEqual_NoStringNumberCoercion(t *testing.T) {
	// "10" vs 10 is a real difference: it surfaces silent type drift.
	require.False(t, diff.Equal("10", 10))
	require.False(t, diff.Equal(10, "10"))
	require.True(t, diff.Equal("10", "10"))
}

func TestEqual_NumericKindsFold(t *testing.T) {
	require.True(t, diff.Equal(10, float64(10)))
	require.True(t, diff.Equal(int64(7), 7))
	require.False(t, diff.Equal(10, float64(10.5)))
}

func TestEqual_TimestampsByInstant(t *testing.T) {
	utc := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	offset := utc.In(time.FixedZone("UTC+5", 5*3600))

	require.True(t, diff.Equal(utc, offset))
	require.True(t, diff.Equal("2026-03-01T12:00:00Z", "2026-03-01T17:00:00+05:00"))
	require.False(t, diff.Equal("2026-03-01T12:00:00Z", "2026-03-01T12:00:01Z"))
}

func TestEqual_IdentifierArraysAsSets(t *testing.T) {
	require.True(t, diff.Equal([]any{"p1", "p2"}, []any{"p2", "p1"}))
	require.True(t, diff.Equal([]any{"p1", "p1"}, []any{"p1"}))
	require.False(t, diff.Equal([]any{"p1"}, []any{"p1", "p2"}))
	require.True(t, diff.Equal([]string{"a", "b"}, []any{"b", "a"}))
}

func TestEqual_AttachmentCollectionsByLocator(t *testing.T) {
	a := []any{
		map[string]any{"name": "scan.pdf", "sizeBytes": float64(100), "locator": "f1"},
	}
	b := []any{
		map[string]any{"name": "renamed.pdf", "sizeBytes": float64(999), "locator": "f1"},
	}
	require.True(t, diff.Equal(a, b))

	c := []any{map[string]any{"locator": "f2"}}
	require.False(t, diff.Equal(a, c))

	require.True(t, diff.Equal([]attachment.Ref{}, []any{}))
	require.False(t, diff.Equal([]attachment.Ref{}, a))
}

func TestEqual_NestedObjectsByID(t *testing.T) {
	require.True(t, diff.Equal(
		map[string]any{"id": "c1", "name": "old"},
		map[string]any{"id": "c1", "name": "new"},
	))
	require.False(t, diff.Equal(
		map[string]any{"id": "c1"},
		map[string]any{"id": "c2"},
	))
	// no id on either side: structural comparison
	require.False(t, diff.Equal(
		map[string]any{"a": 1.0},
		map[string]any{"a": 2.0},
	))
}

func TestMerge_PreservesUnrelatedFields(t *testing.T) {
	current := map[string]any{"phone": "555-9", "email": "fresh@b.c"}
	changes := map[string]any{"phone": "555-2"}

	merged := diff.Merge(current, changes)
	require.Equal(t, "555-2", merged["phone"])
	require.Equal(t, "fresh@b.c", merged["email"])
	// inputs untouched
	require.Equal(t, "555-9", current["phone"])
}
