package attachment_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/renterra/backoffice/modules/approval/domain/attachment"
)

func persistStub(ctx context.Context, file attachment.RawFile) (attachment.Ref, error) {
	return attachment.Ref{
		Name:      file.Name,
		SizeBytes: int64(len(file.Data)),
		Locator:   "stored/" + file.Name,
	}, nil
}

func TestReconcile_KeptPlusAdded(t *testing.T) {
	kept := []attachment.Ref{{Name: "contract.pdf", Locator: "f1"}}
	added := []attachment.RawFile{{Name: "photo.jpg", Data: []byte("xx")}}

	final, err := attachment.Reconcile(context.Background(), kept, added, nil, persistStub)
	require.NoError(t, err)
	require.Len(t, final, 2)
	require.Equal(t, "f1", final[0].Locator)
	require.Equal(t, "stored/photo.jpg", final[1].Locator)
	require.EqualValues(t, 2, final[1].SizeBytes)
}

func TestReconcile_Idempotent(t *testing.T) {
	kept := []attachment.Ref{{Locator: "a"}, {Locator: "a"}}

	first, err := attachment.Reconcile(context.Background(), kept, nil, nil, persistStub)
	require.NoError(t, err)
	second, err := attachment.Reconcile(context.Background(), first, nil, nil, persistStub)
	require.NoError(t, err)

	require.Len(t, first, 1)
	require.Equal(t, first, second)
}

func TestReconcile_FirstOccurrenceWins(t *testing.T) {
	kept := []attachment.Ref{
		{Name: "original.pdf", Locator: "dup"},
		{Name: "renamed.pdf", Locator: "dup"},
	}

	final, err := attachment.Reconcile(context.Background(), kept, nil, nil, persistStub)
	require.NoError(t, err)
	require.Len(t, final, 1)
	require.Equal(t, "original.pdf", final[0].Name)
}

func TestReconcile_ConflictBetweenKeptAndDeleted(t *testing.T) {
	kept := []attachment.Ref{{Locator: "x"}}
	deleted := []attachment.Ref{{Locator: "x"}}

	_, err := attachment.Reconcile(context.Background(), kept, nil, deleted, persistStub)
	require.Error(t, err)

	var conflict *attachment.ConflictError
	require.ErrorAs(t, err, &conflict)
	require.Equal(t, []string{"x"}, conflict.Locators)
}

func TestReconcile_PersistFailure(t *testing.T) {
	failing := func(ctx context.Context, file attachment.RawFile) (attachment.Ref, error) {
		return attachment.Ref{}, fmt.Errorf("disk full")
	}

	_, err := attachment.Reconcile(
		context.Background(),
		nil,
		[]attachment.RawFile{{Name: "big.bin"}},
		nil,
		failing,
	)
	require.ErrorContains(t, err, "disk full")
}

func TestSameSet(t *testing.T) {
	a := []attachment.Ref{{Name: "a", Locator: "1"}, {Name: "b", Locator: "2"}}
	b := []attachment.Ref{{Name: "z", Locator: "2"}, {Name: "y", Locator: "1"}}
	require.True(t, attachment.SameSet(a, b))
	require.False(t, attachment.SameSet(a, b[:1]))
}

func TestFromAny(t *testing.T) {
	refs, ok := attachment.FromAny([]any{
		map[string]any{"name": "a.pdf", "sizeBytes": float64(5), "locator": "f1"},
	})
	require.True(t, ok)
	require.Equal(t, []attachment.Ref{{Name: "a.pdf", SizeBytes: 5, Locator: "f1"}}, refs)

	_, ok = attachment.FromAny([]any{"not-a-ref"})
	require.False(t, ok)

	_, ok = attachment.FromAny("scalar")
	require.False(t, ok)
}

func TestFromAny_EmptyCollection(t *testing.T) {
	refs, ok := attachment.FromAny([]attachment.Ref{})
	require.True(t, ok)
	require.Empty(t, refs)

	refs, ok = attachment.FromAny([]any{})
	require.True(t, ok)
	require.Empty(t, refs)
}
