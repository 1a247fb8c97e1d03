package upload_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/renterra/backoffice/modules/uploads/domain/upload"
)

func TestNew_DerivesHashAndMime(t *testing.T) {
	data := []byte("%PDF-1.4 fake document body")
	entity, err := upload.New("contract.pdf", data)
	require.NoError(t, err)

	require.Equal(t, "contract.pdf", entity.Name())
	require.Len(t, entity.Hash(), 64)
	require.Equal(t, entity.Hash()+".pdf", entity.Path())
	require.Equal(t, int64(len(data)), entity.SizeBytes())
	require.Contains(t, entity.MimeType(), "application/pdf")
}

func TestNew_SameBytesSameHash(t *testing.T) {
	a, err := upload.New("a.txt", []byte("hello"))
	require.NoError(t, err)
	b, err := upload.New("b.txt", []byte("hello"))
	require.NoError(t, err)
	require.Equal(t, a.Hash(), b.Hash())
}

func TestNew_EmptyRejected(t *testing.T) {
	_, err := upload.New("empty.bin", nil)
	require.ErrorIs(t, err, upload.ErrEmptyFile)
}

func TestNew_ExtensionFromContent(t *testing.T) {
	entity, err := upload.New("noext", []byte("plain text content"))
	require.NoError(t, err)
	require.Equal(t, entity.Hash()+".txt", entity.Path())
}
