package repo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/renterra/backoffice/pkg/repo"
)

func TestInsert(t *testing.T) {
	q := repo.Insert("change_requests", []string{"status", "reason"}, "id")
	require.Equal(t, "INSERT INTO change_requests (status, reason) VALUES ($1, $2) RETURNING id", q)
}

func TestUpdate(t *testing.T) {
	q := repo.Update("change_requests", []string{"status", "updated_at"}, "id = $3")
	require.Equal(t, "UPDATE change_requests SET status = $1, updated_at = $2 WHERE id = $3", q)
}

func TestJoinWhere(t *testing.T) {
	require.Empty(t, repo.JoinWhere())
	require.Equal(t, "WHERE a = $1 AND b = $2", repo.JoinWhere("a = $1", "b = $2"))
}

func TestJoinSkipsEmptyParts(t *testing.T) {
	q := repo.Join("SELECT id", "FROM t", "", "ORDER BY id")
	require.Equal(t, "SELECT id FROM t ORDER BY id", q)
}

func TestFormatLimitOffset(t *testing.T) {
	require.Equal(t, "LIMIT 10 OFFSET 20", repo.FormatLimitOffset(10, 20))
	require.Equal(t, "LIMIT 10", repo.FormatLimitOffset(10, 0))
	require.Equal(t, "OFFSET 5", repo.FormatLimitOffset(0, 5))
	require.Empty(t, repo.FormatLimitOffset(0, 0))
}
