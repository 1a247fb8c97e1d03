package configuration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadEnv_SkipsMissingFiles(t *testing.T) {
	tmp := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(tmp, ".env.local"), []byte("RENTERRA_TEST_ENV_LOAD=ok\n"), 0o644))

	origWd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	require.NoError(t, os.Chdir(tmp))

	_ = os.Unsetenv("RENTERRA_TEST_ENV_LOAD")

	n, err := LoadEnv([]string{".env", ".env.local"})
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, "ok", os.Getenv("RENTERRA_TEST_ENV_LOAD"))
}

func TestLoadEnv_NoFiles(t *testing.T) {
	tmp := t.TempDir()

	origWd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	require.NoError(t, os.Chdir(tmp))

	n, err := LoadEnv([]string{".env", ".env.local"})
	require.NoError(t, err)
	require.Zero(t, n)
}
