package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func runMigration(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--env-file", ""}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestMigration_UpDownVersion(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_URL", filepath.Join(t.TempDir(), "football.db"))
	t.Setenv("LOG_LEVEL", "error")

	out, err := runMigration(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "version: none")

	_, err = runMigration(t, "up")
	require.NoError(t, err)
	_, err = runMigration(t, "up")
	require.NoError(t, err, "a second up is a no-op")

	out, err = runMigration(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "version: 1772000003")
	require.Contains(t, out, "dirty: false")

	_, err = runMigration(t, "down", "1")
	require.NoError(t, err)
	out, err = runMigration(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "version: 1772000002")
}

func TestMigration_RejectsBadArguments(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_URL", filepath.Join(t.TempDir(), "football.db"))
	t.Setenv("LOG_LEVEL", "error")

	_, err := runMigration(t, "down", "zero")
	require.ErrorContains(t, err, "positive integer")

	_, err = runMigration(t, "goto")
	require.Error(t, err)
}
