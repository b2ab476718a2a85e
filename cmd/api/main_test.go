package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandHasExpectedSubcommands(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	for _, sub := range []string{"serve", "migrate", "sync", "certs"} {
		assert.Contains(t, buf.String(), sub, "help missing %q command", sub)
	}
	for _, flag := range []string{"--config", "--database-url", "--sync-schedule", "--tls-enabled"} {
		assert.Contains(t, buf.String(), flag)
	}
}

func TestCertsCommand(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("JWT_SECRET_KEY", "cli-test")
	t.Setenv("TLS_CERT_FILE", filepath.Join(dir, "server.crt"))
	t.Setenv("TLS_KEY_FILE", filepath.Join(dir, "server.key"))

	run := func(args ...string) string {
		cmd := NewRootCmd()
		buf := new(bytes.Buffer)
		cmd.SetOut(buf)
		cmd.SetErr(buf)
		cmd.SetArgs(args)
		require.NoError(t, cmd.Execute())
		return buf.String()
	}

	assert.Contains(t, run("certs"), "Wrote")
	assert.Contains(t, run("certs"), "already present")
	assert.Contains(t, run("certs", "--force"), "Wrote")
	assert.FileExists(t, filepath.Join(dir, "server.key"))
}

func TestMigrateRequiresDatabase(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "cli-test")
	t.Setenv("DATABASE_URL", "")

	cmd := NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"migrate"})
	assert.Error(t, cmd.Execute())
}
