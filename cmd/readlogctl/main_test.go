package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readlog/readlog-server/internal/service"
)

// runCLI executes the root command against dir and returns stderr.
func runCLI(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{
		"--data-path", dir,
		"--env-file", filepath.Join(dir, "missing.env"),
	}, args...))
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.ExecuteContext(context.Background())
	return stderr.String(), err
}

func registerUser(t *testing.T, dir, username string) {
	t.Helper()

	dataPath = dir
	envFile = filepath.Join(dir, "missing.env")
	injector, err := openContainer()
	require.NoError(t, err)
	defer func() { _ = injector.Shutdown() }()

	auth := do.MustInvoke[*service.AuthService](injector)
	_, err = auth.Register(context.Background(), service.RegisterRequest{
		Email:    username + "@example.com",
		Username: username,
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)
}

func TestImportThenExport(t *testing.T) {
	t.Setenv("AUTH_TOKEN_KEY", "")
	dir := t.TempDir()
	registerUser(t, dir, "mia")

	in := filepath.Join(dir, "in.csv")
	require.NoError(t, os.WriteFile(in, []byte("Title,Author,Exclusive Shelf\nDune,Frank Herbert,read\nPiranesi,Susanna Clarke,to-read\n"), 0o600))

	stderr, err := runCLI(t, dir, "import", "--user", "mia", in)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Imported 2 rows, 0 skipped")

	out := filepath.Join(dir, "out.csv")
	stderr, err = runCLI(t, dir, "export", "--user", "mia", "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Exported 1 books and 1 to-read entries")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Book Id,Title,Author,")
	assert.Contains(t, string(data), "Dune")
	assert.Contains(t, string(data), "Piranesi")
}

func TestImport_UnknownUser(t *testing.T) {
	t.Setenv("AUTH_TOKEN_KEY", "")
	dir := t.TempDir()

	in := filepath.Join(dir, "in.csv")
	require.NoError(t, os.WriteFile(in, []byte("Title\nDune\n"), 0o600))

	_, err := runCLI(t, dir, "import", "--user", "nobody", in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `find user "nobody"`)
}

func TestReindex(t *testing.T) {
	t.Setenv("AUTH_TOKEN_KEY", "")
	dir := t.TempDir()
	registerUser(t, dir, "mia")

	in := filepath.Join(dir, "in.csv")
	require.NoError(t, os.WriteFile(in, []byte("Title,Exclusive Shelf\nDune,read\n"), 0o600))
	_, err := runCLI(t, dir, "import", "--user", "mia", in)
	require.NoError(t, err)

	stderr, err := runCLI(t, dir, "reindex")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Indexed 1 documents")
}

func TestConfigArgs(t *testing.T) {
	dataPath, envFile, logLevel = "/srv/readlog", ".env", "debug"
	t.Cleanup(func() { dataPath, envFile, logLevel = "", ".env", "" })

	assert.Equal(t, []string{"-env-file", ".env", "-data-path", "/srv/readlog", "-log-level", "debug"}, configArgs())
}
