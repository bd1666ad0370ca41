package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const playerYAML = `initial: idle
states:
  idle:
    transitions: {start: running}
  running:
    transitions: {stop: idle, pause: paused}
  paused:
    transitions: {resume: running, stop: idle}
`

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "", "validate", writeFile(t, "player.yaml", playerYAML), "--strict=false")
	require.NoError(t, err)
	assert.Equal(t, "Definition is valid: 3 states, initial \"idle\"\n", out)

	broken := strings.Replace(playerYAML, "resume: running", "resume: rewinding", 1)
	_, err = execute(t, "", "validate", writeFile(t, "broken.yaml", broken))
	assert.ErrorContains(t, err, `unknown state "rewinding"`)

	orphan := playerYAML + "  stranded:\n    transitions: {stop: idle}\n"
	path := writeFile(t, "orphan.yaml", orphan)
	out, err = execute(t, "", "validate", path, "--strict=false")
	require.NoError(t, err)
	assert.Contains(t, out, `Warning: state "stranded" is unreachable from "idle"`)

	_, err = execute(t, "", "validate", path, "--strict")
	assert.ErrorContains(t, err, "Unreachable state: 'stranded'")
}

func TestStatesCommand(t *testing.T) {
	path := writeFile(t, "player.yaml", playerYAML)

	out, err := execute(t, "", "states", path, "--event", "stop")
	require.NoError(t, err)
	assert.Equal(t, "running\npaused\n", out)

	out, err = execute(t, "", "states", path, "--event", "")
	require.NoError(t, err)
	assert.Equal(t, "idle\nrunning\npaused\n", out)
}

func TestGraphCommand(t *testing.T) {
	out, err := execute(t, "", "graph", writeFile(t, "player.yaml", playerYAML), "--session", "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.Contains(t, out, `running -- "pause" --> paused`)
}

func TestFmtCommand(t *testing.T) {
	path := writeFile(t, "player.yaml", playerYAML)

	out, err := execute(t, "", "fmt", path, "--write=false")
	require.NoError(t, err)
	assert.Contains(t, out, "initial: idle\n")
	assert.Contains(t, out, "      pause: paused\n      stop: idle\n")

	_, err = execute(t, "", "fmt", path, "--write")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, out, string(data))
}

func TestRunAndSessionCommands(t *testing.T) {
	path := writeFile(t, "player.yaml", playerYAML)
	storeDir := t.TempDir()

	out, err := execute(t, "trigger start\nt pause\n", "run", path, "--session", "demo", "--store", "file", "--store-dir", storeDir)
	require.NoError(t, err)
	assert.Equal(t, "state: idle\nstate: running\nstate: paused\n", out)

	out, err = execute(t, "", "session", "ls", "--store", "file", "--store-dir", storeDir)
	require.NoError(t, err)
	assert.Equal(t, "demo\n", out)

	out, err = execute(t, "", "session", "inspect", "demo", "--store", "file", "--store-dir", storeDir)
	require.NoError(t, err)
	assert.Contains(t, out, `"active": "paused"`)

	out, err = execute(t, "", "session", "rm", "demo", "--store", "file", "--store-dir", storeDir)
	require.NoError(t, err)
	assert.Equal(t, "Removed session 'demo'\n", out)

	_, err = execute(t, "", "session", "inspect", "demo", "--store", "file", "--store-dir", storeDir)
	assert.ErrorContains(t, err, "session not found")
}

func TestDescribeCommand(t *testing.T) {
	out, err := execute(t, "", "describe", writeFile(t, "player.yaml", playerYAML))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# player\n"))
	assert.Contains(t, out, "## idle (initial)")
	assert.Contains(t, out, "| `pause` | paused |")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "fsm version "))
}
