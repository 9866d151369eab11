package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/itzCozi/v8build/internal/profile"
	"github.com/itzCozi/v8build/internal/toolchain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const argsLibrary = `{
	"common": {"a": "1", "b": true},
	"x64": {"b": false},
	"release": {"c": "z"},
	"android": {"target_os": "\"android\""},
	"arm64": {"target_cpu": "\"arm64\""}
}`

type harness struct {
	root   string
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	host   toolchain.Host
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", cfg)
	t.Setenv("HOME", cfg)
	t.Setenv("AppData", cfg)

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "args-library.json"), []byte(argsLibrary), 0o600))
	return &harness{root: root, stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}, host: toolchain.Host{OS: "linux"}}
}

func (h *harness) run(args ...string) (Result, error) {
	a := &app{
		stdout:  h.stdout,
		stderr:  h.stderr,
		host:    h.host,
		environ: func() []string { return []string{"PATH=/usr/bin"} },
	}
	return a.run(context.Background(), append([]string{"--root", h.root}, args...))
}

func requireArgumentError(t *testing.T, err error) *ArgumentError {
	t.Helper()
	var argErr *ArgumentError
	require.True(t, errors.As(err, &argErr), "expected an ArgumentError, got %v", err)
	assert.Equal(t, 2, ExitCode(err))
	return argErr
}

func TestRun_BuildNixDryRun(t *testing.T) {
	// --- Arrange ---
	h := newHarness(t)

	// --- Act ---
	res, err := h.run("--dry-run", "build", "nix", "x64", "release")

	// --- Assert ---
	require.NoError(t, err)
	assert.False(t, res.HelpShown)
	lines := strings.Split(strings.TrimSpace(h.stdout.String()), "\n")
	require.Len(t, lines, 2)
	out := filepath.Join(h.root, "build", "linux", "x64", "release")
	assert.Contains(t, lines[0], filepath.Join(h.root, "third_party", "depot_tools", "gn")+" gen "+out)
	assert.True(t, strings.HasSuffix(lines[0], "'--args=a=1 b=false c=z'"), "gn line was %q", lines[0])
	assert.True(t, strings.HasSuffix(lines[1], "-C "+out+" v8_monolith"), "ninja line was %q", lines[1])
}

func TestRun_BuildAndroidIsRelease(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("--dry-run", "build", "android", "arm64")

	require.NoError(t, err)
	assert.Contains(t, h.stdout.String(), filepath.Join(h.root, "build", "android", "arm64", "release"))
	assert.Contains(t, h.stdout.String(), `'--args=a=1 b=true target_os="android" target_cpu="arm64" c=z'`)
}

func TestRun_BuildWindowsHost(t *testing.T) {
	h := newHarness(t)
	h.host = toolchain.Host{OS: "windows"}

	_, err := h.run("-n", "build", "windows", "ia32", "debug")

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(h.stdout.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "cmd /C "), "gn line was %q", lines[0])
	assert.Contains(t, lines[0], filepath.Join(h.root, "build", "windows", "ia32", "debug"))
	assert.Contains(t, lines[0], "'--args=a=1 b=true'")
}

func TestRun_BuildArgumentErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "bad arch", args: []string{"build", "nix", "arm", "release"}, want: `argument arch: invalid choice: "arm" (choose from x64, ia32)`},
		{name: "bad build type", args: []string{"build", "windows", "x64", "profile"}, want: `argument build_type: invalid choice: "profile"`},
		{name: "android takes no build type", args: []string{"build", "android", "arm", "debug"}, want: "expected 1 argument(s)"},
		{name: "missing build type", args: []string{"build", "nix", "x64"}, want: "expected 2 argument(s)"},
		{name: "unknown platform", args: []string{"build", "mac", "x64", "release"}, want: `argument platform: invalid choice: "mac" (choose from windows, nix, android)`},
		{name: "unknown command", args: []string{"clean"}, want: `argument command: invalid choice: "clean" (choose from sync, build)`},
		{name: "unknown flag", args: []string{"build", "nix", "--jobs", "4", "x64", "release"}, want: "unknown flag: --jobs"},
		{name: "sync positional", args: []string{"sync", "HEAD"}, want: `unexpected argument "HEAD"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)

			_, err := h.run(append([]string{"--dry-run"}, tt.args...)...)

			require.Error(t, err)
			requireArgumentError(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Empty(t, h.stdout.String(), "no tool may run after an argument error")
		})
	}
}

func TestRun_BuildMissingCommon(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.WriteFile(filepath.Join(h.root, "args-library.json"), []byte(`{"x64": {"a": "1"}}`), 0o600))

	_, err := h.run("--dry-run", "build", "nix", "x64", "debug")

	require.Error(t, err)
	var cerr *profile.ConfigurationError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, profile.ReasonMissingCommon, cerr.Reason)
	assert.Equal(t, 1, ExitCode(err))
	assert.Empty(t, h.stdout.String())
}

func TestRun_BuildUnmappedHost(t *testing.T) {
	h := newHarness(t)
	h.host = toolchain.Host{OS: "plan9"}

	_, err := h.run("--dry-run", "build", "nix", "x64", "release")

	var cerr *profile.ConfigurationError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, profile.ReasonUnmappedPlatform, cerr.Reason)
}

func TestRun_BuildMissingArgsLibrary(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.Remove(filepath.Join(h.root, "args-library.json")))

	_, err := h.run("--dry-run", "build", "nix", "x64", "release")

	var cerr *profile.ConfigurationError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, profile.ReasonLoad, cerr.Reason)
}

func TestRun_SyncDryRun(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("--dry-run", "sync", "--revision", "r123")

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(h.stdout.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "git clone https://chromium.googlesource.com/chromium/tools/depot_tools.git", lines[0])
	assert.True(t, strings.HasSuffix(lines[1], "gclient sync --revision r123 --gclientfile gclient-nix"), "line was %q", lines[1])
	assert.True(t, strings.HasSuffix(lines[2], "gclient runhooks --gclientfile gclient-nix"), "line was %q", lines[2])
}

func TestRun_SyncUsesSettingsRevision(t *testing.T) {
	h := newHarness(t)
	doc := "revision = \"cafef00d\"\nthird-party = \"deps\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(h.root, "v8build.toml"), []byte(doc), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(h.root, "deps", "depot_tools"), 0o755))

	_, err := h.run("--dry-run", "sync")

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(h.stdout.String()), "\n")
	require.Len(t, lines, 2, "depot_tools already present, so no clone")
	assert.Contains(t, lines[0], filepath.Join(h.root, "deps", "depot_tools", "gclient"))
	assert.Contains(t, lines[0], "--revision cafef00d")
}

func TestRun_FullHelp(t *testing.T) {
	h := newHarness(t)

	res, err := h.run("--help")

	require.NoError(t, err)
	assert.True(t, res.HelpShown)
	out := h.stdout.String()
	order := []string{
		"usage: v8build",
		"usage: v8build sync",
		"usage: v8build build",
		"usage: v8build build windows <arch> <build_type>",
		"usage: v8build build nix <arch> <build_type>",
		"usage: v8build build android <arch>",
	}
	last := -1
	for _, want := range order {
		idx := strings.Index(out, want)
		require.GreaterOrEqual(t, idx, 0, "missing %q in:\n%s", want, out)
		assert.Greater(t, idx, last, "%q is out of level order", want)
		last = idx
	}
}

func TestRun_NoCommandShowsHelp(t *testing.T) {
	h := newHarness(t)

	res, err := h.run()

	require.NoError(t, err)
	assert.True(t, res.HelpShown)
	assert.Contains(t, h.stdout.String(), "usage: v8build build android <arch>")
}

func TestRun_SubcommandHelp(t *testing.T) {
	h := newHarness(t)

	res, err := h.run("build", "android", "--help")

	require.NoError(t, err)
	assert.True(t, res.HelpShown)
	assert.Contains(t, h.stdout.String(), "v8build build android <arch>")
	assert.NotContains(t, h.stdout.String(), "usage: v8build sync")
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: nil, want: 0},
		{err: fmt.Errorf("build: %w", &toolchain.ExternalToolError{Tool: "ninja", Code: 7}), want: 7},
		{err: &toolchain.ExternalToolError{Tool: "gn", Code: -1}, want: 1},
		{err: &ArgumentError{Message: "bad"}, want: 2},
		{err: errors.New("other"), want: 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ExitCode(tt.err), "ExitCode(%v)", tt.err)
	}
}
