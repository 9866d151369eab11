package toolchain

import (
	"strings"

	"github.com/kballard/go-shellquote"
)

// Command is one invocation of an external tool.
type Command struct {
	// Tool is the short name used in logs and errors, e.g. "gclient".
	Tool string
	Name string
	Args []string
	Dir  string
	// Env replaces the inherited environment when non-nil.
	Env []string
	// Script marks depot_tools wrappers that are batch files on Windows.
	Script bool
}

// Argv returns the executable followed by its arguments.
func (c Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

func (c Command) String() string {
	return shellquote.Join(c.Argv()...)
}

// Host is the operating system the tools run on.
type Host struct {
	OS string
}

func (h Host) IsWindows() bool {
	return h.OS == "windows"
}

func (h Host) listSeparator() string {
	if h.IsWindows() {
		return ";"
	}
	return ":"
}

// GclientFile is the .gclient spec checked in next to third_party for h.
func (h Host) GclientFile() string {
	if h.IsWindows() {
		return "gclient-win"
	}
	return "gclient-nix"
}

// Wrap adapts c to run on h. depot_tools scripts on Windows are batch files
// that have to go through cmd.
func (h Host) Wrap(c Command) Command {
	if !h.IsWindows() || !c.Script {
		return c
	}
	wrapped := c
	wrapped.Name = "cmd"
	wrapped.Args = append([]string{"/C", c.Name + ".bat"}, c.Args...)
	wrapped.Script = false
	return wrapped
}

// Environ returns a copy of base with depotTools appended to PATH. On Windows
// the depot_tools toolchain download is also disabled.
func (h Host) Environ(base []string, depotTools string) []string {
	env := make([]string, 0, len(base)+2)
	foundPath := false
	for _, kv := range base {
		key, value, _ := strings.Cut(kv, "=")
		switch {
		case h.isKey(key, "PATH"):
			foundPath = true
			if value == "" {
				kv = key + "=" + depotTools
			} else {
				kv = key + "=" + value + h.listSeparator() + depotTools
			}
		case h.IsWindows() && h.isKey(key, winToolchainVar):
			continue
		}
		env = append(env, kv)
	}
	if !foundPath {
		env = append(env, "PATH="+depotTools)
	}
	if h.IsWindows() {
		env = append(env, winToolchainVar+"=0")
	}
	return env
}

const winToolchainVar = "DEPOT_TOOLS_WIN_TOOLCHAIN"

func (h Host) isKey(key, want string) bool {
	if h.IsWindows() {
		return strings.EqualFold(key, want)
	}
	return key == want
}
