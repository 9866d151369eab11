// Command build compiles the v8build binary with its version stamped in.
//
//	go run ./tools/build                         # stripped host build
//	go run ./tools/build -version 1.2.0 -test    # run tests, then build
//	go run ./tools/build -targets windows/amd64,linux/amd64
package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/kballard/go-shellquote"
)

const versionVar = "github.com/itzCozi/v8build/internal/cli.version"

type target struct {
	goos, goarch string
}

func (t target) binary(dir string) string {
	name := "v8build"
	if t.goos == "windows" {
		name += ".exe"
	}
	if dir == "" {
		return name
	}
	return filepath.Join(dir, t.goos+"-"+t.goarch, name)
}

func main() {
	keepSymbols := flag.Bool("verbose", false, "keep symbol tables and paths")
	test := flag.Bool("test", false, "run the test suite before building")
	version := flag.String("version", "", "version to stamp (default: git describe)")
	targets := flag.String("targets", "", "comma separated GOOS/GOARCH list; binaries go under dist/")
	flag.Parse()

	if _, err := os.Stat("go.mod"); err != nil {
		fail("run this from the repository root: %v", err)
	}
	if *version == "" {
		*version = describe()
	}

	if *test {
		if err := run(nil, "go", "test", "./..."); err != nil {
			fail("tests failed: %v", err)
		}
	}

	ldflags := "-X " + versionVar + "=" + *version
	if !*keepSymbols {
		ldflags = "-s -w " + ldflags
	}

	builds, dir, err := parseTargets(*targets)
	if err != nil {
		fail("%v", err)
	}
	for _, t := range builds {
		out := t.binary(dir)
		env := append(os.Environ(), "GOOS="+t.goos, "GOARCH="+t.goarch)
		if err := run(env, "go", "build", "-trimpath", "-ldflags", ldflags, "-o", out, "."); err != nil {
			fail("building %s/%s: %v", t.goos, t.goarch, err)
		}
		color.Green("built %s (%s)", out, *version)
	}
}

func parseTargets(spec string) ([]target, string, error) {
	if spec == "" {
		return []target{{goos: envOr("GOOS", runtime.GOOS), goarch: envOr("GOARCH", runtime.GOARCH)}}, "", nil
	}
	var out []target
	for _, item := range strings.Split(spec, ",") {
		goos, goarch, ok := strings.Cut(strings.TrimSpace(item), "/")
		if !ok || goos == "" || goarch == "" {
			return nil, "", fmt.Errorf("bad target %q, want GOOS/GOARCH", item)
		}
		out = append(out, target{goos: goos, goarch: goarch})
	}
	return out, "dist", nil
}

// describe asks git for a version string and falls back to "dev" outside a
// checkout.
func describe() string {
	out, err := exec.Command("git", "describe", "--tags", "--always", "--dirty").Output()
	if err != nil {
		return "dev"
	}
	if v := strings.TrimSpace(string(out)); v != "" {
		return v
	}
	return "dev"
}

func run(env []string, name string, args ...string) error {
	fmt.Println(color.CyanString("$"), shellquote.Join(append([]string{name}, args...)...))
	cmd := exec.Command(name, args...)
	cmd.Env = env
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func fail(format string, args ...any) {
	fmt.Fprintln(os.Stderr, color.RedString("error:"), fmt.Sprintf(format, args...))
	os.Exit(1)
}
