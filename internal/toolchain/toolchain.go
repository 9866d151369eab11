// Package toolchain drives depot_tools: it fetches the V8 tree with gclient
// and builds it with gn and ninja.
package toolchain

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/itzCozi/v8build/internal/profile"
)

// Layout is where the toolchain, sources and outputs live on disk. All paths
// are absolute.
type Layout struct {
	Root          string
	ThirdParty    string
	BuildDir      string
	DepotToolsURL string
	NinjaTarget   string
}

func (l Layout) DepotTools() string {
	return filepath.Join(l.ThirdParty, "depot_tools")
}

func (l Layout) V8() string {
	return filepath.Join(l.ThirdParty, "v8")
}

// Toolchain runs the fetch and build sequences. Every step blocks until the
// tool exits and the first failure ends the sequence.
type Toolchain struct {
	Runner Runner
	Layout Layout
	Host   Host
	// BaseEnv is the environment the tools inherit, usually os.Environ().
	BaseEnv []string
}

func (t *Toolchain) env() []string {
	return t.Host.Environ(t.BaseEnv, t.Layout.DepotTools())
}

func (t *Toolchain) run(ctx context.Context, c Command) error {
	return t.Runner.Run(ctx, t.Host.Wrap(c))
}

// Sync clones depot_tools if needed, then syncs V8 at revision and runs its
// hooks.
func (t *Toolchain) Sync(ctx context.Context, revision string) error {
	if revision == "" {
		return fmt.Errorf("no revision to sync")
	}
	if err := os.MkdirAll(t.Layout.ThirdParty, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", t.Layout.ThirdParty, err)
	}

	depotTools := t.Layout.DepotTools()
	_, err := os.Stat(depotTools)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Infof("depot_tools not found, cloning %s", t.Layout.DepotToolsURL)
		clone := Command{
			Tool: "git",
			Name: "git",
			Args: []string{"clone", t.Layout.DepotToolsURL},
			Dir:  t.Layout.ThirdParty,
		}
		if err := t.run(ctx, clone); err != nil {
			return err
		}
	case err != nil:
		return fmt.Errorf("checking %s: %w", depotTools, err)
	default:
		log.Debugf("using depot_tools at %s", depotTools)
	}

	env := t.env()
	gclientFile := []string{"--gclientfile", t.Host.GclientFile()}
	gclient := filepath.Join(depotTools, "gclient")

	syncCmd := Command{
		Tool:   "gclient",
		Name:   gclient,
		Args:   append([]string{"sync", "--revision", revision}, gclientFile...),
		Dir:    t.Layout.ThirdParty,
		Env:    env,
		Script: true,
	}
	if err := t.run(ctx, syncCmd); err != nil {
		return err
	}

	hooks := Command{
		Tool:   "gclient",
		Name:   gclient,
		Args:   append([]string{"runhooks"}, gclientFile...),
		Dir:    t.Layout.V8(),
		Env:    env,
		Script: true,
	}
	return t.run(ctx, hooks)
}

// Build generates the ninja files for target with gnArgs and builds the
// configured ninja target.
func (t *Toolchain) Build(ctx context.Context, target profile.Target, gnArgs string) error {
	out := target.OutputDir(t.Layout.BuildDir)
	env := t.env()
	depotTools := t.Layout.DepotTools()
	log.Infof("building %s into %s", target, out)

	gen := Command{
		Tool:   "gn",
		Name:   filepath.Join(depotTools, "gn"),
		Args:   []string{"gen", out, "--args=" + gnArgs},
		Dir:    t.Layout.V8(),
		Env:    env,
		Script: true,
	}
	if err := t.run(ctx, gen); err != nil {
		return err
	}

	ninja := Command{
		Tool: "ninja",
		Name: filepath.Join(depotTools, "ninja"),
		Args: []string{"-C", out, t.Layout.NinjaTarget},
		Dir:  t.Layout.Root,
		Env:  env,
	}
	return t.run(ctx, ninja)
}
