// Package cli is the v8build command line: it parses arguments, loads
// settings and hands the work to the profile and toolchain packages.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/itzCozi/v8build/internal/helptree"
	"github.com/itzCozi/v8build/internal/profile"
	"github.com/itzCozi/v8build/internal/settings"
	"github.com/itzCozi/v8build/internal/toolchain"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Result describes what an invocation did besides returning an error.
type Result struct {
	// HelpShown is set when only help text was printed.
	HelpShown bool
}

type options struct {
	root     string
	config   string
	revision string
	verbose  bool
	quiet    bool
	dryRun   bool
}

type app struct {
	stdout  io.Writer
	stderr  io.Writer
	host    toolchain.Host
	environ func() []string

	opts      options
	result    Result
	settings  settings.Settings
	toolchain *toolchain.Toolchain
}

// Run executes one v8build invocation with args (without the program name).
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) (Result, error) {
	a := &app{
		stdout:  stdout,
		stderr:  stderr,
		host:    toolchain.Host{OS: runtime.GOOS},
		environ: os.Environ,
	}
	return a.run(ctx, args)
}

func (a *app) run(ctx context.Context, args []string) (Result, error) {
	rootCmd := a.newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)
	err := rootCmd.ExecuteContext(ctx)
	return a.result, err
}

// setup configures logging and loads settings before any command runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	logrus.SetOutput(a.stderr)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logrus.SetLevel(logrus.InfoLevel)
	if a.opts.verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	s, path, err := settings.Load(a.opts.root, a.opts.config)
	if err != nil {
		return err
	}
	if path != "" {
		logrus.Debugf("using settings from %s", path)
	}
	a.settings = s

	var runner toolchain.Runner = &toolchain.ExecRunner{Stdout: a.stdout, Stderr: a.stderr, Quiet: a.opts.quiet}
	if a.opts.dryRun {
		runner = &toolchain.DryRunner{Out: a.stdout}
	}
	a.toolchain = &toolchain.Toolchain{
		Runner: runner,
		Host:   a.host,
		Layout: toolchain.Layout{
			Root:          s.Root,
			ThirdParty:    s.Path(s.ThirdParty),
			BuildDir:      s.Path(s.BuildDir),
			DepotToolsURL: s.DepotToolsURL,
			NinjaTarget:   s.NinjaTarget,
		},
		BaseEnv: a.environ(),
	}
	return nil
}

func (a *app) syncSources(cmd *cobra.Command, _ []string) error {
	revision := a.opts.revision
	if revision == "" {
		revision = a.settings.Revision
	}
	logrus.Infof("syncing V8 at %s", revision)
	if err := a.toolchain.Sync(cmd.Context(), revision); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	if !a.opts.dryRun {
		fmt.Fprintln(a.stdout, "V8 sources are up to date.")
	}
	return nil
}

func (a *app) buildTarget(cmd *cobra.Command, platform, arch, buildType string) error {
	target := profile.Target{Platform: platform, Arch: arch, BuildType: buildType}

	table, err := profile.Load(a.settings.Path(a.settings.ArgsLibrary))
	if err != nil {
		return err
	}
	gnArgs, err := profile.ResolveString(table, target)
	if err != nil {
		return fmt.Errorf("resolving gn args for %s: %w", target, err)
	}
	logrus.Debugf("gn args: %s", gnArgs)

	if err := a.toolchain.Build(cmd.Context(), target, gnArgs); err != nil {
		return fmt.Errorf("build %s: %w", target, err)
	}
	if !a.opts.dryRun {
		fmt.Fprintf(a.stdout, "Built %s in %s\n", a.settings.NinjaTarget, target.OutputDir(a.toolchain.Layout.BuildDir))
	}
	return nil
}

// printFullHelp prints the root description followed by the usage of every
// command, breadth first.
func (a *app) printFullHelp(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cmd.Long)
	fmt.Fprintln(out)
	for _, usage := range helptree.LevelOrder(helptree.FromCommand(cmd)) {
		fmt.Fprintln(out, usage)
	}
	fmt.Fprintln(out)
	fmt.Fprint(out, cmd.LocalFlags().FlagUsages())
}
