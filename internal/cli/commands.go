package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

var (
	desktopArchs = []string{"x64", "ia32"}
	androidArchs = []string{"arm", "arm64", "ia32"}
	buildTypes   = []string{"release", "debug"}
)

func (a *app) newRootCmd() *cobra.Command {
	// Commands list in the order they are declared.
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:   "v8build",
		Short: "v8build - Fetch and build the V8 monolith static library",
		Long: `v8build fetches a pinned V8 revision together with depot_tools and
builds the v8_monolith static library with gn and ninja.

gn arguments come from args-library.json, merged from the "common" scope and
the scopes named after the target OS, architecture and build type.`,
		Version:           version,
		Args:              cobra.ArbitraryArgs,
		RunE:              unknownSubcommand("command"),
		PersistentPreRunE: a.setup,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Clone depot_tools and sync the V8 sources",
		Long: `Clone depot_tools if it is missing, sync V8 at the pinned revision and run
its hooks.

Examples:
	v8build sync
	v8build sync --revision 4fc9a2fe7f8a7ef1e7966185b39b3b541792669a`,
		Args: noArgs,
		RunE: a.syncSources,
	}

	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Build v8_monolith for a target",
		Long: `Generate ninja files with gn and build v8_monolith.

The windows and nix targets build for the host OS; android cross-compiles and
always builds release.

Examples:
	v8build build nix x64 release
	v8build build windows ia32 debug
	v8build build android arm64`,
		Args: cobra.ArbitraryArgs,
		RunE: unknownSubcommand("platform"),
	}

	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(buildCmd)

	a.addBuildCmd(buildCmd, "windows", a.host.OS, desktopArchs, buildTypes)
	a.addBuildCmd(buildCmd, "nix", a.host.OS, desktopArchs, buildTypes)
	a.addBuildCmd(buildCmd, "android", "android", androidArchs, nil)

	rootCmd.PersistentFlags().StringVar(&a.opts.root, "root", ".", "Project directory holding third_party, build and args-library.json")
	rootCmd.PersistentFlags().StringVar(&a.opts.config, "config", "", "Settings file to use instead of v8build.toml")
	rootCmd.PersistentFlags().BoolVarP(&a.opts.verbose, "verbose", "v", false, "Log debug output")
	rootCmd.PersistentFlags().BoolVarP(&a.opts.quiet, "quiet", "q", false, "Hide tool output unless a tool fails")
	rootCmd.PersistentFlags().BoolVarP(&a.opts.dryRun, "dry-run", "n", false, "Print the tool commands instead of running them")
	syncCmd.Flags().StringVar(&a.opts.revision, "revision", "", "V8 revision to sync (default from settings)")

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &ArgumentError{Command: cmd.CommandPath(), Message: err.Error()}
	})
	defaultHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		a.result.HelpShown = true
		if cmd == rootCmd {
			a.printFullHelp(cmd)
			return
		}
		defaultHelp(cmd, args)
	})

	return rootCmd
}

// addBuildCmd registers one build platform. A nil buildTypeChoices means the
// platform only builds release and takes no build type argument.
func (a *app) addBuildCmd(parent *cobra.Command, name, platform string, archChoices, buildTypeChoices []string) {
	use := name + " <arch> <build_type>"
	names := []string{"arch", "build_type"}
	choices := [][]string{archChoices, buildTypeChoices}
	if buildTypeChoices == nil {
		use = name + " <arch>"
		names = names[:1]
		choices = choices[:1]
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("Build for %s (arch: %v)", name, archChoices),
		Args:  choiceArgs(names, choices),
		RunE: func(cmd *cobra.Command, args []string) error {
			buildType := "release"
			if len(args) > 1 {
				buildType = args[1]
			}
			return a.buildTarget(cmd, platform, args[0], buildType)
		},
	}
	parent.AddCommand(cmd)
}

func choiceArgs(names []string, choices [][]string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != len(names) {
			return &ArgumentError{
				Command: cmd.CommandPath(),
				Message: fmt.Sprintf("expected %d argument(s) %v, got %d", len(names), names, len(args)),
			}
		}
		for i, value := range args {
			if !slices.Contains(choices[i], value) {
				return &ArgumentError{Command: cmd.CommandPath(), Arg: names[i], Value: value, Choices: choices[i]}
			}
		}
		return nil
	}
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return &ArgumentError{Command: cmd.CommandPath(), Message: fmt.Sprintf("unexpected argument %q", args[0])}
	}
	return nil
}

// unknownSubcommand prints help when called bare and rejects anything that
// did not match a subcommand.
func unknownSubcommand(arg string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		var choices []string
		for _, sub := range cmd.Commands() {
			if sub.IsAvailableCommand() {
				choices = append(choices, sub.Name())
			}
		}
		return &ArgumentError{Command: cmd.CommandPath(), Arg: arg, Value: args[0], Choices: choices}
	}
}
