// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/mbuildgo/internal/app"
	"github.com/specialistvlad/mbuildgo/internal/config"
	"github.com/specialistvlad/mbuildgo/internal/model"
	"github.com/spf13/cobra"
)

// DefaultConfigFile is read when --config is not given. A missing default
// file is not an error.
const DefaultConfigFile = "mbuild.yaml"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) error {
	return &ExitError{Code: 2, Message: err.Error()}
}

// root carries the state shared by the subcommands: the flag values and the
// app built from them before any subcommand runs.
type root struct {
	outW    io.Writer
	loader  config.Loader
	appOpts []app.Option

	configPath string
	templates  []string
	projects   string
	logLevel   string
	logFormat  string

	app *app.App
}

// Execute runs the mbuild command line against args. Usage problems are
// returned as an *ExitError with code 2.
func Execute(ctx context.Context, outW io.Writer, args []string, loader config.Loader, opts ...app.Option) error {
	cmd := NewRootCommand(outW, loader, opts...)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

// NewRootCommand builds the mbuild command tree writing to outW.
func NewRootCommand(outW io.Writer, loader config.Loader, opts ...app.Option) *cobra.Command {
	r := &root{outW: outW, loader: loader, appOpts: opts}
	defaults := app.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "mbuild",
		Short: "Manage build configurations and tool-chains of C/C++ projects",
		Long: `mbuild keeps managed-build projects: configurations bound to tool-chains
instantiated from templates, with tool options, build properties and
tool-chain swaps that carry user settings over.

Templates are HCL files found under the template paths; projects are stored
as *.mbuild.hcl files in the projects directory.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: r.setup,
	}
	cmd.SetOut(outW)
	cmd.SetErr(outW)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	flags := cmd.PersistentFlags()
	flags.StringVar(&r.configPath, "config", "", "Path to a YAML config file (default "+DefaultConfigFile+" if present).")
	flags.StringSliceVar(&r.templates, "templates", defaults.TemplatePaths, "Template files or directories.")
	flags.StringVar(&r.projects, "projects", defaults.ProjectsDir, "Directory holding the project files.")
	flags.StringVar(&r.logLevel, "log-level", defaults.LogLevel, "Logging level: debug, info, warn or error.")
	flags.StringVar(&r.logFormat, "log-format", defaults.LogFormat, "Log output format: text or json.")

	cmd.AddCommand(
		r.templatesCmd(),
		r.projectsCmd(),
		r.describeCmd(),
		r.initCmd(),
		r.duplicateCmd(),
		r.statusCmd(),
		r.modifyCmd(),
		r.checkCmd(),
		r.swapCmd(),
		r.setOptionCmd(),
	)
	return cmd
}

// setup merges defaults, the config file and explicitly set flags, in that
// order, and builds the app.
func (r *root) setup(cmd *cobra.Command, _ []string) error {
	path, explicit := r.configPath, r.configPath != ""
	if !explicit {
		path = DefaultConfigFile
	}
	cfg, err := app.LoadConfigFile(path, app.DefaultConfig())
	if err != nil {
		return usageError(err)
	}
	slog.Debug("Config file processed.", "path", path, "explicit", explicit)

	flags := cmd.Flags()
	if flags.Changed("templates") {
		cfg.TemplatePaths = r.templates
	}
	if flags.Changed("projects") {
		cfg.ProjectsDir = r.projects
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = strings.ToLower(r.logLevel)
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = strings.ToLower(r.logFormat)
	}

	validated, err := app.NewConfig(cfg)
	if err != nil {
		return usageError(err)
	}
	r.app, err = app.NewApp(r.outW, validated, r.loader, r.appOpts...)
	return err
}

func (r *root) templatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the tool-chain and tool templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := r.app.Registry()
			for _, id := range reg.ToolChains() {
				fmt.Fprintf(r.outW, "toolchain %s\t%s\n", id, reg.Arena().DisplayName(id))
			}
			for _, id := range reg.Tools() {
				fmt.Fprintf(r.outW, "tool %s\t%s\n", id, reg.Arena().DisplayName(id))
			}
			return nil
		},
	}
}

func (r *root) projectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List the stored projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, err := r.app.Projects(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(r.outW, name)
			}
			return nil
		},
	}
}

func (r *root) describeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe PROJECT",
		Short: "Show the configurations, tool-chains and customized options of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.app.Describe(cmd.Context(), args[0])
		},
	}
}

func (r *root) initCmd() *cobra.Command {
	var (
		id, name, toolChain string
		natures             []string
	)
	cmd := &cobra.Command{
		Use:   "init PROJECT",
		Short: "Add a configuration to a project, creating the project if needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				name = id
			}
			cfg, err := r.app.InitProject(cmd.Context(), args[0], id, name, toolChain, natures)
			if err != nil {
				return err
			}
			fmt.Fprintf(r.outW, "configuration %s created in %s\n", cfg.ID(), args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "debug", "Configuration id.")
	cmd.Flags().StringVar(&name, "name", "", "Configuration display name (defaults to the id).")
	cmd.Flags().StringVar(&toolChain, "toolchain", "", "Tool-chain template id.")
	cmd.Flags().StringSliceVar(&natures, "natures", []string{"c"}, "Project natures, e.g. c,cc.")
	_ = cmd.MarkFlagRequired("toolchain")
	return cmd
}

func (r *root) duplicateCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "duplicate PROJECT CONFIGURATION NEW_ID",
		Short: "Copy a configuration together with its tool-chain and options",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := r.app.DuplicateConfiguration(cmd.Context(), args[0], args[1], args[2], name)
			if err != nil {
				return err
			}
			fmt.Fprintf(r.outW, "configuration %s created in %s\n", cfg.ID(), args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name of the copy.")
	return cmd
}

func toolListFlags(cmd *cobra.Command, removed, added *[]string) {
	cmd.Flags().StringSliceVar(removed, "remove", nil, "Ids of tools to remove from the tool-chain.")
	cmd.Flags().StringSliceVar(added, "add", nil, "Ids of tool templates to add.")
}

func (r *root) statusCmd() *cobra.Command {
	var removed, added []string
	cmd := &cobra.Command{
		Use:   "status PROJECT CONFIGURATION",
		Short: "Evaluate a tool-list modification without applying it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := r.app.Status(cmd.Context(), args[0], args[1], removed, added)
			if err != nil {
				return err
			}
			for _, group := range status.Conflicts {
				ids := make([]string, len(group))
				for i, t := range group {
					ids[i] = t.ID()
				}
				fmt.Fprintf(r.outW, "conflict: %s\n", strings.Join(ids, ", "))
			}
			for _, t := range status.Unmanaged {
				fmt.Fprintf(r.outW, "unmanaged: %s\n", t.ID())
			}
			printUnsupported(r.outW, "required property unsupported", status.RequiredUnsupported)
			printUnsupported(r.outW, "property unsupported", status.OptionalUnsupported)
			if status.IsOK() {
				fmt.Fprintln(r.outW, "ok")
			}
			return nil
		},
	}
	toolListFlags(cmd, &removed, &added)
	return cmd
}

func (r *root) modifyCmd() *cobra.Command {
	var removed, added []string
	cmd := &cobra.Command{
		Use:   "modify PROJECT CONFIGURATION",
		Short: "Remove and add tools on a configuration's tool-chain",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(removed) == 0 && len(added) == 0 {
				return usageError(errors.New("nothing to do: pass --remove or --add"))
			}
			return r.app.Modify(cmd.Context(), args[0], args[1], removed, added)
		},
	}
	toolListFlags(cmd, &removed, &added)
	return cmd
}

func (r *root) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check PROJECT CONFIGURATION TOOLCHAIN",
		Short: "Check whether a tool-chain supports the configuration's build properties",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			compat, err := r.app.Check(cmd.Context(), args[0], args[1], args[2])
			if err != nil {
				return err
			}
			printUnsupported(r.outW, "required property unsupported", compat.RequiredUnsupported)
			for _, id := range compat.Undefined {
				fmt.Fprintf(r.outW, "undefined property type: %s\n", id)
			}
			if compat.IsCompatible() {
				fmt.Fprintln(r.outW, "compatible")
			} else {
				fmt.Fprintln(r.outW, "incompatible")
			}
			return nil
		},
	}
}

func (r *root) swapCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "swap PROJECT CONFIGURATION TOOLCHAIN",
		Short: "Replace the tool-chain of a configuration, carrying options over",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := r.app.Swap(cmd.Context(), args[0], args[1], args[2], name)
			if err != nil {
				return err
			}
			if out.Unchanged {
				fmt.Fprintf(r.outW, "tool-chain %s already has that identity\n", out.ToolChain)
				return nil
			}
			states := make([]string, len(out.Path))
			for i, s := range out.Path {
				states[i] = s.String()
			}
			fmt.Fprintf(r.outW, "tool-chain is now %s (%s)\n", out.ToolChain, strings.Join(states, " -> "))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name of the new tool-chain.")
	return cmd
}

func (r *root) setOptionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-option PROJECT HOLDER OPTION VALUE",
		Short: "Set an option of a tool or tool-chain",
		Long: `Set an option of a tool or tool-chain. OPTION is the template id of the
option. Boolean options take true or false; list options take a
comma-separated list.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.app.SetOption(cmd.Context(), args[0], args[1], args[2], args[3])
		},
	}
}

func printUnsupported(w io.Writer, label string, m map[string]string) {
	for _, typeID := range model.SortedKeys(m) {
		if v := m[typeID]; v != "" {
			fmt.Fprintf(w, "%s: %s = %s\n", label, typeID, v)
		} else {
			fmt.Fprintf(w, "%s: %s\n", label, typeID)
		}
	}
}
