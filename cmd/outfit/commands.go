package outfit

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"os/signal"

	"github.com/arthur-debert/outfit/internal/version"
	"github.com/arthur-debert/outfit/pkg/cobrax"
	"github.com/arthur-debert/outfit/pkg/cobrax/topics"
	"github.com/arthur-debert/outfit/pkg/config"
	"github.com/arthur-debert/outfit/pkg/errors"
	"github.com/arthur-debert/outfit/pkg/logging"
	"github.com/arthur-debert/outfit/pkg/output"
	"github.com/arthur-debert/outfit/pkg/registry"
	"github.com/arthur-debert/outfit/pkg/render"
	"github.com/spf13/cobra"
)

//go:embed topics
var topicsFS embed.FS

// app holds the global flags and the configuration they produce.
type app struct {
	verbosity      int
	configPath     string
	theme          string
	templateDirs   []string
	stylesheetDirs []string
	strict         bool
	output         *cobrax.OutputFlags

	cfg *config.Config
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	a := &app{}
	rootCmd := &cobra.Command{
		Use:               "outfit",
		Short:             MsgRootShort,
		Long:              MsgRootLong,
		Version:           version.Version,
		PersistentPreRunE: a.preRun,
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.StringVar(&a.configPath, "config", "", MsgFlagConfig)
	flags.StringVar(&a.theme, "theme", "", MsgFlagTheme)
	flags.StringArrayVar(&a.templateDirs, "templates-dir", nil, MsgFlagTemplatesDir)
	flags.StringArrayVar(&a.stylesheetDirs, "stylesheets-dir", nil, MsgFlagStylesheetsDir)
	flags.BoolVar(&a.strict, "strict", false, MsgFlagStrict)
	a.output = cobrax.AddOutputFlags(rootCmd)

	_ = rootCmd.MarkPersistentFlagFilename("config", "yaml", "yml", "toml")
	_ = rootCmd.MarkPersistentFlagDirname("templates-dir")
	_ = rootCmd.MarkPersistentFlagDirname("stylesheets-dir")
	_ = rootCmd.RegisterFlagCompletionFunc("theme", a.completeThemes)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(a.newRenderCmd())
	rootCmd.AddCommand(a.newValidateCmd())
	rootCmd.AddCommand(a.newStylesCmd())
	rootCmd.AddCommand(a.newTemplatesCmd())
	rootCmd.AddCommand(a.newThemesCmd())
	rootCmd.AddCommand(a.newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	if tm, err := initTopics(rootCmd); err == nil {
		topicsCmd := tm.Command(rootCmd.Name())
		topicsCmd.Short = MsgTopicsShort
		topicsCmd.GroupID = "misc"
		rootCmd.AddCommand(topicsCmd)
	} else {
		logger := logging.GetLogger("cmd")
		logger.Debug().Err(err).Msg("help topics unavailable")
	}

	return rootCmd
}

// initTopics serves the embedded help topics. Markdown goes through glamour,
// text topics through the tag pipeline with the default theme.
func initTopics(rootCmd *cobra.Command) (*topics.TopicManager, error) {
	sub, err := fs.Sub(topicsFS, "topics")
	if err != nil {
		return nil, err
	}

	renderers := topics.Chain{topics.NewGlamourRenderer()}
	if stylesheets, err := registry.NewStylesheetRegistry(registry.StylesheetConfig{}); err == nil {
		if theme, err := output.ResolveTheme(stylesheets, ""); err == nil {
			renderers = append(renderers, topics.NewTagRenderer(theme, render.NewContext(render.ModeAuto, os.Stdout)))
		}
	}

	return topics.InitializeWithOptions(rootCmd, registry.Root{Label: "topics", FS: sub}, topics.Options{
		Renderer: renderers,
	})
}

func (a *app) preRun(cmd *cobra.Command, args []string) error {
	logging.SetupLogger(a.verbosity)
	logging.LogCommand(cmd.CommandPath(), args)

	if err := a.output.Validate(); err != nil {
		return err
	}

	overrides := a.output.Overrides(cmd)
	flags := cmd.Flags()
	if flags.Changed("theme") {
		overrides["stylesheets.theme"] = a.theme
	}
	if flags.Changed("templates-dir") {
		overrides["templates.dirs"] = a.templateDirs
	}
	if flags.Changed("stylesheets-dir") {
		overrides["stylesheets.dirs"] = a.stylesheetDirs
	}
	if flags.Changed("strict") {
		overrides["output.strict"] = a.strict
	}
	if flags.Lookup("watch") != nil && flags.Changed("watch") {
		watch, _ := flags.GetBool("watch")
		overrides["watch"] = watch
	}

	cfg, err := config.Load(config.Options{Path: a.configPath, Overrides: overrides})
	if err != nil {
		return err
	}
	if cfg.Log.Verbosity > a.verbosity {
		logging.SetupLogger(cfg.Log.Verbosity)
	}
	a.cfg = cfg
	return nil
}

// newRenderer builds registries and a renderer from the loaded config.
func (a *app) newRenderer(cmd *cobra.Command) (*output.Renderer, error) {
	cfg := a.cfg
	if cfg == nil {
		cfg = config.Default()
	}

	templates, err := registry.NewTemplateRegistry(registry.TemplateConfig{
		Dirs:    cfg.Templates.Dirs,
		Exclude: cfg.Templates.Exclude,
	})
	if err != nil {
		return nil, err
	}
	stylesheets, err := registry.NewStylesheetRegistry(registry.StylesheetConfig{
		Dirs:    cfg.Stylesheets.Dirs,
		Exclude: cfg.Stylesheets.Exclude,
	})
	if err != nil {
		return nil, err
	}

	return output.NewRenderer(output.Options{
		Mode:        cfg.OutputMode(),
		Writer:      cmd.OutOrStdout(),
		FilePath:    cfg.Output.FilePath,
		Theme:       cfg.Stylesheets.Theme,
		Width:       cfg.Output.Width,
		Strict:      cfg.Output.Strict,
		Templates:   templates,
		Stylesheets: stylesheets,
		Values: map[string]interface{}{
			"app":     "outfit",
			"version": version.Version,
		},
	})
}

// withRenderer runs fn with a fresh renderer and closes it afterwards.
func (a *app) withRenderer(cmd *cobra.Command, fn func(r *output.Renderer) error) error {
	r, err := a.newRenderer(cmd)
	if err != nil {
		return err
	}
	err = fn(r)
	if closeErr := r.Close(); err == nil {
		err = closeErr
	}
	return err
}

func (a *app) newRenderCmd() *cobra.Command {
	var (
		dataPath string
		inline   bool
	)
	cmd := &cobra.Command{
		Use:               "render <template>",
		Short:             MsgRenderShort,
		Long:              MsgRenderLong,
		Example:           MsgRenderExample,
		GroupID:           "core",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: a.completeTemplates,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := loadData(dataPath, cmd.InOrStdin())
			if err != nil {
				return err
			}

			return a.withRenderer(cmd, func(r *output.Renderer) error {
				renderOnce := func() error {
					if inline {
						return r.RenderString(args[0], data)
					}
					return r.Render(args[0], data)
				}
				if err := renderOnce(); err != nil {
					return err
				}
				if !a.cfg.Watch {
					return nil
				}
				return watch(cmd, r, renderOnce)
			})
		},
	}
	cmd.Flags().StringVarP(&dataPath, "data", "d", "", MsgFlagData)
	cmd.Flags().BoolVar(&inline, "inline", false, MsgFlagInline)
	cmd.Flags().Bool("watch", false, MsgFlagWatch)
	_ = cmd.MarkFlagFilename("data", "json", "yaml", "yml", "toml")
	return cmd
}

// watch re-renders after every rescan until interrupted.
func watch(cmd *cobra.Command, r *output.Renderer, renderOnce func() error) error {
	logger := logging.WithFields(map[string]interface{}{
		"component":   "cmd.render",
		"templates":   r.Templates().WatchDirs(),
		"stylesheets": r.Stylesheets().WatchDirs(),
	})
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	logger.Info().Msg(MsgWatching)
	return registry.Watch(ctx, func(err error) {
		if err != nil {
			return
		}
		if err := renderOnce(); err != nil {
			logger.Error().Err(err).Msg("render failed")
		}
	}, r.Templates(), r.Stylesheets())
}

func (a *app) newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "validate <template>",
		Short:             MsgValidateShort,
		Long:              MsgValidateLong,
		GroupID:           "core",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: a.completeTemplates,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			return a.withRenderer(cmd, func(r *output.Renderer) error {
				src, err := r.Templates().Get(name)
				if err != nil {
					return err
				}
				unknown, err := render.ValidateTemplate(src, r.Theme(), r.Templates())
				if err != nil {
					return err
				}
				if len(unknown) == 0 {
					return r.RenderMessage("success", fmt.Sprintf(MsgTemplateValid, name))
				}
				if err := r.RenderList(fmt.Sprintf(MsgUnknownStyles, name), unknown); err != nil {
					return err
				}
				return errors.Newf(errors.ErrUnknownStyle, MsgErrUnknownStyle, name, len(unknown)).
					WithDetail("template", name).
					WithDetail("unknown", unknown)
			})
		},
	}
}

func (a *app) newStylesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "styles",
		Short:   MsgStylesShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRenderer(cmd, func(r *output.Renderer) error {
				return r.StylePreview()
			})
		},
	}
}

// templateRow is one line of the templates listing.
type templateRow struct {
	Name   string `json:"name"`
	Layer  string `json:"layer"`
	Engine string `json:"engine"`
	Path   string `json:"path,omitempty"`
}

const templatesListing = `{{ range . -}}
[key]{{ pad_right 24 .Name }}[/key] {{ pad_right 9 .Layer }} {{ pad_right 7 .Engine }} [muted]{{ .Path }}[/muted]
{{ end }}`

func (a *app) newTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "templates",
		Short:   MsgTemplatesShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRenderer(cmd, func(r *output.Renderer) error {
				var rows []templateRow
				for _, info := range r.Templates().List() {
					rows = append(rows, templateRow{
						Name:   info.Name,
						Layer:  string(info.Layer),
						Engine: info.Kind.String(),
						Path:   info.Path,
					})
				}
				return r.RenderString(templatesListing, rows)
			})
		},
	}
}

func (a *app) newThemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "themes",
		Short:   MsgThemesShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRenderer(cmd, func(r *output.Renderer) error {
				return r.RenderList(MsgThemesTitle, r.Stylesheets().Names())
			})
		},
	}
}

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRenderer(cmd, func(r *output.Renderer) error {
				return r.RenderString(`[title]outfit[/title] {{ .Version }}
  [muted]commit:[/muted] {{ .Commit }}
  [muted]built:[/muted]  {{ .Date }}`, version.Get())
			})
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

// completeTemplates completes template names from the configured
// registries.
func (a *app) completeTemplates(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	if err := a.preRun(cmd, args); err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	templates, err := registry.NewTemplateRegistry(registry.TemplateConfig{
		Dirs:    a.cfg.Templates.Dirs,
		Exclude: a.cfg.Templates.Exclude,
	})
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var names []string
	for _, info := range templates.List() {
		names = append(names, info.Name)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func (a *app) completeThemes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if err := a.preRun(cmd, args); err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	stylesheets, err := registry.NewStylesheetRegistry(registry.StylesheetConfig{
		Dirs:    a.cfg.Stylesheets.Dirs,
		Exclude: a.cfg.Stylesheets.Exclude,
	})
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return stylesheets.Names(), cobra.ShellCompDirectiveNoFileComp
}
