package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/peertriage/internal/config"
	"github.com/dshills/peertriage/internal/emotion"
	"github.com/dshills/peertriage/internal/enhance"
	"github.com/dshills/peertriage/internal/llm"
	"github.com/dshills/peertriage/internal/logging"
	"github.com/dshills/peertriage/internal/profile"
	"github.com/dshills/peertriage/internal/render"
	"github.com/dshills/peertriage/internal/taxonomy"
	"github.com/dshills/peertriage/internal/triage"
)

const (
	exitCodeError    = 1
	exitCodeBadInput = 2
)

// exitError carries a process exit code through cobra's error return.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func badInput(format string, args ...any) error {
	return &exitError{code: exitCodeBadInput, err: fmt.Errorf(format, args...)}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	debug      bool
}

type triageFlags struct {
	format     string
	noOutreach bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(os.Stdout)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		code := exitCodeError
		var ee *exitError
		if errors.As(err, &ee) {
			code = ee.code
		}
		stop()
		os.Exit(code)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var gf globalFlags

	root := &cobra.Command{
		Use:           "peertriage",
		Short:         "Needs assessment and peer-group triage for veteran profiles",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&gf.configPath, "config", "peertriage.yaml", "path to YAML config file")
	root.PersistentFlags().BoolVar(&gf.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newDemoCmd(&gf),
		newTriageCmd(&gf),
		newTagsCmd(),
		newEmotionCmd(&gf),
	)
	return root
}

// app holds the wiring shared by commands that talk to the reasoning service.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	client *llm.Client
}

func newApp(gf *globalFlags) (*app, error) {
	cfg, err := config.Load(gf.configPath)
	if err != nil {
		return nil, badInput("%w", err)
	}
	logger, err := logging.New(cfg.Log.Level, gf.debug)
	if err != nil {
		return nil, badInput("%w", err)
	}

	provider, err := llm.NewProvider(cfg.LLMProvider())
	if err != nil {
		// A nil provider makes every call fail, which routes triage to fallback.
		logger.Warn("reasoning provider unavailable", zap.String("provider", cfg.Provider.Name), zap.Error(err))
		provider = nil
	}
	client := llm.NewClient(provider, cfg.Provider.Model, cfg.Timeout, cfg.LLMSampling())
	return &app{cfg: cfg, logger: logger, client: client}, nil
}

func (a *app) engine(disableOutreach bool) *triage.Engine {
	return triage.New(triage.Options{
		Client:          a.client,
		Enhancer:        enhance.Enhancer{GroupSuffix: a.cfg.Enhance.GroupSuffix},
		Logger:          a.logger,
		DisableOutreach: disableOutreach || a.cfg.Outreach.Disabled,
	})
}

func (a *app) close() {
	_ = a.logger.Sync()
}

func newDemoCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Triage the built-in sample profiles and print the results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.Context(), cmd.OutOrStdout(), gf)
		},
	}
}

// runDemo never fails on reasoning-service problems; the fallback path
// produces results regardless.
func runDemo(ctx context.Context, out io.Writer, gf *globalFlags) error {
	a, err := newApp(gf)
	if err != nil {
		return err
	}
	defer a.close()

	var profiles []profile.Profile
	for _, name := range profile.Names() {
		p, err := profile.Load(name)
		if err != nil {
			return err
		}
		profiles = append(profiles, p)
	}

	fmt.Fprintln(out, "=== VETERAN PEER TRIAGE DEMO ===")
	fmt.Fprintln(out)
	results := a.engine(false).Batch(ctx, profiles, a.cfg.Batch.Concurrency)
	_, err = io.WriteString(out, render.RenderText(results))
	return err
}

func newTriageCmd(gf *globalFlags) *cobra.Command {
	var tf triageFlags
	cmd := &cobra.Command{
		Use:   "triage <profile-file|builtin-name>...",
		Short: "Assess one or more profiles",
		Long: "Assess profiles read from YAML/JSON files or named built-in samples (" +
			strings.Join(profile.Names(), ", ") + ").",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTriage(cmd.Context(), cmd.OutOrStdout(), gf, tf, args)
		},
	}
	cmd.Flags().StringVar(&tf.format, "format", "text", "output format: text, json or markdown")
	cmd.Flags().BoolVar(&tf.noOutreach, "no-outreach", false, "skip outreach message generation")
	return cmd
}

func runTriage(ctx context.Context, out io.Writer, gf *globalFlags, tf triageFlags, args []string) error {
	format, err := render.ParseFormat(tf.format)
	if err != nil {
		return badInput("%w", err)
	}
	profiles := make([]profile.Profile, 0, len(args))
	for _, arg := range args {
		p, err := resolveProfile(arg)
		if err != nil {
			return badInput("%w", err)
		}
		profiles = append(profiles, p)
	}

	a, err := newApp(gf)
	if err != nil {
		return err
	}
	defer a.close()

	results := a.engine(tf.noOutreach).Batch(ctx, profiles, a.cfg.Batch.Concurrency)
	b, err := render.Render(format, results)
	if err != nil {
		return err
	}
	if _, err := out.Write(b); err != nil {
		return err
	}
	if format == render.FormatJSON {
		_, err = fmt.Fprintln(out)
	}
	return err
}

// resolveProfile treats arg as a file path when it exists, otherwise as a
// built-in profile name.
func resolveProfile(arg string) (profile.Profile, error) {
	if _, err := os.Stat(arg); err == nil {
		return profile.LoadFile(arg)
	}
	p, err := profile.Load(arg)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("%q is neither a readable file nor a built-in profile: %w", arg, err)
	}
	return p, nil
}

func newTagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List the tag taxonomy with priority weights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeTags(cmd.OutOrStdout(), taxonomy.Default())
		},
	}
}

func writeTags(out io.Writer, tax *taxonomy.Taxonomy) error {
	var sb strings.Builder
	for _, th := range tax.Themes() {
		fmt.Fprintf(&sb, "%s:\n", th.Name)
		for _, tag := range th.Tags {
			fmt.Fprintf(&sb, "  %-28s %2d\n", tag, tax.WeightOf(tag))
		}
		sb.WriteString("\n")
	}

	weights := tax.Weights()
	tags := make([]string, 0, len(weights))
	for tag := range weights {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		if weights[tags[i]] != weights[tags[j]] {
			return weights[tags[i]] > weights[tags[j]]
		}
		return tags[i] < tags[j]
	})
	fmt.Fprintf(&sb, "Weighted tags (others count %d): %s\n", taxonomy.DefaultWeight, strings.Join(tags, ", "))

	_, err := io.WriteString(out, sb.String())
	return err
}

func newEmotionCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "emotion <text>",
		Short: "Classify the emotion in a message and suggest a support action",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(gf)
			if err != nil {
				return err
			}
			defer a.close()
			label := emotion.ModelClassifier{Client: a.client}.Classify(cmd.Context(), strings.Join(args, " "))
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "emotion: %s\naction: %s\n", label, emotion.ActionFor(label))
			return err
		},
	}
}
