package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/careguide-ai/careguide/internal/audit"
	"github.com/careguide-ai/careguide/internal/config"
	"github.com/careguide-ai/careguide/internal/handoff"
	"github.com/careguide-ai/careguide/internal/logging"
	"github.com/careguide-ai/careguide/internal/normalize"
	"github.com/careguide-ai/careguide/internal/pipeline"
	"github.com/careguide-ai/careguide/internal/telemetry"
	"github.com/careguide-ai/careguide/internal/tool"
)

var version = "dev"

var (
	configPath string
	verbose    bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "careguide",
	Short:         "Deterministic symptom triage with hard safety gating",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; absence is not an error.
		_ = godotenv.Load()

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		level := cfg.Logging.Level
		if verbose {
			level = zapcore.DebugLevel.String()
		}
		logger, err = logging.New(logging.Options{
			Level:       level,
			Development: cfg.Logging.Development,
		})
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// app bundles everything a command needs, built fresh per invocation.
type app struct {
	cfg     *config.Config
	invoker *tool.Invoker
	emitter *audit.Emitter
	tele    *telemetry.Provider
}

func buildApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	tele, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:  cfg.Telemetry.Enabled,
		Endpoint: cfg.Telemetry.Endpoint,
		Protocol: cfg.Telemetry.Protocol,
		Service:  "careguide",
		Version:  version,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}

	var sinks []audit.Sink
	for _, sc := range cfg.Audit.Sinks {
		switch strings.ToLower(sc.Type) {
		case "file_jsonl":
			s, err := audit.NewFileSink(sc.Path)
			if err != nil {
				return nil, fmt.Errorf("audit sink: %w", err)
			}
			sinks = append(sinks, s)
		case "sqlite":
			s, err := audit.NewSQLiteSink(sc.Path)
			if err != nil {
				return nil, fmt.Errorf("audit sink: %w", err)
			}
			sinks = append(sinks, s)
		case "webhook":
			s, err := audit.NewWebhookSink(sc.URL, sc.Headers, 0)
			if err != nil {
				return nil, fmt.Errorf("audit sink: %w", err)
			}
			sinks = append(sinks, s)
		}
	}
	var emitter *audit.Emitter
	if len(sinks) > 0 {
		emitter = audit.NewEmitter(audit.EmitterConfig{
			QueueSize: cfg.Audit.QueueSize,
			Workers:   cfg.Audit.Workers,
		}, sinks, logger)
	}

	opts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithTelemetry(tele),
	}
	if emitter != nil {
		opts = append(opts, pipeline.WithAudit(emitter))
	}
	pipe, err := pipeline.New(cfg, opts...)
	if err != nil {
		return nil, err
	}

	router, err := handoff.NewRouter(
		destination(cfg.Handoff.Emergency),
		destination(cfg.Handoff.Standard),
	)
	if err != nil {
		return nil, err
	}

	invoker, err := tool.NewInvoker(pipe, cfg.Meds, cfg.Costs, router)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, invoker: invoker, emitter: emitter, tele: tele}, nil
}

func destination(d config.DestinationConfig) handoff.Destination {
	return handoff.Destination{
		Kind:  handoff.DestKind(d.Kind),
		Value: d.Value,
		Label: d.Label,
	}
}

func (a *app) close(ctx context.Context) {
	if a.emitter != nil {
		a.emitter.Close(ctx)
	}
	a.tele.Shutdown(ctx)
}

func runTool(cmd *cobra.Command, req tool.Request) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	resp, err := a.invoker.Invoke(ctx, req)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), resp)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load the config file and check every section",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if err := config.Validate(cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: configuration valid\n", configPath)
		return nil
	},
}

var (
	triageLocale   string
	triageAudience string
	triageTone     string
)

var triageCmd = &cobra.Command{
	Use:   "triage [intake.json]",
	Short: "Run one intake through the triage pipeline",
	Long: `Reads a JSON intake ({"text": ..., "tags": [...], "age": ..., ...}) from
the given file, or from stdin when no file is given, and prints the shaped
triage response.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var raw []byte
		var err error
		if len(args) == 1 {
			raw, err = os.ReadFile(args[0])
		} else {
			raw, err = io.ReadAll(cmd.InOrStdin())
		}
		if err != nil {
			return fmt.Errorf("read intake: %w", err)
		}

		var intake normalize.Intake
		if err := json.Unmarshal(raw, &intake); err != nil {
			return fmt.Errorf("parse intake: %w", err)
		}

		return runTool(cmd, tool.Request{
			Kind: tool.KindTriage,
			Triage: &tool.TriageRequest{
				Intake:   intake,
				Locale:   triageLocale,
				Audience: triageAudience,
				Tone:     triageTone,
			},
		})
	},
}

var (
	whatifAgeGroup string
	whatifSeverity string
)

var whatifCmd = &cobra.Command{
	Use:   "whatif <question>",
	Short: "Band a hypothetical concern without producing a verdict",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTool(cmd, tool.Request{
			Kind: tool.KindWhatIf,
			WhatIf: &tool.WhatIfRequest{
				Question: strings.Join(args, " "),
				AgeGroup: whatifAgeGroup,
				Severity: whatifSeverity,
			},
		})
	},
}

var medsFile string

var medsCmd = &cobra.Command{
	Use:   "meds [name ...]",
	Short: "Look up side effects and interactions for medications",
	RunE: func(cmd *cobra.Command, args []string) error {
		var fileText string
		if medsFile != "" {
			raw, err := os.ReadFile(medsFile)
			if err != nil {
				return fmt.Errorf("read prescription file: %w", err)
			}
			fileText = string(raw)
		}
		if len(args) == 0 && fileText == "" {
			return fmt.Errorf("give medication names or --file")
		}
		return runTool(cmd, tool.Request{
			Kind: tool.KindMeds,
			Meds: &tool.MedsRequest{Medications: args, FileText: fileText},
		})
	},
}

var (
	costInsured   bool
	costSuspected string
)

var costCmd = &cobra.Command{
	Use:   "cost",
	Short: "Estimate out-of-pocket costs for a suspected condition",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTool(cmd, tool.Request{
			Kind: tool.KindCost,
			Cost: &tool.CostRequest{HasInsurance: costInsured, Suspected: costSuspected},
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the careguide version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "careguide", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "careguide.yaml", "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	triageCmd.Flags().StringVar(&triageLocale, "locale", "", "response locale (en, es, fr)")
	triageCmd.Flags().StringVar(&triageAudience, "audience", "patient", "patient or clinician")
	triageCmd.Flags().StringVar(&triageTone, "tone", "", "neutral, reassuring, concise, or child_friendly")

	whatifCmd.Flags().StringVar(&whatifAgeGroup, "age-group", "", "child, teen, adult, or older adult")
	whatifCmd.Flags().StringVar(&whatifSeverity, "severity", "", "mild, moderate, or severe")

	medsCmd.Flags().StringVar(&medsFile, "file", "", "prescription text file to scan")

	costCmd.Flags().BoolVar(&costInsured, "insured", false, "whether the caller has insurance")
	costCmd.Flags().StringVar(&costSuspected, "suspected", "", "suspected condition text")

	rootCmd.AddCommand(validateCmd, triageCmd, whatifCmd, medsCmd, costCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
