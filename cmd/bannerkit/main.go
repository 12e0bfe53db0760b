package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ivlev/bannerkit/internal/config"
	"github.com/ivlev/bannerkit/internal/logger"
	"github.com/ivlev/bannerkit/internal/system"
)

// errRejected signals a validation run that ended with feedback.
var errRejected = errors.New("output rejected")

type binding struct {
	flag string
	key  string
}

type app struct {
	configFile string
	envFile    string
	bindings   []binding

	cfg *config.Config
	log logger.Logger
}

// bind maps a flag onto a config key; it only overrides when set.
func (a *app) bind(flag, key string) {
	a.bindings = append(a.bindings, binding{flag: flag, key: key})
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "bannerkit",
		Short:         "Analyze banner images and validate generated banner markup",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "YAML config file")
	pf.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	pf.String("log-level", "", "log level: debug, info, warn, error, disabled")
	pf.Bool("log-json", false, "log as JSON")
	a.bind("log-level", "log.level")
	a.bind("log-json", "log.json")

	root.AddCommand(
		newAnalyzeCmd(a),
		newValidateCmd(a),
		newRecommendCmd(a),
		newQRCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	overrides := make(map[string]any)
	for _, b := range a.bindings {
		if f := cmd.Flags().Lookup(b.flag); f != nil && f.Changed {
			overrides[b.key] = f.Value.String()
		}
	}

	cfg, err := config.Load(cmd.Context(), config.LoadOptions{
		File:      a.configFile,
		EnvFile:   a.envFile,
		Overrides: overrides,
	})
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.log = logger.NewLogger(&logger.Config{
		Level:      logger.LogLevel(cfg.Log.Level),
		Output:     cmd.ErrOrStderr(),
		JSON:       cfg.Log.JSON,
		TimeFormat: "15:04:05",
	})
	logger.SetDefault(a.log)

	ctx := logger.ContextWithLogger(cmd.Context(), a.log)
	system.InitResourceLimits(ctx, 2048)
	cmd.SetContext(ctx)
	return nil
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		if errors.Is(err, errRejected) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
		os.Exit(1)
	}
}
