package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/seanmeissimilly/alinfo/pkg/cli/internal/output"
	"github.com/seanmeissimilly/alinfo/pkg/cliconfig"
	"github.com/seanmeissimilly/alinfo/pkg/localstore"
	"github.com/seanmeissimilly/alinfo/pkg/logging"
	"github.com/seanmeissimilly/alinfo/pkg/portal"
	"github.com/seanmeissimilly/alinfo/pkg/slice"
)

var (
	// Persistent flags available to all subcommands
	backendURL     string
	tokenFlag      string
	envFlag        string
	dataDir        string
	jsonOutput     bool
	jsonPath       string
	verbose        bool
	logLevel       string
	logFormat      string
	staleResponses string

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// Command annotations read by setup.
const (
	// annotationNoSetup skips config loading entirely.
	annotationNoSetup = "alinfo/no-setup"
	// annotationNoValidate loads config but does not validate it.
	annotationNoValidate = "alinfo/no-validate"
)

// app is the runtime shared by the commands of one invocation. It is built
// by setup before any RunE runs.
var app *appContext

type appContext struct {
	cfg    *cliconfig.CLIConfig
	loaded *cliconfig.Result
	logger *slog.Logger
	store  *localstore.FileStore
	state  *portal.State
}

// token returns the token sent with requests: --token, ALINFO_TOKEN or the
// config file first, then the signed-in user's token.
func (a *appContext) token() string {
	if a.cfg.Token != "" {
		return a.cfg.Token
	}
	return a.state.Token()
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "alinfo",
	Short: "alinfo is a command-line client for the ALINFO portal",
	Long: `alinfo browses and manages the ALINFO portal: its applications catalogue,
multimedia library, forum, suggestions box and user directory.

Configuration can be provided via flags, ALINFO_* environment variables, a .env
file, a local .alinforc.yaml or the global config file in the user config
directory (alinfo/config.yaml).`,
	SilenceUsage:      true,
	SilenceErrors:     true, // We handle errors in Main()
	PersistentPreRunE: setup,
}

// Main runs the command line and returns the process exit code.
func Main() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), FormatError(err))
		return 1
	}
	return 0
}

// Execute runs the command line and exits. This is called by main.main().
func Execute() {
	os.Exit(Main())
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&backendURL, "backend-url", "", "Portal backend URL (default: "+portal.DefaultBackendURL+")")
	pf.StringVar(&tokenFlag, "token", "", "Bearer token sent with requests (default: the signed-in user's token)")
	pf.StringVar(&envFlag, "env", "", "Environment: development or production")
	pf.StringVar(&dataDir, "data-dir", "", "Directory of the local session storage")
	pf.BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")
	pf.StringVar(&jsonPath, "jsonpath", "", "Output only the values selected by a JSONPath expression")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Log requests (same as --log-level debug)")
	pf.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
	pf.StringVar(&logFormat, "log-format", "", "Log format: text or json")
	pf.StringVar(&staleResponses, "stale-responses", "", "Superseded responses: keep (last settled wins) or discard")
}

// setup loads the configuration and builds the runtime of the command.
func setup(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations[annotationNoSetup] != "" {
		return nil
	}

	loaded, err := cliconfig.LoadAll(cliconfig.LoadOptions{})
	if err != nil {
		return err
	}
	cfg := loaded.Config
	applyFlags(cmd, cfg)
	if cmd.Annotations[annotationNoValidate] == "" {
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logCfg := logging.DefaultConfig()
	logCfg.Output = cmd.ErrOrStderr()
	logCfg.Level = logging.ParseLevel(cfg.LogLevel)
	logCfg.Format = logging.ParseFormat(cfg.LogFormat)
	if cfg.Verbose {
		logCfg.Level = logging.LevelDebug
	}
	logger := logging.New(logCfg)

	policy, err := slice.ParsePolicy(cfg.StaleResponses)
	if err != nil {
		return err
	}

	store := localstore.NewFileStore(cfg.DataDir)
	app = &appContext{
		cfg:    cfg,
		loaded: loaded,
		logger: logger,
		store:  store,
		state: portal.NewState(portal.Deps{
			BackendURL: cfg.BackendURL,
			Persister:  store,
			Policy:     policy,
			Logger:     logger,
		}),
	}
	logger.Debug("configuration loaded",
		"backendUrl", cfg.BackendURL,
		"environment", cfg.Environment,
		"dataDir", store.Dir(),
		"staleResponses", policy.String())
	return nil
}

// applyFlags overrides cfg with the persistent flags set on the command line.
func applyFlags(cmd *cobra.Command, cfg *cliconfig.CLIConfig) {
	flags := cmd.Flags()
	str := func(name, key, value string, dst *string) {
		if flags.Changed(name) {
			*dst = value
			cfg.Sources[key] = cliconfig.SourceFlag
		}
	}
	boolean := func(name, key string, value bool, dst *bool) {
		if flags.Changed(name) {
			*dst = value
			cfg.Sources[key] = cliconfig.SourceFlag
		}
	}
	if cfg.Sources == nil {
		cfg.Sources = make(map[string]string)
	}

	str("env", "environment", envFlag, &cfg.Environment)
	if flags.Changed("env") && cfg.IsProduction() {
		if v := os.Getenv(cliconfig.EnvBackendURL); v != "" {
			cfg.BackendURL = v
			cfg.Sources["backendUrl"] = cliconfig.SourceEnv
		}
	}
	str("backend-url", "backendUrl", backendURL, &cfg.BackendURL)
	str("token", "token", tokenFlag, &cfg.Token)
	str("data-dir", "dataDir", dataDir, &cfg.DataDir)
	str("stale-responses", "staleResponses", staleResponses, &cfg.StaleResponses)
	str("log-level", "logLevel", logLevel, &cfg.LogLevel)
	str("log-format", "logFormat", logFormat, &cfg.LogFormat)
	boolean("verbose", "verbose", verbose, &cfg.Verbose)
	boolean("json", "json", jsonOutput, &cfg.JSON)
}

// render writes v as JSON when --json or --jsonpath asks for it, and as a
// table otherwise.
func render(cmd *cobra.Command, v any, table func(w io.Writer) error) error {
	w := cmd.OutOrStdout()
	switch {
	case jsonPath != "":
		return output.JSONPath(w, v, jsonPath)
	case jsonOutput || (app != nil && app.cfg.JSON):
		return output.JSON(w, v)
	}
	return table(w)
}
