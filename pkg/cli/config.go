package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/seanmeissimilly/alinfo/pkg/cliconfig"
)

var (
	configInitGlobal bool
	configInitForce  bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and create configuration files",
}

// ConfigOutput is the JSON form of config show.
type ConfigOutput struct {
	Config  *cliconfig.CLIConfig `json:"config"`
	Sources map[string]string    `json:"sources"`
	Files   []string             `json:"files"`
}

var configShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Show the effective configuration with its sources",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationNoValidate: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := app.cfg
		out := ConfigOutput{Config: cfg, Sources: cfg.Sources, Files: loadedFiles(app.loaded)}

		return render(cmd, out, func(w io.Writer) error {
			fmt.Fprintln(w, "Effective Configuration:")
			fmt.Fprintln(w)
			printConfigValue(w, "backendUrl", cfg.BackendURL, cfg.Sources["backendUrl"])
			printConfigValue(w, "environment", cfg.Environment, cfg.Sources["environment"])
			printConfigValue(w, "dataDir", app.store.Dir(), cfg.Sources["dataDir"])
			printConfigValue(w, "staleResponses", cfg.StaleResponses, cfg.Sources["staleResponses"])
			printConfigValue(w, "logLevel", cfg.LogLevel, cfg.Sources["logLevel"])
			printConfigValue(w, "logFormat", cfg.LogFormat, cfg.Sources["logFormat"])
			printConfigValue(w, "verbose", cfg.Verbose, cfg.Sources["verbose"])
			printConfigValue(w, "json", cfg.JSON, cfg.Sources["json"])
			if cfg.Token != "" {
				printConfigValue(w, "token", "(set)", cfg.Sources["token"])
			}

			if len(out.Files) > 0 {
				fmt.Fprintln(w)
				fmt.Fprintln(w, "Sources loaded:")
				for _, f := range out.Files {
					fmt.Fprintf(w, "  • %s\n", f)
				}
			}
			if err := cfg.Validate(); err != nil {
				fmt.Fprintln(w)
				fmt.Fprintf(w, "Invalid: %v\n", err)
			}
			return nil
		})
	},
}

func loadedFiles(r *cliconfig.Result) []string {
	files := []string{}
	for _, f := range []struct{ path, label string }{
		{r.GlobalPath, "global"},
		{r.LocalPath, "local"},
		{r.DotEnvPath, "dotenv"},
	} {
		if f.path != "" {
			files = append(files, fmt.Sprintf("%s (%s)", f.path, f.label))
		}
	}
	return files
}

// printConfigValue prints a config value with source annotation.
func printConfigValue(w io.Writer, name string, value any, source string) {
	if source == "" {
		source = cliconfig.SourceDefault
	}
	fmt.Fprintf(w, "  %-16s %v%s\n", name+":", value, formatSource(source))
}

// formatSource formats a source type for display.
func formatSource(source string) string {
	switch source {
	case cliconfig.SourceDefault:
		return "  (default)"
	case cliconfig.SourceEnv:
		return "  (env)"
	case cliconfig.SourceDotEnv:
		return "  (.env)"
	case cliconfig.SourceGlobal:
		return "  (global config)"
	case cliconfig.SourceLocal:
		return "  (local config)"
	case cliconfig.SourceFlag:
		return "  (flag)"
	default:
		return ""
	}
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to a config file",
	Long: `Write the effective configuration to .alinforc.yaml in the current
directory, or to the global config file with --global. The token is never
written.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationNoValidate: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cliconfig.LocalConfigFileNames[0]
		if configInitGlobal {
			path = cliconfig.GlobalConfigPath()
		}

		if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) && !configInitForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := app.cfg.Validate(); err != nil {
			return err
		}
		if err := cliconfig.SaveConfigFile(path, app.cfg); err != nil {
			return err
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return err
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitGlobal, "global", false, "Write the global config file instead")
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing file")

	configCmd.AddCommand(configShowCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}
