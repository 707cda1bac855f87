package main

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Setting keys, shared by flags, environment variables and config files
const (
	keyDoc         = "doc"
	keyCatalog     = "catalog"
	keyFormat      = "format"
	keyLogLevel    = "log-level"
	keyVerbose     = "verbose"
	keyLockTimeout = "lock-timeout"
	keyDryRun      = "dry-run"
	keyLimit       = "limit"
)

// CLI is the citeorder command tree with its configuration
type CLI struct {
	rootCmd   *cobra.Command
	viperInst *viper.Viper
}

// NewCLI creates the command tree and loads configuration
func NewCLI() *CLI {
	cli := &CLI{viperInst: viper.New()}
	cli.setupViperConfig()
	cli.createRootCommand()
	cli.addCommands()
	return cli
}

// Execute runs the command selected by os.Args
func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

// setupViperConfig configures Viper with environment variables and config files
func (cli *CLI) setupViperConfig() {
	// CITEORDER_CONFIG points at an explicit config file
	if configFile := os.Getenv("CITEORDER_CONFIG"); configFile != "" {
		cli.viperInst.SetConfigFile(configFile)
	} else {
		cli.viperInst.SetConfigName(appName)
		cli.viperInst.SetConfigType("yaml")
		cli.viperInst.AddConfigPath(".")
		cli.viperInst.AddConfigPath("$HOME/.citeorder")
	}

	cli.viperInst.SetEnvPrefix("CITEORDER")
	cli.viperInst.AutomaticEnv()
	// --lock-timeout -> CITEORDER_LOCK_TIMEOUT
	cli.viperInst.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// Read config file if it exists (ignore errors)
	_ = cli.viperInst.ReadInConfig()
}

func (cli *CLI) createRootCommand() {
	cli.rootCmd = &cobra.Command{
		Use:   appName,
		Short: "Number citations by first appearance",
		Long: `citeorder keeps the citations of a document numbered in order of first
appearance. Documents are stored as JSON snapshots and edited with YAML scripts.

Configuration Sources (in order of precedence):
1. Command line flags
2. Environment variables (CITEORDER_*)
3. Configuration file (CITEORDER_CONFIG, ./citeorder.yaml or ~/.citeorder/citeorder.yaml)

Examples:
  citeorder apply edits.yaml --doc paper.json
  citeorder list --doc paper.json
  citeorder bib --doc paper.json --catalog refs.yaml --format markdown
  citeorder search horizon --catalog refs.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = cli.viperInst.BindPFlags(cmd.Flags())
			_, err := initLogging(cli.viperInst.GetString(keyLogLevel), cli.viperInst.GetBool(keyVerbose))
			return err
		},
	}
	cli.addGlobalFlags()
}

// addGlobalFlags adds persistent flags that apply to all commands
func (cli *CLI) addGlobalFlags() {
	flags := cli.rootCmd.PersistentFlags()

	flags.StringP(keyDoc, "d", "citeorder.json", "Document snapshot path")
	flags.String(keyLogLevel, "warn", "Log level (debug|info|warn|error)")
	flags.BoolP(keyVerbose, "v", false, "Also write logs to stderr")
	flags.Duration(keyLockTimeout, 3*time.Second, "How long to wait for the snapshot lock")

	for _, flag := range []string{keyDoc, keyLogLevel, keyVerbose, keyLockTimeout} {
		_ = cli.viperInst.BindPFlag(flag, flags.Lookup(flag))
	}
}

func (cli *CLI) addCommands() {
	cli.addApplyCommand()
	cli.addListCommand()
	cli.addShowCommand()
	cli.addBibCommand()
	cli.addFormatsCommand()
	cli.addSearchCommand()
}
