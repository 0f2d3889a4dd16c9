package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/dDoc/cmd/docs"
	"github.com/ValentinKolb/dDoc/cmd/info"
	"github.com/ValentinKolb/dDoc/cmd/perf"
	"github.com/ValentinKolb/dDoc/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "ddoc",
		Short: "file-backed document store",
		Long: fmt.Sprintf(`dDoc (v%s)

A small document store that keeps JSON documents in named collections,
persisted as a snapshot file plus a write-ahead log and recovered
automatically after a crash.

Every flag can also be set with an environment variable DDOC_<FLAG>
(e.g. DDOC_SNAPSHOT_INTERVAL=10) or in a .env / .env.local file.`, Version),
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: bindFlags,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dDoc",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dDoc v%s\n", Version)
		},
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add Flags
	util.SetupStoreFlags(RootCmd)

	// Add Commands
	RootCmd.AddCommand(docs.Commands...)
	RootCmd.AddCommand(info.InfoCmd)
	RootCmd.AddCommand(perf.PerfCmd)
	RootCmd.AddCommand(versionCmd)
}

// bindFlags binds the flags of the executed command (including the inherited store flags) to viper
func bindFlags(cmd *cobra.Command, _ []string) error {
	return util.BindCommandFlags(cmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, util.FormatError(err))
		os.Exit(util.ExitCode(err))
	}
}
