package info

import (
	"encoding/json"
	"fmt"

	"github.com/ValentinKolb/dDoc/cmd/util"
	"github.com/ValentinKolb/dDoc/lib/store"
	"github.com/VictoriaMetrics/metrics"
	"github.com/spf13/cobra"
)

// InfoCmd prints the configuration and statistics of the store
var InfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Prints configuration and statistics of the database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		withMetrics, _ := cmd.Flags().GetBool("metrics")
		out := cmd.OutOrStdout()

		return util.WithStore(func(s store.IStore) error {
			if withMetrics {
				metrics.WritePrometheus(out, false)
				return nil
			}

			if util.IsVolatile() {
				fmt.Fprintln(out, "\nSTORAGE\n  volatile (in-memory only)")
			} else {
				cfg := util.GetStoreConfig()
				fmt.Fprint(out, cfg.String())
			}

			b, err := json.MarshalIndent(s.GetDBInfo(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "\nDATABASE")
			fmt.Fprintln(out, string(b))
			return nil
		})
	},
}

func init() {
	InfoCmd.Flags().Bool("metrics", false, util.WrapString("Print the store metrics in Prometheus text format instead"))
}
