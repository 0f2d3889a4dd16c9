package perf

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ValentinKolb/dDoc/cmd/util"
	"github.com/ValentinKolb/dDoc/lib/document"
	"github.com/ValentinKolb/dDoc/lib/store"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const perfCollection = "__perf"

// perfConfig holds the parameters of a perf run
type perfConfig struct {
	Ops            int      // operations per test
	Threads        int      // concurrent workers
	Keys           int      // distinct document ids
	LargeFields    int      // fields of the document used by insert-large
	Skip           []string // tests to skip
	CSVPath        string   // optional csv output
	KeepCollection bool     // do not clear the perf collection afterwards
}

// perfTest is a single named benchmark
type perfTest struct {
	name    string
	prepare func(s store.IStore, cfg perfConfig) error
	op      func(s store.IStore, cfg perfConfig, i int) error
}

var (
	PerfCmd = &cobra.Command{
		Use:   "perf",
		Short: "Measures the latency of store operations",
		Long: util.WrapString("Runs inserts, reads, lists and deletes against the configured store " +
			"(use --volatile to measure the in-memory engine only) and prints latency percentiles. " +
			"All documents are written to the collection " + perfCollection + " which is cleared afterwards."),
		Args: cobra.NoArgs,
		RunE: run,
	}

	perfTests = []perfTest{
		{
			name: "insert",
			op: func(s store.IStore, cfg perfConfig, i int) error {
				return s.Insert(perfCollection, key(cfg, i), sampleDocument(i))
			},
		},
		{
			name: "insert-large",
			op: func(s store.IStore, cfg perfConfig, i int) error {
				return s.Insert(perfCollection, key(cfg, i), largeDocument(cfg.LargeFields))
			},
		},
		{
			name:    "get",
			prepare: fill,
			op: func(s store.IStore, cfg perfConfig, i int) error {
				if _, ok := s.Get(perfCollection, key(cfg, i)); !ok {
					return store.KeyNotFound(perfCollection, key(cfg, i))
				}
				return nil
			},
		},
		{
			name:    "list",
			prepare: fill,
			op: func(s store.IStore, cfg perfConfig, i int) error {
				s.List(perfCollection)
				return nil
			},
		},
		{
			name:    "delete",
			prepare: fill,
			op: func(s store.IStore, cfg perfConfig, i int) error {
				// every id is deleted once, later deletes hit a missing document
				err := s.Delete(perfCollection, key(cfg, i))
				if store.CodeOf(err) == store.RetCKeyNotFound {
					return nil
				}
				return err
			},
		},
	}
)

func init() {
	key := "ops"
	PerfCmd.Flags().Int(key, 1000, util.WrapString("Number of operations per test"))
	key = "threads"
	PerfCmd.Flags().Int(key, 4, util.WrapString("Number of concurrent workers"))
	key = "keys"
	PerfCmd.Flags().Int(key, 100, util.WrapString("How many different document ids to use"))
	key = "large-fields"
	PerfCmd.Flags().Int(key, 1000, util.WrapString("Number of fields of the document written by the insert-large test"))
	key = "skip"
	PerfCmd.Flags().String(key, "", util.WrapString("Tests to skip (comma separated, e.g. insert-large,list)"))
	key = "csv"
	PerfCmd.Flags().String(key, "", util.WrapString("Optional path to save the results as CSV"))
	key = "keep"
	PerfCmd.Flags().Bool(key, false, util.WrapString("Keep the perf collection after the run"))
}

// readConfig reads the perf parameters from viper
func readConfig(cmd *cobra.Command) (perfConfig, error) {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return perfConfig{}, err
	}

	cfg := perfConfig{
		Ops:            viper.GetInt("ops"),
		Threads:        viper.GetInt("threads"),
		Keys:           viper.GetInt("keys"),
		LargeFields:    viper.GetInt("large-fields"),
		CSVPath:        viper.GetString("csv"),
		KeepCollection: viper.GetBool("keep"),
	}
	if skip := viper.GetString("skip"); skip != "" {
		cfg.Skip = strings.Split(skip, ",")
	}
	if cfg.Ops < 1 || cfg.Threads < 1 || cfg.Keys < 1 {
		return perfConfig{}, fmt.Errorf("ops, threads and keys must be positive")
	}
	return cfg, nil
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := readConfig(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	return util.WithStore(func(s store.IStore) error {
		if util.IsVolatile() {
			fmt.Fprintln(out, "store: volatile")
		} else {
			storeCfg := util.GetStoreConfig()
			fmt.Fprint(out, storeCfg.String())
		}
		fmt.Fprintf(out, "\nops=%d threads=%d keys=%d\n\n", cfg.Ops, cfg.Threads, cfg.Keys)

		registry := gometrics.NewRegistry()
		for _, test := range perfTests {
			if shouldSkip(cfg, test.name) {
				fmt.Fprintf(out, "%-14sskipped\n", test.name)
				continue
			}
			timer := gometrics.GetOrRegisterTimer(test.name, registry)
			if err := runTest(s, cfg, test, timer); err != nil {
				return fmt.Errorf("%s: %w", test.name, err)
			}
			printResult(out, test.name, timer)
		}

		if !cfg.KeepCollection {
			if err := s.Clear(perfCollection); err != nil {
				return err
			}
		}

		if cfg.CSVPath != "" {
			if err := writeResultsToCSV(cfg.CSVPath, cfg, registry); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nresults written to %s\n", cfg.CSVPath)
		}
		return nil
	})
}

// runTest executes cfg.Ops operations on cfg.Threads workers and records every latency in timer
func runTest(s store.IStore, cfg perfConfig, test perfTest, timer gometrics.Timer) error {
	if test.prepare != nil {
		if err := test.prepare(s, cfg); err != nil {
			return err
		}
	}

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	wg.Add(cfg.Threads)
	for w := 0; w < cfg.Threads; w++ {
		go func(worker int) {
			defer wg.Done()
			for i := worker; i < cfg.Ops; i += cfg.Threads {
				start := time.Now()
				err := test.op(s, cfg, i)
				timer.UpdateSince(start)
				if err != nil {
					errOnce.Do(func() { firstErr = err })
					return
				}
			}
		}(w)
	}
	wg.Wait()
	return firstErr
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(cfg perfConfig, test string) bool {
	for _, skip := range cfg.Skip {
		if strings.TrimSpace(skip) == test {
			return true
		}
	}
	return false
}

func key(cfg perfConfig, i int) string {
	return "doc-" + strconv.Itoa(i%cfg.Keys)
}

// fill writes one document for every id
func fill(s store.IStore, cfg perfConfig) error {
	for i := 0; i < cfg.Keys; i++ {
		if err := s.Insert(perfCollection, key(cfg, i), sampleDocument(i)); err != nil {
			return err
		}
	}
	return nil
}

func sampleDocument(i int) document.Value {
	return document.Object(map[string]document.Value{
		"n":      document.Number(float64(i)),
		"name":   document.String("document " + strconv.Itoa(i)),
		"active": document.Bool(i%2 == 0),
	})
}

func largeDocument(fields int) document.Value {
	obj := make(map[string]document.Value, fields)
	for i := 0; i < fields; i++ {
		obj["field-"+strconv.Itoa(i)] = document.String(strings.Repeat("x", 64))
	}
	return document.Object(obj)
}

// printResult prints the latency distribution of a test
func printResult(w io.Writer, test string, timer gometrics.Timer) {
	snap := timer.Snapshot()
	ps := snap.Percentiles([]float64{0.5, 0.99})
	fmt.Fprintf(w, "%-14s%8d ops  mean %-10s p50 %-10s p99 %-10s max %-10s %.0f ops/sec\n",
		test,
		snap.Count(),
		time.Duration(snap.Mean()).Round(time.Microsecond),
		time.Duration(ps[0]).Round(time.Microsecond),
		time.Duration(ps[1]).Round(time.Microsecond),
		time.Duration(snap.Max()).Round(time.Microsecond),
		opsPerSec(snap.Mean()),
	)
}

func opsPerSec(meanNs float64) float64 {
	if meanNs <= 0 {
		return 0
	}
	return 1e9 / meanNs
}

// writeResultsToCSV writes the results of all timers in registry to a CSV file
func writeResultsToCSV(csvPath string, cfg perfConfig, registry gometrics.Registry) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Test", "Count", "MeanNs", "P50Ns", "P99Ns", "MaxNs", "OpsPerSec", "Threads", "Keys"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	var rowErr error
	registry.Each(func(name string, metric interface{}) {
		timer, ok := metric.(gometrics.Timer)
		if !ok || rowErr != nil {
			return
		}
		snap := timer.Snapshot()
		ps := snap.Percentiles([]float64{0.5, 0.99})
		row := []string{
			name,
			strconv.FormatInt(snap.Count(), 10),
			fmt.Sprintf("%.0f", snap.Mean()),
			fmt.Sprintf("%.0f", ps[0]),
			fmt.Sprintf("%.0f", ps[1]),
			strconv.FormatInt(snap.Max(), 10),
			fmt.Sprintf("%.0f", opsPerSec(snap.Mean())),
			strconv.Itoa(cfg.Threads),
			strconv.Itoa(cfg.Keys),
		}
		if err := writer.Write(row); err != nil {
			rowErr = fmt.Errorf("failed to write row for test %s: %v", name, err)
		}
	})
	return rowErr
}
