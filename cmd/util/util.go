package util

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ValentinKolb/dDoc/lib/common"
	"github.com/ValentinKolb/dDoc/lib/db"
	"github.com/ValentinKolb/dDoc/lib/db/engines/maple"
	"github.com/ValentinKolb/dDoc/lib/document"
	"github.com/ValentinKolb/dDoc/lib/snapshot"
	"github.com/ValentinKolb/dDoc/lib/store"
	"github.com/ValentinKolb/dDoc/lib/store/fstore"
	"github.com/ValentinKolb/dDoc/lib/store/lstore"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// --------------------------------------------------------------------------
// Configuration
// --------------------------------------------------------------------------

// SetupStoreFlags adds the flags describing the store to a command
func SetupStoreFlags(cmd *cobra.Command) {
	key := "db"
	cmd.PersistentFlags().String(key, common.DefaultPath, WrapString("Path of the snapshot file. The write-ahead log is kept next to it with the extension .wal"))

	key = "log-level"
	cmd.PersistentFlags().String(key, common.DefaultLogLevel, WrapString("Level at which logs are written to stderr (debug, info, warn, error)"))

	key = "snapshot-format"
	cmd.PersistentFlags().String(key, string(snapshot.FormatJSONPretty), WrapString("Encoding of the snapshot file (json, json-pretty)"))

	key = "snapshot-interval"
	cmd.PersistentFlags().Int(key, common.DefaultSnapshotInterval, WrapString("Persist the snapshot after every n mutations"))

	key = "sync"
	cmd.PersistentFlags().Bool(key, true, WrapString("Fsync every write-ahead log record"))

	key = "volatile"
	cmd.PersistentFlags().Bool(key, false, WrapString("Use an in-memory store that is discarded on exit (ignores all file settings)"))
}

// InitConfig initializes configuration from environment variables and .env files
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("ddoc")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// GetStoreConfig reads the store configuration from viper
func GetStoreConfig() common.StoreConfig {
	cfg := common.DefaultStoreConfig(viper.GetString("db"))
	cfg.SnapshotFormat = snapshot.Format(viper.GetString("snapshot-format"))
	cfg.SnapshotInterval = viper.GetInt("snapshot-interval")
	cfg.SyncWrites = viper.GetBool("sync")
	cfg.LogLevel = viper.GetString("log-level")
	return cfg
}

// IsVolatile reports whether the in-memory store was requested
func IsVolatile() bool {
	return viper.GetBool("volatile")
}

// --------------------------------------------------------------------------
// Store handling
// --------------------------------------------------------------------------

// OpenStore opens the store described by the current configuration
func OpenStore() (store.IStore, error) {
	cfg := GetStoreConfig()
	if err := common.InitLoggers(cfg.LogLevel); err != nil {
		return nil, err
	}

	if IsVolatile() {
		return lstore.NewLocalStore(func() db.DocDB {
			return maple.NewMapleDB(nil)
		}), nil
	}
	return fstore.Open(cfg)
}

// WithStore opens the store, runs fn and closes the store again.
// The error of fn takes precedence over the error of Close.
func WithStore(fn func(s store.IStore) error) error {
	s, err := OpenStore()
	if err != nil {
		return err
	}

	fnErr := fn(s)
	closeErr := s.Close()
	if fnErr != nil {
		return fnErr
	}
	return closeErr
}

// ParseDocumentArg parses a command line argument into a document
func ParseDocumentArg(arg string) (document.Value, error) {
	return store.ParseDocument(arg)
}

// --------------------------------------------------------------------------
// Error reporting
// --------------------------------------------------------------------------

// FormatError turns an error into a message for the user.
// Store errors get a distinct prefix per return code.
func FormatError(err error) string {
	var storeErr *store.Error
	if !errors.As(err, &storeErr) {
		return fmt.Sprintf("error: %v", err)
	}

	cause := ""
	if storeErr.Err != nil {
		cause = ": " + storeErr.Err.Error()
	}

	switch storeErr.Code {
	case store.RetCKeyNotFound:
		return fmt.Sprintf("not found: %s", storeErr.Msg)
	case store.RetCIoFailure:
		return fmt.Sprintf("i/o failure: %s%s", storeErr.Msg, cause)
	case store.RetCMalformedDocument:
		return fmt.Sprintf("invalid document: %s%s", storeErr.Msg, cause)
	case store.RetCCorruptSnapshot:
		return fmt.Sprintf("corrupt snapshot: %s%s (move the file away to start over)", storeErr.Msg, cause)
	case store.RetCInvalidOperation:
		return fmt.Sprintf("invalid operation: %s%s", storeErr.Msg, cause)
	default:
		return fmt.Sprintf("internal error: %s%s", storeErr.Msg, cause)
	}
}

// ExitCode maps an error to the exit code of the process
func ExitCode(err error) int {
	switch store.CodeOf(err) {
	case store.RetCSuccess:
		return 0
	case store.RetCKeyNotFound:
		return 2
	case store.RetCMalformedDocument, store.RetCInvalidOperation:
		return 3
	case store.RetCIoFailure, store.RetCCorruptSnapshot:
		return 4
	default:
		return 1
	}
}
