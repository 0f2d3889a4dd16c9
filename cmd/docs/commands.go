package docs

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ValentinKolb/dDoc/cmd/util"
	"github.com/ValentinKolb/dDoc/lib/document"
	"github.com/ValentinKolb/dDoc/lib/store"
	"github.com/spf13/cobra"
)

// Commands are the document commands, added directly to the root command
var Commands = []*cobra.Command{
	insertCmd,
	getCmd,
	deleteCmd,
	listCmd,
	clearCmd,
	checkpointCmd,
}

var (
	insertCmd = &cobra.Command{
		Use:   "insert [collection] [id] [json]",
		Short: "Inserts or overwrites a document",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := util.ParseDocumentArg(args[2])
			if err != nil {
				return err
			}
			return util.WithStore(func(s store.IStore) error {
				if err := s.Insert(args[0], args[1], doc); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "inserted successfully")
				return nil
			})
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [collection] [id]",
		Short: "Prints a document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pretty, _ := cmd.Flags().GetBool("pretty")
			return util.WithStore(func(s store.IStore) error {
				doc, ok := s.Get(args[0], args[1])
				if !ok {
					return store.KeyNotFound(args[0], args[1])
				}
				return printDocument(cmd.OutOrStdout(), doc, pretty)
			})
		},
	}
	deleteCmd = &cobra.Command{
		Use:   "delete [collection] [id]",
		Short: "Deletes a document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return util.WithStore(func(s store.IStore) error {
				if err := s.Delete(args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "deleted successfully")
				return nil
			})
		},
	}
	listCmd = &cobra.Command{
		Use:   "list [collection]",
		Short: "Lists the documents of a collection, or all collections if none is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return util.WithStore(func(s store.IStore) error {
				out := cmd.OutOrStdout()
				if len(args) == 0 {
					for _, name := range s.Collections() {
						fmt.Fprintln(out, name)
					}
					return nil
				}
				for _, entry := range s.List(args[0]) {
					fmt.Fprintf(out, "%s\t%s\n", entry.ID, entry.Document)
				}
				return nil
			})
		},
	}
	clearCmd = &cobra.Command{
		Use:   "clear [collection]",
		Short: "Removes all documents of a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return util.WithStore(func(s store.IStore) error {
				if err := s.Clear(args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "cleared successfully")
				return nil
			})
		},
	}
	checkpointCmd = &cobra.Command{
		Use:   "checkpoint",
		Short: "Writes the snapshot and empties the write-ahead log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return util.WithStore(func(s store.IStore) error {
				cp, ok := s.(store.Checkpointer)
				if !ok {
					return store.NewError(store.RetCInvalidOperation, "store does not support checkpoints")
				}
				if err := cp.Checkpoint(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "checkpoint written")
				return nil
			})
		},
	}
)

func init() {
	getCmd.Flags().Bool("pretty", false, util.WrapString("Indent the printed document"))
}

// printDocument writes doc as compact or indented json
func printDocument(w io.Writer, doc document.Value, pretty bool) error {
	if !pretty {
		_, err := fmt.Fprintln(w, doc)
		return err
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
