// Command jflow validates, formats, and transcodes JSON documents with
// the jsonreader and jsonwriter packages, and converts CSV to JSON.
package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/danhawkins/streamjson/clilog"
	"github.com/danhawkins/streamjson/jsonreader"
	"github.com/danhawkins/streamjson/jsonwriter"
)

func main() {
	logCfg := clilog.NewConfig()

	rootCmd := &cobra.Command{
		Use:           "jflow",
		Short:         "Validate, format, transcode, and convert JSON and CSV documents",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	logCfg.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		newValidateCmd(logCfg),
		newFormatCmd(logCfg),
		newTranscodeCmd(logCfg),
		newCSVCmd(logCfg),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func newLogger(cfg *clilog.Config) (*slog.Logger, error) {
	h, err := cfg.NewHandler(os.Stderr)
	if err != nil {
		return nil, err
	}
	return slog.New(h), nil
}

func readInput(arg string) ([]byte, error) {
	if arg == "" || arg == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(arg)
}

var lenientFlag bool
var indentFlag string

func newValidateCmd(logCfg *clilog.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Report whether a document is well-formed JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			logger, err := newLogger(logCfg)
			if err != nil {
				return err
			}
			arg := ""
			if len(args) > 0 {
				arg = args[0]
			}
			data, err := readInput(arg)
			if err != nil {
				return err
			}
			r := jsonreader.New(bytes.NewReader(data), jsonreader.Options{Lenient: lenientFlag})
			if _, err := r.ReadValue(); err != nil {
				logger.Error("document is invalid", "error", err)
				return err
			}
			if _, err := r.Peek(); err != nil {
				logger.Error("trailing content after document", "error", err)
				return err
			}
			if err := r.Close(); err != nil {
				logger.Error("document is incomplete", "error", err)
				return err
			}
			logger.Info("document is valid")
			return nil
		},
	}
	cmd.Flags().BoolVar(&lenientFlag, "lenient", false, "accept non-standard JSON extensions")
	return cmd
}

func newFormatCmd(logCfg *clilog.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "format [file]",
		Short: "Re-emit a document with normalized indentation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			logger, err := newLogger(logCfg)
			if err != nil {
				return err
			}
			arg := ""
			if len(args) > 0 {
				arg = args[0]
			}
			data, err := readInput(arg)
			if err != nil {
				return err
			}
			r := jsonreader.New(bytes.NewReader(data), jsonreader.Options{Lenient: lenientFlag})
			val, err := r.ReadValue()
			if err != nil {
				logger.Error("failed to parse document", "error", err)
				return err
			}
			w := jsonwriter.NewSerializingNulls(os.Stdout, jsonwriter.Options{Indent: indentFlag})
			if err := w.JSONValue(val); err != nil {
				return err
			}
			if err := w.Close(); err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout)
			return nil
		},
	}
	cmd.Flags().BoolVar(&lenientFlag, "lenient", false, "accept non-standard JSON extensions")
	cmd.Flags().StringVar(&indentFlag, "indent", "  ", "indent string, empty for compact output")
	return cmd
}

func newTranscodeCmd(logCfg *clilog.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcode [file]",
		Short: "Round-trip a document, rejecting duplicate object keys",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			logger, err := newLogger(logCfg)
			if err != nil {
				return err
			}
			arg := ""
			if len(args) > 0 {
				arg = args[0]
			}
			data, err := readInput(arg)
			if err != nil {
				return err
			}
			r := jsonreader.New(bytes.NewReader(data), jsonreader.Options{Lenient: lenientFlag})
			val, err := r.ReadValue()
			if err != nil {
				logger.Error("failed to parse document", "error", err)
				return err
			}
			w := jsonwriter.NewSerializingNulls(os.Stdout, jsonwriter.Options{Indent: indentFlag})
			if err := w.JSONValue(val); err != nil {
				return err
			}
			if err := w.Close(); err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout)
			return nil
		},
	}
	cmd.Flags().BoolVar(&lenientFlag, "lenient", false, "accept non-standard JSON extensions")
	cmd.Flags().StringVar(&indentFlag, "indent", "  ", "indent string, empty for compact output")
	return cmd
}
