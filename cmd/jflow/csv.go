package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danhawkins/streamjson/clilog"
	"github.com/danhawkins/streamjson/connector"
	"github.com/danhawkins/streamjson/jsonwriter"
	"github.com/danhawkins/streamjson/opener"
	"github.com/danhawkins/streamjson/transform"
)

var csvCommaFlag string

func newCSVCmd(logCfg *clilog.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "csv [spec...]",
		Short: "Convert one or more CSV sources into a JSON array of objects",
		Long: "Each spec is resolved through the opener registry (a bare path, a glob, or a\n" +
			"file:// URL). All matched files are concatenated through a single\n" +
			"boundary-aware stream, so a header row repeated at the top of a later file\n" +
			"is dropped rather than emitted as a data record. Each cell is classified as\n" +
			"a JSON null, bool, number, or string before it is written, so \"30\" becomes\n" +
			"the number 30 and an empty cell becomes null rather than an empty string.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			logger, err := newLogger(logCfg)
			if err != nil {
				return err
			}

			var ops []opener.Opener
			for _, spec := range args {
				resolved, err := opener.OpenerFromSpec(spec)
				if err != nil {
					return fmt.Errorf("resolving %q: %w", spec, err)
				}
				ops = append(ops, resolved...)
			}

			comma := rune(0)
			if csvCommaFlag != "" {
				runes := []rune(csvCommaFlag)
				if len(runes) != 1 {
					return fmt.Errorf("--comma must be a single character, got %q", csvCommaFlag)
				}
				comma = runes[0]
			}

			ctx := context.Background()
			stream := connector.NewMuxReader(ctx, ops)
			defer stream.Close()

			dec := transform.NewCSVDecoder(transform.CSVDecoderOptions{Comma: comma})
			it, err := dec.Decode(ctx, stream)
			if err != nil {
				logger.Error("failed to decode csv", "error", err)
				return err
			}
			defer it.Close()

			w := jsonwriter.NewSerializingNulls(os.Stdout, jsonwriter.Options{Indent: indentFlag})
			if err := w.BeginArray(); err != nil {
				return err
			}
			records := 0
			for it.Next() {
				rec := it.Record()
				if err := w.BeginObject(); err != nil {
					return err
				}
				for _, name := range rec.Names() {
					val, _ := rec.ByName(name)
					if err := w.Name(name); err != nil {
						return err
					}
					if err := w.JSONValue(val); err != nil {
						return err
					}
				}
				if err := w.EndObject(); err != nil {
					return err
				}
				records++
			}
			if err := it.Err(); err != nil {
				logger.Error("failed while reading csv records", "error", err)
				return err
			}
			if err := w.EndArray(); err != nil {
				return err
			}
			if err := w.Close(); err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout)
			logger.Info("converted csv to json", "records", records, "sources", len(ops))
			return nil
		},
	}
	cmd.Flags().StringVar(&csvCommaFlag, "comma", "", "field delimiter, defaults to comma")
	cmd.Flags().StringVar(&indentFlag, "indent", "  ", "indent string, empty for compact output")
	return cmd
}
