package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sandeepkv93/tasklist/internal/codec"
	"github.com/spf13/cobra"
)

func (a *app) exportCmd() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all tasks to a JSON file",
		Long:  "Write all tasks to a pretty-printed JSON file. Use --out - for stdout.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd, func(_ context.Context, s *session, out io.Writer) error {
				body, err := codec.Export(s.store.Tasks())
				if err != nil {
					return err
				}
				if outPath == "-" {
					_, err = out.Write(body)
					return err
				}
				path := outPath
				if path == "" {
					path = filepath.Join(s.cfg.ExportDir, codec.ExportFilename(time.Now()))
				}
				if err := os.WriteFile(path, body, 0o644); err != nil {
					return fmt.Errorf("export: %w", err)
				}
				fmt.Fprintf(out, "exported %d tasks to %s\n", s.store.Len(), path)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <export_dir>/tasks-<date>.json)")
	return cmd
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Add the new tasks from an exported JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			return a.withStore(cmd, func(ctx context.Context, s *session, out io.Writer) error {
				res, err := s.store.Import(ctx, doc)
				if err != nil && len(res.Accepted) == 0 {
					return err
				}
				fmt.Fprintln(out, res.Summary())
				return saveWarning(err)
			})
		},
	}
}
