package commands

import (
	"fmt"

	"github.com/dgallion1/docchunk/internal/pipeline"
	"github.com/dgallion1/docchunk/internal/storage"
	"github.com/spf13/cobra"
)

func newIngestCmd(a *app) *cobra.Command {
	var store bool

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Chunk every document under the docs dir and write the collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var st storage.Store
			if store {
				s, err := storage.Open(ctx, a.cfg.Store.DSN, a.cfg.Store.BatchSize)
				if err != nil {
					return fmt.Errorf("open store: %w", err)
				}
				defer s.Close()
				st = s
			}

			res, err := pipeline.NewOrchestrator(a.cfg, a.log).Ingest(ctx, a.cfg.Output, st)
			if err != nil {
				return err
			}

			printIngestSummary(cmd.OutOrStdout(), res, store)
			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVar(&store, "store", false, "also upsert chunk metadata into the store")
	f.Int("min-tokens", 400, "minimum estimated tokens before a chunk may close")
	f.Int("max-tokens", 600, "maximum estimated tokens per chunk")
	_ = a.v.BindPFlag("min_tokens", f.Lookup("min-tokens"))
	_ = a.v.BindPFlag("max_tokens", f.Lookup("max-tokens"))

	return cmd
}
