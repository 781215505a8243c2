package commands

import (
	"errors"
	"fmt"

	"github.com/dgallion1/docchunk/internal/collection"
	"github.com/dgallion1/docchunk/internal/storage"
	"github.com/spf13/cobra"
)

func (a *app) openStore(cmd *cobra.Command) (storage.Store, error) {
	s, err := storage.Open(cmd.Context(), a.cfg.Store.DSN, a.cfg.Store.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	backend, _ := storage.ParseDSN(a.cfg.Store.DSN)
	a.log.Debug("opened store", "backend", backend, "sqlite_build", storage.BuildMode)
	return s, nil
}

func newStoreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "store [collection.json]",
		Short: "Validate a chunk collection and upsert its metadata into the store",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := a.cfg.Output
			if len(args) == 1 {
				input = args[0]
			}

			c, err := collection.ReadFile(input)
			if err != nil {
				var verr *collection.ValidationError
				if errors.As(err, &verr) {
					for _, p := range verr.Problems {
						fmt.Fprintln(cmd.ErrOrStderr(), warnColor("  - "+p))
					}
				}
				return err
			}

			s, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			n, err := s.UpsertChunks(cmd.Context(), c.Chunks)
			if err != nil {
				return err
			}
			total, err := s.Count(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, headerColor("Store complete"))
			printField(out, "Upserted", successColor(n))
			printField(out, "Total records", total)
			return nil
		},
	}
}

func newCountCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of stored chunk records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			n, err := s.Count(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}

func newLookupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <chunk_id>",
		Short: "Print one stored chunk record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			rec, err := s.GetChunk(cmd.Context(), args[0])
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("chunk %q not found", args[0])
			}
			if err != nil {
				return err
			}
			printRecord(cmd.OutOrStdout(), rec)
			return nil
		},
	}
}

func newSourceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "source <path>",
		Short: "List the stored chunks of one source document in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			records, err := s.ListBySource(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, warnColor("no chunks for "+args[0]))
				return nil
			}
			for i := range records {
				printRecord(out, &records[i])
			}
			return nil
		},
	}
}
