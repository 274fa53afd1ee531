package main

import (
	"fmt"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/enrich"
	"github.com/sells-group/leadgen-cli/internal/fetch"
	"github.com/sells-group/leadgen-cli/internal/store"
	"github.com/sells-group/leadgen-cli/pkg/anthropic"
)

var (
	enrichFile    string
	enrichWorkers int
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich workbook businesses with emails and social links",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		wb := store.NewWorkbook(enrichFile)
		recs, err := wb.Load()
		if err != nil {
			return eris.Wrap(err, "enrich: load workbook")
		}
		if len(recs) == 0 {
			return eris.Errorf("enrich: workbook %s has no records", enrichFile)
		}

		fetcher := fetch.NewBrowserFetcher(
			fetch.WithTimeout(time.Duration(cfg.Fetch.TimeoutSecs)*time.Second),
			fetch.WithUserAgent(cfg.Fetch.UserAgent),
		)
		resolver := enrich.NewDisambiguator(anthropic.NewClient(cfg.Anthropic.Key), cfg.Anthropic)
		enricher := enrich.NewEnricher(fetcher, resolver)

		workers := cfg.Batch.Workers
		if enrichWorkers > 0 {
			workers = enrichWorkers
		}

		progress := make(chan enrich.Progress, cfg.Batch.ProgressBuffer)
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ev := range progress {
				fmt.Printf("[%d/%d] %s\n", ev.Index+1, ev.Total, ev.Name)
			}
		}()

		processor := enrich.NewProcessor(enricher,
			enrich.WithSaver(wb),
			enrich.WithProgress(progress),
			enrich.WithWorkers(workers),
		)

		err = processor.Process(ctx, recs)
		close(progress)
		wg.Wait()
		if err != nil {
			return err
		}

		zap.L().Info("enrich: workbook updated", zap.String("file", enrichFile))
		fmt.Printf("Done. Results written to %s\n", enrichFile)
		return nil
	},
}

func init() {
	enrichCmd.Flags().StringVar(&enrichFile, "file", "leads.xlsx", "workbook to enrich in place")
	enrichCmd.Flags().IntVar(&enrichWorkers, "workers", 0, "parallel records (default from config)")
	rootCmd.AddCommand(enrichCmd)
}
