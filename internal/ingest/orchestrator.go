// Package ingest loads POS sales exports into the sales repository, one
// idempotent batch per snapshot date.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/shopops/opsdash/backend-go/internal/domain"
	"github.com/shopops/opsdash/backend-go/internal/repository"
)

type Config struct {
	WorkerCount int
}

// Orchestrator groups sales export files by snapshot date and replaces each
// date's records in one pass, so re-running an ingest never double-counts.
type Orchestrator struct {
	sales repository.SalesRepository
	cfg   Config
}

func NewOrchestrator(sales repository.SalesRepository, cfg Config) *Orchestrator {
	return &Orchestrator{sales: sales, cfg: cfg}
}

// RunDir ingests every CSV directly under dir.
func (o *Orchestrator) RunDir(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed reading %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}

	return o.Run(ctx, files)
}

// Run ingests the given files grouped by snapshot date.
func (o *Orchestrator) Run(ctx context.Context, files []string) error {
	if len(files) == 0 {
		return nil
	}

	byDate := make(map[time.Time][]string)
	for _, f := range files {
		date, err := SnapshotDate(f)
		if err != nil {
			return err
		}
		byDate[date] = append(byDate[date], f)
	}

	dates := make([]time.Time, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	for _, date := range dates {
		if err := o.processBatch(ctx, date, byDate[date]); err != nil {
			return fmt.Errorf("failed to process batch for %s: %w", date.Format("2006-01-02"), err)
		}
	}

	return nil
}

func (o *Orchestrator) processBatch(ctx context.Context, date time.Time, files []string) error {
	log.Info().
		Str("date", date.Format("2006-01-02")).
		Int("files", len(files)).
		Msg("ingest: starting batch")

	records, err := o.parseParallel(ctx, date, files)
	if err != nil {
		return err
	}

	// Replace-then-insert keeps the batch idempotent per date.
	if err := o.sales.DeleteSalesForDate(ctx, date); err != nil {
		return fmt.Errorf("failed clearing existing records: %w", err)
	}
	if err := o.sales.SaveSales(ctx, records); err != nil {
		return fmt.Errorf("failed saving records: %w", err)
	}

	log.Info().
		Str("date", date.Format("2006-01-02")).
		Int("rows", len(records)).
		Msg("ingest: batch completed")

	return nil
}

func (o *Orchestrator) parseParallel(ctx context.Context, date time.Time, files []string) ([]domain.SalesRecord, error) {
	workerCount := o.cfg.WorkerCount
	if workerCount < 1 {
		workerCount = 1
	}

	jobChan := make(chan string, len(files))
	errChan := make(chan error, workerCount)
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	byFile := make(map[string][]domain.SalesRecord, len(files))

	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobChan {
				records, err := ParseSalesCSV(path, date)
				if err != nil {
					log.Error().Err(err).Str("file", path).Msg("ingest: parse failed")
					select {
					case errChan <- err:
					default:
					}
					continue
				}
				mu.Lock()
				byFile[path] = records
				mu.Unlock()
			}
		}()
	}

	for _, path := range files {
		select {
		case <-ctx.Done():
			close(jobChan)
			return nil, ctx.Err()
		case jobChan <- path:
		}
	}
	close(jobChan)

	wg.Wait()
	close(errChan)

	if err := <-errChan; err != nil {
		return nil, err
	}

	// Stable order regardless of worker scheduling.
	var all []domain.SalesRecord
	for _, path := range files {
		all = append(all, byFile[path]...)
	}
	return all, nil
}
