package main

import (
	"fmt"
	"io"

	"github.com/itcaat/olxscraper/internal/config"
	"github.com/itcaat/olxscraper/internal/logger"
	"github.com/itcaat/olxscraper/internal/models"
	"github.com/itcaat/olxscraper/internal/parser"
	"github.com/itcaat/olxscraper/internal/storage"
)

// run scrapes query and saves whatever was collected. Scraping problems only
// shorten the result; errors are returned for setup and output failures.
func run(stdout, stderr io.Writer, cfg config.Config, query string, pages int, format storage.Format) error {
	var logw io.Writer
	if cfg.Verbose {
		logw = stderr
	}
	lg := logger.New(logw)

	collector, err := parser.NewCollector(parser.Options{
		Origin:    cfg.Origin,
		UserAgent: cfg.UserAgent,
		MinDelay:  cfg.MinDelay,
		MaxDelay:  cfg.MaxDelay,
		Rules:     cfg.Rules,
		Out:       stdout,
		Logger:    lg.Logger,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Starting OLX scraper for '%s'\n", query)
	lg.Info("searching %s, %d page(s), format %s", collector.SearchURL(query), pages, format)

	listings := collector.Collect(query, pages)
	if len(listings) == 0 {
		lg.Warn("no listings collected for %q", query)
		fmt.Fprintln(stdout, "No listings found.")
		fmt.Fprintln(stdout, "Scraping complete!")
		return nil
	}

	if _, err := storage.Save(stdout, cfg.OutputDir, query, format, listings); err != nil {
		lg.Error("saving %d listings to %s: %v", len(listings), cfg.OutputDir, err)
		return err
	}

	if cfg.ArchiveDSN != "" {
		if err := archiveRun(lg, cfg.ArchiveDSN, query, listings); err != nil {
			return err
		}
	}

	fmt.Fprintln(stdout, "Scraping complete!")
	return nil
}

func archiveRun(lg *logger.Logger, dsn, query string, listings []models.Listing) error {
	archive, err := storage.OpenArchive(dsn)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer archive.Close()

	runID, err := archive.Store(query, listings)
	if err != nil {
		return err
	}

	lg.Info("archived %d listings to %s as run %s", len(listings), dsn, runID)
	return nil
}
