package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"k8s.io/klog/v2"

	"github.com/ukaji3/kpiboard-go/internal/config"
	"github.com/ukaji3/kpiboard-go/pkg/kpiboard"
	"github.com/ukaji3/kpiboard-go/pkg/kpiboard/parser"
	"github.com/ukaji3/kpiboard-go/pkg/kpiboard/source"
)

// app is the wired set of components a command works with.
type app struct {
	cfg       config.Config
	opts      kpiboard.Options
	loader    *kpiboard.Loader
	submitter *kpiboard.Submitter
}

// selectSource picks the primary source: the Apps Script URL, then a Google
// Sheets spreadsheet, then a local workbook. The writer is nil for sources
// that cannot accept records. Both are nil when nothing is configured.
func selectSource(ctx context.Context, cfg config.Config) (source.Source, source.Writer, error) {
	switch {
	case cfg.Source.AppsScriptURL != "":
		client := &http.Client{Timeout: cfg.HTTP.Timeout}
		s := source.NewAppsScript(cfg.Source.AppsScriptURL, client)
		return s, s, nil

	case cfg.Source.Sheets.SpreadsheetID != "":
		srv, err := source.NewSheetsService(ctx, cfg.Source.Sheets.CredentialsFile)
		if err != nil {
			return nil, nil, err
		}
		s := &source.Sheets{
			Service:       srv,
			SpreadsheetID: cfg.Source.Sheets.SpreadsheetID,
			Range:         cfg.Source.Sheets.Range,
		}
		return s, s, nil

	case cfg.Source.Workbook.Path != "":
		return &source.Workbook{Path: cfg.Source.Workbook.Path, Sheet: cfg.Source.Workbook.Sheet}, nil, nil
	}
	return nil, nil, nil
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	log := klog.FromContext(ctx)

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	opts := kpiboard.Options{Title: cfg.Dashboard.Title, Location: loc, Now: time.Now}

	primary, writer, err := selectSource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("configure source: %w", err)
	}
	if primary != nil {
		log.V(1).Info("using primary source", "source", primary.Name())
	}

	fallback := source.NewSample(parser.NewSample(time.Now, loc))
	loader := kpiboard.NewLoader(primary, fallback, opts)

	delay := cfg.Submit.Delay
	if delay == 0 {
		delay = -1
	}
	submitter := &kpiboard.Submitter{Writer: writer, Delay: delay, Refresher: loader}

	return &app{cfg: cfg, opts: opts, loader: loader, submitter: submitter}, nil
}
