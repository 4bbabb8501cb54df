package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/Tiliavir/rileva/internal/aggregate"
	"github.com/Tiliavir/rileva/internal/asset"
	"github.com/Tiliavir/rileva/internal/catalog"
	"github.com/Tiliavir/rileva/internal/config"
	"github.com/Tiliavir/rileva/internal/holiday"
	"github.com/Tiliavir/rileva/internal/log"
	"github.com/Tiliavir/rileva/internal/model"
	"github.com/Tiliavir/rileva/internal/report"
	"github.com/Tiliavir/rileva/internal/storage"
	"github.com/Tiliavir/rileva/internal/units"
	"github.com/Tiliavir/rileva/internal/workbook"
)

// app is the wired dependency graph shared by every command.
type app struct {
	cfg    config.Config
	logger log.Logger
	store  *storage.Store
	cal    *holiday.Calendar
	engine *workbook.Engine
	svc    *report.Service
}

// mustApp wires the application or exits: 1 for a broken config, 2 for
// storage failures.
func mustApp(ctx context.Context) *app {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	a, err := newApp(ctx, cfg)
	if err != nil {
		fail(err)
	}
	return a
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	store, err := storage.Open(cfg.DataDir, cfg.Storage.HistoryLimit)
	if err != nil {
		return nil, err
	}
	cal, err := holiday.New(store)
	if err != nil {
		return nil, err
	}
	added, err := cal.Seed(cfg.Holidays.SeedFrom, cfg.Holidays.SeedTo)
	if err != nil {
		return nil, err
	}
	if added > 0 {
		logger.Debugf(ctx, "seeded %d public holidays for %d-%d", added, cfg.Holidays.SeedFrom, cfg.Holidays.SeedTo)
	}

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}
	memo, err := aggregate.NewMemo(cfg.Aggregate.MemoSize)
	if err != nil {
		return nil, err
	}

	layout := workbook.DefaultLayout(cat)
	layout.ClearScanLimit = cfg.Export.ClearScanLimit
	engine, err := workbook.NewEngine(templateSource(ctx, cfg, logger), workbook.Options{
		Layout:     layout,
		Normalizer: units.Normalizer{Heuristic: cfg.Export.UnitHeuristic},
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	svc := report.New(store, cal, engine, report.Options{
		Catalog:      &cat,
		Memo:         memo,
		Logger:       logger,
		DefaultName:  cfg.Employee.Name,
		DefaultAdmin: cfg.Employee.AdminEmail,
	})
	return &app{cfg: cfg, logger: logger, store: store, cal: cal, engine: engine, svc: svc}, nil
}

// templateSource prefers the configured URL over the local file and wraps
// either in the retry policy.
func templateSource(ctx context.Context, cfg config.Config, logger log.Logger) asset.Source {
	var src asset.Source = asset.FileSource{Path: cfg.Template.Path}
	if cfg.Template.URL != "" {
		src = asset.NewHTTPSource(ctx, cfg.Template.URL, asset.OAuth{
			TokenURL:     cfg.Template.OAuth.TokenURL,
			ClientID:     cfg.Template.OAuth.ClientID,
			ClientSecret: cfg.Template.OAuth.ClientSecret,
			Scopes:       cfg.Template.OAuth.Scopes,
		}, nil)
	}
	return &asset.Retrying{
		Source:   src,
		Attempts: cfg.Template.Attempts,
		Timeout:  cfg.Template.Timeout,
		Backoff:  cfg.Template.Backoff,
		Limiter:  asset.NewLimiter(cfg.Template.RatePerSec),
		Logger:   logger,
	}
}

// month resolves the --month flag, falling back to the selected month.
func (a *app) month() model.MonthKey {
	if monthFlag != "" {
		m, err := model.ParseMonthKey(monthFlag)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return m
	}
	m, err := a.svc.CurrentMonth()
	if err != nil {
		fail(err)
	}
	return m
}

// fail prints an actionable message and exits 1 for input problems, 2 for
// storage and I/O failures.
func fail(err error) {
	fmt.Fprintln(os.Stderr, report.Explain(err))
	if report.IsUsageError(err) {
		os.Exit(1)
	}
	os.Exit(2)
}
