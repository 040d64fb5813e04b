package app

import (
	"context"
	"fmt"
	"time"

	"github.com/simplelicense/license-checker-go/internal/config"
	"github.com/simplelicense/license-checker-go/internal/domain"
	"github.com/simplelicense/license-checker-go/internal/logger"
	"github.com/simplelicense/license-checker-go/internal/monitor"
	"github.com/simplelicense/license-checker-go/internal/storage"
	"github.com/simplelicense/license-checker-go/internal/watchlist"
	"github.com/simplelicense/license-checker-go/pkg/licensing"
	"github.com/simplelicense/license-checker-go/pkg/publishers"
)

// Monitor represents the license monitor runtime. It runs the check loop,
// coordinating the license API client, the monitor service and publishers,
// and owns the outcome store.
type Monitor struct {
	cfg           *config.Config
	checks        []domain.LicenseCheck
	fanout        *publishers.Fanout
	service       *monitor.Service
	checkInterval time.Duration
	log           logger.Logger
	store         storage.Store
}

// NewLicenseClient builds the SDK client from config.
func NewLicenseClient(cfg *config.Config, log logger.Logger) (*licensing.Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	opts := []licensing.Option{
		licensing.WithTimeout(cfg.APITimeout),
		licensing.WithConnectTimeout(cfg.APIConnectTimeout),
		licensing.WithUserAgent(cfg.AppName),
	}
	if log != nil {
		opts = append(opts, licensing.WithLogger(log))
	}
	client, err := licensing.NewClient(cfg.APIBaseURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("init license client: %w", err)
	}
	return client, nil
}

// NewMonitor builds a monitor runtime from config files.
func NewMonitor(ctx context.Context, cfg *config.Config, log logger.Logger) (*Monitor, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := NewLicenseClient(cfg, log)
	if err != nil {
		return nil, err
	}

	reg, err := watchlist.Load(cfg.WatchlistFile)
	if err != nil {
		return nil, fmt.Errorf("load watchlist: %w", err)
	}
	checks := reg.All()
	checkIDs := make([]string, 0, len(checks))
	for _, c := range checks {
		checkIDs = append(checkIDs, c.ID)
	}
	log.InfoObj("watchlist loaded", "watchlist_meta", map[string]any{
		"count": len(checkIDs),
		"ids":   checkIDs,
	})

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	storeOpts := storage.Options{
		OutcomeTTL:      cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	}
	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storeOpts)
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"outcome_ttl_seconds":      int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	return &Monitor{
		cfg:           cfg,
		checks:        checks,
		fanout:        fanout,
		service:       monitor.NewService(client, fanout, log, store),
		checkInterval: cfg.CheckInterval,
		log:           log,
		store:         store,
	}, nil
}

// Run starts the check loop until the context is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	if m == nil || m.service == nil {
		return fmt.Errorf("monitor is not initialized")
	}
	defer m.close()

	m.log.InfoObj("monitor loop starting", "monitor_state", map[string]any{
		"checks_count":     len(m.checks),
		"publishers_count": m.fanout.Size(),
		"check_interval":   m.checkInterval.String(),
	})

	if err := m.runOnce(ctx); err != nil {
		m.log.ErrorObj("initial check pass failed", "error", err)
	}

	ticker := time.NewTicker(m.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.InfoObj("monitor loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := m.runOnce(ctx); err != nil {
				m.log.ErrorObj("scheduled check pass failed", "error", err)
			}
		}
	}
}

// runOnce performs a single pass across all checks.
func (m *Monitor) runOnce(ctx context.Context) error {
	start := time.Now()
	m.log.InfoObj("check pass started", "pass_meta", map[string]any{
		"checks_count": len(m.checks),
		"started_at":   start.UTC(),
	})
	if err := m.service.Run(ctx, m.checks); err != nil {
		return err
	}
	m.log.InfoObj("check pass completed", "pass_meta", map[string]any{
		"checks_count": len(m.checks),
		"elapsed_ms":   time.Since(start).Milliseconds(),
	})
	return nil
}

// close releases the store and publisher clients, logging any errors encountered.
func (m *Monitor) close() {
	if m == nil {
		return
	}
	if m.store != nil {
		if err := m.store.Close(); err != nil {
			m.log.ErrorObj("storage close failed", "error", err)
		}
	}
	if err := m.fanout.Close(); err != nil {
		m.log.ErrorObj("publisher close failed", "error", err)
	}
}
