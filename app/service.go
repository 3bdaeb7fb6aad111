package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/kilianp07/foundry/config"
	"github.com/kilianp07/foundry/core/economy"
	"github.com/kilianp07/foundry/core/evaluator"
	coremetrics "github.com/kilianp07/foundry/core/metrics"
	"github.com/kilianp07/foundry/core/monitoring"
	"github.com/kilianp07/foundry/core/results"
	"github.com/kilianp07/foundry/core/search"
	"github.com/kilianp07/foundry/infra/blueprint"
	"github.com/kilianp07/foundry/infra/logger"
	"github.com/kilianp07/foundry/infra/metrics"
	inframon "github.com/kilianp07/foundry/infra/monitoring"
	"github.com/kilianp07/foundry/infra/store"
	"github.com/kilianp07/foundry/internal/eventbus"
)

// busBuffer leaves room for two events per instance on large inputs.
const busBuffer = 1024

// Service wires configuration, sinks, the event bus and the result store
// around one evaluator.
type Service struct {
	cfg       *config.Config
	log       logger.Logger
	bus       *eventbus.Bus
	sink      coremetrics.Sink
	store     results.Store
	evaluator *evaluator.Evaluator
	collected <-chan struct{}
	cancel    context.CancelFunc
}

// New creates a Service from the configuration. Metric sinks and the
// Prometheus endpoint start immediately.
func New(cfg *config.Config) (*Service, error) {
	if err := logger.Configure(logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format}); err != nil {
		return nil, err
	}
	logg := logger.New("service")

	mon, err := inframon.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	monitoring.Init(mon)

	sink, err := coremetrics.NewSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	st, err := OpenStore(cfg.Store)
	if err != nil {
		closeSink(sink)
		return nil, fmt.Errorf("result store: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	bus := eventbus.NewTypedBuffered[eventbus.Event](busBuffer)
	svc := &Service{
		cfg:       cfg,
		log:       logg,
		bus:       bus,
		sink:      sink,
		store:     st,
		collected: metrics.StartEventCollector(ctx, bus, sink),
		cancel:    cancel,
	}

	engine := search.New(search.Options{
		Horizon: cfg.Search.Horizon,
		Policy:  cfg.Search.Policy(),
		Budget:  cfg.Search.Budget(),
		Logger:  logger.New("search"),
	})
	opts := []evaluator.Option{evaluator.WithBus(bus), evaluator.WithLogger(logger.New("evaluator"))}
	if cfg.Search.Workers > 0 {
		opts = append(opts, evaluator.WithWorkers(cfg.Search.Workers))
	}
	svc.evaluator = evaluator.New(engine, opts...)

	if addr := cfg.Metrics.PrometheusAddr; addr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				logg.Errorf("prom server: %v", err)
			}
		}()
	}
	return svc, nil
}

// OpenStore returns the configured result store, or nil for the none backend.
func OpenStore(cfg config.StoreConfig) (results.Store, error) {
	switch cfg.Backend {
	case config.StoreSQLite:
		st, err := store.NewSQLiteStore(cfg.Path)
		if err != nil {
			return nil, err
		}
		return st, nil
	case config.StoreMemory:
		return results.NewMemoryStore(), nil
	case "", config.StoreNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown backend %s", cfg.Backend)
	}
}

// LoadEconomies reads the configured input file.
func (s *Service) LoadEconomies() ([]*economy.Economy, error) {
	if s.cfg.Input.Path == "" {
		return nil, errors.New("no input path configured")
	}
	return blueprint.Load(s.cfg.Input.Path, s.cfg.Input.Format)
}

// Evaluate runs the configured request over economies and stores the report.
// A failed save is logged and does not discard the report.
func (s *Service) Evaluate(ctx context.Context, economies []*economy.Economy) (evaluator.Report, error) {
	req := s.cfg.Search.Request()
	rep, err := s.evaluator.Evaluate(ctx, economies, req)
	if err != nil {
		// Input mistakes are reported to the user, not the error tracker.
		if !errors.Is(err, economy.ErrConfig) && !errors.Is(err, evaluator.ErrMode) {
			monitoring.CaptureException(err, map[string]string{
				"mode":    string(req.Mode),
				"horizon": strconv.Itoa(s.cfg.Search.Horizon),
			})
		}
		return rep, err
	}
	if s.store != nil {
		if err := s.store.Save(rep); err != nil {
			s.log.Errorf("save run %s: %v", rep.RunID, err)
		}
	}
	return rep, nil
}

// Store returns the result store, nil when storage is disabled.
func (s *Service) Store() results.Store { return s.store }

// Close flushes pending events to the sinks and releases connections.
func (s *Service) Close() error {
	s.bus.Close()
	<-s.collected
	s.cancel()
	monitoring.Flush(2 * time.Second)
	var errs []error
	if c, ok := s.sink.(coremetrics.Closer); ok {
		errs = append(errs, c.Close())
	}
	if c, ok := s.store.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

func closeSink(sink coremetrics.Sink) {
	if c, ok := sink.(coremetrics.Closer); ok {
		_ = c.Close()
	}
}
