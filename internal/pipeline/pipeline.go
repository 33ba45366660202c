package pipeline

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/temcen/streamlens/internal/analytics"
	"github.com/temcen/streamlens/internal/config"
	"github.com/temcen/streamlens/internal/simulation"
	"github.com/temcen/streamlens/pkg/models"
)

// generatorChunkSize is the shard size for parallel catalog and population
// generation. Each chunk draws from its own source seeded per stage and
// chunk, so output is identical for any worker count.
const generatorChunkSize = 1000

// Per-stage seed offsets keep the random streams of the pipeline stages
// disjoint. Chunked stages add the chunk index on top, so offsets are
// spaced wider than any realistic chunk count.
const (
	catalogSeedOffset    int64 = 1 << 32
	populationSeedOffset int64 = 2 << 32
	provisionSeedOffset  int64 = 3 << 32
	eventSeedOffset      int64 = 4 << 32
	segmentSeedOffset    int64 = 5 << 32
)

// stageSeed derives the seed of one chunk of one stage from the run seed.
func stageSeed(seed, offset int64, chunk int) int64 {
	return seed + offset + int64(chunk)
}

// WarehouseSink loads datasets and aggregate tables into relational storage.
type WarehouseSink interface {
	LoadDataset(ctx context.Context, dataset *models.Dataset) error
	LoadAggregates(ctx context.Context, result *analytics.AggregationResult) error
}

// GraphSink loads the user-content viewing graph.
type GraphSink interface {
	LoadViewingGraph(ctx context.Context, events []models.ViewingEvent) error
}

// EventPublisher streams viewing events to downstream consumers.
type EventPublisher interface {
	PublishViewingEvents(ctx context.Context, events []models.ViewingEvent) error
}

// BundleCache stores assembled insights bundles for the API to serve.
type BundleCache interface {
	StoreBundle(ctx context.Context, runID string, bundle models.InsightsBundle) error
}

// DatasetValidator checks a generated dataset against its schemas.
type DatasetValidator interface {
	ValidateDataset(dataset *models.Dataset) error
}

// Sinks are the optional collaborators engaged after the in-memory run.
// A nil sink is skipped.
type Sinks struct {
	Warehouse WarehouseSink
	Graph     GraphSink
	Firehose  EventPublisher
	Cache     BundleCache
}

// Result is the complete outcome of one pipeline run.
type Result struct {
	RunID      string
	Dataset    *models.Dataset
	Aggregates *analytics.AggregationResult
	Bundle     models.InsightsBundle
}

// Pipeline runs the full simulation and analysis sequence: generate,
// aggregate, segment, analyze, assemble, then export and sink.
type Pipeline struct {
	cfg     config.SimulationConfig
	logger  *logrus.Logger
	metrics *Metrics

	catalog     *simulation.CatalogGenerator
	population  *simulation.PopulationGenerator
	events      *simulation.EventGenerator
	provisioner simulation.CostProvisioner

	aggregator *analytics.AggregationEngine
	segmenter  *analytics.SegmentationEngine
	temporal   *analytics.TemporalAnalyzer
	assembler  *analytics.InsightsAssembler

	validator DatasetValidator
	exporter  *Exporter
	sinks     Sinks
}

func New(cfg config.SimulationConfig, logger *logrus.Logger, metrics *Metrics) *Pipeline {
	windowStart := cfg.WindowStartTime()

	return &Pipeline{
		cfg:         cfg,
		logger:      logger,
		metrics:     metrics,
		catalog:     simulation.NewCatalogGenerator(logger),
		population:  simulation.NewPopulationGenerator(logger, windowStart),
		events:      simulation.NewEventGenerator(logger, windowStart, cfg.WindowDays),
		provisioner: simulation.NewUniformCostProvisioner(),
		aggregator:  analytics.NewAggregationEngine(logger),
		segmenter:   analytics.NewSegmentationEngine(logger).WithSegmentCount(cfg.SegmentCount),
		temporal:    analytics.NewTemporalAnalyzer(),
		assembler:   analytics.NewInsightsAssembler(logger),
	}
}

// WithProvisioner replaces the cost provisioner. A nil provisioner leaves
// catalog costs absent.
func (p *Pipeline) WithProvisioner(provisioner simulation.CostProvisioner) *Pipeline {
	p.provisioner = provisioner
	return p
}

func (p *Pipeline) WithValidator(validator DatasetValidator) *Pipeline {
	p.validator = validator
	return p
}

func (p *Pipeline) WithExporter(exporter *Exporter) *Pipeline {
	p.exporter = exporter
	return p
}

func (p *Pipeline) WithSinks(sinks Sinks) *Pipeline {
	p.sinks = sinks
	return p
}

func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	runID := uuid.New().String()
	started := time.Now()

	p.logger.WithFields(logrus.Fields{
		"run_id":   runID,
		"seed":     p.cfg.Seed,
		"contents": p.cfg.ContentCount,
		"users":    p.cfg.UserCount,
		"events":   p.cfg.EventCount,
	}).Info("Pipeline run started")

	dataset, err := p.generate(ctx)
	if err != nil {
		return nil, p.failed(err)
	}

	if p.validator != nil {
		stage := time.Now()
		if err := p.validator.ValidateDataset(dataset); err != nil {
			return nil, p.failed(fmt.Errorf("dataset validation failed: %w", err))
		}
		p.observeStage("validate", stage)
	}

	stage := time.Now()
	aggregates, err := p.aggregator.Aggregate(dataset.Events, dataset.Contents, dataset.Users)
	if err != nil {
		return nil, p.failed(err)
	}
	p.observeStage("aggregate", stage)

	stage = time.Now()
	behavior, profiles, err := p.segmenter.Segment(
		rand.New(rand.NewSource(stageSeed(p.cfg.Seed, segmentSeedOffset, 0))), aggregates.UserBehavior)
	if err != nil {
		return nil, p.failed(err)
	}
	aggregates.UserBehavior = behavior
	p.observeStage("segment", stage)

	stage = time.Now()
	hourly, daily := p.temporal.Analyze(dataset.Events)
	bundle := p.assembler.Assemble(
		p.cfg.Seed, aggregates.ContentPerformance, profiles, hourly, daily, aggregates.DeviceQuality)
	p.observeStage("assemble", stage)

	if p.exporter != nil {
		stage = time.Now()
		if err := p.exporter.Export(dataset, bundle); err != nil {
			return nil, p.failed(err)
		}
		p.observeStage("export", stage)
	}

	if err := p.runSinks(ctx, runID, dataset, aggregates, bundle); err != nil {
		return nil, p.failed(err)
	}

	p.metrics.RunsTotal.WithLabelValues("success").Inc()
	p.logger.WithFields(logrus.Fields{
		"run_id":     runID,
		"elapsed_ms": time.Since(started).Milliseconds(),
	}).Info("Pipeline run finished")

	return &Result{
		RunID:      runID,
		Dataset:    dataset,
		Aggregates: aggregates,
		Bundle:     bundle,
	}, nil
}

func (p *Pipeline) generate(ctx context.Context) (*models.Dataset, error) {
	stage := time.Now()

	catalog := generateChunked(p, catalogSeedOffset, p.cfg.ContentCount, p.catalog.GenerateBatch)
	if p.provisioner != nil {
		catalog = p.provisioner.Provision(
			rand.New(rand.NewSource(stageSeed(p.cfg.Seed, provisionSeedOffset, 0))), catalog)
	}
	p.metrics.EntitiesGenerated.WithLabelValues("content").Add(float64(len(catalog)))

	population := generateChunked(p, populationSeedOffset, p.cfg.UserCount, p.population.GenerateBatch)
	p.metrics.EntitiesGenerated.WithLabelValues("user").Add(float64(len(population)))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	events, err := p.events.Generate(
		rand.New(rand.NewSource(stageSeed(p.cfg.Seed, eventSeedOffset, 0))), catalog, population, p.cfg.EventCount)
	if err != nil {
		return nil, err
	}
	p.metrics.EntitiesGenerated.WithLabelValues("event").Add(float64(len(events)))

	p.observeStage("generate", stage)

	return &models.Dataset{Contents: catalog, Users: population, Events: events}, nil
}

// generateChunked fans generation chunks over a worker pool and gathers the
// results in chunk order.
func generateChunked[T any](p *Pipeline, seedOffset int64, total int, fn func(r *rand.Rand, offset, count int) []T) []T {
	chunks := (total + generatorChunkSize - 1) / generatorChunkSize
	parts := make([][]T, chunks)

	workers := p.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > chunks {
		workers = chunks
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for chunk := range jobs {
				offset := chunk * generatorChunkSize
				count := generatorChunkSize
				if offset+count > total {
					count = total - offset
				}
				r := rand.New(rand.NewSource(stageSeed(p.cfg.Seed, seedOffset, chunk)))
				parts[chunk] = fn(r, offset, count)
			}
		}()
	}
	for chunk := 0; chunk < chunks; chunk++ {
		jobs <- chunk
	}
	close(jobs)
	wg.Wait()

	out := make([]T, 0, total)
	for _, part := range parts {
		out = append(out, part...)
	}
	return out
}

func (p *Pipeline) runSinks(ctx context.Context, runID string, dataset *models.Dataset, aggregates *analytics.AggregationResult, bundle models.InsightsBundle) error {
	if p.sinks.Warehouse != nil {
		stage := time.Now()
		if err := p.sinks.Warehouse.LoadDataset(ctx, dataset); err != nil {
			return fmt.Errorf("warehouse dataset load failed: %w", err)
		}
		if err := p.sinks.Warehouse.LoadAggregates(ctx, aggregates); err != nil {
			return fmt.Errorf("warehouse aggregate load failed: %w", err)
		}
		p.observeStage("warehouse", stage)
	}

	if p.sinks.Graph != nil {
		stage := time.Now()
		if err := p.sinks.Graph.LoadViewingGraph(ctx, dataset.Events); err != nil {
			return fmt.Errorf("graph load failed: %w", err)
		}
		p.observeStage("graph", stage)
	}

	if p.sinks.Firehose != nil {
		stage := time.Now()
		publishCtx := ctx
		if p.cfg.PublishTimeout > 0 {
			var cancel context.CancelFunc
			publishCtx, cancel = context.WithTimeout(ctx, p.cfg.PublishTimeout)
			defer cancel()
		}
		if err := p.sinks.Firehose.PublishViewingEvents(publishCtx, dataset.Events); err != nil {
			return fmt.Errorf("event publication failed: %w", err)
		}
		p.metrics.EventsPublished.Add(float64(len(dataset.Events)))
		p.observeStage("publish", stage)
	}

	if p.sinks.Cache != nil {
		if err := p.sinks.Cache.StoreBundle(ctx, runID, bundle); err != nil {
			return fmt.Errorf("bundle cache store failed: %w", err)
		}
	}

	return nil
}

func (p *Pipeline) failed(err error) error {
	p.metrics.RunsTotal.WithLabelValues("failure").Inc()
	p.logger.WithError(err).Error("Pipeline run failed")
	return err
}

func (p *Pipeline) observeStage(name string, start time.Time) {
	p.metrics.StageDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
}
