package executor

import (
	"context"
	"strings"
	"time"

	"browser-task/internal/application/port/input"
	"browser-task/internal/application/port/output"
	"browser-task/internal/domain/entity"
	"browser-task/internal/usecase/driver"
	"browser-task/internal/usecase/pricecheck"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var _ input.TaskRunner = (*UseCase)(nil)

const defaultGoal = "find the price of the configured product"

// UseCase runs the price check in a fresh browser session per call.
type UseCase struct {
	browsers  output.BrowserFactory
	policy    entity.RetryPolicy
	task      pricecheck.Config
	artifacts output.ArtifactStore
	metrics   output.MetricsPort
	logger    output.LoggerPort
	now       func() time.Time
}

func New(
	browsers output.BrowserFactory,
	policy entity.RetryPolicy,
	task pricecheck.Config,
	artifacts output.ArtifactStore,
	metrics output.MetricsPort,
	logger output.LoggerPort,
) *UseCase {
	return &UseCase{
		browsers:  browsers,
		policy:    policy,
		task:      task,
		artifacts: artifacts,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

func (uc *UseCase) Run(ctx context.Context, req input.RunRequest) *input.RunResult {
	started := uc.now()

	cfg := uc.task
	if p := strings.TrimSpace(req.Product); p != "" {
		cfg.Product = p
	}
	goal := req.Goal
	if strings.TrimSpace(goal) == "" {
		goal = defaultGoal
	}

	runID := uuid.NewString()
	log := uc.logger.WithFields(map[string]any{
		"run_id":  runID,
		"product": cfg.Product,
	})
	log.Info("Run started", "goal", goal)

	result := uc.execute(ctx, cfg, log)

	elapsed := uc.now().Sub(started)
	if uc.metrics != nil {
		uc.metrics.ObserveRun(result.Outcome(), elapsed)
	}

	if result.OK() {
		price, _ := result.Value()
		log.Info("Run succeeded", "price", price.String(), "duration", elapsed)
	} else {
		failure := result.Err()
		log.Warn("Run failed",
			"kind", failure.Kind,
			"message", failure.Message,
			"artifact", failure.Artifact,
			"duration", elapsed,
		)
	}

	return &input.RunResult{
		RunID:    runID,
		Goal:     goal,
		Product:  cfg.Product,
		Result:   result,
		Duration: elapsed,
	}
}

func (uc *UseCase) execute(ctx context.Context, cfg pricecheck.Config, log output.LoggerPort) entity.PriceResult {
	d, err := driver.Open(ctx, uc.browsers, uc.policy, driver.Deps{
		Artifacts: uc.artifacts,
		Logger:    log,
		Metrics:   uc.metrics,
	})
	if err != nil {
		log.Error("Failed to open browser session", "error", err)
		return entity.Failure[decimal.Decimal](entity.NewActionError(entity.KindUnknown, "could not start browser session", err))
	}
	defer d.Close()

	return pricecheck.New(d, cfg, log).Run(ctx)
}
