package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"financas/internal/core"
	"financas/internal/log"
	"financas/internal/store"
)

// aiTipPrefix marks the elaborated tip appended after the rule tips.
const aiTipPrefix = "🤖 HeroAI: "

// TipElaborator produces one free-form tip from the deterministic tips.
type TipElaborator interface {
	Elaborate(ctx context.Context, tipsContext string) (string, error)
}

// AdvisorService derives summaries, metrics and tips from the ledger.
type AdvisorService struct {
	store      store.TransactionStore
	elaborator TipElaborator
	timeout    time.Duration
	logger     *slog.Logger
}

// NewAdvisorService builds an advisor over the given store. elaborator
// may be nil, in which case only rule-based tips are produced. timeout
// bounds each elaborator call; zero means 5 seconds.
func NewAdvisorService(s store.TransactionStore, elaborator TipElaborator, timeout time.Duration) *AdvisorService {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &AdvisorService{
		store:      s,
		elaborator: elaborator,
		timeout:    timeout,
		logger:     log.ForComponent("advisor"),
	}
}

// AnnualSummary aggregates the owner's transactions for year into the
// twelve-month totals table.
func (s *AdvisorService) AnnualSummary(ctx context.Context, ownerID string, year int) (core.AnnualSummary, error) {
	txs, err := s.store.List(ctx, ownerID, year)
	if err != nil {
		return core.AnnualSummary{}, err
	}
	return core.Aggregate(txs), nil
}

// Tips computes the owner's metrics over all years and returns the
// advice list: rule tips first, then one elaborated tip when an
// elaborator is configured and responds in time.
func (s *AdvisorService) Tips(ctx context.Context, ownerID string) ([]string, error) {
	txs, err := s.store.List(ctx, ownerID, 0)
	if err != nil {
		return nil, err
	}

	metrics := core.ComputeMetrics(txs)
	tips := core.Tips(metrics)

	if s.elaborator != nil && len(txs) > 0 {
		if extra := s.elaborate(ctx, tips); extra != "" {
			tips = append(tips, aiTipPrefix+extra)
		}
	}
	return tips, nil
}

// elaborate calls the elaborator with a bounded deadline. Any failure
// degrades to no extra tip.
func (s *AdvisorService) elaborate(ctx context.Context, tips []string) string {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	extra, err := s.elaborator.Elaborate(ctx, strings.Join(tips, " "))
	if err != nil {
		s.logger.Warn("tip elaboration failed", "error", err)
		return ""
	}
	return strings.TrimSpace(extra)
}
