package services

import (
	"math"
	"time"

	"pipecrm/apperrors"
	"pipecrm/models"
	"pipecrm/repository"
)

// AnalyticsStore is the read-only rollup surface over deal state
type AnalyticsStore interface {
	StatusSummary(organizationID uint) ([]repository.StatusSummaryRow, error)
	AvgWonAmount(organizationID uint) (float64, error)
	CountCreatedSince(organizationID uint, since time.Time) (int64, error)
	StageStatusCounts(organizationID uint) ([]repository.StageStatusCount, error)
}

// SummaryResult is the per-organization deal rollup
type SummaryResult struct {
	StatusSummary    []repository.StatusSummaryRow `json:"status_summary"`
	AvgWonAmount     float64                       `json:"avg_won_amount"`
	NewDealsLastDays int64                         `json:"new_deals_last_days"`
}

// FunnelResult holds (stage, status) counts and stage-over-stage conversion.
// Conversion is nil for a stage whose predecessor has no deals.
type FunnelResult struct {
	Funnel     map[string]map[string]int64 `json:"funnel"`
	Conversion map[string]*float64         `json:"conversion"`
}

// AnalyticsService produces read-only rollups over deal state. It bypasses
// the state machine entirely and is only consistent at query time.
type AnalyticsService struct {
	deals AnalyticsStore
	now   func() time.Time
}

func NewAnalyticsService(deals AnalyticsStore) *AnalyticsService {
	return &AnalyticsService{deals: deals, now: time.Now}
}

// Summary groups deals by status, averages WON amounts and counts deals
// created within the trailing window.
func (s *AnalyticsService) Summary(organizationID uint, windowDays int) (*SummaryResult, error) {
	statusSummary, err := s.deals.StatusSummary(organizationID)
	if err != nil {
		return nil, apperrors.Internal("failed to summarize deals", err)
	}
	avgWon, err := s.deals.AvgWonAmount(organizationID)
	if err != nil {
		return nil, apperrors.Internal("failed to average won deals", err)
	}
	since := s.now().AddDate(0, 0, -windowDays)
	newCount, err := s.deals.CountCreatedSince(organizationID, since)
	if err != nil {
		return nil, apperrors.Internal("failed to count new deals", err)
	}
	return &SummaryResult{
		StatusSummary:    statusSummary,
		AvgWonAmount:     avgWon,
		NewDealsLastDays: newCount,
	}, nil
}

// Funnel groups deal counts by (stage, status) and derives the conversion
// percentage of each stage relative to its predecessor in the fixed stage
// order.
func (s *AnalyticsService) Funnel(organizationID uint) (*FunnelResult, error) {
	rows, err := s.deals.StageStatusCounts(organizationID)
	if err != nil {
		return nil, apperrors.Internal("failed to build funnel", err)
	}

	funnel := make(map[string]map[string]int64)
	for _, row := range rows {
		stage := string(row.Stage)
		if funnel[stage] == nil {
			funnel[stage] = make(map[string]int64)
		}
		funnel[stage][string(row.Status)] = row.Count
	}

	conversion := make(map[string]*float64)
	for i := 1; i < len(models.StageOrder); i++ {
		prev := stageTotal(funnel, models.StageOrder[i-1])
		curr := stageTotal(funnel, models.StageOrder[i])
		if prev > 0 {
			pct := math.Round(float64(curr)/float64(prev)*100*100) / 100
			conversion[string(models.StageOrder[i])] = &pct
		} else {
			conversion[string(models.StageOrder[i])] = nil
		}
	}

	return &FunnelResult{Funnel: funnel, Conversion: conversion}, nil
}

func stageTotal(funnel map[string]map[string]int64, stage models.DealStage) int64 {
	var total int64
	for _, count := range funnel[string(stage)] {
		total += count
	}
	return total
}
