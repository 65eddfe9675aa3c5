package service

import (
	"context"
	"fmt"

	"github.com/ConectaTel/conecta_api/internal/cache"
	"github.com/ConectaTel/conecta_api/internal/catalog"
	"github.com/ConectaTel/conecta_api/internal/config"
	"github.com/ConectaTel/conecta_api/internal/models"
	"github.com/ConectaTel/conecta_api/internal/repository"
)

// CatalogService runs the storefront pipeline: load the active catalog,
// drop plans incompatible with the session context, score and sort what
// survives, and assign badges. It also owns the session browsing state
// (context + behavioral signals) backed by Redis.
type CatalogService struct {
	planRepo     *repository.PlanRepository
	sessionCache *cache.SessionCache
	weights      catalog.Weights
}

// NewCatalogService constructs a CatalogService. Scoring weight overrides
// from config are applied on top of the default policy table.
func NewCatalogService(planRepo *repository.PlanRepository, sessionCache *cache.SessionCache, scoring *config.ScoringConfig) *CatalogService {
	w := catalog.DefaultWeights()
	if scoring != nil {
		if scoring.CategoryMatch != nil {
			w.CategoryMatch = *scoring.CategoryMatch
		}
		if scoring.CarrierMatch != nil {
			w.CarrierMatch = *scoring.CarrierMatch
		}
		if scoring.InitialIntent != nil {
			w.InitialIntent = *scoring.InitialIntent
		}
		if scoring.DwellPerMinute != nil {
			w.DwellPerMinute = *scoring.DwellPerMinute
		}
		if scoring.ViewSignal != nil {
			w.ViewSignal = *scoring.ViewSignal
		}
		if scoring.AddSignal != nil {
			w.AddSignal = *scoring.AddSignal
		}
		if scoring.RemovedPenalty != nil {
			w.RemovedPenalty = *scoring.RemovedPenalty
		}
		if scoring.Featured != nil {
			w.Featured = *scoring.Featured
		}
		if scoring.LineCountFit != nil {
			w.LineCountFit = *scoring.LineCountFit
		}
	}
	return &CatalogService{planRepo: planRepo, sessionCache: sessionCache, weights: w}
}

// CatalogEntry is one storefront catalog row: the plan, its score and its
// badge (empty when none applies).
type CatalogEntry struct {
	Plan  models.Plan   `json:"plan"`
	Score float64       `json:"score"`
	Badge catalog.Badge `json:"badge,omitempty"`
}

// Browse runs the full pipeline for a session and returns the ranked
// catalog. An empty result is a valid outcome (the storefront renders its
// "relax your filters" state), not an error.
func (s *CatalogService) Browse(ctx context.Context, sessionID string) ([]CatalogEntry, error) {
	plans, err := s.planRepo.GetActive()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	state, err := s.sessionCache.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	compatible := catalog.Filter(plans, state.Context)
	scored := catalog.Score(compatible, state.Context, state.InitialContext, &state.Signals, s.weights)
	badges := catalog.AssignBadges(scored, state.Context)

	entries := make([]CatalogEntry, len(scored))
	for i, sp := range scored {
		entries[i] = CatalogEntry{
			Plan:  sp.Plan,
			Score: sp.Score,
			Badge: badges[sp.Plan.ID],
		}
	}
	return entries, nil
}

// UpdateContext replaces the session's active browsing context. The first
// context ever set is captured as the initial context so later scoring can
// reward continuity with the visitor's original intent.
func (s *CatalogService) UpdateContext(ctx context.Context, sessionID string, newCtx *catalog.Context) error {
	if err := validateContext(newCtx); err != nil {
		return err
	}

	state, err := s.sessionCache.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	if state.InitialContext == nil {
		initial := *newCtx
		state.InitialContext = &initial
	}
	state.Context = newCtx

	return s.sessionCache.Save(ctx, sessionID, state)
}

// GetContext returns the session's active context, or nil when none is set.
func (s *CatalogService) GetContext(ctx context.Context, sessionID string) (*catalog.Context, error) {
	state, err := s.sessionCache.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return state.Context, nil
}

// EventType enumerates the behavioral events the storefront reports.
type EventType string

const (
	EventView   EventType = "view"
	EventAdd    EventType = "add"
	EventRemove EventType = "remove"
	EventDwell  EventType = "dwell"
)

// BehavioralEvent is one reported storefront interaction.
type BehavioralEvent struct {
	Type     EventType           `json:"type" binding:"required"`
	PlanID   int                 `json:"planId"`
	Category models.PlanCategory `json:"category"`
	Seconds  int                 `json:"seconds"`
}

// RecordEvent appends a behavioral signal to the session.
func (s *CatalogService) RecordEvent(ctx context.Context, sessionID string, ev *BehavioralEvent) error {
	state, err := s.sessionCache.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	switch ev.Type {
	case EventView:
		state.Signals.ViewedPlans = append(state.Signals.ViewedPlans, ev.PlanID)
	case EventAdd:
		state.Signals.AddedPlans = append(state.Signals.AddedPlans, ev.PlanID)
	case EventRemove:
		state.Signals.RemovedPlans = append(state.Signals.RemovedPlans, ev.PlanID)
	case EventDwell:
		if !models.ValidCategory(ev.Category) {
			return fmt.Errorf("unknown category %q", ev.Category)
		}
		if ev.Seconds < 0 {
			return fmt.Errorf("dwell seconds must be >= 0")
		}
		if state.Signals.DwellSeconds == nil {
			state.Signals.DwellSeconds = make(map[models.PlanCategory]int)
		}
		state.Signals.DwellSeconds[ev.Category] += ev.Seconds
	default:
		return fmt.Errorf("unknown event type %q", ev.Type)
	}

	return s.sessionCache.Save(ctx, sessionID, state)
}

// validateContext rejects values outside the closed enums once, at the
// boundary, so the pure catalog functions can assume well-typed input.
func validateContext(ctx *catalog.Context) error {
	if ctx == nil {
		return fmt.Errorf("context is required")
	}
	for _, c := range ctx.Categories {
		if !models.ValidCategory(c) {
			return fmt.Errorf("unknown category %q", c)
		}
	}
	for _, c := range ctx.Carriers {
		if !models.ValidCarrier(c) {
			return fmt.Errorf("unknown carrier %q", c)
		}
	}
	switch ctx.PersonType {
	case "", models.PersonTypePersonal, models.PersonTypeBusiness:
	default:
		return fmt.Errorf("unknown person type %q", ctx.PersonType)
	}
	switch ctx.Modality {
	case "", models.ModalityNewLine, models.ModalityPortability:
	default:
		return fmt.Errorf("unknown modality %q", ctx.Modality)
	}
	if ctx.LineCount != nil && *ctx.LineCount < 1 {
		return fmt.Errorf("line count must be >= 1")
	}
	return nil
}
