package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/hotpot_room/internal/domain"
	"github.com/immxrtalbeast/hotpot_room/internal/metrics"
	"github.com/immxrtalbeast/hotpot_room/internal/repository"
	"github.com/immxrtalbeast/hotpot_room/lib/logger/sl"
)

// PipelineResult summarizes one recommendation run.
type PipelineResult struct {
	Candidates []domain.Candidate     `json:"candidates"`
	Resolved   []domain.ProductRecord `json:"resolved"`
	Misses     []string               `json:"misses"`
	Appended   int                    `json:"appended"`
}

// RecommendationService runs preferences through the model and the scraper
// and merges the resulting products into the room.
type RecommendationService struct {
	rooms       repository.RoomRepository
	preferences *PreferenceAggregator
	recommender Recommender
	scraper     ProductScraper
	merger      *MergeEngine
	timeout     time.Duration
	log         *slog.Logger
}

func NewRecommendationService(
	rooms repository.RoomRepository,
	preferences *PreferenceAggregator,
	recommender Recommender,
	scraper ProductScraper,
	merger *MergeEngine,
	timeout time.Duration,
	log *slog.Logger,
) *RecommendationService {
	if log == nil {
		log = slog.Default()
	}
	return &RecommendationService{
		rooms:       rooms,
		preferences: preferences,
		recommender: recommender,
		scraper:     scraper,
		merger:      merger,
		timeout:     timeout,
		log:         log,
	}
}

// Generate recommends items for the whole room. A model failure aborts the
// run before any scrape; a failed scrape only drops its candidate.
func (s *RecommendationService) Generate(ctx context.Context, roomID uuid.UUID) (result *PipelineResult, err error) {
	const op = "service.recommendation.generate"
	log := s.log.With(
		slog.String("op", op),
		slog.String("room_id", roomID.String()),
	)

	ctx, cancel := s.withDeadline(ctx)
	defer cancel()
	defer s.observe("batch", time.Now(), &err)

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	prefs, err := s.preferences.Aggregate(ctx, room)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if prefs == "" {
		log.Info("no member preferences, asking model anyway")
	}

	candidates, err := s.recommender.Recommend(ctx, prefs)
	if err != nil {
		log.Warn("recommendation failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result = &PipelineResult{Candidates: candidates}
	for _, candidate := range candidates {
		record, err := s.scraper.Scrape(ctx, candidate.Name, candidate.CookSeconds)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				log.Warn("pipeline deadline reached while scraping", sl.Err(ctxErr))
				return nil, fmt.Errorf("%s: %w", op, ctxErr)
			}
			s.logMiss(log, candidate.Name, err)
			result.Misses = append(result.Misses, candidate.Name)
			continue
		}
		result.Resolved = append(result.Resolved, *record)
	}

	result.Appended, err = s.merger.MergeAndPersist(ctx, roomID, result.Resolved)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("recommendations merged",
		slog.Int("candidates", len(candidates)),
		slog.Int("appended", result.Appended),
		slog.Int("misses", len(result.Misses)),
	)
	return result, nil
}

// Lucky resolves a single free-text item into a random matching product
// and adds it to the room.
func (s *RecommendationService) Lucky(ctx context.Context, roomID uuid.UUID, item string) (result *PipelineResult, err error) {
	const op = "service.recommendation.lucky"
	log := s.log.With(
		slog.String("op", op),
		slog.String("room_id", roomID.String()),
		slog.String("item", item),
	)

	ctx, cancel := s.withDeadline(ctx)
	defer cancel()
	defer s.observe("lucky", time.Now(), &err)

	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	candidate, err := s.recommender.RecommendOne(ctx, item)
	if err != nil {
		log.Warn("recommendation failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result = &PipelineResult{Candidates: []domain.Candidate{candidate}}
	record, err := s.scraper.ScrapeLucky(ctx, candidate.Name, candidate.CookSeconds)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s: %w", op, ctxErr)
		}
		s.logMiss(log, candidate.Name, err)
		result.Misses = append(result.Misses, candidate.Name)
		return result, nil
	}
	result.Resolved = []domain.ProductRecord{*record}

	result.Appended, err = s.merger.MergeAndPersist(ctx, roomID, result.Resolved)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("lucky item merged", slog.String("title", record.Title))
	return result, nil
}

func (s *RecommendationService) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *RecommendationService) observe(mode string, start time.Time, err *error) {
	result := "ok"
	if *err != nil {
		result = "error"
	}
	metrics.PipelineRuns.WithLabelValues(mode, result).Inc()
	metrics.PipelineDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
}

func (s *RecommendationService) logMiss(log *slog.Logger, name string, err error) {
	if errors.Is(err, domain.ErrScrapeMiss) {
		log.Info("no product for candidate", slog.String("candidate", name))
		return
	}
	log.Warn("scrape failed, dropping candidate", slog.String("candidate", name), sl.Err(err))
}
