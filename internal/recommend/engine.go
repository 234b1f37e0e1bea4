// Package recommend turns free-text food preferences into hotpot item
// candidates using a language model.
package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/immxrtalbeast/hotpot_room/internal/domain"
	"github.com/immxrtalbeast/hotpot_room/lib/logger/sl"
)

// Model is a chat completion backend.
type Model interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

var batchPrompt = strings.Join([]string{
	"You take in a string of food preferences from a group sharing a hotpot and return hotpot items they would enjoy.",
	"Respond with ONLY a JSON array of two-element arrays: [[item, cookSeconds], [item, cookSeconds], ...].",
	fmt.Sprintf("cookSeconds is an integer number of seconds the item needs in the boiling broth, between %d and %d.", MinCookSeconds, MaxCookSeconds),
	"Phrase every item name like a common supermarket product.",
	"Do not add any other words, explanations or formatting.",
}, " ")

var singlePrompt = strings.Join([]string{
	"You take in a string describing a food and return exactly one hotpot item matching it.",
	"Respond with ONLY a JSON array holding one two-element array: [[item, cookSeconds]].",
	fmt.Sprintf("cookSeconds is an integer number of seconds the item needs in the boiling broth, between %d and %d.", MinCookSeconds, MaxCookSeconds),
	"Phrase the item name like a common supermarket product.",
	"Do not add any other words, explanations or formatting.",
}, " ")

type Engine struct {
	model Model
	log   *slog.Logger
}

func NewEngine(model Model, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{model: model, log: log}
}

// Recommend asks the model for a list of candidates. An empty preference
// text is sent as is.
func (e *Engine) Recommend(ctx context.Context, preferences string) ([]domain.Candidate, error) {
	const op = "recommend.engine.recommend"
	log := e.log.With(slog.String("op", op))

	candidates, err := e.ask(ctx, batchPrompt, preferences)
	if err != nil {
		log.Warn("recommendation failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("candidates generated", slog.Int("count", len(candidates)))
	return candidates, nil
}

// RecommendOne asks for a single candidate matching item.
func (e *Engine) RecommendOne(ctx context.Context, item string) (domain.Candidate, error) {
	const op = "recommend.engine.recommend_one"
	log := e.log.With(slog.String("op", op), slog.String("item", item))

	candidates, err := e.ask(ctx, singlePrompt, item)
	if err != nil {
		log.Warn("recommendation failed", sl.Err(err))
		return domain.Candidate{}, fmt.Errorf("%s: %w", op, err)
	}
	if len(candidates) == 0 {
		err := &domain.InvalidModelResponseError{Reason: "expected one item, got none"}
		return domain.Candidate{}, fmt.Errorf("%s: %w", op, err)
	}

	return candidates[0], nil
}

func (e *Engine) ask(ctx context.Context, system, user string) ([]domain.Candidate, error) {
	reply, err := e.model.Complete(ctx, system, user)
	if err != nil {
		return nil, err
	}
	e.log.Debug("model reply", slog.String("reply", reply))
	return DecodeCandidates(reply)
}
