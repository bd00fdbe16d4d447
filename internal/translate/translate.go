// Package translate produces the Simplified Chinese copies of deal text,
// batching uncached candidates into one backend call.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lukman83/baydeals/internal/kvstore"
	"github.com/lukman83/baydeals/internal/llm"
	"github.com/lukman83/baydeals/internal/models"
	"go.uber.org/zap"
)

// DefaultTimeout bounds one batched backend call.
const DefaultTimeout = 120 * time.Second

const promptHeader = `Translate the following grocery deal texts from English to Simplified Chinese.
Return a JSON array with the same number of elements. Each element should have: titleZh, descriptionZh, unitZh, detailsZh.
Use natural Chinese grocery terms (e.g., "ribeye steak" → "肋眼牛排", "/lb" → "/磅", "organic" → "有机").
Keep brand names in English. If text is empty, return empty string.

`

// Translator fills TranslatedFields for candidates, consulting the cache
// first. It never returns an error: any failure degrades to copying the
// English text.
type Translator struct {
	backend llm.Backend
	cache   kvstore.Store
	logger  *zap.Logger
	ci      bool
	timeout time.Duration
}

type Option func(*Translator)

// WithCI makes every batch use the identity fallback.
func WithCI(ci bool) Option {
	return func(t *Translator) { t.ci = ci }
}

func WithTimeout(d time.Duration) Option {
	return func(t *Translator) { t.timeout = d }
}

func New(backend llm.Backend, cache kvstore.Store, logger *zap.Logger, opts ...Option) *Translator {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Translator{
		backend: backend,
		cache:   cache,
		logger:  logger,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// CacheKey identifies a candidate's translatable text.
func CacheKey(c models.Candidate) string {
	return c.Title + "||" + c.Description + "||" + c.Unit + "||" + c.Details
}

// Fallback copies the English fields into the translated fields.
func Fallback(c models.Candidate) models.TranslatedCandidate {
	return models.TranslatedCandidate{
		Candidate: c,
		TranslatedFields: models.TranslatedFields{
			TitleZh:       c.Title,
			DescriptionZh: c.Description,
			UnitZh:        c.Unit,
			DetailsZh:     c.Details,
		},
	}
}

func fallbackAll(candidates []models.Candidate) []models.TranslatedCandidate {
	out := make([]models.TranslatedCandidate, len(candidates))
	for i, c := range candidates {
		out[i] = Fallback(c)
	}
	return out
}

type sourceText struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Unit        string `json:"unit"`
	Details     string `json:"details"`
}

type pending struct {
	index     int
	candidate models.Candidate
}

// TranslateBatch returns one translated candidate per input, in order.
func (t *Translator) TranslateBatch(ctx context.Context, candidates []models.Candidate) []models.TranslatedCandidate {
	if len(candidates) == 0 {
		return nil
	}
	if t.ci {
		t.logger.Info("Translation: skipping in CI environment")
		return fallbackAll(candidates)
	}
	if t.backend == nil || !t.backend.Available(ctx) {
		t.logger.Info("Translation: backend not available, using fallback")
		return fallbackAll(candidates)
	}

	results := make([]models.TranslatedCandidate, len(candidates))
	var todo []pending
	for i, c := range candidates {
		fields, ok := t.cached(ctx, c)
		if ok {
			results[i] = models.TranslatedCandidate{Candidate: c, TranslatedFields: fields}
			continue
		}
		todo = append(todo, pending{index: i, candidate: c})
	}

	if cached := len(candidates) - len(todo); cached > 0 {
		t.logger.Info(fmt.Sprintf("Translation: %d cached, %d to translate", cached, len(todo)))
	}
	if len(todo) == 0 {
		return results
	}

	translations, err := t.request(ctx, todo)
	if err == nil && len(translations) != len(todo) {
		err = fmt.Errorf("response count mismatch (%d vs %d)", len(translations), len(todo))
	}
	if err != nil {
		t.logger.Info("Translation: using fallback", zap.Error(err))
		for _, p := range todo {
			results[p.index] = Fallback(p.candidate)
		}
		return results
	}

	entries := make(map[string]json.RawMessage, len(todo))
	for i, p := range todo {
		fields := merge(p.candidate, translations[i])
		results[p.index] = models.TranslatedCandidate{Candidate: p.candidate, TranslatedFields: fields}
		if raw, err := json.Marshal(fields); err == nil {
			entries[CacheKey(p.candidate)] = raw
		}
	}
	if t.cache != nil {
		if err := t.cache.SetMany(ctx, entries); err != nil {
			t.logger.Warn("Translation: cache write failed", zap.Error(err))
		}
	}
	t.logger.Info(fmt.Sprintf("Translation: %d deals translated via %s", len(todo), t.backend.Name()))
	return results
}

func (t *Translator) cached(ctx context.Context, c models.Candidate) (models.TranslatedFields, bool) {
	if t.cache == nil {
		return models.TranslatedFields{}, false
	}
	fields, ok, err := kvstore.GetJSON[models.TranslatedFields](ctx, t.cache, CacheKey(c))
	if err != nil {
		t.logger.Debug("Translation: cache read failed", zap.Error(err))
		return models.TranslatedFields{}, false
	}
	return fields, ok
}

func (t *Translator) request(ctx context.Context, todo []pending) ([]models.TranslatedFields, error) {
	texts := make([]sourceText, len(todo))
	for i, p := range todo {
		texts[i] = sourceText{
			Title:       p.candidate.Title,
			Description: p.candidate.Description,
			Unit:        p.candidate.Unit,
			Details:     p.candidate.Details,
		}
	}
	payload, err := json.Marshal(texts)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	out, err := t.backend.Generate(ctx, llm.Request{Prompt: promptHeader + string(payload), JSON: true})
	if err != nil {
		return nil, err
	}
	return llm.DecodeArray[models.TranslatedFields](out)
}

// merge keeps the English value for any field the backend left empty.
func merge(c models.Candidate, t models.TranslatedFields) models.TranslatedFields {
	return models.TranslatedFields{
		TitleZh:       orDefault(t.TitleZh, c.Title),
		DescriptionZh: orDefault(t.DescriptionZh, c.Description),
		UnitZh:        orDefault(t.UnitZh, c.Unit),
		DetailsZh:     orDefault(t.DetailsZh, c.Details),
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
