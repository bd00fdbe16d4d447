package translate

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/lukman83/baydeals/internal/kvstore"
	"github.com/lukman83/baydeals/internal/llm"
	"github.com/lukman83/baydeals/internal/models"
	"go.uber.org/zap"
)

type fakeBackend struct {
	available bool
	respond   func(prompt string) (string, error)
	calls     int
	prompts   []string
}

func (f *fakeBackend) Name() string                   { return "fake" }
func (f *fakeBackend) Available(context.Context) bool { return f.available }
func (f *fakeBackend) Generate(_ context.Context, req llm.Request) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, req.Prompt)
	return f.respond(req.Prompt)
}

// echoZh translates by prefixing every field sent in the prompt with "zh:".
func echoZh(prompt string) (string, error) {
	payload := prompt[strings.LastIndex(prompt, "\n\n")+2:]
	var in []sourceText
	if err := json.Unmarshal([]byte(payload), &in); err != nil {
		return "", err
	}
	out := make([]models.TranslatedFields, len(in))
	for i, s := range in {
		out[i] = models.TranslatedFields{TitleZh: "zh:" + s.Title, DescriptionZh: "zh:" + s.Description}
		if s.Unit != "" {
			out[i].UnitZh = "zh:" + s.Unit
		}
	}
	raw, _ := json.Marshal(out)
	envelope, _ := json.Marshal(map[string]string{"result": "```json\n" + string(raw) + "\n```"})
	return string(envelope), nil
}

func candidates(titles ...string) []models.Candidate {
	out := make([]models.Candidate, len(titles))
	for i, title := range titles {
		out[i] = models.Candidate{Title: title, Description: title + " desc", Unit: "/lb", Details: "weekly"}
	}
	return out
}

func TestTranslateBatchCallsOnce(t *testing.T) {
	t.Parallel()

	b := &fakeBackend{available: true, respond: echoZh}
	cache := kvstore.NewMemory()
	tr := New(b, cache, zap.NewNop())

	got := tr.TranslateBatch(context.Background(), candidates("Apples", "Pears", "Plums"))
	if b.calls != 1 {
		t.Fatalf("backend calls = %d", b.calls)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d", len(got))
	}
	for i, want := range []string{"Apples", "Pears", "Plums"} {
		if got[i].Title != want || got[i].TitleZh != "zh:"+want {
			t.Errorf("[%d] = %+v", i, got[i])
		}
		if got[i].UnitZh != "zh:/lb" {
			t.Errorf("[%d] unitZh = %q", i, got[i].UnitZh)
		}
		// empty detailsZh falls back to English
		if got[i].DetailsZh != "weekly" {
			t.Errorf("[%d] detailsZh = %q", i, got[i].DetailsZh)
		}
	}
	if cache.Len() != 3 {
		t.Errorf("cache entries = %d", cache.Len())
	}
	if !strings.Contains(b.prompts[0], "Simplified Chinese") || !strings.Contains(b.prompts[0], "Keep brand names in English") {
		t.Error("prompt missing instructions")
	}
}

func TestTranslateBatchUsesCache(t *testing.T) {
	t.Parallel()

	b := &fakeBackend{available: true, respond: echoZh}
	cache := kvstore.NewMemory()
	tr := New(b, cache, zap.NewNop())
	ctx := context.Background()

	tr.TranslateBatch(ctx, candidates("Apples"))
	got := tr.TranslateBatch(ctx, candidates("Pears", "Apples", "Kiwi"))
	if b.calls != 2 {
		t.Fatalf("calls = %d", b.calls)
	}
	if strings.Contains(b.prompts[1], `"title":"Apples"`) {
		t.Error("cached candidate sent to backend again")
	}
	if got[1].TitleZh != "zh:Apples" || got[0].TitleZh != "zh:Pears" || got[2].TitleZh != "zh:Kiwi" {
		t.Errorf("order or content wrong: %+v", got)
	}

	tr.TranslateBatch(ctx, candidates("Kiwi", "Apples"))
	if b.calls != 2 {
		t.Errorf("fully cached batch called backend, calls = %d", b.calls)
	}
}

func TestTranslateBatchFallbacks(t *testing.T) {
	t.Parallel()

	mismatch := func(string) (string, error) { return `[{"titleZh":"only one"}]`, nil }
	failing := func(string) (string, error) { return "", stderrors.New("exit status 1") }
	garbage := func(string) (string, error) { return "I can't do that", nil }

	tests := []struct {
		name    string
		backend *fakeBackend
		opts    []Option
		calls   int
	}{
		{"ci", &fakeBackend{available: true, respond: echoZh}, []Option{WithCI(true)}, 0},
		{"unavailable", &fakeBackend{available: false, respond: echoZh}, nil, 0},
		{"count mismatch", &fakeBackend{available: true, respond: mismatch}, nil, 1},
		{"backend error", &fakeBackend{available: true, respond: failing}, nil, 1},
		{"unparseable", &fakeBackend{available: true, respond: garbage}, nil, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cache := kvstore.NewMemory()
			tr := New(tt.backend, cache, zap.NewNop(), tt.opts...)
			got := tr.TranslateBatch(context.Background(), candidates("Apples", "Pears"))
			if len(got) != 2 {
				t.Fatalf("len = %d", len(got))
			}
			for _, g := range got {
				if g.TitleZh != g.Title || g.DescriptionZh != g.Description || g.UnitZh != g.Unit || g.DetailsZh != g.Details {
					t.Errorf("not identity: %+v", g)
				}
			}
			if tt.backend.calls != tt.calls {
				t.Errorf("calls = %d, want %d", tt.backend.calls, tt.calls)
			}
			if cache.Len() != 0 {
				t.Errorf("fallback results were cached")
			}
		})
	}
}

func TestTranslateBatchEmpty(t *testing.T) {
	t.Parallel()

	b := &fakeBackend{available: true, respond: echoZh}
	if got := New(b, kvstore.NewMemory(), zap.NewNop()).TranslateBatch(context.Background(), nil); len(got) != 0 {
		t.Errorf("got %v", got)
	}
	if b.calls != 0 {
		t.Errorf("calls = %d", b.calls)
	}
}

func TestCacheKey(t *testing.T) {
	t.Parallel()

	c := models.Candidate{Title: "A", Description: "B", Details: "D"}
	if got := CacheKey(c); got != "A||B||||D" {
		t.Errorf("CacheKey = %q", got)
	}
}
