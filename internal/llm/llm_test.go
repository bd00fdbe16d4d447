package llm

import (
	"context"
	stderrors "errors"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/lukman83/baydeals/pkg/errors"
	"go.uber.org/zap"
)

type fakeBackend struct {
	name      string
	available bool
	out       string
	err       error
	calls     int
	last      Request
}

func (f *fakeBackend) Name() string                   { return f.name }
func (f *fakeBackend) Available(context.Context) bool { return f.available }
func (f *fakeBackend) Generate(_ context.Context, req Request) (string, error) {
	f.calls++
	f.last = req
	return f.out, f.err
}

type item struct {
	TitleZh string `json:"titleZh"`
}

func TestDecodeArray(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want int
	}{
		{"bare array", `[{"titleZh":"a"},{"titleZh":"b"}]`, 2},
		{"string envelope", `{"result":"[{\"titleZh\":\"a\"}]"}`, 1},
		{"fenced string envelope", "{\"result\":\"```json\\n[{\\\"titleZh\\\":\\\"a\\\"}]\\n```\"}", 1},
		{"json envelope", `{"type":"result","result":[{"titleZh":"a"},{"titleZh":"b"},{"titleZh":"c"}]}`, 3},
		{"fenced raw", "```json\n[{\"titleZh\":\"a\"}]\n```", 1},
		{"fenced no lang", "```\n[]\n```", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := DecodeArray[item](tt.in)
			if err != nil {
				t.Fatalf("DecodeArray: %v", err)
			}
			if len(got) != tt.want {
				t.Fatalf("len = %d, want %d", len(got), tt.want)
			}
			if tt.want > 0 && got[0].TitleZh != "a" {
				t.Errorf("first = %+v", got[0])
			}
		})
	}
}

func TestDecodeArrayErrors(t *testing.T) {
	t.Parallel()

	for _, in := range []string{
		"not json at all",
		`{"other":1}`,
		`{"result":"sorry, I cannot help"}`,
		`"just a string"`,
	} {
		if _, err := DecodeArray[item](in); err == nil {
			t.Errorf("DecodeArray(%q) expected error", in)
		}
	}
}

func TestStripFences(t *testing.T) {
	t.Parallel()

	if got := StripFences("```JSON\n[1]\n```  "); got != "[1]" {
		t.Errorf("got %q", got)
	}
	if got := StripFences("[1]"); got != "[1]" {
		t.Errorf("got %q", got)
	}
}

func TestChainFallsThrough(t *testing.T) {
	t.Parallel()

	down := &fakeBackend{name: "down", available: false, out: "never"}
	failing := &fakeBackend{name: "failing", available: true, err: stderrors.New("boom")}
	ok := &fakeBackend{name: "ok", available: true, out: "[]"}

	c := NewChain(zap.NewNop(), down, nil, failing, ok)
	if c.Name() != "chain(down,failing,ok)" {
		t.Errorf("Name = %q", c.Name())
	}
	if !c.Available(context.Background()) {
		t.Fatal("chain should be available")
	}
	out, err := c.Generate(context.Background(), Request{Prompt: "p"})
	if err != nil || out != "[]" {
		t.Fatalf("Generate = %q, %v", out, err)
	}
	if down.calls != 0 || failing.calls != 1 || ok.calls != 1 {
		t.Errorf("calls down=%d failing=%d ok=%d", down.calls, failing.calls, ok.calls)
	}
}

func TestChainNothingAvailable(t *testing.T) {
	t.Parallel()

	c := NewChain(zap.NewNop(), &fakeBackend{name: "x"})
	if c.Available(context.Background()) {
		t.Fatal("should be unavailable")
	}
	_, err := c.Generate(context.Background(), Request{})
	if !errors.HasCode(err, errors.CodeUnavailable) {
		t.Fatalf("err = %v", err)
	}
}

func TestChainAllFail(t *testing.T) {
	t.Parallel()

	c := NewChain(zap.NewNop(),
		&fakeBackend{name: "a", available: true, err: stderrors.New("first")},
		&fakeBackend{name: "b", available: true, err: stderrors.New("second")},
	)
	_, err := c.Generate(context.Background(), Request{})
	if err == nil || !strings.Contains(err.Error(), "first") || !strings.Contains(err.Error(), "second") {
		t.Fatalf("err = %v", err)
	}
}

func TestLimitedPassesThrough(t *testing.T) {
	t.Parallel()

	f := &fakeBackend{name: "f", available: true, out: "ok"}
	l := NewLimited(f, 0, 0)
	for range 3 {
		if out, err := l.Generate(context.Background(), Request{Prompt: "x"}); err != nil || out != "ok" {
			t.Fatalf("Generate = %q, %v", out, err)
		}
	}
	if f.calls != 3 {
		t.Errorf("calls = %d", f.calls)
	}
	if l.Name() != "f" || !l.Available(context.Background()) {
		t.Error("embedded backend methods not promoted")
	}
}

func TestLimitedHonoursContext(t *testing.T) {
	t.Parallel()

	f := &fakeBackend{name: "f", available: true, out: "ok"}
	l := NewLimited(f, 0.001, 1)
	if _, err := l.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("first call: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := l.Generate(ctx, Request{}); err == nil {
		t.Fatal("second call should fail waiting on the limiter")
	}
	if f.calls != 1 {
		t.Errorf("calls = %d", f.calls)
	}
}

func TestDataURL(t *testing.T) {
	t.Parallel()

	r := Request{Image: []byte("hi")}
	if got := r.DataURL(); got != "data:image/jpeg;base64,aGk=" {
		t.Errorf("DataURL = %q", got)
	}
	r.ImageMIME = "image/png"
	if !strings.HasPrefix(r.DataURL(), "data:image/png;base64,") {
		t.Errorf("DataURL = %q", r.DataURL())
	}
}

func TestCommandEchoesStdin(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not available")
	}
	c := NewCommand("cat")
	if !c.Available(context.Background()) {
		t.Fatal("cat should be available")
	}
	out, err := c.Generate(context.Background(), Request{Prompt: "prompt:", Image: []byte("hi")})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "prompt:data:image/jpeg;base64,aGk=" {
		t.Errorf("out = %q", out)
	}
}

func TestCommandMissingBinary(t *testing.T) {
	t.Parallel()

	c := NewCommand("definitely-not-a-real-binary-xyz --flag")
	if c.Available(context.Background()) {
		t.Fatal("should be unavailable")
	}
	if c.Name() != "command:definitely-not-a-real-binary-xyz" {
		t.Errorf("Name = %q", c.Name())
	}
	if _, err := c.Generate(context.Background(), Request{}); !errors.HasCode(err, errors.CodeBackend) {
		t.Errorf("err = %v", err)
	}
}

func TestNewCommandDefault(t *testing.T) {
	t.Parallel()

	c := NewCommand("  ")
	if c.path != "claude" || strings.Join(c.args, " ") != "-p --output-format json" {
		t.Errorf("default command = %s %v", c.path, c.args)
	}
}

func TestNilClientsUnavailable(t *testing.T) {
	t.Parallel()

	g, err := NewGemini(context.Background(), "", "", nil)
	if err != nil || g != nil {
		t.Fatalf("NewGemini empty key = %v, %v", g, err)
	}
	if g.Available(context.Background()) {
		t.Error("nil gemini should be unavailable")
	}
	if o := NewOpenAI("", "", nil); o != nil || o.Available(context.Background()) {
		t.Error("nil openai should be unavailable")
	}
}
