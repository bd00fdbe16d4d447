package kvstore

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type entry struct {
	TitleZh string `json:"titleZh"`
}

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !stderrors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) err = %v", err)
	}

	if err := SetJSON(ctx, s, "a", entry{TitleZh: "草莓"}); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}
	got, ok, err := GetJSON[entry](ctx, s, "a")
	if err != nil || !ok || got.TitleZh != "草莓" {
		t.Fatalf("GetJSON = %+v, %v, %v", got, ok, err)
	}

	if err := s.SetMany(ctx, map[string]json.RawMessage{
		"b": json.RawMessage(`[1,2]`),
		"c": json.RawMessage(`{"x":true}`),
	}); err != nil {
		t.Fatalf("SetMany: %v", err)
	}
	raw, err := s.Get(ctx, "b")
	if err != nil || string(raw) != "[1,2]" {
		t.Fatalf("Get(b) = %s, %v", raw, err)
	}

	if err := s.Delete(ctx, "b"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "b"); !stderrors.Is(err, ErrNotFound) {
		t.Fatalf("Get after delete err = %v", err)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok, _ := GetJSON[entry](ctx, s, "a"); ok {
		t.Fatal("entry survived Clear")
	}
}

func TestMemory(t *testing.T) {
	t.Parallel()
	exerciseStore(t, NewMemory())
}

func TestFile(t *testing.T) {
	t.Parallel()
	exerciseStore(t, NewFile(filepath.Join(t.TempDir(), "cache.json"), zap.NewNop()))
}

func TestFilePersistsPrettyJSON(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "translations.json")

	f := NewFile(path, zap.NewNop())
	if err := SetJSON(ctx, f, "k", entry{TitleZh: "牛奶"}); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(raw)
	if !strings.HasSuffix(text, "}\n") {
		t.Errorf("missing trailing newline: %q", text)
	}
	if !strings.Contains(text, "\n  \"k\": {\n    \"titleZh\"") {
		t.Errorf("not indented: %q", text)
	}

	reopened := NewFile(path, zap.NewNop())
	got, ok, err := GetJSON[entry](ctx, reopened, "k")
	if err != nil || !ok || got.TitleZh != "牛奶" {
		t.Fatalf("reopened = %+v, %v, %v", got, ok, err)
	}
}

func TestFileCorruptReadsEmpty(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ocr.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	f := NewFile(path, zap.NewNop())
	if _, err := f.Get(ctx, "x"); !stderrors.Is(err, ErrNotFound) {
		t.Fatalf("Get on corrupt file err = %v", err)
	}
	if err := f.Set(ctx, "x", json.RawMessage(`[]`)); err != nil {
		t.Fatalf("Set after corrupt: %v", err)
	}

	var m map[string]json.RawMessage
	raw, _ := os.ReadFile(path)
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("file not repaired: %v", err)
	}
	if len(m) != 1 {
		t.Errorf("entries = %d", len(m))
	}
}

func TestFileAbsentNoWriteOnRead(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "never.json")
	f := NewFile(path, zap.NewNop())
	_, _ = f.Get(context.Background(), "x")
	_ = f.Delete(context.Background(), "x")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file created by read-only access: %v", err)
	}
}

func TestGetJSONDecodeError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory()
	_ = m.Set(ctx, "k", json.RawMessage(`"a string"`))
	if _, _, err := GetJSON[entry](ctx, m, "k"); err == nil {
		t.Fatal("expected decode error")
	}
}

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	srv := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), RedisConfig{Addr: srv.Addr()}, zap.NewNop())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRedis(t *testing.T) {
	t.Parallel()
	exerciseStore(t, NewRedis(newTestRedis(t), "translations", zap.NewNop()))
}

func TestRedisClearKeepsOtherCaches(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestRedis(t)
	translations := NewRedis(client, "translations", zap.NewNop())
	ocr := NewRedis(client, "ocr", zap.NewNop())

	if err := translations.Set(ctx, "k", json.RawMessage(`"a"`)); err != nil {
		t.Fatal(err)
	}
	if err := ocr.Set(ctx, "k", json.RawMessage(`"b"`)); err != nil {
		t.Fatal(err)
	}
	if err := translations.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := translations.Get(ctx, "k"); !stderrors.Is(err, ErrNotFound) {
		t.Errorf("translations after Clear err = %v", err)
	}
	raw, err := ocr.Get(ctx, "k")
	if err != nil || string(raw) != `"b"` {
		t.Errorf("ocr after clearing translations = %s, %v", raw, err)
	}
}

func TestNewRedisClientUnreachable(t *testing.T) {
	t.Parallel()

	srv, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}
	addr := srv.Addr()
	srv.Close()
	if _, err = NewRedisClient(context.Background(), RedisConfig{Addr: addr}, zap.NewNop()); err == nil {
		t.Fatal("expected connect error")
	}
}

func TestHashKey(t *testing.T) {
	t.Parallel()
	if got := HashKey("ocr"); got != "baydeals:cache:ocr" {
		t.Errorf("HashKey = %q", got)
	}
}
