package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"claimgate/internal/model"
)

func TestReportKeyDeterministic(t *testing.T) {
	k1 := ReportKey("run-1", "draft text")
	k2 := ReportKey("run-1", "draft text")
	if k1 != k2 {
		t.Error("same inputs should produce the same key")
	}
	if !strings.HasPrefix(k1, "claimgate:v1:") {
		t.Errorf("key missing version prefix: %s", k1)
	}
}

func TestReportKeyVariesWithDraft(t *testing.T) {
	if ReportKey("run-1", "a") == ReportKey("run-1", "b") {
		t.Error("different drafts should produce different keys")
	}
	if ReportKey("run-1", "a") == ReportKey("run-2", "a") {
		t.Error("different runs should produce different keys")
	}
}

func TestReportCacheRoundTrip(t *testing.T) {
	c := NewReportCacheWithStore(NewMemoryCache(time.Minute, time.Minute), time.Minute)

	report := &model.VerificationReport{
		RunID:          "run-1",
		ProcedureTitle: "Sepsis hos voksne",
	}
	if err := c.Store("run-1", "draft", report); err != nil {
		t.Fatalf("store: %v", err)
	}

	got, found := c.Load("run-1", "draft")
	if !found {
		t.Fatal("expected cache hit")
	}
	if got.RunID != "run-1" || got.ProcedureTitle != "Sepsis hos voksne" {
		t.Errorf("unexpected report: %+v", got)
	}

	if _, found := c.Load("run-1", "edited draft"); found {
		t.Error("edited draft should miss")
	}
}

func TestReportCacheCorruptEntryIsMiss(t *testing.T) {
	store := NewMemoryCache(time.Minute, time.Minute)
	c := NewReportCacheWithStore(store, time.Minute)

	store.Set(ReportKey("run-1", "draft"), []byte("{not json"), time.Minute)
	if _, found := c.Load("run-1", "draft"); found {
		t.Error("corrupt entry should be a miss")
	}
}

func TestNewReportCacheDisabled(t *testing.T) {
	if c := NewReportCache(model.CacheConfig{Enabled: false}); c != nil {
		t.Error("disabled config should return nil cache")
	}
}

func TestNewReportCacheDefaultConfigPersists(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	report := &model.VerificationReport{RunID: "run-1"}

	c := NewReportCache(model.DefaultConfig().Cache)
	if c == nil {
		t.Fatal("default config should enable the cache")
	}
	if err := c.Store("run-1", "draft", report); err != nil {
		t.Fatalf("store with default config: %v", err)
	}

	dir := filepath.Join(home, ".claimgate", "cache")
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read cache dir: %v", err)
	}
	if len(entries) == 0 {
		t.Error("expected a cache file under the home directory fallback")
	}

	fresh := NewReportCache(model.DefaultConfig().Cache)
	if _, found := fresh.Load("run-1", "draft"); !found {
		t.Error("entry should survive into a fresh cache via the disk tier")
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Minute)

	if err := c.Set(ReportKey("run-1", "draft"), []byte("payload"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}

	val, found := c.Get(ReportKey("run-1", "draft"))
	if !found || string(val) != "payload" {
		t.Errorf("unexpected value: %q found=%v", val, found)
	}
}

func TestDiskCacheExpiry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Minute)

	if err := c.Set("k", []byte("v"), -time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("expired entry should be a miss")
	}
}

func TestDiskCacheCorruptFileIsRemoved(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Minute)

	path := filepath.Join(dir, "broken"+cacheFileExt)
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, found := c.Get("broken"); found {
		t.Error("corrupt file should be a miss")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt file should be removed on read")
	}
}

func TestDiskCacheClearLeavesForeignFiles(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Minute)

	if err := c.Set("k1", []byte("v1"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.Set("k2", []byte("v2"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	foreign := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(foreign, []byte("keep me"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if _, found := c.Get("k1"); found {
		t.Error("clear should remove cache entries")
	}
	if _, err := os.Stat(foreign); err != nil {
		t.Errorf("clear should not touch other files: %v", err)
	}
}

func TestDiskCacheClearMissingDir(t *testing.T) {
	c := NewDiskCache(filepath.Join(t.TempDir(), "never-created"), time.Minute)
	if err := c.Clear(); err != nil {
		t.Errorf("clearing a missing dir should succeed: %v", err)
	}
}

func TestLayeredCachePromotesDiskHit(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Minute)

	// Write through, then drop the memory layer
	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	c.memory.Clear()

	val, found := c.Get("k")
	if !found || string(val) != "v" {
		t.Fatalf("expected disk hit, got %q found=%v", val, found)
	}

	// Now present in memory again
	if _, found := c.memory.Get("k"); !found {
		t.Error("disk hit should be promoted to memory")
	}
}
