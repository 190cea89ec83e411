package cache

import (
	"strings"
	"testing"
	"time"
)

func TestCacheRoundTrip(t *testing.T) {
	c := New(true)
	defer c.Close()

	payload := []byte(`{"standings":[]}`)
	etag := c.Set("standings:1", payload, time.Minute)

	data, gotETag, ok := c.Get("standings:1")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if string(data) != string(payload) {
		t.Fatalf("data = %q, want %q", data, payload)
	}
	if gotETag != etag {
		t.Fatalf("etag = %q, want %q", gotETag, etag)
	}
}

func TestCacheMiss(t *testing.T) {
	c := New(true)
	defer c.Close()

	if _, _, ok := c.Get("absent"); ok {
		t.Fatal("expected miss for unknown key")
	}
}

func TestCacheExpiry(t *testing.T) {
	c := New(true)
	defer c.Close()

	c.Set("short", []byte("x"), time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	if _, _, ok := c.Get("short"); ok {
		t.Fatal("expected expired entry to miss")
	}
}

func TestDisabledCacheStillComputesETag(t *testing.T) {
	c := New(false)
	defer c.Close()

	etag := c.Set("key", []byte("value"), time.Minute)
	if etag == "" {
		t.Fatal("disabled cache should still return an ETag")
	}
	if _, _, ok := c.Get("key"); ok {
		t.Fatal("disabled cache should never hit")
	}
}

func TestComputeETagFormat(t *testing.T) {
	etag := ComputeETag([]byte("payload"))
	if !strings.HasPrefix(etag, `W/"`) || !strings.HasSuffix(etag, `"`) {
		t.Fatalf("etag %q is not a weak ETag", etag)
	}
	if etag == ComputeETag([]byte("different")) {
		t.Fatal("different payloads should produce different ETags")
	}
}

func TestCheckETagMatch(t *testing.T) {
	etag := ComputeETag([]byte("payload"))
	tests := []struct {
		ifNoneMatch string
		want        bool
	}{
		{"", false},
		{"*", true},
		{etag, true},
		{`W/"deadbeef"`, false},
	}
	for _, tt := range tests {
		if got := CheckETagMatch(tt.ifNoneMatch, etag); got != tt.want {
			t.Errorf("CheckETagMatch(%q) = %v, want %v", tt.ifNoneMatch, got, tt.want)
		}
	}
}

func TestCacheStats(t *testing.T) {
	c := New(true)
	defer c.Close()

	c.Set("live", []byte("a"), time.Minute)
	c.Set("stale", []byte("b"), time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	stats := c.Stats()
	if stats["total_keys"] != 2 {
		t.Fatalf("total_keys = %v, want 2", stats["total_keys"])
	}
	if stats["active_keys"] != 1 {
		t.Fatalf("active_keys = %v, want 1", stats["active_keys"])
	}
	if stats["enabled"] != true {
		t.Fatal("enabled should be true")
	}
}
