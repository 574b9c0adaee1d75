package cache

import (
	"testing"
	"time"
)

func TestTTLExpiry(t *testing.T) {
	now := time.Date(2015, 9, 13, 16, 0, 0, 0, time.UTC)
	c := NewTTL(10*time.Minute, 0)
	c.now = func() time.Time { return now }

	c.Set("a", []byte("body"))
	if got, ok := c.Get("a"); !ok || string(got) != "body" {
		t.Fatalf("expected cache hit, got %q %v", got, ok)
	}

	now = now.Add(9 * time.Minute)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected entry to be live before ttl")
	}

	now = now.Add(time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected entry to expire at ttl")
	}
	if c.Len() != 0 {
		t.Fatalf("expected no live entries, got %d", c.Len())
	}
}

func TestTTLMaxEntries(t *testing.T) {
	now := time.Date(2015, 9, 13, 16, 0, 0, 0, time.UTC)
	c := NewTTL(time.Hour, 2)
	c.now = func() time.Time { return now }

	c.Set("a", []byte("1"))
	now = now.Add(time.Second)
	c.Set("b", []byte("2"))
	now = now.Add(time.Second)
	c.Set("c", []byte("3"))

	if _, ok := c.Get("a"); ok {
		t.Fatal("expected oldest entry to be evicted")
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatal("expected newest entry to be kept")
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
}

func TestTTLDisabled(t *testing.T) {
	c := NewTTL(0, 0)
	c.Set("a", []byte("1"))
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected zero ttl to disable caching")
	}
}
