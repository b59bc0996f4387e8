package planner

import (
	"testing"

	"github.com/example/weekplan/internal/schedule"
)

func TestExceptionCacheSingleEntry(t *testing.T) {
	c := NewExceptionCache()

	if _, ok := c.Get(1, "2024-01-08", "2024-01-14"); ok {
		t.Fatal("empty cache returned a hit")
	}

	set := schedule.ExceptionSet{}
	set.Add("a1", "2024-01-09")
	c.Put(1, "2024-01-08", "2024-01-14", set)

	got, ok := c.Get(1, "2024-01-08", "2024-01-14")
	if !ok {
		t.Fatal("expected a hit for the stored range")
	}
	if !got.Cancelled("a1", *datePtr("2024-01-09")) {
		t.Error("cached set lost its contents")
	}

	// A different range, owner, or partial key match is a miss.
	if _, ok := c.Get(1, "2024-01-15", "2024-01-21"); ok {
		t.Error("different range returned a hit")
	}
	if _, ok := c.Get(2, "2024-01-08", "2024-01-14"); ok {
		t.Error("different owner returned a hit")
	}

	// Storing a new range fully replaces the previous entry.
	c.Put(1, "2024-01-15", "2024-01-21", schedule.ExceptionSet{})
	if _, ok := c.Get(1, "2024-01-08", "2024-01-14"); ok {
		t.Error("old range still cached after replacement")
	}
	if _, ok := c.Get(1, "2024-01-15", "2024-01-21"); !ok {
		t.Error("new range not cached")
	}
}

func TestExceptionCacheInvalidate(t *testing.T) {
	c := NewExceptionCache()
	c.Put(1, "2024-01-08", "2024-01-14", schedule.ExceptionSet{})
	c.Invalidate()

	if _, ok := c.Get(1, "2024-01-08", "2024-01-14"); ok {
		t.Error("invalidated entry returned a hit")
	}
}
