package rib

import (
	"testing"
	"time"

	bgp "github.com/CSUNetSec/bgpupdate/protocol/bgp"
)

func nlriFor(t *testing.T, prefix string, plen int, bin []byte) *bgp.NLRI {
	t.Helper()
	nlris := bgp.DecodePrefixes(append([]byte{byte(plen)}, bin...), false, "")
	if len(nlris) != 1 {
		t.Fatalf("expected 1 nlri from fixture, got %d", len(nlris))
	}
	return nlris[0]
}

func TestPrefixIndexDedupesChildUnderParent(t *testing.T) {
	idx := NewPrefixIndex(false)
	now := time.Unix(1000, 0)

	parent := nlriFor(t, "10.0.0.0", 8, []byte{10})
	child := nlriFor(t, "10.1.0.0", 16, []byte{10, 1})

	idx.Observe(parent, now, true)
	idx.Observe(child, now, true)

	var seen []string
	idx.Walk(func(h *History) {
		seen = append(seen, h.Prefix)
	})
	if len(seen) != 1 || seen[0] != "10.0.0.0/8" {
		t.Errorf("expected only the parent prefix to be emitted, got %v", seen)
	}
}

func TestPrefixIndexTimeSeriesAccumulates(t *testing.T) {
	idx := NewPrefixIndex(true)
	t1 := time.Unix(1000, 0)
	t2 := time.Unix(2000, 0)

	p := nlriFor(t, "203.0.113.0", 24, []byte{203, 0, 113})
	idx.Observe(p, t1, true)
	idx.Observe(p, t2, false)

	var h *History
	idx.Walk(func(found *History) { h = found })
	if h == nil {
		t.Fatalf("expected one history entry")
	}
	if len(h.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(h.Events))
	}
	if h.Events[0].Announced != true || h.Events[1].Announced != false {
		t.Errorf("expected announce then withdraw, got %+v", h.Events)
	}
}

func TestPrefixIndexNonTimeSeriesKeepsFirstOnly(t *testing.T) {
	idx := NewPrefixIndex(false)
	t1 := time.Unix(1000, 0)
	t2 := time.Unix(2000, 0)

	p := nlriFor(t, "198.51.100.0", 24, []byte{198, 51, 100})
	idx.Observe(p, t1, true)
	idx.Observe(p, t2, false)

	var h *History
	idx.Walk(func(found *History) { h = found })
	if h == nil || len(h.Events) != 1 {
		t.Fatalf("expected exactly 1 event, got %+v", h)
	}
}
