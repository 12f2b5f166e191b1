// Package rib implements a longest-prefix dedup index over decoded
// NLRIs: each distinct prefix keeps its own event history, and Walk
// emits only the prefixes that no shorter prefix in the index covers.
package rib

import (
	"fmt"
	"sync"
	"time"

	radix "github.com/armon/go-radix"

	bgp "github.com/CSUNetSec/bgpupdate/protocol/bgp"
	"github.com/CSUNetSec/bgpupdate/util"
)

// Event is one announce/withdraw observation of a prefix.
type Event struct {
	Timestamp time.Time
	Announced bool
}

// History accumulates the Events seen for one prefix. Encoded marks
// that this entry has already been emitted by Walk, either directly or
// because a covering parent prefix emitted it first (the radix walk
// order means parents are visited before their children).
type History struct {
	Prefix  string
	Events  []Event
	encoded bool
}

func newHistory(prefix string, t time.Time, announced bool) *History {
	return &History{Prefix: prefix, Events: []Event{{t, announced}}}
}

func (h *History) add(t time.Time, announced bool) {
	h.Events = append(h.Events, Event{t, announced})
}

// PrefixIndex is a concurrency-safe, radix-backed store of prefix
// histories keyed by their binary CIDR representation. A plain map
// keeps insertion cheap; a github.com/armon/go-radix tree is built
// lazily at Walk time to do the longest-prefix dedup pass.
type PrefixIndex struct {
	mu       sync.Mutex
	byKey    map[string]*History
	timeSeries bool
}

// NewPrefixIndex returns an empty index. timeSeries controls whether
// repeat observations of an already-seen prefix are appended to its
// Events history (true) or dropped after the first sighting (false).
func NewPrefixIndex(timeSeries bool) *PrefixIndex {
	return &PrefixIndex{byKey: make(map[string]*History), timeSeries: timeSeries}
}

// Observe records one NLRI's announce/withdraw event at t. n must
// carry FieldPrefix, FieldPrefixLen, and FieldPrefixBin (as produced
// by DecodePrefixes); EVPN NLRIs whose fields don't include a binary
// prefix are silently ignored, since there's no meaningful longest-
// prefix key to dedup them on.
func (idx *PrefixIndex) Observe(n *bgp.NLRI, t time.Time, announced bool) {
	prefixVals, ok := n.Fields[bgp.FieldPrefix]
	if !ok || len(prefixVals) == 0 {
		return
	}
	lenVals, ok := n.Fields[bgp.FieldPrefixLen]
	if !ok || len(lenVals) == 0 {
		return
	}
	binVals, ok := n.Fields[bgp.FieldPrefixBin]
	if !ok || len(binVals) == 0 {
		return
	}

	key := ipToRadixKey([]byte(binVals[0]), lenVals[0])
	if key == "" {
		return
	}
	display := fmt.Sprintf("%s/%s", prefixVals[0], lenVals[0])

	idx.mu.Lock()
	defer idx.mu.Unlock()
	if h, exists := idx.byKey[key]; exists {
		if idx.timeSeries {
			h.add(t, announced)
		}
		return
	}
	idx.byKey[key] = newHistory(display, t, announced)
}

// ipToRadixKey renders an address and prefix length string as a
// bitstring radix key via util.IpToRadixkey.
func ipToRadixKey(addr []byte, prefixLen string) string {
	if len(addr) == 0 {
		return ""
	}
	var bitlen int
	if _, err := fmt.Sscanf(prefixLen, "%d", &bitlen); err != nil {
		return ""
	}
	return util.IpToRadixkey(addr, uint8(bitlen))
}

// WalkFunc is invoked once per de-duplicated prefix entry, in
// shortest-prefix-first-wins order: a covering parent prefix visits
// before its children, and any child already covered by an earlier
// entry is skipped.
type WalkFunc func(h *History)

// Walk visits every prefix history exactly once, skipping entries
// already covered by a shorter (parent) prefix that was visited
// earlier in the same walk.
func (idx *PrefixIndex) Walk(fn WalkFunc) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	tree := radix.New()
	for key := range idx.byKey {
		tree.Insert(key, true)
	}

	tree.Walk(func(key string, _ interface{}) bool {
		h := idx.byKey[key]
		if h.encoded {
			return false
		}
		fn(h)
		h.encoded = true
		tree.WalkPrefix(key, func(childKey string, _ interface{}) bool {
			idx.byKey[childKey].encoded = true
			return false
		})
		return false
	})
}
