package filter

import (
	"testing"

	bgp "github.com/CSUNetSec/bgpupdate/protocol/bgp"
	mrt "github.com/CSUNetSec/bgpupdate/protocol/mrt"
)

func recordWithPrefixAndPath(prefix string, plen int, path ...string) *mrt.Record {
	update := bgp.NewParsedUpdate()
	nlris := bgp.DecodePrefixes(append([]byte{byte(plen)}, prefixBytes(prefix)...), false, "")
	update.NLRIList = nlris
	if len(path) > 0 {
		update.Attrs[bgp.AttrASPath] = &bgp.AttributeValue{Name: "AS_PATH", Value: path}
	}
	return &mrt.Record{Update: update}
}

func prefixBytes(ip string) []byte {
	switch ip {
	case "10.0.0.0":
		return []byte{10, 0, 0}
	case "10.1.0.0":
		return []byte{10, 1}
	case "192.0.2.0":
		return []byte{192, 0, 2}
	}
	return nil
}

func TestPrefixFilterMatchesCoveredAdvertisement(t *testing.T) {
	f, err := NewPrefixFilterFromSlice([]string{"10.0.0.0/8"}, AdvPrefix)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	r := recordWithPrefixAndPath("10.1.0.0", 16)
	if !f(r) {
		t.Errorf("expected 10.1.0.0/16 to be covered by 10.0.0.0/8")
	}
}

func TestPrefixFilterRejectsUncoveredAdvertisement(t *testing.T) {
	f, err := NewPrefixFilterFromSlice([]string{"192.0.2.0/24"}, AdvPrefix)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	r := recordWithPrefixAndPath("10.0.0.0", 8)
	if f(r) {
		t.Errorf("expected 10.0.0.0/8 not to match a 192.0.2.0/24 filter")
	}
}

func TestPrefixFilterWdrPrefixIgnoresAdvertised(t *testing.T) {
	f, err := NewPrefixFilterFromSlice([]string{"10.0.0.0/8"}, WdrPrefix)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	r := recordWithPrefixAndPath("10.0.0.0", 8)
	if f(r) {
		t.Errorf("a WdrPrefix filter should not match an advertised-only record")
	}
}

func TestASFilterBySource(t *testing.T) {
	f, err := NewASFilter("65001", AS_SOURCE)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	r := recordWithPrefixAndPath("10.0.0.0", 8, "65003", "65002", "65001")
	if !f(r) {
		t.Errorf("expected source AS 65001 (last hop) to match")
	}
	if f(recordWithPrefixAndPath("10.0.0.0", 8, "65001", "65002", "65003")) {
		t.Errorf("expected source-position filter not to match the destination hop")
	}
}

func TestASFilterByMidPathRequiresThreeHops(t *testing.T) {
	f, err := NewASFilter("65002", AS_MIDPATH)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !f(recordWithPrefixAndPath("10.0.0.0", 8, "65003", "65002", "65001")) {
		t.Errorf("expected midpath AS 65002 to match")
	}
	if f(recordWithPrefixAndPath("10.0.0.0", 8, "65002", "65001")) {
		t.Errorf("a 2-hop path has no midpath position to match")
	}
}

func TestFilterAllRequiresEveryFilter(t *testing.T) {
	prefixF, _ := NewPrefixFilterFromSlice([]string{"10.0.0.0/8"}, AdvPrefix)
	asF, _ := NewASFilter("65001", AS_SOURCE)
	r := recordWithPrefixAndPath("10.0.0.0", 8, "65002", "65001")
	if !FilterAll([]Filter{prefixF, asF}, r) {
		t.Errorf("expected both filters to pass")
	}
	wrongAsF, _ := NewASFilter("99999", AS_SOURCE)
	if FilterAll([]Filter{prefixF, wrongAsF}, r) {
		t.Errorf("expected FilterAll to fail when one filter rejects")
	}
}
