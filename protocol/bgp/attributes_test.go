package bgp

import "testing"

func TestDecodeAttributesOriginASPathNextHop(t *testing.T) {
	peer := NewPeerCapabilities()
	update := NewParsedUpdate()

	buf := []byte{}
	// ORIGIN = igp
	buf = append(buf, 0x40, wireOrigin, 1, 0)
	// AS_PATH: AS_SEQUENCE len 1, asn 65001 (4-octet, unconfirmed -> dry run)
	buf = append(buf, 0x40, wireASPath, 6, 2, 1, 0x00, 0x00, 0xFD, 0xE9)
	// NEXT_HOP = 192.0.2.1
	buf = append(buf, 0x40, wireNextHop, 4, 192, 0, 2, 1)

	if err := DecodeAttributes(buf, peer, update); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	origin := update.Attrs[AttrOrigin]
	if origin == nil || origin.Value[0] != "igp" {
		t.Errorf("expected origin igp, got %v", origin)
	}
	asPath := update.Attrs[AttrASPath]
	if asPath == nil || len(asPath.Value) != 1 || asPath.Value[0] != "65001" {
		t.Errorf("expected as_path [65001], got %v", asPath)
	}
	nextHop := update.Attrs[AttrNextHop]
	if nextHop == nil || nextHop.Value[0] != "192.0.2.1" {
		t.Errorf("expected next_hop 192.0.2.1, got %v", nextHop)
	}
}

func TestDecodeAttributesAggregatorTwoOctet(t *testing.T) {
	peer := NewPeerCapabilities()
	update := NewParsedUpdate()

	// AGGREGATOR: asn 65001 (2-octet), ip 192.0.2.1
	buf := []byte{0x40, wireAggregator, 6, 0xFD, 0xE9, 192, 0, 2, 1}

	if err := DecodeAttributes(buf, peer, update); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	agg := update.Attrs[AttrAggregator]
	if agg == nil {
		t.Fatalf("expected aggregator attribute to be set")
	}
	want := "65001 192.0.2.1"
	if agg.Value[0] != want {
		t.Errorf("expected %q, got %q", want, agg.Value[0])
	}
}

func TestDecodeAttributesExtendedLength(t *testing.T) {
	peer := NewPeerCapabilities()
	update := NewParsedUpdate()

	buf := []byte{0x40 | flagExtendedLength, wireOrigin, 0, 1, 2}
	if err := DecodeAttributes(buf, peer, update); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	origin := update.Attrs[AttrOrigin]
	if origin == nil || origin.Value[0] != "incomplete" {
		t.Errorf("expected origin incomplete, got %v", origin)
	}
}

func TestDecodeAttributesUnknownTypeSkipped(t *testing.T) {
	peer := NewPeerCapabilities()
	update := NewParsedUpdate()

	buf := []byte{0x40, 200, 2, 0xAA, 0xBB, 0x40, wireOrigin, 1, 0}
	if err := DecodeAttributes(buf, peer, update); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if update.Attrs[AttrOrigin] == nil {
		t.Errorf("expected origin to still decode after unknown attribute")
	}
}

func TestDecodeAttributesAtomicAggregate(t *testing.T) {
	peer := NewPeerCapabilities()
	update := NewParsedUpdate()

	buf := []byte{0x40, wireAtomicAggregate, 0}
	if err := DecodeAttributes(buf, peer, update); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if update.Attrs[AttrAtomicAggregate] == nil {
		t.Errorf("expected atomic_aggregate to be set")
	}
}
