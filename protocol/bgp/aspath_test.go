package bgp

import (
	"reflect"
	"testing"
)

func TestDecodeASPathFourOctetConfirmed(t *testing.T) {
	peer := NewPeerCapabilities()
	// AS_SEQUENCE, len 2, ASNs 65001 65002 as 4-octet values.
	buf := []byte{2, 2, 0x00, 0x00, 0xFD, 0xE9, 0x00, 0x00, 0xFD, 0xEA}
	vals, err := decodeASPath(buf, peer)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	want := []string{"65001", "65002"}
	if !reflect.DeepEqual(vals, want) {
		t.Errorf("expected %v, got %v", want, vals)
	}
	if peer.UsingTwoOctetASN {
		t.Errorf("expected 4-octet confirmed, got 2-octet latch")
	}
	if !peer.CheckedASNOctetLength {
		t.Errorf("expected CheckedASNOctetLength latched true")
	}
}

func TestDecodeASPathTwoOctetDetected(t *testing.T) {
	peer := NewPeerCapabilities()
	// three 2-octet ASNs: 1, 2, 3
	buf := []byte{0x02, 0x03, 0x00, 0x01, 0x00, 0x02, 0x00, 0x03}
	vals, err := decodeASPath(buf, peer)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	want := []string{"1", "2", "3"}
	if !reflect.DeepEqual(vals, want) {
		t.Errorf("expected %v, got %v", want, vals)
	}
	if !peer.UsingTwoOctetASN {
		t.Errorf("expected latch using_2_octet_asn = true")
	}
}

func TestDecodeASPathHeuristicIdempotent(t *testing.T) {
	peer := NewPeerCapabilities()
	buf := []byte{0x02, 0x01, 0x00, 0x01}
	if _, err := decodeASPath(buf, peer); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !peer.CheckedASNOctetLength {
		t.Fatalf("expected latch set after first call")
	}
	checkedBefore := peer.CheckedASNOctetLength
	twoOctetBefore := peer.UsingTwoOctetASN
	if _, err := decodeASPath(buf, peer); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if peer.CheckedASNOctetLength != checkedBefore || peer.UsingTwoOctetASN != twoOctetBefore {
		t.Errorf("heuristic should not re-run on second call")
	}
}

func TestDecodeASPathSet(t *testing.T) {
	peer := &PeerCapabilities{RecvFourOctetASN: true, SentFourOctetASN: true}
	// AS_SET, len 2, ASNs 1 2 (4-octet, both sides confirmed 4-octet)
	buf := []byte{1, 2, 0, 0, 0, 1, 0, 0, 0, 2}
	vals, err := decodeASPath(buf, peer)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	want := []string{"{ 1 2 }"}
	if !reflect.DeepEqual(vals, want) {
		t.Errorf("expected %v, got %v", want, vals)
	}
}
