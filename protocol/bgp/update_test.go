package bgp

import "testing"

func TestParseUpdateEndOfRIB(t *testing.T) {
	peer := NewPeerCapabilities()
	d := NewUpdateDecoder(peer)
	update := NewParsedUpdate()

	buf := []byte{0x00, 0x00, 0x00, 0x00}
	n, err := d.ParseUpdate(buf, update)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if n != len(buf) {
		t.Errorf("expected to consume %d bytes, got %d", len(buf), n)
	}
	if !update.EndOfRIB {
		t.Errorf("expected EndOfRIB to be set")
	}
}

func TestParseUpdateWithdrawnOnly(t *testing.T) {
	peer := NewPeerCapabilities()
	d := NewUpdateDecoder(peer)
	update := NewParsedUpdate()

	// withdrawn_len=2, withdraw 10.0.0.0/8, attr_len=0, no nlri.
	buf := []byte{0x00, 0x02, 8, 0x0A, 0x00, 0x00}
	n, err := d.ParseUpdate(buf, update)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if n != len(buf) {
		t.Errorf("expected to consume %d bytes, got %d", len(buf), n)
	}
	if len(update.WithdrawnNLRIList) != 1 {
		t.Fatalf("expected 1 withdrawn nlri, got %d", len(update.WithdrawnNLRIList))
	}
	if update.WithdrawnNLRIList[0].Fields[FieldPrefix][0] != "10.0.0.0" {
		t.Errorf("expected 10.0.0.0, got %s", update.WithdrawnNLRIList[0].Fields[FieldPrefix][0])
	}
}

func TestParseUpdateAnnouncementWithAttrsAndNLRI(t *testing.T) {
	peer := NewPeerCapabilities()
	d := NewUpdateDecoder(peer)
	update := NewParsedUpdate()

	attrs := []byte{}
	attrs = append(attrs, 0x40, wireOrigin, 1, 0)
	attrs = append(attrs, 0x40, wireNextHop, 4, 192, 0, 2, 1)

	buf := []byte{0x00, 0x00} // withdrawn_len=0
	buf = append(buf, 0x00, byte(len(attrs)))
	buf = append(buf, attrs...)
	buf = append(buf, 0x18, 0xCB, 0x00, 0x71) // nlri 203.0.113.0/24

	n, err := d.ParseUpdate(buf, update)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if n != len(buf) {
		t.Errorf("expected to consume %d bytes, got %d", len(buf), n)
	}
	if update.EndOfRIB {
		t.Errorf("expected EndOfRIB false")
	}
	if len(update.NLRIList) != 1 {
		t.Fatalf("expected 1 nlri, got %d", len(update.NLRIList))
	}
	if update.NLRIList[0].Fields[FieldPrefix][0] != "203.0.113.0" {
		t.Errorf("expected 203.0.113.0, got %s", update.NLRIList[0].Fields[FieldPrefix][0])
	}
	if update.Attrs[AttrOrigin] == nil {
		t.Errorf("expected origin attribute to be set")
	}
	if update.Attrs[AttrNextHop] == nil {
		t.Errorf("expected next_hop attribute to be set")
	}
	if update.Attrs[attrBaseHash] == nil {
		t.Errorf("expected base attribute hash to be set")
	}
}

func TestParseUpdateTruncatedWithdrawn(t *testing.T) {
	peer := NewPeerCapabilities()
	d := NewUpdateDecoder(peer)
	update := NewParsedUpdate()

	buf := []byte{0x00, 0x05, 0x00} // declares 5 withdrawn bytes, only 1 present
	_, err := d.ParseUpdate(buf, update)
	if err == nil {
		t.Fatalf("expected TRUNCATED_WITHDRAWN error")
	}
}

func TestParseUpdateShortHeader(t *testing.T) {
	peer := NewPeerCapabilities()
	d := NewUpdateDecoder(peer)
	update := NewParsedUpdate()

	buf := []byte{0x00}
	_, err := d.ParseUpdate(buf, update)
	if err == nil {
		t.Fatalf("expected SHORT_HEADER error")
	}
}

func TestParseUpdateReset(t *testing.T) {
	peer := NewPeerCapabilities()
	d := NewUpdateDecoder(peer)
	update := NewParsedUpdate()

	buf := []byte{0x00, 0x00, 0x00, 0x00, 0x18, 0xCB, 0x00, 0x71}
	if _, err := d.ParseUpdate(buf, update); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(update.NLRIList) != 1 {
		t.Fatalf("expected 1 nlri before reset, got %d", len(update.NLRIList))
	}
	update.Reset()
	if len(update.NLRIList) != 0 || len(update.Attrs) != 0 || update.EndOfRIB {
		t.Errorf("expected cleared state after Reset")
	}
}
