package bgp

import "testing"

// buildEVPNType2 builds a type-2 MAC/IP advertisement NLRI: RD type 0
// admin=100 asn=200, ESI type 0 all-zero, tag-id 0, MAC
// 00:11:22:33:44:55, IPv4 10.1.1.1, one MPLS label 100.
func buildEVPNType2(t *testing.T) []byte {
	t.Helper()
	body := []byte{}
	// RD: byte0 discarded, type(1)=0, admin(2)=100, assigned(4)=200
	body = append(body, 0x00, 0x00, 0x00, 0x64, 0x00, 0x00, 0x00, 0xC8)
	// ESI: type 0, 9 zero bytes
	body = append(body, make([]byte, 10)...)
	// ethernet tag id
	body = append(body, 0x00, 0x00, 0x00, 0x00)
	// mac len (bits) = 48, mac
	body = append(body, 48, 0x00, 0x11, 0x22, 0x33, 0x44, 0x55)
	// ip len (bits) = 32, ip 10.1.1.1
	body = append(body, 32, 10, 1, 1, 1)
	// mpls label 1 = 100 (24-bit)
	body = append(body, 0x00, 0x00, 0x64)

	full := []byte{2, byte(len(body))}
	full = append(full, body...)
	return full
}

func TestDecodeEVPNType2(t *testing.T) {
	buf := buildEVPNType2(t)
	tuple, consumed, err := DecodeEVPN(buf)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if consumed != len(buf) {
		t.Errorf("expected to consume %d bytes, consumed %d", len(buf), consumed)
	}
	if tuple.RDType != 0 {
		t.Errorf("expected rd_type 0, got %d", tuple.RDType)
	}
	if tuple.RDAdministrator != "100" {
		t.Errorf("expected rd admin 100, got %s", tuple.RDAdministrator)
	}
	if tuple.RDAssignedNumber != "200" {
		t.Errorf("expected rd assigned 200, got %s", tuple.RDAssignedNumber)
	}
	if tuple.Mac != "00:11:22:33:44:55" {
		t.Errorf("expected mac 00:11:22:33:44:55, got %s", tuple.Mac)
	}
	if tuple.IP != "10.1.1.1" {
		t.Errorf("expected ip 10.1.1.1, got %s", tuple.IP)
	}
	if tuple.MplsLabel1 != 100 {
		t.Errorf("expected mpls_label_1 100, got %d", tuple.MplsLabel1)
	}
	if tuple.MplsLabel2 != 0 {
		t.Errorf("expected mpls_label_2 0, got %d", tuple.MplsLabel2)
	}
}

func TestDecodeEVPNType2TwoLabels(t *testing.T) {
	buf := buildEVPNType2(t)
	// append a second 3-byte label and bump the declared length by 3.
	buf = append(buf, 0x00, 0x00, 0xC8) // label2 = 200
	buf[1] += 3

	tuple, consumed, err := DecodeEVPN(buf)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if consumed != len(buf) {
		t.Errorf("expected to consume %d bytes, consumed %d", len(buf), consumed)
	}
	if tuple.MplsLabel2 != 200 {
		t.Errorf("expected mpls_label_2 200, got %d", tuple.MplsLabel2)
	}
}

func TestDecodeEVPNUnknownRouteType(t *testing.T) {
	// length=8 covers exactly the RD that always follows the header.
	buf := append([]byte{99, 8}, make([]byte, 8)...)
	tuple, consumed, err := DecodeEVPN(buf)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if tuple != nil {
		t.Errorf("expected nil tuple for unknown route type")
	}
	if consumed != 10 {
		t.Errorf("expected to consume 10 bytes, got %d", consumed)
	}
}
