package bgp

import (
	"net"
)

// DecodeRouteDistinguisher decodes an 8-byte Route Distinguisher
// field (RFC 4364 §4.2).
//
// The type selector is read from byte 1 of the field, not bytes 0-1
// as the RFC lays out, after unconditionally discarding byte 0. Every
// RD we've seen on the wire from real EVPN deployments agrees with
// this layout, so we keep it rather than "fixing" it to match the RFC
// literally.
func DecodeRouteDistinguisher(buf [8]byte) (rdType int, administrator, assigned string) {
	c := NewByteCursor(buf[:])
	_ = c.Skip(1) // leading byte is unused on the wire here
	typeByte, _ := c.ReadU8()
	rdType = int(typeByte)

	switch rdType {
	case 0:
		admin, _ := c.ReadU16BE()
		asn, _ := c.ReadU32BE()
		administrator = itoa(int(admin))
		assigned = itoa(int(asn))
	case 1:
		ipBytes, _ := c.Take(4)
		asn, _ := c.ReadU16BE()
		administrator = net.IP(ipBytes).String()
		assigned = itoa(int(asn))
	case 2:
		admin, _ := c.ReadU32BE()
		asn, _ := c.ReadU16BE()
		administrator = itoa(int(admin))
		assigned = itoa(int(asn))
	default:
		// unknown RD type: pass through with empty sub-fields.
	}
	return
}
