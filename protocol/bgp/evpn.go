package bgp

import (
	"fmt"
	"log"
	"net"
)

// DecodeEVPN decodes a single EVPN NLRI entry (RFC 7432). It reads
// the route-type/length header, the 8-byte route distinguisher (via
// DecodeRouteDistinguisher), and then dispatches on route type into
// the type-specific tail.
func DecodeEVPN(buf []byte) (*EVPNTuple, int, error) {
	c := NewByteCursor(buf)

	routeType, err := c.ReadU8()
	if err != nil {
		return nil, 0, fmt.Errorf("evpn: not enough bytes for route type")
	}
	length, err := c.ReadU8()
	if err != nil {
		return nil, 0, fmt.Errorf("evpn: not enough bytes for length")
	}
	if c.Remaining() < int(length) {
		return nil, 0, fmt.Errorf("evpn: declared length %d exceeds remaining %d", length, c.Remaining())
	}

	rdBytes, err := c.Take(8)
	if err != nil {
		return nil, 0, fmt.Errorf("evpn: not enough bytes for route distinguisher")
	}
	var rdArr [8]byte
	copy(rdArr[:], rdBytes)
	rdType, rdAdmin, rdAssigned := DecodeRouteDistinguisher(rdArr)

	t := &EVPNTuple{
		RouteType:        int(routeType),
		RDType:           rdType,
		RDAdministrator:  rdAdmin,
		RDAssignedNumber: rdAssigned,
	}

	switch routeType {
	case 1:
		if err := decodeEVPNType1(c, t); err != nil {
			return nil, 0, err
		}
	case 2:
		if err := decodeEVPNType2(c, t, int(length)); err != nil {
			return nil, 0, err
		}
	case 3:
		if err := decodeEVPNType3(c, t, int(length)); err != nil {
			return nil, 0, err
		}
	case 4:
		if err := decodeEVPNType4(c, t); err != nil {
			return nil, 0, err
		}
	default:
		log.Printf("bgp: unknown EVPN route type %d, skipping", routeType)
		return nil, 2 + int(length), nil
	}

	return t, 2 + int(length), nil
}

func decodeEVPNType1(c *ByteCursor, t *EVPNTuple) error {
	esiBytes, err := c.Take(10)
	if err != nil {
		return fmt.Errorf("evpn type 1: not enough bytes for ESI")
	}
	var esiArr [10]byte
	copy(esiArr[:], esiBytes)
	t.ESI = DecodeESI(esiArr)

	tag, err := c.ReadU32BE()
	if err != nil {
		return fmt.Errorf("evpn type 1: not enough bytes for ethernet tag id")
	}
	t.EthernetTagIDHex = fmt.Sprintf("%08x", tag)

	label, err := c.ReadU24BE()
	if err != nil {
		return fmt.Errorf("evpn type 1: not enough bytes for mpls label")
	}
	t.MplsLabel1 = label
	return nil
}

func decodeEVPNType2(c *ByteCursor, t *EVPNTuple, length int) error {
	esiBytes, err := c.Take(10)
	if err != nil {
		return fmt.Errorf("evpn type 2: not enough bytes for ESI")
	}
	var esiArr [10]byte
	copy(esiArr[:], esiBytes)
	t.ESI = DecodeESI(esiArr)

	tag, err := c.ReadU32BE()
	if err != nil {
		return fmt.Errorf("evpn type 2: not enough bytes for ethernet tag id")
	}
	t.EthernetTagIDHex = fmt.Sprintf("%08x", tag)

	macLen, err := c.ReadU8()
	if err != nil {
		return fmt.Errorf("evpn type 2: not enough bytes for mac length")
	}
	t.MacLen = int(macLen)
	macBytes, err := c.Take(6)
	if err != nil {
		return fmt.Errorf("evpn type 2: not enough bytes for mac address")
	}
	t.Mac = formatMAC(macBytes)

	ipLenBits, err := c.ReadU8()
	if err != nil {
		return fmt.Errorf("evpn type 2: not enough bytes for ip length")
	}
	t.IPLen = int(ipLenBits)
	ipByteLen := int(ipLenBits) / 8
	if ipByteLen > 0 {
		ipBytes, err := c.Take(ipByteLen)
		if err != nil {
			return fmt.Errorf("evpn type 2: not enough bytes for ip address")
		}
		t.IP = formatEVPNIP(ipBytes)
	}

	label1, err := c.ReadU24BE()
	if err != nil {
		return fmt.Errorf("evpn type 2: not enough bytes for mpls label 1")
	}
	t.MplsLabel1 = label1

	// presence of a second MPLS label is detected by the declared
	// length, not by remaining buffer size: len - 33 - (ip_len/8) == 3
	if length-33-ipByteLen == 3 {
		label2, err := c.ReadU24BE()
		if err != nil {
			return fmt.Errorf("evpn type 2: not enough bytes for mpls label 2")
		}
		t.MplsLabel2 = label2
	}
	return nil
}

func decodeEVPNType3(c *ByteCursor, t *EVPNTuple, length int) error {
	tag, err := c.ReadU32BE()
	if err != nil {
		return fmt.Errorf("evpn type 3: not enough bytes for ethernet tag id")
	}
	t.EthernetTagIDHex = fmt.Sprintf("%08x", tag)

	// type 3 doesn't advance past the length byte before reading the
	// IP: peek the length, then read the IP from the *current*
	// position rather than skipping it. The length byte itself thus
	// becomes the rendered IP's first octet, and the last octet of the
	// on-wire address is left unread (DecodeEVPN's declared-length
	// return value still moves the caller past it).
	ipLenBits, err := c.PeekU8()
	if err != nil {
		return fmt.Errorf("evpn type 3: not enough bytes for ip length")
	}
	t.OrigRouterIPLen = int(ipLenBits)

	ipByteLen := int(ipLenBits) / 8
	if ipByteLen > 0 {
		ipBytes, err := c.Take(ipByteLen)
		if err != nil {
			return fmt.Errorf("evpn type 3: not enough bytes for originating router ip")
		}
		t.OrigRouterIP = formatEVPNIP(ipBytes)
	}
	return nil
}

func decodeEVPNType4(c *ByteCursor, t *EVPNTuple) error {
	esiBytes, err := c.Take(10)
	if err != nil {
		return fmt.Errorf("evpn type 4: not enough bytes for ESI")
	}
	var esiArr [10]byte
	copy(esiArr[:], esiBytes)
	t.ESI = DecodeESI(esiArr)

	ipLenBits, err := c.ReadU8()
	if err != nil {
		return fmt.Errorf("evpn type 4: not enough bytes for ip length")
	}
	t.OrigRouterIPLen = int(ipLenBits)

	ipByteLen := int(ipLenBits) / 8
	if ipByteLen > 0 {
		ipBytes, err := c.Take(ipByteLen)
		if err != nil {
			return fmt.Errorf("evpn type 4: not enough bytes for originating router ip")
		}
		t.OrigRouterIP = formatEVPNIP(ipBytes)
	}
	return nil
}

// formatEVPNIP renders an EVPN IP field as IPv4 or IPv6 presentation
// form depending on its length.
func formatEVPNIP(b []byte) string {
	switch len(b) {
	case 4, 16:
		return net.IP(b).String()
	default:
		return ""
	}
}
