package bgp

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"log"
)

// DecodeESI decodes a 10-byte Ethernet Segment Identifier field
// (RFC 7432 §5): a 1-byte type selector followed by a 9-byte value
// whose layout depends on the type.
func DecodeESI(buf [10]byte) string {
	typ := buf[0]
	val := buf[1:]

	switch typ {
	case 0:
		return fmt.Sprintf("0 %s", hex.EncodeToString(val))
	case 1:
		mac := formatMAC(val[:6])
		port := binary.BigEndian.Uint16(val[6:8])
		return fmt.Sprintf("1 %s %d", mac, port)
	case 2:
		mac := formatMAC(val[:6])
		prio := binary.BigEndian.Uint16(val[6:8])
		return fmt.Sprintf("2 %s %d", mac, prio)
	case 3:
		mac := formatMAC(val[:6])
		disc := beUint24(val[6:9])
		return fmt.Sprintf("3 %s %d", mac, disc)
	case 4:
		routerID := binary.BigEndian.Uint32(val[0:4])
		disc := binary.BigEndian.Uint32(val[4:8])
		return fmt.Sprintf("4 %d %d", routerID, disc)
	case 5:
		as := binary.BigEndian.Uint32(val[0:4])
		disc := binary.BigEndian.Uint32(val[4:8])
		return fmt.Sprintf("5 %d %d", as, disc)
	default:
		log.Printf("bgp: unknown ESI type %d", typ)
		return ""
	}
}

func formatMAC(b []byte) string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", b[0], b[1], b[2], b[3], b[4], b[5])
}

func beUint24(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}
