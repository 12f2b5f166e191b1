package bgp

import (
	"encoding/hex"
	"fmt"
	"log"
)

// decodeBGPLS decodes the BGP_LS attribute (type 29): a sequence of
// {type:u16, length:u16, value} link-state sub-TLVs (RFC 7752 §3.1).
// Per-TLV semantic decode (node/link/prefix descriptors) isn't done
// here; each sub-TLV is rendered as "<type>:<hex value>".
func decodeBGPLS(buf []byte) []string {
	var out []string
	c := NewByteCursor(buf)
	for c.Remaining() > 0 {
		if c.Remaining() < 4 {
			log.Printf("bgp: BGP_LS: not enough bytes for sub-TLV header, stopping")
			break
		}
		tlvType, _ := c.ReadU16BE()
		tlvLen, _ := c.ReadU16BE()
		if int(tlvLen) > c.Remaining() {
			log.Printf("bgp: BGP_LS: sub-TLV length %d exceeds remaining %d, stopping", tlvLen, c.Remaining())
			break
		}
		val, _ := c.Take(int(tlvLen))
		out = append(out, fmt.Sprintf("%d:%s", tlvType, hex.EncodeToString(val)))
	}
	return out
}
