package bgp

import (
	"log"
	"net"
)

// DecodePrefixes decodes a withdrawn or NLRI prefix list for IPv4
// unicast. It iterates buf until exhausted, appending one *NLRI per
// prefix. Shares its address-width plumbing with DecodePrefixesAFI so
// MP_REACH/MP_UNREACH can reuse the same walk for IPv6.
func DecodePrefixes(buf []byte, addPath bool, peerHashStr string) []*NLRI {
	return decodePrefixesAFI(buf, AFI_IPv4, 4, addPath, peerHashStr)
}

// DecodePrefixesAFI decodes a prefix list for the given AFI (IPv4 or
// IPv6), used by MP_REACH_NLRI/MP_UNREACH_NLRI for IPv6 unicast.
func DecodePrefixesAFI(buf []byte, afi int, addPath bool, peerHashStr string) []*NLRI {
	addrLen := 4
	if afi == AFI_IPv6 {
		addrLen = 16
	}
	return decodePrefixesAFI(buf, afi, addrLen, addPath, peerHashStr)
}

func decodePrefixesAFI(buf []byte, afi, addrLen int, addPath bool, peerHashStr string) []*NLRI {
	var out []*NLRI
	c := NewByteCursor(buf)

	for c.Remaining() > 0 {
		var pathID uint32
		if addPath && c.Remaining() >= 4 {
			v, err := c.ReadU32BE()
			if err != nil {
				// can't happen: guarded by Remaining() check above.
				break
			}
			pathID = v
		}

		if c.Remaining() < 1 {
			log.Printf("bgp: malformed prefix: not enough bytes for prefix length")
			break
		}
		bitlen, err := c.ReadU8()
		if err != nil {
			break
		}
		byteLen := (int(bitlen) + 7) / 8
		if byteLen > addrLen {
			log.Printf("bgp: malformed prefix: %d address bytes requested, max is %d", byteLen, addrLen)
			break
		}

		raw, err := c.Take(byteLen)
		if err != nil {
			log.Printf("bgp: malformed prefix: buffer too small for %d address bytes", byteLen)
			break
		}

		addrBuf := make([]byte, addrLen)
		copy(addrBuf, raw)
		if bitlen%8 != 0 && byteLen > 0 {
			mask := byte(uint16(0xff00) >> (bitlen % 8))
			addrBuf[byteLen-1] &= mask
		}

		prefixText := net.IP(addrBuf).String()
		if afi == AFI_IPv4 {
			prefixText = net.IP(addrBuf[:4]).String()
		}

		hashHex := computeNLRIHash(pathID, int(bitlen), prefixText, addrBuf, peerHashStr)

		n := newNLRI(afi, SAFI_Unicast, "prefix")
		n.set(FieldPathID, itoa(int(pathID)))
		n.set(FieldPrefixLen, itoa(int(bitlen)))
		n.set(FieldPrefix, prefixText)
		n.Fields[FieldPrefixBin] = []string{string(addrBuf)}
		n.set(FieldHash, hashHex)
		out = append(out, n)
	}
	return out
}
