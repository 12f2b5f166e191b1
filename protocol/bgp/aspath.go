package bgp

import (
	"fmt"
	"log"
	"strings"
)

const (
	segASSet      = 1
	segASSequence = 2
)

// asnOctetSize resolves the effective AS_PATH ASN width for this peer.
// On the first AS_PATH a peer's capabilities are ambiguous about, it
// performs a dry-run walk of buf assuming 4-octet ASNs: if that walk
// consumes exactly the whole buffer, 4-octet is confirmed; otherwise
// the peer is latched to 2-octet. Both latches live on
// PeerCapabilities so the heuristic runs at most once per peer.
func asnOctetSize(peer *PeerCapabilities, buf []byte) int {
	if peer == nil {
		return 4
	}
	if peer.RecvFourOctetASN && peer.SentFourOctetASN {
		return 4
	}
	if !peer.CheckedASNOctetLength {
		peer.CheckedASNOctetLength = true
		if dryRunFourOctetWalk(buf) {
			// confirmed 4-octet; leave UsingTwoOctetASN false.
		} else {
			peer.UsingTwoOctetASN = true
			log.Printf("bgp: AS_PATH width heuristic: downgrading peer to 2-octet ASNs")
		}
	}
	if peer.UsingTwoOctetASN {
		return 2
	}
	return 4
}

// dryRunFourOctetWalk walks buf as a sequence of {seg_type, seg_len,
// asn[seg_len]} segments assuming 4-octet ASNs, and reports whether
// the walk lands on exactly zero remaining bytes.
func dryRunFourOctetWalk(buf []byte) bool {
	c := NewByteCursor(buf)
	for c.Remaining() > 0 {
		if c.Remaining() < 2 {
			return false
		}
		_, _ = c.ReadU8() // seg_type, irrelevant to the walk
		segLen, _ := c.ReadU8()
		need := int(segLen) * 4
		if need > c.Remaining() {
			return false
		}
		_ = c.Skip(need)
	}
	return c.Remaining() == 0
}

// decodeASPath decodes the AS_PATH attribute, rendering AS_SEQUENCE
// segments as one decimal string per ASN and AS_SET segments as a
// single "{ a b c }" list entry.
func decodeASPath(buf []byte, peer *PeerCapabilities) ([]string, error) {
	width := asnOctetSize(peer, buf)
	c := NewByteCursor(buf)
	var values []string

	for c.Remaining() > 0 {
		if c.Remaining() < 2 {
			return values, fmt.Errorf("as_path: not enough bytes for segment header")
		}
		segType, _ := c.ReadU8()
		segLen, _ := c.ReadU8()

		w := width
		if int(segLen)*w > c.Remaining() {
			// a mis-detected width mid-stream: fall back to 2-octet
			// and see if that fits instead.
			log.Printf("bgp: AS_PATH segment overruns buffer at width %d, retrying at 2-octet", w)
			w = 2
		}
		if int(segLen)*w > c.Remaining() {
			return values, fmt.Errorf("as_path: segment of length %d overruns buffer even at 2-octet width", segLen)
		}

		asns := make([]string, 0, segLen)
		for i := 0; i < int(segLen); i++ {
			var asn uint32
			if w == 4 {
				asn, _ = c.ReadU32BE()
			} else {
				v, _ := c.ReadU16BE()
				asn = uint32(v)
			}
			asns = append(asns, itoa(int(asn)))
		}

		switch segType {
		case segASSequence:
			values = append(values, asns...)
		case segASSet:
			values = append(values, "{ "+strings.Join(asns, " ")+" }")
		default:
			log.Printf("bgp: malformed AS_PATH segment type %d, continuing", segType)
		}
	}
	return values, nil
}
