package bgp

import (
	"encoding/hex"
	"fmt"
	"log"
	"net"
)

// mpReachResult carries what MP_REACH_NLRI contributes beyond the
// attribute's own rendered value: a next-hop override and a list of
// announced NLRIs recovered from the multiprotocol blob.
type mpReachResult struct {
	nextHop string
	nlris   []*NLRI
}

// decodeMPReach decodes MP_REACH_NLRI: AFI/SAFI, next-hop (with the
// RFC 2545 dual global+link-local IPv6 case), the deprecated SNPA
// list, and the inner NLRI blob.
func decodeMPReach(buf []byte, peer *PeerCapabilities) (*mpReachResult, error) {
	c := NewByteCursor(buf)
	if c.Remaining() < 4 {
		return nil, fmt.Errorf("mp_reach: not enough bytes for afi/safi/nhlen")
	}
	afi, _ := c.ReadU16BE()
	safi, _ := c.ReadU8()
	nhLen, _ := c.ReadU8()

	var nextHop string
	if nhLen > 0 {
		nhBytes, err := c.Take(int(nhLen))
		if err != nil {
			return nil, fmt.Errorf("mp_reach: next hop length %d exceeds remaining buffer", nhLen)
		}
		switch {
		case int(afi) == AFI_IPv6 && nhLen == 16:
			nextHop = net.IP(nhBytes).String()
		case int(afi) == AFI_IPv6 && nhLen == 32:
			// global + link-local IPv6, RFC 2545; we only care about
			// the global address so the link-local half is dropped.
			nextHop = net.IP(nhBytes[:16]).String()
		case int(afi) == AFI_IPv4 && nhLen == 4:
			nextHop = net.IP(nhBytes).String()
		default:
			nextHop = hex.EncodeToString(nhBytes)
		}
	}

	snpaCount, err := c.ReadU8()
	if err != nil {
		return nil, fmt.Errorf("mp_reach: not enough bytes for SNPA count")
	}
	for i := 0; i < int(snpaCount); i++ {
		snpaLen, err := c.ReadU8()
		if err != nil {
			return nil, fmt.Errorf("mp_reach: not enough bytes for SNPA length")
		}
		if err := c.Skip(int(snpaLen)); err != nil {
			return nil, fmt.Errorf("mp_reach: not enough bytes for SNPA data")
		}
	}

	nlris, err := decodeMPNLRI(c.Rest(), int(afi), int(safi), peer)
	if err != nil {
		return nil, err
	}
	return &mpReachResult{nextHop: nextHop, nlris: nlris}, nil
}

// decodeMPUnreach decodes MP_UNREACH_NLRI: AFI/SAFI followed directly
// by the withdrawn-NLRI blob.
func decodeMPUnreach(buf []byte, peer *PeerCapabilities) ([]*NLRI, error) {
	c := NewByteCursor(buf)
	if c.Remaining() < 3 {
		return nil, fmt.Errorf("mp_unreach: not enough bytes for afi/safi")
	}
	afi, _ := c.ReadU16BE()
	safi, _ := c.ReadU8()
	return decodeMPNLRI(c.Rest(), int(afi), int(safi), peer)
}

// decodeMPNLRI dispatches the inner NLRI blob of an MP_REACH/MP_UNREACH
// attribute by AFI/SAFI, recursing into EVPN or plain prefix decoding
// as appropriate.
func decodeMPNLRI(buf []byte, afi, safi int, peer *PeerCapabilities) ([]*NLRI, error) {
	switch {
	case safi == SAFI_EVPN:
		return decodeEVPNList(buf)
	case (afi == AFI_IPv4 || afi == AFI_IPv6) && safi == SAFI_Unicast:
		addPath := peer.addPathEnabled(afi, safi)
		peerHash := ""
		if peer != nil {
			peerHash = peer.PeerHashStr
		}
		return DecodePrefixesAFI(buf, afi, addPath, peerHash), nil
	default:
		logUnknownAfiSafi(afi, safi)
		return nil, nil
	}
}

func decodeEVPNList(buf []byte) ([]*NLRI, error) {
	var out []*NLRI
	c := NewByteCursor(buf)
	for c.Remaining() > 0 {
		tuple, consumed, err := DecodeEVPN(c.Rest())
		if err != nil {
			return out, err
		}
		if err := c.Skip(consumed); err != nil {
			return out, err
		}
		if tuple != nil {
			out = append(out, tuple.ToNLRI())
		}
	}
	return out, nil
}

func logUnknownAfiSafi(afi, safi int) {
	log.Printf("bgp: AFI/SAFI (%d,%d) not implemented, skipping", afi, safi)
}
