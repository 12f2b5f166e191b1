package bgp

import (
	"fmt"
	"log"
	"strings"
)

// DecodeAttributes walks a contiguous path-attribute buffer, decoding
// each attribute and recording it on update.Attrs. MP_REACH/MP_UNREACH
// carry their own NLRIs (RFC2283 decided to shove routing info in the
// attributes - thanks ietf), so those get folded into update.NLRIList
// / update.WithdrawnNLRIList as we go instead of being returned
// separately.
func DecodeAttributes(buf []byte, peer *PeerCapabilities, update *ParsedUpdate) error {
	c := NewByteCursor(buf)

	for c.Remaining() > 0 {
		if c.Remaining() < 2 {
			return fmt.Errorf("attrs: not enough bytes for flags and type")
		}
		flags, _ := c.ReadU8()
		attrType, _ := c.ReadU8()

		var attrLen int
		if flags&flagExtendedLength != 0 {
			if c.Remaining() < 2 {
				return fmt.Errorf("attrs: not enough bytes for extended length")
			}
			l, _ := c.ReadU16BE()
			attrLen = int(l)
		} else {
			if c.Remaining() < 1 {
				return fmt.Errorf("attrs: not enough bytes for length")
			}
			l, _ := c.ReadU8()
			attrLen = int(l)
		}

		if attrLen > c.Remaining() {
			log.Printf("bgp: attribute type %d declares length %d exceeding remaining %d, aborting remainder", attrType, attrLen, c.Remaining())
			return nil
		}
		body, _ := c.Take(attrLen)

		if err := decodeOneAttribute(int(attrType), body, peer, update); err != nil {
			log.Printf("bgp: attribute type %d: %s", attrType, err)
		}
	}
	return nil
}

func decodeOneAttribute(attrType int, body []byte, peer *PeerCapabilities, update *ParsedUpdate) error {
	switch attrType {
	case wireOrigin:
		return decodeOrigin(body, update)
	case wireASPath:
		return decodeASPathAttr(body, peer, update)
	case wireNextHop:
		return decodeNextHop(body, update)
	case wireMED:
		return decodeU32Attr(body, update, AttrMED, wireMED, FieldMED)
	case wireLocalPref:
		return decodeU32Attr(body, update, AttrLocalPref, wireLocalPref, FieldLocalPref)
	case wireAtomicAggregate:
		if len(body) != 0 {
			return fmt.Errorf("atomic_aggregate should be 0 bytes, got %d", len(body))
		}
		update.setAttr(AttrAtomicAggregate, wireAtomicAggregate, FieldAtomicAggr, "1")
		update.baseAttrHash.feedString(FieldAtomicAggr)
		return nil
	case wireAggregator:
		return decodeAggregator(body, update)
	case wireOriginatorID:
		return decodeOriginatorID(body, update)
	case wireClusterList:
		vals := decodeClusterList(body)
		update.setAttr(AttrClusterList, wireClusterList, FieldClusterList, vals...)
		update.baseAttrHash.feedString(FieldClusterList + strings.Join(vals, ","))
		return nil
	case wireCommunities:
		vals := decodeCommunities(body)
		update.setAttr(AttrCommunities, wireCommunities, FieldCommunity, vals...)
		update.baseAttrHash.feedString(FieldCommunity + strings.Join(vals, ","))
		return nil
	case wireExtCommunity:
		vals := decodeExtCommunities(body, 8)
		update.setAttr(AttrExtCommunity, wireExtCommunity, FieldExtCommun, vals...)
		update.baseAttrHash.feedString(FieldExtCommun + strings.Join(vals, ","))
		return nil
	case wireIPv6ExtCommun:
		vals := decodeExtCommunities(body, 20)
		update.setAttr(AttrIPv6ExtCommunity, wireIPv6ExtCommun, FieldExtCommun6, vals...)
		update.baseAttrHash.feedString(FieldExtCommun6 + strings.Join(vals, ","))
		return nil
	case wireMPReachNLRI:
		return decodeMPReachAttr(body, peer, update)
	case wireMPUnreachNLRI:
		return decodeMPUnreachAttr(body, peer, update)
	case wireBGPLS:
		vals := decodeBGPLS(body)
		update.setAttr(AttrBGPLS, wireBGPLS, FieldBGPLS, vals...)
		return nil
	case wireAS4Path, wireAS4Aggregator:
		// recognized but not decoded: we track the ASN width through
		// the peer capability latch instead of merging AS4_PATH back
		// into AS_PATH.
		return nil
	default:
		log.Printf("bgp: unknown attribute type %d, skipping", attrType)
		return nil
	}
}

func decodeOrigin(body []byte, update *ParsedUpdate) error {
	if len(body) != 1 {
		return fmt.Errorf("origin should be 1 byte, got %d", len(body))
	}
	var v string
	switch body[0] {
	case 0:
		v = "igp"
	case 1:
		v = "egp"
	case 2:
		v = "incomplete"
	default:
		return fmt.Errorf("unknown origin value %d", body[0])
	}
	update.setAttr(AttrOrigin, wireOrigin, FieldOrigin, v)
	update.baseAttrHash.feedString(FieldOrigin + v)
	return nil
}

func decodeASPathAttr(body []byte, peer *PeerCapabilities, update *ParsedUpdate) error {
	vals, err := decodeASPath(body, peer)
	if err != nil && len(vals) == 0 {
		return err
	}
	update.setAttr(AttrASPath, wireASPath, FieldASPath, vals...)
	update.baseAttrHash.feedString(FieldASPath + strings.Join(vals, ","))
	return err
}

func decodeNextHop(body []byte, update *ParsedUpdate) error {
	if len(body) != 4 {
		return fmt.Errorf("next_hop should be 4 bytes, got %d", len(body))
	}
	v := ipv4String(body)
	update.setAttr(AttrNextHop, wireNextHop, FieldNextHop, v)
	update.baseAttrHash.feedString(FieldNextHop + v)
	return nil
}

func decodeU32Attr(body []byte, update *ParsedUpdate, kind AttrKind, wireType int, field string) error {
	if len(body) != 4 {
		return fmt.Errorf("%s should be 4 bytes, got %d", field, len(body))
	}
	c := NewByteCursor(body)
	v, _ := c.ReadU32BE()
	s := itoa(int(v))
	update.setAttr(kind, wireType, field, s)
	update.baseAttrHash.feedString(field + s)
	return nil
}

func decodeAggregator(body []byte, update *ParsedUpdate) error {
	var asn uint32
	var ip []byte
	switch len(body) {
	case 6:
		c := NewByteCursor(body)
		v, _ := c.ReadU16BE()
		asn = uint32(v)
		ip, _ = c.Take(4)
	case 8:
		c := NewByteCursor(body)
		v, _ := c.ReadU32BE()
		asn = v
		ip, _ = c.Take(4)
	default:
		return fmt.Errorf("aggregator should be 6 or 8 bytes, got %d", len(body))
	}
	v := fmt.Sprintf("%d %s", asn, ipv4String(ip))
	update.setAttr(AttrAggregator, wireAggregator, FieldAggregator, v)
	update.baseAttrHash.feedString(FieldAggregator + v)
	return nil
}

func decodeOriginatorID(body []byte, update *ParsedUpdate) error {
	if len(body) != 4 {
		return fmt.Errorf("originator_id should be 4 bytes, got %d", len(body))
	}
	v := ipv4String(body)
	update.setAttr(AttrOriginatorID, wireOriginatorID, FieldOriginID, v)
	update.baseAttrHash.feedString(FieldOriginID + v)
	return nil
}

// decodeClusterList decodes CLUSTER_LIST (type 10): a list of 4-byte
// IPv4 cluster ids, one value per entry.
func decodeClusterList(body []byte) []string {
	var out []string
	for i := 0; i+4 <= len(body); i += 4 {
		out = append(out, ipv4String(body[i:i+4]))
	}
	return out
}

func ipv4String(b []byte) string {
	if len(b) < 4 {
		return ""
	}
	return fmt.Sprintf("%d.%d.%d.%d", b[0], b[1], b[2], b[3])
}

func decodeMPReachAttr(body []byte, peer *PeerCapabilities, update *ParsedUpdate) error {
	res, err := decodeMPReach(body, peer)
	if err != nil {
		return err
	}
	var vals []string
	if res.nextHop != "" {
		update.setAttr(AttrNextHop, wireNextHop, FieldNextHop, res.nextHop)
		update.baseAttrHash.feedString(FieldNextHop + res.nextHop)
		vals = append(vals, res.nextHop)
	}
	update.setAttr(AttrMPReachNLRI, wireMPReachNLRI, "mp_reach_nlri", vals...)
	update.NLRIList = append(update.NLRIList, res.nlris...)
	return nil
}

func decodeMPUnreachAttr(body []byte, peer *PeerCapabilities, update *ParsedUpdate) error {
	nlris, err := decodeMPUnreach(body, peer)
	if err != nil {
		return err
	}
	update.setAttr(AttrMPUnreachNLRI, wireMPUnreachNLRI, "mp_unreach_nlri")
	update.WithdrawnNLRIList = append(update.WithdrawnNLRIList, nlris...)
	return nil
}
