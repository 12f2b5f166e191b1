package bgp

import (
	"fmt"
	"log"
)

// UpdateDecoder is bound to a single peer's capabilities for its
// lifetime and is invoked once per UPDATE message payload (the 19
// byte BGP message header has already been stripped by the caller).
// It is not thread-safe; callers needing concurrent per-peer decoding
// should construct one UpdateDecoder per peer.
type UpdateDecoder struct {
	peer *PeerCapabilities
}

// NewUpdateDecoder returns a decoder bound to peer. peer must outlive
// every call to ParseUpdate that uses it, since the ASN-width latches
// are mutated in place.
func NewUpdateDecoder(peer *PeerCapabilities) *UpdateDecoder {
	return &UpdateDecoder{peer: peer}
}

// ParseUpdate parses the UPDATE envelope (withdrawn length, withdrawn
// prefixes, attribute length, attributes, trailing NLRI), populating
// update in place, and returns the number of bytes consumed (0 on a
// fatal envelope failure). MP_REACH/MP_UNREACH-derived routes get
// folded into the same lists the plain prefix walk populates.
func (d *UpdateDecoder) ParseUpdate(buf []byte, update *ParsedUpdate) (int, error) {
	total := len(buf)
	if total < 2 {
		return 0, fmt.Errorf("bgp: SHORT_HEADER: update smaller than withdrawn-length prefix")
	}

	c := NewByteCursor(buf)
	withdrawnLen, _ := c.ReadU16BE()
	if int(withdrawnLen) > c.Remaining() {
		return 0, fmt.Errorf("bgp: TRUNCATED_WITHDRAWN: declared %d, remaining %d", withdrawnLen, c.Remaining())
	}
	withdrawnBuf, _ := c.Take(int(withdrawnLen))

	if c.Remaining() < 2 {
		return 0, fmt.Errorf("bgp: TRUNCATED_ATTRS: not enough bytes for attribute length")
	}
	attrLen, _ := c.ReadU16BE()
	if int(attrLen) > c.Remaining() {
		return 0, fmt.Errorf("bgp: TRUNCATED_ATTRS: declared %d, remaining %d", attrLen, c.Remaining())
	}
	attrBuf, _ := c.Take(int(attrLen))
	nlriBuf := c.Rest()

	if withdrawnLen == 0 && attrLen == 0 && len(nlriBuf) == 0 {
		update.EndOfRIB = true
		return total, nil
	}

	addPathUnicastV4 := d.peer.addPathEnabled(AFI_IPv4, SAFI_Unicast)
	peerHash := ""
	if d.peer != nil {
		peerHash = d.peer.PeerHashStr
	}

	if len(withdrawnBuf) > 0 {
		update.WithdrawnNLRIList = append(update.WithdrawnNLRIList, DecodePrefixes(withdrawnBuf, addPathUnicastV4, peerHash)...)
	}

	if len(attrBuf) > 0 {
		if err := DecodeAttributes(attrBuf, d.peer, update); err != nil {
			log.Printf("bgp: attribute buffer truncated mid-parse: %s", err)
		}
	}

	if len(nlriBuf) > 0 {
		update.NLRIList = append(update.NLRIList, DecodePrefixes(nlriBuf, addPathUnicastV4, peerHash)...)
	}

	// base-attribute hash is finalized last, after every attribute has
	// fed it in parse order.
	update.Attrs[attrBaseHash] = &AttributeValue{Name: FieldBaseAttrH, Value: []string{update.baseAttrHash.hex()}}

	return total, nil
}

// attrBaseHash is a synthetic AttrKind for the base-attribute hash,
// kept distinct from the wire attribute kinds above it.
const attrBaseHash AttrKind = 1000
