package mrt

import (
	"fmt"
	"time"

	bgp "github.com/CSUNetSec/bgpupdate/protocol/bgp"
)

// Record bundles one MRT BGP4MP record's header, peer identity, and
// decoded UPDATE together.
type Record struct {
	Header Header
	Peer   PeerInfo
	Update *bgp.ParsedUpdate
}

// Decode unwraps one MRT record and runs it through dec, returning nil
// (not an error) for records that carry no UPDATE message. OPEN,
// KEEPALIVE, NOTIFICATION, and RIB-table records are a normal part of
// an MRT stream, not a failure.
func Decode(record []byte, dec *bgp.UpdateDecoder) (*Record, error) {
	hdr, peer, payload, ok, err := ExtractUpdate(record)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	update := bgp.NewParsedUpdate()
	if _, err := dec.ParseUpdate(payload, update); err != nil {
		return nil, fmt.Errorf("mrt: parsing embedded UPDATE: %w", err)
	}
	return &Record{Header: hdr, Peer: peer, Update: update}, nil
}

// Timestamp converts the record's MRT timestamp field to time.Time.
func (r *Record) Timestamp() time.Time {
	return time.Unix(int64(r.Header.Timestamp), 0)
}

// ASPath returns the rendered values of the record's AS_PATH
// attribute, in path order, exactly as AttributeDecoder produced them:
// one decimal string per AS_SEQUENCE member and one "{ a b }" entry
// per AS_SET.
func (r *Record) ASPath() []string {
	attr, ok := r.Update.Attrs[bgp.AttrASPath]
	if !ok {
		return nil
	}
	return attr.Value
}

// AdvertisedPrefixes returns the "prefix/len" text for every announced
// NLRI in the record, plain-prefix and EVPN alike.
func (r *Record) AdvertisedPrefixes() []string {
	return renderPrefixes(r.Update.NLRIList)
}

// WithdrawnPrefixes returns the "prefix/len" text for every withdrawn
// NLRI in the record.
func (r *Record) WithdrawnPrefixes() []string {
	return renderPrefixes(r.Update.WithdrawnNLRIList)
}

func renderPrefixes(nlris []*bgp.NLRI) []string {
	var out []string
	for _, n := range nlris {
		p, ok := n.Fields[bgp.FieldPrefix]
		if !ok || len(p) == 0 {
			continue
		}
		l, ok := n.Fields[bgp.FieldPrefixLen]
		if !ok || len(l) == 0 {
			out = append(out, p[0])
			continue
		}
		out = append(out, fmt.Sprintf("%s/%s", p[0], l[0]))
	}
	return out
}
