// Package filter implements predicates over decoded MRT BGP4MP
// records: prefix-containment filters and AS-path-position filters,
// composed with FilterAll the way a caller chains multiple passes.
package filter

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	mrt "github.com/CSUNetSec/bgpupdate/protocol/mrt"
)

// Filter reports whether one decoded MRT record should be kept.
type Filter func(r *mrt.Record) bool

const (
	AdvPrefix = iota
	WdrPrefix
	AnyPrefix
)

// PrefixFilter keeps records that advertise or withdraw (per loc) a
// prefix covered by one of its monitored networks.
type PrefixFilter struct {
	nets []*net.IPNet
	loc  int
}

// NewPrefixFilterFromString parses a sep-delimited list of CIDR
// strings into a Filter.
func NewPrefixFilterFromString(raw string, sep string, loc int) (Filter, error) {
	return NewPrefixFilterFromSlice(strings.Split(raw, sep), loc)
}

// NewPrefixFilterFromSlice builds a Filter from a slice of CIDR
// strings ("10.0.0.0/8" form).
func NewPrefixFilterFromSlice(prefstrings []string, loc int) (Filter, error) {
	pf := PrefixFilter{loc: loc}
	for _, p := range prefstrings {
		_, ipnet, err := net.ParseCIDR(p)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("malformed prefix string %q", p))
		}
		pf.nets = append(pf.nets, ipnet)
	}
	return pf.filterBySeen, nil
}

func (pf PrefixFilter) filterBySeen(r *mrt.Record) bool {
	if pf.loc == AdvPrefix || pf.loc == AnyPrefix {
		if pf.anyCovered(r.AdvertisedPrefixes()) {
			return true
		}
	}
	if pf.loc == WdrPrefix || pf.loc == AnyPrefix {
		if pf.anyCovered(r.WithdrawnPrefixes()) {
			return true
		}
	}
	return false
}

func (pf PrefixFilter) anyCovered(prefixes []string) bool {
	for _, p := range prefixes {
		ip, pnet, err := net.ParseCIDR(p)
		if err != nil {
			continue
		}
		plen, _ := pnet.Mask.Size()
		for _, n := range pf.nets {
			nlen, _ := n.Mask.Size()
			if n.Contains(ip) && plen >= nlen {
				return true
			}
		}
	}
	return false
}

// ASPosition identifies where in an AS_PATH a match must occur.
type ASPosition uint32

const (
	AS_SOURCE = ASPosition(iota)
	AS_DESTINATION
	AS_MIDPATH
	AS_ANYWHERE
)

// ASFilter keeps records whose AS_PATH contains one of asList at the
// configured position.
type ASFilter struct {
	asList []uint32
}

// NewASFilter parses a comma-separated AS list ("1,2,3") into a
// Filter at the given path position.
func NewASFilter(list string, pos ASPosition) (Filter, error) {
	aslist, err := parseASList(list)
	if err != nil {
		return nil, err
	}
	return NewASFilterFromSlice(aslist, pos)
}

// NewASFilterFromSlice builds a Filter from an already-parsed AS list.
func NewASFilterFromSlice(aslist []uint32, pos ASPosition) (Filter, error) {
	asf := ASFilter{aslist}
	switch pos {
	case AS_SOURCE:
		return asf.FilterBySource, nil
	case AS_DESTINATION:
		return asf.FilterByDest, nil
	case AS_MIDPATH:
		return asf.FilterByMidPath, nil
	case AS_ANYWHERE:
		return asf.FilterByAnywhere, nil
	}
	return nil, errors.New("unsupported AS position argument")
}

// FilterBySource matches the AS at the origin end of the path (the
// last hop, the network that announced the prefix).
func (asf ASFilter) FilterBySource(r *mrt.Record) bool {
	path := r.ASPath()
	if len(path) < 1 {
		return false
	}
	return asf.matchesOne(path[len(path)-1])
}

// FilterByDest matches the AS closest to the collector (the first hop
// in the path).
func (asf ASFilter) FilterByDest(r *mrt.Record) bool {
	path := r.ASPath()
	if len(path) < 1 {
		return false
	}
	return asf.matchesOne(path[0])
}

// FilterByMidPath matches any AS strictly between source and
// destination.
func (asf ASFilter) FilterByMidPath(r *mrt.Record) bool {
	path := r.ASPath()
	if len(path) < 3 {
		return false
	}
	for _, as := range path[1 : len(path)-1] {
		if asf.matchesOne(as) {
			return true
		}
	}
	return false
}

// FilterByAnywhere matches the AS anywhere in the path.
func (asf ASFilter) FilterByAnywhere(r *mrt.Record) bool {
	path := r.ASPath()
	for _, as := range path {
		if asf.matchesOne(as) {
			return true
		}
	}
	return false
}

func (asf ASFilter) matchesOne(comp string) bool {
	for _, asnum := range asf.asList {
		if strconv.FormatUint(uint64(asnum), 10) == comp {
			return true
		}
	}
	return false
}

func parseASList(str string) ([]uint32, error) {
	list := strings.Split(str, ",")
	aslist := make([]uint32, len(list))
	for i := range aslist {
		as, err := strconv.ParseUint(list[i], 10, 32)
		if err != nil {
			return nil, err
		}
		aslist[i] = uint32(as)
	}
	return aslist, nil
}

// FilterAll reports whether r passes every non-nil filter.
func FilterAll(filters []Filter, r *mrt.Record) bool {
	for _, f := range filters {
		if f != nil && !f(r) {
			return false
		}
	}
	return true
}
