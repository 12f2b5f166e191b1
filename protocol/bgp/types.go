package bgp

import "strconv"

// Well-known field-name identifiers. These strings are part of the
// external contract consumers key on and must not change.
const (
	FieldPrefix      = "prefix"
	FieldPrefixLen   = "prefix_len"
	FieldPrefixBin   = "prefix_bin"
	FieldPathID      = "path_id"
	FieldHash        = "hash"
	FieldASPath      = "as_path"
	FieldNextHop     = "next_hop"
	FieldMED         = "med"
	FieldLocalPref   = "local_pref"
	FieldAtomicAggr  = "atomic_aggregate"
	FieldAggregator  = "aggregator"
	FieldOriginID    = "originator_id"
	FieldClusterList = "cluster_list"
	FieldCommunity   = "community_list"
	FieldExtCommun   = "ext_community_list"
	FieldExtCommun6  = "ipv6_ext_community_list"
	FieldOrigin      = "origin"
	FieldBaseAttrH   = "base_attr_hash"
	FieldBGPLS       = "bgp_ls"

	// EVPN NLRI field names.
	FieldRDType      = "rd_type"
	FieldRDAdmin     = "rd_administrator_subfield"
	FieldRDAssigned  = "rd_assigned_number"
	FieldESI         = "ethernet_segment_identifier"
	FieldEthTagHex   = "ethernet_tag_id_hex"
	FieldMacLen      = "mac_len"
	FieldMac         = "mac"
	FieldIPLen       = "ip_len"
	FieldIP          = "ip"
	FieldMplsLabel1  = "mpls_label_1"
	FieldMplsLabel2  = "mpls_label_2"
	FieldOrigRtrIP   = "originating_router_ip"
	FieldOrigRtrIPLn = "originating_router_ip_len"
)

// AttrKind identifies a decoded path attribute internally. It is
// distinct from the wire attribute-type byte so callers have a single
// stable key space. AS4_PATH and AS4_AGGREGATOR have no AttrKind:
// they are not decoded.
type AttrKind int

const (
	AttrOrigin AttrKind = iota
	AttrASPath
	AttrNextHop
	AttrMED
	AttrLocalPref
	AttrAtomicAggregate
	AttrAggregator
	AttrOriginatorID
	AttrClusterList
	AttrCommunities
	AttrExtCommunity
	AttrIPv6ExtCommunity
	AttrMPReachNLRI
	AttrMPUnreachNLRI
	AttrBGPLS
)

// wire attribute type codes, RFC 4271 / RFC 4760 / RFC 6793.
const (
	wireOrigin          = 1
	wireASPath          = 2
	wireNextHop         = 3
	wireMED             = 4
	wireLocalPref       = 5
	wireAtomicAggregate = 6
	wireAggregator      = 7
	wireCommunities     = 8
	wireOriginatorID    = 9
	wireClusterList     = 10
	wireMPReachNLRI     = 14
	wireMPUnreachNLRI   = 15
	wireExtCommunity    = 16
	wireAS4Path         = 17
	wireAS4Aggregator   = 18
	wireIPv6ExtCommun   = 25
	wireBGPLS           = 29

	flagExtendedLength = 0x10
)

// AttributeValue is the rendered form of one path attribute: its wire
// type, a human name, and an ordered list of stringified values.
// Multi-valued attributes (AS_PATH segments, community entries,
// cluster-list entries) produce one list entry per element.
type AttributeValue struct {
	OfficialType int
	Name         string
	Value        []string
}

// AFI/SAFI identifiers this decoder recognizes.
const (
	AFI_IPv4  = 1
	AFI_IPv6  = 2
	AFI_BGPLS = 16388

	SAFI_Unicast         = 1
	SAFI_Multicast       = 2
	SAFI_MPLSLabel       = 4
	SAFI_MCastVPN        = 5
	SAFI_VPLS            = 65
	SAFI_MDT             = 66
	SAFI_4over6          = 124
	SAFI_6over4          = 125
	SAFI_EVPN            = 70
	SAFI_BGPLS           = 71
	SAFI_MPLS            = 128
	SAFI_MCastMPLSVPN    = 129
	SAFI_RouteTargetCstr = 132
)

// NLRI is a generic, AFI/SAFI-tagged decoded route: either a plain
// prefix, an EVPN tuple, or (in the future) a link-state object. Type
// distinguishes the variant within the AFI/SAFI; Fields carries the
// named, stringified payload (PREFIX, PREFIX_LENGTH, PATH_ID,
// PREFIX_BIN, HASH and any AFI-specific fields).
type NLRI struct {
	AFI    int
	SAFI   int
	Type   string
	Fields map[string][]string
}

func newNLRI(afi, safi int, typ string) *NLRI {
	return &NLRI{AFI: afi, SAFI: safi, Type: typ, Fields: make(map[string][]string)}
}

func (n *NLRI) set(field, value string) {
	n.Fields[field] = []string{value}
}

func (n *NLRI) append(field, value string) {
	n.Fields[field] = append(n.Fields[field], value)
}

// EVPNTuple is the AFI/SAFI=EVPN NLRI payload: a tagged union over
// EVPN route type with the common RD/ESI header and type-specific
// tails. Go field names map 1:1 to the Field* string constants above
// via ToNLRI.
type EVPNTuple struct {
	RouteType int

	RDType             int
	RDAdministrator    string
	RDAssignedNumber   string
	ESI                string
	EthernetTagIDHex   string
	MacLen             int
	Mac                string
	IPLen              int
	IP                 string
	MplsLabel1         uint32
	MplsLabel2         uint32
	OrigRouterIPLen    int
	OrigRouterIP       string
}

// ToNLRI renders an EVPNTuple into the generic NLRI field-map shape.
func (t *EVPNTuple) ToNLRI() *NLRI {
	n := newNLRI(AFI_IPv4, SAFI_EVPN, evpnRouteTypeName(t.RouteType))
	n.set(FieldRDType, itoa(t.RDType))
	n.set(FieldRDAdmin, t.RDAdministrator)
	n.set(FieldRDAssigned, t.RDAssignedNumber)
	if t.ESI != "" {
		n.set(FieldESI, t.ESI)
	}
	switch t.RouteType {
	case 1:
		n.set(FieldEthTagHex, t.EthernetTagIDHex)
		n.set(FieldMplsLabel1, itoa(int(t.MplsLabel1)))
	case 2:
		n.set(FieldEthTagHex, t.EthernetTagIDHex)
		n.set(FieldMacLen, itoa(t.MacLen))
		n.set(FieldMac, t.Mac)
		n.set(FieldIPLen, itoa(t.IPLen))
		if t.IP != "" {
			n.set(FieldIP, t.IP)
		}
		n.set(FieldMplsLabel1, itoa(int(t.MplsLabel1)))
		n.set(FieldMplsLabel2, itoa(int(t.MplsLabel2)))
	case 3:
		n.set(FieldEthTagHex, t.EthernetTagIDHex)
		n.set(FieldOrigRtrIPLn, itoa(t.OrigRouterIPLen))
		if t.OrigRouterIP != "" {
			n.set(FieldOrigRtrIP, t.OrigRouterIP)
		}
	case 4:
		n.set(FieldOrigRtrIPLn, itoa(t.OrigRouterIPLen))
		if t.OrigRouterIP != "" {
			n.set(FieldOrigRtrIP, t.OrigRouterIP)
		}
	}
	return n
}

func evpnRouteTypeName(rt int) string {
	switch rt {
	case 1:
		return "ethernet-auto-discovery"
	case 2:
		return "mac-ip-advertisement"
	case 3:
		return "inclusive-multicast-ethernet-tag"
	case 4:
		return "ethernet-segment-route"
	default:
		return "unknown"
	}
}

// ParsedUpdate is the output record of one UPDATE message.
type ParsedUpdate struct {
	NLRIList          []*NLRI
	WithdrawnNLRIList []*NLRI
	Attrs             map[AttrKind]*AttributeValue

	// EndOfRIB is set when the message was an empty End-of-RIB marker.
	EndOfRIB bool

	baseAttrHash hashState
}

// NewParsedUpdate returns an empty, ready-to-fill ParsedUpdate.
func NewParsedUpdate() *ParsedUpdate {
	return &ParsedUpdate{Attrs: make(map[AttrKind]*AttributeValue)}
}

// Reset clears a ParsedUpdate for reuse across messages.
func (p *ParsedUpdate) Reset() {
	p.NLRIList = p.NLRIList[:0]
	p.WithdrawnNLRIList = p.WithdrawnNLRIList[:0]
	for k := range p.Attrs {
		delete(p.Attrs, k)
	}
	p.EndOfRIB = false
	p.baseAttrHash = hashState{}
}

func (p *ParsedUpdate) setAttr(kind AttrKind, wireType int, name string, values ...string) {
	p.Attrs[kind] = &AttributeValue{OfficialType: wireType, Name: name, Value: values}
}

// PeerCapabilities is the external, per-peer configuration a decoder
// instance is bound to. The two ASN-width latches are mutated on
// first AS_PATH parse and must be supplied through a pointer the
// caller owns across calls for a given peer.
type PeerCapabilities struct {
	RecvFourOctetASN bool
	SentFourOctetASN bool

	// AddPathPerAfiSafi holds the (AFI, SAFI) pairs for which Add-Path
	// is enabled on this peer.
	AddPathPerAfiSafi map[AfiSafi]bool

	// PeerHashStr is folded into prefix content hashes when non-empty.
	PeerHashStr string

	// UsingTwoOctetASN and CheckedASNOctetLength latch the first
	// AS_PATH's ASN width decision for the life of the peer session,
	// rather than re-guessing it on every UPDATE.
	UsingTwoOctetASN      bool
	CheckedASNOctetLength bool
}

// AfiSafi is a lookup key for per-address-family peer configuration.
type AfiSafi struct {
	AFI, SAFI int
}

// NewPeerCapabilities returns a PeerCapabilities with an initialized
// AddPathPerAfiSafi set.
func NewPeerCapabilities() *PeerCapabilities {
	return &PeerCapabilities{AddPathPerAfiSafi: make(map[AfiSafi]bool)}
}

func (p *PeerCapabilities) addPathEnabled(afi, safi int) bool {
	if p == nil {
		return false
	}
	return p.AddPathPerAfiSafi[AfiSafi{afi, safi}]
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
