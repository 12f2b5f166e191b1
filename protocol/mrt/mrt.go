// Package mrt unwraps MRT (RFC 6396) BGP4MP records down to the raw
// BGP UPDATE payload bytes protocol/bgp's UpdateDecoder consumes,
// along with the per-record peer identity MRT carries alongside it.
package mrt

import (
	"encoding/binary"
	"fmt"
	"net"
)

const (
	mrtHeaderLen = 12

	typeBGP4MP   = 16
	typeBGP4MPET = 17

	subtypeMessage        = 1
	subtypeMessageAS4     = 4
	subtypeMessageLocal   = 6
	subtypeMessageAS4Local = 7

	bgpMessageHeaderLen = 19 // 16-byte marker + 2-byte length + 1-byte type

	afiIPv4 = 1
	afiIPv6 = 2
)

// Header is the fixed 12-byte MRT record header (RFC 6396 §2).
type Header struct {
	Timestamp uint32
	Type      uint16
	Subtype   uint16
	Len       uint32
}

// PeerInfo is the peer identity carried in a BGP4MP_MESSAGE record,
// ahead of the embedded BGP message itself.
type PeerInfo struct {
	PeerAS, LocalAS     uint32
	InterfaceIndex      uint32
	AFI                 int
	PeerIP, LocalIP     net.IP
	FourOctetASNsInHdr  bool
}

// SplitMrt is a bufio.SplitFunc that frames one MRT record at a time
// out of a byte stream, using the record's own length field rather
// than a delimiter.
func SplitMrt(data []byte, atEOF bool) (advance int, token []byte, err error) {
	dataLen := len(data)
	if atEOF && dataLen == 0 {
		return 0, nil, nil
	}
	if atEOF {
		return dataLen, data, nil
	}
	if cap(data) < mrtHeaderLen {
		return 0, nil, nil
	}
	if dataLen < mrtHeaderLen {
		return 0, nil, fmt.Errorf("mrt: data slice shorter than MRT header")
	}
	totlen := int(binary.BigEndian.Uint32(data[8:12])) + mrtHeaderLen
	if dataLen < totlen {
		return 0, nil, nil
	}
	return totlen, data[0:totlen], nil
}

// ParseHeader decodes the 12-byte MRT record header from the front of
// data and returns it along with the remainder of the record.
func ParseHeader(data []byte) (Header, []byte, error) {
	if len(data) < mrtHeaderLen {
		return Header{}, nil, fmt.Errorf("mrt: not enough bytes to decode MRT header")
	}
	h := Header{
		Timestamp: binary.BigEndian.Uint32(data[:4]),
		Type:      binary.BigEndian.Uint16(data[4:6]),
		Subtype:   binary.BigEndian.Uint16(data[6:8]),
		Len:       binary.BigEndian.Uint32(data[8:12]),
	}
	rest := data[mrtHeaderLen:]
	if len(rest) < int(h.Len) {
		return h, nil, fmt.Errorf("mrt: record declares %d bytes, only %d present", h.Len, len(rest))
	}
	return h, rest[:h.Len], nil
}

// ExtractUpdate unwraps one BGP4MP(_ET) MESSAGE(_AS4) record: it
// parses the MRT header, the BGP4MP peer header, and strips the
// standard 19-byte BGP message header, returning the raw UPDATE
// payload ready for protocol/bgp.UpdateDecoder.ParseUpdate. Non-UPDATE
// embedded BGP messages (OPEN, KEEPALIVE, NOTIFICATION) are reported
// via ok=false rather than an error, since they are a normal and
// expected part of an MRT stream.
func ExtractUpdate(record []byte) (hdr Header, peer PeerInfo, payload []byte, ok bool, err error) {
	hdr, body, err := ParseHeader(record)
	if err != nil {
		return hdr, peer, nil, false, err
	}

	if hdr.Type != typeBGP4MP && hdr.Type != typeBGP4MPET {
		return hdr, peer, nil, false, nil
	}

	as4 := hdr.Subtype == subtypeMessageAS4 || hdr.Subtype == subtypeMessageAS4Local
	isMessage := as4 || hdr.Subtype == subtypeMessage || hdr.Subtype == subtypeMessageLocal
	if !isMessage {
		return hdr, peer, nil, false, nil
	}
	peer.FourOctetASNsInHdr = as4

	if hdr.Type == typeBGP4MPET {
		// BGP4MP_ET puts a 4-byte microsecond timestamp ahead of the
		// BGP4MP body; the header's length field counts it.
		if len(body) < 4 {
			return hdr, peer, nil, false, fmt.Errorf("mrt: short BGP4MP_ET microsecond timestamp")
		}
		body = body[4:]
	}

	if as4 {
		if len(body) < 8 {
			return hdr, peer, nil, false, fmt.Errorf("mrt: short BGP4MP AS4 peer header")
		}
		peer.PeerAS = binary.BigEndian.Uint32(body[0:4])
		peer.LocalAS = binary.BigEndian.Uint32(body[4:8])
		body = body[8:]
	} else {
		if len(body) < 4 {
			return hdr, peer, nil, false, fmt.Errorf("mrt: short BGP4MP peer header")
		}
		peer.PeerAS = uint32(binary.BigEndian.Uint16(body[0:2]))
		peer.LocalAS = uint32(binary.BigEndian.Uint16(body[2:4]))
		body = body[4:]
	}

	if len(body) < 4 {
		return hdr, peer, nil, false, fmt.Errorf("mrt: short BGP4MP interface/AFI fields")
	}
	peer.InterfaceIndex = uint32(binary.BigEndian.Uint16(body[0:2]))
	peer.AFI = int(binary.BigEndian.Uint16(body[2:4]))
	body = body[4:]

	switch peer.AFI {
	case afiIPv4:
		if len(body) < 8 {
			return hdr, peer, nil, false, fmt.Errorf("mrt: short BGP4MP IPv4 peer addresses")
		}
		peer.PeerIP = net.IP(body[0:4])
		peer.LocalIP = net.IP(body[4:8])
		body = body[8:]
	case afiIPv6:
		if len(body) < 32 {
			return hdr, peer, nil, false, fmt.Errorf("mrt: short BGP4MP IPv6 peer addresses")
		}
		peer.PeerIP = net.IP(body[0:16])
		peer.LocalIP = net.IP(body[16:32])
		body = body[32:]
	default:
		return hdr, peer, nil, false, fmt.Errorf("mrt: unsupported BGP4MP address family %d", peer.AFI)
	}

	if len(body) < bgpMessageHeaderLen {
		return hdr, peer, nil, false, fmt.Errorf("mrt: short embedded BGP message header")
	}
	msgType := body[18]
	const bgpMessageTypeUpdate = 2
	if msgType != bgpMessageTypeUpdate {
		return hdr, peer, nil, false, nil
	}

	return hdr, peer, body[bgpMessageHeaderLen:], true, nil
}
