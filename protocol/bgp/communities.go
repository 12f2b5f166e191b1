package bgp

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// decodeCommunities decodes the COMMUNITIES attribute (type 8): a
// list of <hi>:<lo> pairs from 2+2-byte entries. A 0-length buffer
// yields an empty list, not an error.
func decodeCommunities(buf []byte) []string {
	var out []string
	for i := 0; i+4 <= len(buf); i += 4 {
		hi := binary.BigEndian.Uint16(buf[i : i+2])
		lo := binary.BigEndian.Uint16(buf[i+2 : i+4])
		out = append(out, fmt.Sprintf("%d:%d", hi, lo))
	}
	return out
}

// decodeExtCommunities decodes the EXT_COMMUNITY (type 16) and
// IPV6_EXT_COMMUNITY (type 25) attributes. Each entry is a fixed
// 8-byte (EXT_COMMUNITY) or 20-byte (IPV6_EXT_COMMUNITY) record;
// rendering is just the hex encoding of the raw entry, since we don't
// carry a full extended-community sub-type registry.
func decodeExtCommunities(buf []byte, entryLen int) []string {
	var out []string
	for i := 0; i+entryLen <= len(buf); i += entryLen {
		out = append(out, hex.EncodeToString(buf[i:i+entryLen]))
	}
	return out
}
