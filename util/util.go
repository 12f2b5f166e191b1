// Package util holds small shared helpers used by the rib package and
// the bgpupdump command.
package util

import (
	"bytes"
	"fmt"
	"net"
)

// IpToRadixkey renders the first mask bits of ip as a bitstring of
// length mask, suitable as a github.com/armon/go-radix key for
// longest-prefix lookups (protocol/rib): a covering prefix's key is a
// prefix of the key of every address it covers.
func IpToRadixkey(b []byte, mask uint8) string {
	var (
		ip     net.IP = b
		buffer bytes.Buffer
	)
	if len(b) == 0 || len(ip) == 0 { // a misparsed ip probably.
		return ""
	}

	if ip.To4() != nil {
		if mask > 32 { //misparsed?
			return ""
		}
		ip = ip.Mask(net.CIDRMask(int(mask), 32)).To4()
	} else {
		if mask > 128 { //misparsed?
			return ""
		}
		ip = ip.Mask(net.CIDRMask(int(mask), 128)).To16()
	}

	for i := 0; i < len(ip) && i < int(mask); i++ {
		fmt.Fprintf(&buffer, "%08b", ip[i])
	}
	return buffer.String()[:mask]
}
