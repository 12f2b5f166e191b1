// Package fileutil scans MRT archive files (bzip2-compressed or
// plain) and yields filtered, decoded BGP UPDATE records.
package fileutil

import (
	"bufio"
	"compress/bzip2"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	bgp "github.com/CSUNetSec/bgpupdate/protocol/bgp"
	"github.com/CSUNetSec/bgpupdate/filter"
	mrt "github.com/CSUNetSec/bgpupdate/protocol/mrt"
)

// MrtReader scans one MRT archive file, decoding and filtering each
// record in turn. The caller must call Close() after use.
type MrtReader struct {
	in      io.ReadCloser
	scanner *bufio.Scanner
	filters []filter.Filter
	dec     *bgp.UpdateDecoder

	err        error
	lastTok    *mrt.Record
	lastTokErr error
}

// NewMrtFileReader opens fname (transparently decompressing .bz2) and
// returns a reader bound to peer and filters. peer is shared across
// every record this reader yields, so its ASN-width latch persists for
// the whole file the way it would for a single live peer session.
func NewMrtFileReader(fname string, peer *bgp.PeerCapabilities, filters []filter.Filter) (*MrtReader, error) {
	if _, err := os.Stat(fname); err != nil {
		return nil, errors.Wrap(err, "stat")
	}
	fp, err := os.Open(fname)
	if err != nil {
		return nil, errors.Wrap(err, "open")
	}
	return &MrtReader{
		in:      fp,
		scanner: getScanner(fp),
		filters: filters,
		dec:     bgp.NewUpdateDecoder(peer),
	}, nil
}

// Scan advances to the next record that decodes to an UPDATE and
// passes every configured filter, skipping non-UPDATE MRT records and
// filtered-out UPDATEs along the way. It returns false at end of
// stream or once a scanning error has occurred (check Err()).
func (m *MrtReader) Scan() bool {
	if m.err != nil {
		return false
	}
	for m.scanner.Scan() {
		if m.err = m.scanner.Err(); m.err != nil {
			return false
		}
		rec, err := mrt.Decode(m.scanner.Bytes(), m.dec)
		if err != nil {
			m.lastTok = nil
			m.lastTokErr = errors.Wrap(err, "decode")
			return true
		}
		if rec == nil {
			continue
		}
		if !filter.FilterAll(m.filters, rec) {
			continue
		}
		m.lastTok = rec
		m.lastTokErr = nil
		return true
	}
	m.err = m.scanner.Err()
	return false
}

// Record returns the record produced by the most recent successful
// Scan, along with any per-record decode error.
func (m *MrtReader) Record() (*mrt.Record, error) {
	return m.lastTok, m.lastTokErr
}

// Close closes the underlying file.
func (m *MrtReader) Close() {
	m.in.Close()
}

// Err reports any bufio.Scanner-level error that ended scanning.
func (m *MrtReader) Err() error {
	return m.err
}

// getScanner wraps file in a bufio.Scanner framed on MRT record
// boundaries, transparently bzip2-decompressing .bz2 files. Maximum
// token size for one MRT entry is 16MB; EVPN/MP_REACH records can run
// well past a 1MB budget.
func getScanner(file *os.File) *bufio.Scanner {
	var r io.Reader = file
	if filepath.Ext(file.Name()) == ".bz2" {
		r = bzip2.NewReader(file)
	}
	scanner := bufio.NewScanner(r)
	scanner.Split(mrt.SplitMrt)
	buf := make([]byte, 2<<20)
	scanner.Buffer(buf, 16<<20)
	return scanner
}
