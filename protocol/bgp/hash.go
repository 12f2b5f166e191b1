package bgp

import (
	"crypto/md5"
	"encoding/hex"
	"hash"
)

// hashState is a running MD5 content digest. Used purely as a
// content-addressable digest, not for anything cryptographic; any
// digest would serve as long as the feed order below stays fixed so
// the rendered hash stays stable across runs.
type hashState struct {
	h hash.Hash
}

func newHashState() hashState {
	return hashState{h: md5.New()}
}

func (s *hashState) ensure() {
	if s.h == nil {
		s.h = md5.New()
	}
}

func (s *hashState) feedString(v string) {
	s.ensure()
	s.h.Write([]byte(v))
}

func (s *hashState) feedBytes(v []byte) {
	s.ensure()
	s.h.Write(v)
}

func (s *hashState) hex() string {
	s.ensure()
	return hex.EncodeToString(s.h.Sum(nil))
}

// computeNLRIHash builds the prefix content hash: feed path-id (only
// if non-zero), prefix length, prefix text, raw prefix bytes, then the
// peer hash string if present. The feed order is fixed so the
// resulting hex digest is reproducible given the same inputs.
func computeNLRIHash(pathID uint32, prefixLen int, prefixText string, prefixBin []byte, peerHashStr string) string {
	s := newHashState()
	if pathID != 0 {
		s.feedString(itoa(int(pathID)))
	}
	s.feedString(itoa(prefixLen))
	s.feedString(prefixText)
	s.feedBytes(prefixBin)
	if peerHashStr != "" {
		s.feedString(peerHashStr)
	}
	return s.hex()
}
