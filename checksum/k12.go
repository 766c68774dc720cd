package checksum

import (
	"github.com/cloudflare/circl/xof/k12"

	"github.com/berkus/repak/format"
)

// k12Hasher is KangarooTwelve with the digest truncated at 32 bytes.
type k12Hasher struct {
	state k12.State
}

func newK12() Hasher {
	return &k12Hasher{state: k12.NewDraft10(nil)}
}

func (h *k12Hasher) Write(p []byte) (int, error) {
	return h.state.Write(p)
}

func (h *k12Hasher) Kind() format.ChecksumKind {
	return format.ChecksumK12
}

func (h *k12Hasher) Sum() []byte {
	// Reading from the XOF finalizes it, so squeeze a clone and keep the
	// live state writable.
	clone := h.state.Clone()
	digest := make([]byte, format.DigestSize(format.ChecksumK12))
	_, _ = clone.Read(digest)

	return digest
}
