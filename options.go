package repak

import (
	"fmt"

	"github.com/berkus/repak/format"
	"github.com/berkus/repak/internal/options"
)

// appendConfig collects the per-entry transform configuration built from
// AppendOption values. When nothing is set the entry is stored raw and
// its flag byte is zero.
type appendConfig struct {
	checksums      []format.ChecksumKind
	compression    format.CompressionType
	hasCompression bool
	encryption     format.EncryptionType
	hasEncryption  bool
}

// AppendOption configures a single Append call.
type AppendOption = options.Option[*appendConfig]

// WithChecksum records one or more checksum kinds for the payload. The
// digests are computed while the payload streams to disk during Save.
// Repeated use accumulates kinds; their order is preserved on disk.
func WithChecksum(kinds ...format.ChecksumKind) AppendOption {
	return options.New(func(cfg *appendConfig) error {
		for _, kind := range kinds {
			if !kind.IsValid() {
				return fmt.Errorf("unknown checksum kind %d", kind)
			}
		}
		cfg.checksums = append(cfg.checksums, kinds...)

		return nil
	})
}

// WithCompression selects the payload's compression algorithm.
// CompressionNone is accepted and leaves the payload raw.
func WithCompression(t format.CompressionType) AppendOption {
	return options.New(func(cfg *appendConfig) error {
		if !t.IsValid() {
			return fmt.Errorf("unknown compression type %d", t)
		}
		cfg.compression = t
		cfg.hasCompression = true

		return nil
	})
}

// WithEncryption selects the payload's encryption algorithm. Only the
// reserved NotImplementedYet tag is defined; it records the header
// without transforming any bytes.
func WithEncryption(t format.EncryptionType) AppendOption {
	return options.New(func(cfg *appendConfig) error {
		if !t.IsValid() {
			return fmt.Errorf("unknown encryption type %d", t)
		}
		cfg.encryption = t
		cfg.hasEncryption = true

		return nil
	})
}

// EngineOption configures an engine at Create or Open time.
type EngineOption = options.Option[*Engine]

// WithSidecarIndex keeps the index in the ".idpak" sidecar on Save
// instead of attaching it to the archive with a locator trailer.
// Engines opened from a sidecar-indexed archive stay in sidecar mode
// without this option.
func WithSidecarIndex() EngineOption {
	return options.NoError(func(e *Engine) {
		e.sidecarIndex = true
	})
}

// WithCompressedIndex Zstd-compresses the serialized index on Save.
// Readers detect the compressed form from its frame magic, so archives
// written either way open the same. Engines opened from an archive with
// a compressed index keep compressing it without this option.
func WithCompressedIndex() EngineOption {
	return options.NoError(func(e *Engine) {
		e.compressIndex = true
	})
}
