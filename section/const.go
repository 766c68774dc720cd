package section

import "github.com/berkus/repak/leb128"

const (
	// Magic is the archive identification string, filling its slot exactly.
	Magic = "REPAK"

	// MagicSize is the byte length of the magic string.
	MagicSize = 5

	// Version is the only index header version this library reads and
	// writes.
	Version = 0x01

	// HeaderFixedSize is the byte length of the fixed index header prefix:
	// magic, version byte and the reserved little-endian uint16.
	HeaderFixedSize = MagicSize + 1 + 2

	// Entry flag bits. The sub-headers are serialized in the fixed order
	// encryption, compression, checksum regardless of bit positions.
	FlagEncryption  = 0x01
	FlagCompression = 0x02
	FlagChecksum    = 0x04

	flagKnownMask = FlagEncryption | FlagCompression | FlagChecksum

	// LocatorTailSize is how many bytes a reader takes from the end of an
	// attached archive to recover the locator.
	LocatorTailSize = leb128.MaxLen
)

// zstdFrameMagic is the Zstandard frame prefix. An index region starting
// with these four bytes is transparently decompressed before parsing.
var zstdFrameMagic = [4]byte{0x28, 0xB5, 0x2F, 0xFD}
