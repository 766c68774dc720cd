// Package format defines the wire-level algorithm tags of the REPAK
// container format and their fixed properties.
package format

type (
	ChecksumKind    uint8
	CompressionType uint8
	EncryptionType  uint8
)

const (
	ChecksumSHA3      ChecksumKind = 1 // ChecksumSHA3 is SHA3-512 with a 64-byte digest.
	ChecksumK12       ChecksumKind = 2 // ChecksumK12 is KangarooTwelve with a 32-byte digest.
	ChecksumBLAKE3    ChecksumKind = 3 // ChecksumBLAKE3 is BLAKE3 with a 32-byte digest.
	ChecksumXxhash3   ChecksumKind = 4 // ChecksumXxhash3 is XXH3-64 with an 8-byte digest.
	ChecksumMetroHash ChecksumKind = 5 // ChecksumMetroHash is MetroHash64 with an 8-byte digest.
	ChecksumSeaHash   ChecksumKind = 6 // ChecksumSeaHash is SeaHash with an 8-byte digest.
	ChecksumCityHash  ChecksumKind = 7 // ChecksumCityHash is CityHash64 with an 8-byte digest.

	CompressionNone    CompressionType = 0 // CompressionNone stores the payload verbatim.
	CompressionDeflate CompressionType = 1 // CompressionDeflate is DEFLATE (RFC 1951).
	CompressionBzip    CompressionType = 2 // CompressionBzip is bzip2.
	CompressionZstd    CompressionType = 3 // CompressionZstd is Zstandard.
	CompressionLzma    CompressionType = 4 // CompressionLzma is LZMA.
	CompressionLZ4     CompressionType = 5 // CompressionLZ4 is LZ4 frame format.
	CompressionFsst    CompressionType = 6 // CompressionFsst is FSST (reserved, no codec).

	// EncryptionNotImplementedYet is the only defined encryption tag. The
	// slot exists to preserve format space.
	EncryptionNotImplementedYet EncryptionType = 0
)

// digestSizes maps each checksum kind to its fixed on-disk digest length
// in bytes.
var digestSizes = map[ChecksumKind]int{
	ChecksumSHA3:      64,
	ChecksumK12:       32,
	ChecksumBLAKE3:    32,
	ChecksumXxhash3:   8,
	ChecksumMetroHash: 8,
	ChecksumSeaHash:   8,
	ChecksumCityHash:  8,
}

// DigestSize returns the fixed digest length in bytes for the given
// checksum kind, or 0 if the kind is unknown.
func DigestSize(k ChecksumKind) int {
	return digestSizes[k]
}

// IsValid reports whether the checksum kind is a defined wire value.
func (k ChecksumKind) IsValid() bool {
	return k >= ChecksumSHA3 && k <= ChecksumCityHash
}

// IsValid reports whether the compression type is a defined wire value.
func (c CompressionType) IsValid() bool {
	return c <= CompressionFsst
}

// IsValid reports whether the encryption type is a defined wire value.
func (e EncryptionType) IsValid() bool {
	return e == EncryptionNotImplementedYet
}

func (k ChecksumKind) String() string {
	switch k {
	case ChecksumSHA3:
		return "SHA3"
	case ChecksumK12:
		return "K12"
	case ChecksumBLAKE3:
		return "BLAKE3"
	case ChecksumXxhash3:
		return "Xxhash3"
	case ChecksumMetroHash:
		return "MetroHash"
	case ChecksumSeaHash:
		return "SeaHash"
	case ChecksumCityHash:
		return "CityHash"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionDeflate:
		return "Deflate"
	case CompressionBzip:
		return "Bzip"
	case CompressionZstd:
		return "Zstd"
	case CompressionLzma:
		return "Lzma"
	case CompressionLZ4:
		return "LZ4"
	case CompressionFsst:
		return "Fsst"
	default:
		return "Unknown"
	}
}

func (e EncryptionType) String() string {
	switch e {
	case EncryptionNotImplementedYet:
		return "NotImplementedYet"
	default:
		return "Unknown"
	}
}
