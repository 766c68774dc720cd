// Package repak reads, mutates and rewrites REPAK resource archives: a
// single-file bundle of named byte payloads, each optionally
// checksummed, compressed and encrypted, designed for fast random
// access to large asset pools without unpacking to disk.
//
// # Container layout
//
// An archive is payloads back to back, followed by an index directory
// and a locator trailer:
//
//	payload_0 ‖ payload_1 ‖ … ‖ payload_n-1 ‖ IndexHeader ‖ reverse-LEB128(L)
//
// where L is the distance from the start of the index to end-of-file.
// The locator is a reverse-encoded ULEB128 value, so a reader recovers
// the index from the last ten bytes of the file alone. Alternatively the
// index lives in a sidecar file sharing the archive's stem with the
// ".idpak" extension, and the archive body carries payloads only.
//
// # Basic usage
//
// Creating an archive:
//
//	eng, _ := repak.Create("assets.pak")
//	_ = eng.Append("hero.png", "art/hero.png",
//	    repak.WithCompression(format.CompressionZstd),
//	    repak.WithChecksum(format.ChecksumSHA3))
//	_ = eng.Save()
//
// Reading one back:
//
//	eng, _ := repak.Open("assets.pak")
//	if entry, ok := eng.Lookup("hero.png"); ok {
//	    data, _ := entry.Data()
//	    _ = data
//	}
//
// Each payload flows through checksum, compression and encryption
// stages on write and the inverse chain on read; digests are verified
// during extraction and a mismatch fails the final read.
//
// # Package structure
//
// The wire codecs live in the section package, algorithm variants in
// checksum and compress, the shared tags in format, and the integer
// framing in leb128. This package ties them into the archive engine.
package repak
