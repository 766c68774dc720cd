package repak

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/berkus/repak/checksum"
	"github.com/berkus/repak/compress"
	"github.com/berkus/repak/errs"
	"github.com/berkus/repak/format"
	"github.com/berkus/repak/internal/hash"
	"github.com/berkus/repak/internal/options"
	"github.com/berkus/repak/internal/pool"
	"github.com/berkus/repak/leb128"
	"github.com/berkus/repak/section"
)

// Engine is a single archive opened for reading and staging. It holds
// only the target path and in-memory metadata between calls; file
// handles live for the duration of a single call. An Engine is
// single-threaded and non-reentrant, and two engines over the same file
// race at the filesystem level.
type Engine struct {
	filePath      string
	indexAttached bool

	// lastInsertionOffset is where the next appended payload's byte
	// range starts. Ranges are reserved at append time and never
	// recomputed.
	lastInsertionOffset uint64

	// entries is ordered by name, matching the on-disk index order.
	// byID buckets entries under the xxHash64 of their name; colliding
	// names share a bucket and are told apart by comparison.
	entries []*section.IndexEntry
	byID    map[uint64][]*section.IndexEntry

	sidecarIndex  bool
	compressIndex bool
}

// Entry is a read-only view of a single archived resource, borrowed from
// the engine that produced it.
type Entry struct {
	eng   *Engine
	entry *section.IndexEntry
}

// Name returns the entry's unique name.
func (e *Entry) Name() string { return e.entry.Name }

// Offset returns the byte position of the payload within the archive.
func (e *Entry) Offset() uint64 { return e.entry.Offset }

// Size returns the uncompressed payload size in bytes.
func (e *Entry) Size() uint64 { return e.entry.Size }

// Compression returns the payload's compression algorithm, or
// CompressionNone when the payload is stored raw.
func (e *Entry) Compression() format.CompressionType {
	if e.entry.Compression == nil {
		return format.CompressionNone
	}

	return e.entry.Compression.Algorithm
}

// Checksums returns the checksum kinds recorded for the payload, in
// on-disk order.
func (e *Entry) Checksums() []format.ChecksumKind {
	if e.entry.Checksum == nil {
		return nil
	}

	return e.entry.Checksum.Kinds()
}

// Open returns the payload as a stream, reversing the write-side
// transform pipeline: the bytes are decrypted, decompressed, and
// verified against every recorded checksum. A digest mismatch surfaces
// as a Deser error on the final read. Entries staged by Append and not
// yet saved are read straight from their source file without
// verification.
func (e *Entry) Open() (io.ReadCloser, error) {
	return e.eng.extract(e.entry)
}

// Data reads the whole payload into memory via Open.
func (e *Entry) Data() ([]byte, error) {
	rc, err := e.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

// SidecarPath derives the index sidecar path for an archive: the
// archive's stem with the ".idpak" extension.
func SidecarPath(archivePath string) string {
	return strings.TrimSuffix(archivePath, filepath.Ext(archivePath)) + ".idpak"
}

// Create returns an engine bound to a not-yet-written archive at path.
// The filesystem is not touched until Save.
func Create(path string, opts ...EngineOption) (*Engine, error) {
	e := &Engine{
		filePath: path,
		byID:     make(map[uint64][]*section.IndexEntry),
	}
	if err := options.Apply(e, opts...); err != nil {
		return nil, err
	}

	return e, nil
}

// Open materializes an engine from an archive on disk.
//
// A sidecar index beside the archive wins over an attached one; without a
// sidecar the last bytes of the archive are decoded as the reverse-LEB128
// locator and the index is parsed from where it points.
func Open(path string, opts ...EngineOption) (*Engine, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", errs.ErrFileNotFound, path)
		}

		return nil, fmt.Errorf("stat archive: %w", err)
	}

	e := &Engine{
		filePath: path,
		byID:     make(map[uint64][]*section.IndexEntry),
	}

	sidecar, err := os.ReadFile(SidecarPath(path))
	switch {
	case err == nil:
		hdr, err := section.DeserIndexHeader(bytes.NewReader(sidecar))
		if err != nil {
			return nil, err
		}
		e.sidecarIndex = true
		e.compressIndex = isZstdFrame(sidecar)
		if err := e.adoptIndex(hdr); err != nil {
			return nil, err
		}
		for _, entry := range e.entries {
			if entry.End() > e.lastInsertionOffset {
				e.lastInsertionOffset = entry.End()
			}
		}
	case errors.Is(err, fs.ErrNotExist):
		if err := e.openAttached(path); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("read index sidecar: %w", err)
	}

	if err := options.Apply(e, opts...); err != nil {
		return nil, err
	}

	return e, nil
}

func (e *Engine) openAttached(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat archive: %w", err)
	}
	size := st.Size()
	if size == 0 {
		return errs.Deser("Not a REPAK archive")
	}

	tailLen := int64(section.LocatorTailSize)
	if size < tailLen {
		tailLen = size
	}
	tail := make([]byte, tailLen)
	if _, err := f.ReadAt(tail, size-tailLen); err != nil && err != io.EOF {
		return fmt.Errorf("read locator tail: %w", err)
	}

	locator, err := section.ReadLocator(tail)
	if err != nil {
		return err
	}
	locatorLen := uint64(leb128.Len(locator))
	if locator > uint64(size) || locator < locatorLen {
		return errs.Deserf("index locator %d does not fit a %d byte archive", locator, size)
	}

	indexStart := uint64(size) - locator
	indexLen := locator - locatorLen

	probe := make([]byte, 4)
	if n, _ := f.ReadAt(probe, int64(indexStart)); n == len(probe) {
		e.compressIndex = isZstdFrame(probe)
	}

	hdr, err := section.DeserIndexHeader(io.NewSectionReader(f, int64(indexStart), int64(indexLen)))
	if err != nil {
		return err
	}

	e.indexAttached = true
	e.lastInsertionOffset = indexStart

	return e.adoptIndex(hdr)
}

// adoptIndex takes ownership of parsed entries, rebuilding the name
// order and the lookup buckets. Duplicate names are a structural
// violation.
func (e *Engine) adoptIndex(hdr section.IndexHeader) error {
	e.entries = make([]*section.IndexEntry, 0, len(hdr.Entries))
	for i := range hdr.Entries {
		entry := hdr.Entries[i]
		if e.lookupEntry(entry.Name) != nil {
			return errs.Deserf("duplicate entry name %q", entry.Name)
		}
		p := &entry
		e.entries = append(e.entries, p)
		id := hash.ID(entry.Name)
		e.byID[id] = append(e.byID[id], p)
	}

	sort.Slice(e.entries, func(i, j int) bool {
		return e.entries[i].Name < e.entries[j].Name
	})

	return nil
}

func (e *Engine) lookupEntry(name string) *section.IndexEntry {
	for _, entry := range e.byID[hash.ID(name)] {
		if entry.Name == name {
			return entry
		}
	}

	return nil
}

// Lookup finds an entry by exact name match.
func (e *Engine) Lookup(name string) (*Entry, bool) {
	entry := e.lookupEntry(name)
	if entry == nil {
		return nil, false
	}

	return &Entry{eng: e, entry: entry}, true
}

// Count returns the number of entries in the archive, staged ones
// included.
func (e *Engine) Count() int {
	return len(e.entries)
}

// Names returns all entry names in index order.
func (e *Engine) Names() []string {
	names := make([]string, len(e.entries))
	for i, entry := range e.entries {
		names[i] = entry.Name
	}

	return names
}

// IndexAttached reports whether the index was read from inside the
// archive file rather than from a sidecar.
func (e *Engine) IndexAttached() bool {
	return e.indexAttached
}

// Append stages the contents of file under name. The payload's byte
// range is reserved immediately; nothing is written until Save.
func (e *Engine) Append(name, file string, opts ...AppendOption) error {
	if name == "" {
		return errors.New("entry name must not be empty")
	}
	if !utf8.ValidString(name) {
		return fmt.Errorf("entry name: %w", errs.ErrInvalidUTF8)
	}
	if e.lookupEntry(name) != nil {
		return errs.AlreadyExists(name)
	}

	var cfg appendConfig
	if err := options.Apply(&cfg, opts...); err != nil {
		return err
	}

	st, err := os.Stat(file)
	if err != nil {
		return fmt.Errorf("stat source %q: %w", file, err)
	}
	if st.IsDir() {
		return fmt.Errorf("source %q is a directory", file)
	}
	size := uint64(st.Size())

	if e.lastInsertionOffset > math.MaxInt64-size {
		return fmt.Errorf("%w: entry %q would end past %d", errs.ErrOffsetTooLarge, name, uint64(math.MaxInt64))
	}

	entry := &section.IndexEntry{
		Offset:     e.lastInsertionOffset,
		Size:       size,
		Name:       name,
		SourcePath: file,
	}

	if cfg.hasEncryption {
		entry.Encryption = &section.EncryptionHeader{Algorithm: cfg.encryption}
	}
	if cfg.hasCompression && cfg.compression != format.CompressionNone {
		entry.Compression = &section.CompressionHeader{Algorithm: cfg.compression}
	}
	if len(cfg.checksums) > 0 {
		// Constructing the hashers now surfaces unsupported kinds at
		// append time instead of failing the whole Save.
		if _, err := checksum.NewAll(cfg.checksums); err != nil {
			return err
		}
		hdr := &section.ChecksumHeader{Checksums: make([]section.Checksum, len(cfg.checksums))}
		for i, kind := range cfg.checksums {
			hdr.Checksums[i] = section.Checksum{Kind: kind}
		}
		entry.Checksum = hdr
	}

	idx := sort.Search(len(e.entries), func(i int) bool {
		return e.entries[i].Name >= name
	})
	e.entries = append(e.entries, nil)
	copy(e.entries[idx+1:], e.entries[idx:])
	e.entries[idx] = entry

	id := hash.ID(name)
	e.byID[id] = append(e.byID[id], entry)

	e.lastInsertionOffset += size

	return nil
}

// Save commits the archive: staged payloads are streamed to their
// reserved offsets through the write-side transform pipeline, then the
// index is serialized — appended to the archive with a locator trailer,
// or left in the sidecar when the engine is in sidecar mode.
//
// Payloads already present in the file keep their bytes; only entries
// with a staged source are written. A Save interrupted midway leaves the
// archive undefined; callers wanting atomicity should save to a tempfile
// and rename.
func (e *Engine) Save() error {
	f, err := os.OpenFile(e.filePath, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open archive for writing: %w", err)
	}
	defer f.Close()

	byOffset := append([]*section.IndexEntry(nil), e.entries...)
	sort.Slice(byOffset, func(i, j int) bool {
		return byOffset[i].Offset < byOffset[j].Offset
	})
	for _, entry := range byOffset {
		if entry.SourcePath == "" {
			continue
		}
		if err := e.writePayload(f, entry); err != nil {
			return fmt.Errorf("entry %q: %w", entry.Name, err)
		}
	}

	// Drop whatever used to follow the payload region: a previous index
	// and locator, or stale payload tails.
	if e.lastInsertionOffset > math.MaxInt64 {
		return errs.ErrOffsetTooLarge
	}
	if err := f.Truncate(int64(e.lastInsertionOffset)); err != nil {
		return fmt.Errorf("truncate payload region: %w", err)
	}

	buf := pool.GetIndexBuffer()
	defer pool.PutIndexBuffer(buf)

	hdr := section.IndexHeader{Entries: make([]section.IndexEntry, len(e.entries))}
	for i, entry := range e.entries {
		hdr.Entries[i] = *entry
	}
	if err := hdr.Ser(buf); err != nil {
		return fmt.Errorf("serialize index: %w", err)
	}

	indexBytes := buf.Bytes()
	if e.compressIndex {
		codec, err := compress.GetCodec(format.CompressionZstd)
		if err != nil {
			return err
		}
		indexBytes, err = codec.Compress(indexBytes)
		if err != nil {
			return fmt.Errorf("compress index: %w", err)
		}
	}

	sidecar := SidecarPath(e.filePath)
	if err := os.WriteFile(sidecar, indexBytes, 0o644); err != nil {
		return fmt.Errorf("write index sidecar: %w", err)
	}
	if e.sidecarIndex {
		return nil
	}

	if _, err := f.Seek(int64(e.lastInsertionOffset), io.SeekStart); err != nil {
		return fmt.Errorf("seek to index position: %w", err)
	}
	if _, err := f.Write(indexBytes); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	if _, err := section.EmitLocator(f, uint64(len(indexBytes))); err != nil {
		return fmt.Errorf("write locator: %w", err)
	}

	if err := os.Remove(sidecar); err != nil {
		return fmt.Errorf("remove index sidecar: %w", err)
	}

	return nil
}

// errRegionFull aborts a compressed write that stopped paying for
// itself: the reserved range holds the payload at its uncompressed size,
// so a stored form growing past it falls back to raw.
var errRegionFull = errors.New("compressed payload exceeds reserved range")

// regionWriter writes into the payload's reserved byte range and fails
// with errRegionFull rather than spill into the next entry's range.
type regionWriter struct {
	f     *os.File
	off   int64
	limit int64
	n     int64
	full  bool
}

func (w *regionWriter) Write(p []byte) (int, error) {
	if w.n+int64(len(p)) > w.limit {
		w.full = true
		return 0, errRegionFull
	}

	n, err := w.f.WriteAt(p, w.off+w.n)
	w.n += int64(n)

	return n, err
}

// writePayload streams one staged payload through checksum and
// compression into its reserved range, then records the resulting
// digests and on-disk length on the entry.
func (e *Engine) writePayload(f *os.File, entry *section.IndexEntry) error {
	if entry.End() > math.MaxInt64 {
		return errs.ErrOffsetTooLarge
	}

	src, err := os.Open(entry.SourcePath)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	var kinds []format.ChecksumKind
	if entry.Checksum != nil {
		kinds = entry.Checksum.Kinds()
	}

	if entry.Compression != nil {
		done, err := e.writeCompressed(f, entry, src, kinds)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		// The compressed form did not fit the reserved range; store raw.
		if _, err := src.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("rewind source: %w", err)
		}
		entry.Compression = nil
	}

	hashers, err := checksum.NewAll(kinds)
	if err != nil {
		return err
	}

	sinks := append([]io.Writer{io.NewOffsetWriter(f, int64(entry.Offset))}, checksum.Writers(hashers)...)
	n, err := io.Copy(io.MultiWriter(sinks...), src)
	if err != nil {
		return fmt.Errorf("write payload: %w", err)
	}
	if uint64(n) != entry.Size {
		return fmt.Errorf("source is %d bytes, expected %d; changed since append", n, entry.Size)
	}

	fillDigests(entry, hashers)

	return nil
}

// writeCompressed attempts the compressed pipeline. It reports done =
// false when the stored form would overflow the reserved range and the
// caller should fall back to a raw write.
func (e *Engine) writeCompressed(f *os.File, entry *section.IndexEntry, src io.Reader, kinds []format.ChecksumKind) (bool, error) {
	hashers, err := checksum.NewAll(kinds)
	if err != nil {
		return false, err
	}

	region := &regionWriter{f: f, off: int64(entry.Offset), limit: int64(entry.Size)}
	zw, err := compress.NewWriter(entry.Compression.Algorithm, region)
	if err != nil {
		return false, err
	}

	sinks := append([]io.Writer{zw}, checksum.Writers(hashers)...)
	n, err := io.Copy(io.MultiWriter(sinks...), src)
	if err == nil {
		err = zw.Close()
	} else {
		zw.Close()
	}
	// Codecs may report the sink error wrapped in their own types, so
	// the region's own overflow flag is the authoritative signal.
	if region.full || errors.Is(err, errRegionFull) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("compress payload: %w", err)
	}
	if uint64(n) != entry.Size {
		return false, fmt.Errorf("source is %d bytes, expected %d; changed since append", n, entry.Size)
	}

	entry.Compression.SetCompressedSize(uint64(region.n))
	fillDigests(entry, hashers)

	return true, nil
}

func fillDigests(entry *section.IndexEntry, hashers []checksum.Hasher) {
	for i, h := range hashers {
		entry.Checksum.Checksums[i].Digest = h.Sum()
	}
}

// extract opens the payload stream for an entry, reversing the
// transform pipeline. Entries still staged from Append are served from
// their source file.
func (e *Engine) extract(entry *section.IndexEntry) (io.ReadCloser, error) {
	if entry.SourcePath != "" {
		src, err := os.Open(entry.SourcePath)
		if err != nil {
			return nil, fmt.Errorf("open staged source: %w", err)
		}

		return src, nil
	}

	f, err := os.Open(e.filePath)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	diskLen := entry.Size
	if entry.Compression != nil {
		if n, ok := entry.Compression.CompressedSize(); ok {
			diskLen = n
		}
	}
	if entry.Offset > math.MaxInt64 || diskLen > math.MaxInt64-entry.Offset {
		f.Close()
		return nil, errs.ErrOffsetTooLarge
	}

	var r io.Reader = io.NewSectionReader(f, int64(entry.Offset), int64(diskLen))
	closers := []io.Closer{f}

	// Encryption is the reserved identity tag; nothing to undo.

	if entry.Compression != nil {
		zr, err := compress.NewReader(entry.Compression.Algorithm, r)
		if err != nil {
			f.Close()
			return nil, err
		}
		r = zr
		closers = append([]io.Closer{zr}, closers...)
	}

	if entry.Checksum != nil {
		hashers, err := checksum.NewAll(entry.Checksum.Kinds())
		if err != nil {
			closeAll(closers)
			return nil, err
		}
		r = &verifyingReader{r: r, hashers: hashers, want: entry.Checksum, name: entry.Name}
	}

	return &payloadReader{r: r, closers: closers}, nil
}

// verifyingReader recomputes the entry's digests as payload bytes flow
// through and rejects the stream at end-of-file if any digest differs
// from the stored one.
type verifyingReader struct {
	r        io.Reader
	hashers  []checksum.Hasher
	want     *section.ChecksumHeader
	name     string
	verified bool
}

func (v *verifyingReader) Read(p []byte) (int, error) {
	n, err := v.r.Read(p)
	if n > 0 {
		for _, h := range v.hashers {
			h.Write(p[:n])
		}
	}
	if errors.Is(err, io.EOF) && !v.verified {
		v.verified = true
		for i, h := range v.hashers {
			if !bytes.Equal(h.Sum(), v.want.Checksums[i].Digest) {
				return n, errs.Deserf("checksum mismatch for entry %q (%s)", v.name, h.Kind())
			}
		}
	}

	return n, err
}

type payloadReader struct {
	r       io.Reader
	closers []io.Closer
}

func (p *payloadReader) Read(b []byte) (int, error) {
	return p.r.Read(b)
}

func (p *payloadReader) Close() error {
	var first error
	for _, c := range p.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}

	return first
}

func closeAll(closers []io.Closer) {
	for _, c := range closers {
		c.Close()
	}
}

func isZstdFrame(b []byte) bool {
	return len(b) >= 4 && b[0] == 0x28 && b[1] == 0xB5 && b[2] == 0x2F && b[3] == 0xFD
}
