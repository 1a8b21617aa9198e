// Package binary implements the `.kaubod` container: a fixed-size header,
// a section directory, and a handful of typed sections (string pool,
// function pool, shape table, module table) that together let a compiled
// module round-trip through a file without re-parsing source. The
// section-directory-after-sections, header-patched-last write order
// follows the same "compute offsets, then backpatch the header" idiom
// mna-nenuphar's compiler uses for forward jumps, generalized here to a
// whole file instead of a single jump target.
package binary

import "encoding/binary"

// Magic is the four-byte file signature every `.kaubod` file starts with.
var Magic = [4]byte{'K', 'A', 'U', 'B'}

// Version is the container format version written by this package.
const (
	VersionMajor = 0
	VersionMinor = 1
	VersionPatch = 0
)

// HeaderSize is the fixed size in bytes of the file header.
const HeaderSize = 128

// byteOrder is used for every multi-byte integer field in the container.
var byteOrder = binary.LittleEndian

// SectionKind identifies what a section directory entry's bytes decode as.
type SectionKind uint8

const (
	SectionStringPool SectionKind = iota
	SectionModuleTable
	SectionFunctionPool
	SectionShapeTable
	SectionExportTable
	SectionImportTable
	SectionDebugInfo
)

// sectionEntrySize is the on-disk size of one section directory entry:
// kind (1), flags (1), pad (2), offset (8), decoded size (8), compressed
// size (8, 0 if uncompressed).
const sectionEntrySize = 28

// sectionEntry describes one section's location and size within the file.
type sectionEntry struct {
	Kind           SectionKind
	Flags          uint8
	Offset         uint64
	DecodedSize    uint64
	CompressedSize uint64
}

// Header mirrors the 128-byte on-disk file header.
type Header struct {
	Magic         [4]byte
	VersionMajor  uint8
	VersionMinor  uint8
	VersionPatch  uint8
	BuildMode     uint8 // 0 = debug, 1 = release
	TargetArch    [16]byte
	TargetOS      [16]byte
	TimestampUnix uint64
	FeatureFlags  uint32
	DirOffset     uint64
	DirSize       uint64
	DirCount      uint32
	EntryModule   uint32
	EntryFunction uint32
	SourceHash    [32]byte
	Checksum      [32]byte // sha256 over the whole file except this field
}
