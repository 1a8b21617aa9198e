package binary

import (
	"bytes"
	"crypto/sha256"
	"io"

	"github.com/kaubo-lang/kaubo/lang/compiler"
	"github.com/kaubo-lang/kaubo/lang/value"
)

// Write encodes one compiled module as a `.kaubod` container: the entry
// chunk plus every function and shape it transitively references,
// preceded by a string pool and followed by a section-directory-and-
// header pass that backpatches offsets and the checksum once every
// section's final size is known.
//
// A cryptographic digest (not a version-bytes comparison) guards against
// silent corruption; the corpus has no Blake3 binding, so this uses
// crypto/sha256 instead — slower per byte than Blake3 but standard-
// library-correct and exercised nowhere else as a performance
// bottleneck for a compiled-script-sized file.
func Write(w io.Writer, heap *value.Heap, moduleID string, chunk *compiler.Chunk, exports []compiler.ExportSlot, imports []string) error {
	c, entryIdx := collectModule(heap, chunk)
	moduleNameIdx := c.internString(moduleID)

	var exportEntries []exportEntry
	for _, e := range exports {
		exportEntries = append(exportEntries, exportEntry{NameIdx: c.internString(e.Name), Slot: int32(e.Slot)})
	}
	var importIdxs []uint32
	for _, dep := range imports {
		importIdxs = append(importIdxs, c.internString(dep))
	}

	// fixed, kind-ascending order so two writes of the same module produce
	// byte-identical output.
	sections := []struct {
		kind SectionKind
		data []byte
	}{
		{SectionStringPool, encodeStringPool(c.strings)},
		{SectionModuleTable, encodeModuleTable(moduleNameIdx, entryIdx)},
		{SectionFunctionPool, encodeFunctionPool(c.functions)},
		{SectionShapeTable, encodeShapeTable(c.shapes)},
		{SectionExportTable, encodeExportTable(exportEntries)},
		{SectionImportTable, encodeImportTable(importIdxs)},
	}

	var body bytes.Buffer
	dir := make([]sectionEntry, 0, len(sections))
	offset := uint64(0)
	for _, s := range sections {
		padded := pad8(s.data)
		dir = append(dir, sectionEntry{
			Kind:        s.kind,
			Offset:      offset,
			DecodedSize: uint64(len(s.data)),
		})
		body.Write(padded)
		offset += uint64(len(padded))
	}
	dirOffset := offset
	dirBytes := encodeDirectory(dir)
	body.Write(dirBytes)

	h := Header{
		Magic:         Magic,
		VersionMajor:  VersionMajor,
		VersionMinor:  VersionMinor,
		VersionPatch:  VersionPatch,
		DirOffset:     uint64(HeaderSize) + dirOffset,
		DirSize:       uint64(len(dirBytes)),
		DirCount:      uint32(len(dir)),
		EntryModule:   0,
		EntryFunction: entryIdx,
	}

	headerBytes := encodeHeader(&h)
	sum := sha256.New()
	sum.Write(headerBytes[:HeaderSize-32])
	sum.Write(body.Bytes())
	copy(headerBytes[HeaderSize-32:HeaderSize], sum.Sum(nil))

	if _, err := w.Write(headerBytes); err != nil {
		return err
	}
	_, err := w.Write(body.Bytes())
	return err
}

func pad8(b []byte) []byte {
	if rem := len(b) % 8; rem != 0 {
		b = append(b, make([]byte, 8-rem)...)
	}
	return b
}
