package binary

import (
	"encoding/binary"
	"math"

	"github.com/kaubo-lang/kaubo/lang/value"
)

func floatBits(f float64) uint64     { return math.Float64bits(f) }
func floatFromBits(b uint64) float64 { return math.Float64frombits(b) }

// encodeHeader renders h as the fixed 128-byte on-disk layout. The
// Checksum field is left as whatever h.Checksum holds (zero during the
// first pass of Write, filled in after).
func encodeHeader(h *Header) []byte {
	buf := make([]byte, HeaderSize)
	copy(buf[0:4], h.Magic[:])
	buf[4] = h.VersionMajor
	buf[5] = h.VersionMinor
	buf[6] = h.VersionPatch
	buf[7] = h.BuildMode
	copy(buf[8:24], h.TargetArch[:])
	copy(buf[24:40], h.TargetOS[:])
	byteOrder.PutUint64(buf[40:48], h.TimestampUnix)
	byteOrder.PutUint32(buf[48:52], h.FeatureFlags)
	byteOrder.PutUint64(buf[52:60], h.DirOffset)
	byteOrder.PutUint64(buf[60:68], h.DirSize)
	byteOrder.PutUint32(buf[68:72], h.DirCount)
	byteOrder.PutUint32(buf[72:76], h.EntryModule)
	byteOrder.PutUint32(buf[76:80], h.EntryFunction)
	copy(buf[80:96], h.SourceHash[:])
	copy(buf[96:128], h.Checksum[:])
	return buf
}

func decodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, &Error{Kind: ErrCorruptedData, Message: "file shorter than header"}
	}
	var h Header
	copy(h.Magic[:], buf[0:4])
	h.VersionMajor = buf[4]
	h.VersionMinor = buf[5]
	h.VersionPatch = buf[6]
	h.BuildMode = buf[7]
	copy(h.TargetArch[:], buf[8:24])
	copy(h.TargetOS[:], buf[24:40])
	h.TimestampUnix = byteOrder.Uint64(buf[40:48])
	h.FeatureFlags = byteOrder.Uint32(buf[48:52])
	h.DirOffset = byteOrder.Uint64(buf[52:60])
	h.DirSize = byteOrder.Uint64(buf[60:68])
	h.DirCount = byteOrder.Uint32(buf[68:72])
	h.EntryModule = byteOrder.Uint32(buf[72:76])
	h.EntryFunction = byteOrder.Uint32(buf[76:80])
	copy(h.SourceHash[:], buf[80:96])
	copy(h.Checksum[:], buf[96:128])
	return h, nil
}

func encodeDirectory(dir []sectionEntry) []byte {
	buf := make([]byte, 0, len(dir)*sectionEntrySize)
	for _, e := range dir {
		entry := make([]byte, sectionEntrySize)
		entry[0] = byte(e.Kind)
		entry[1] = e.Flags
		byteOrder.PutUint64(entry[4:12], e.Offset)
		byteOrder.PutUint64(entry[12:20], e.DecodedSize)
		byteOrder.PutUint64(entry[20:28], e.CompressedSize)
		buf = append(buf, entry...)
	}
	return buf
}

func decodeDirectory(buf []byte, count uint32) ([]sectionEntry, error) {
	if uint64(len(buf)) < uint64(count)*sectionEntrySize {
		return nil, &Error{Kind: ErrCorruptedData, Message: "section directory truncated"}
	}
	dir := make([]sectionEntry, count)
	for i := range dir {
		entry := buf[i*sectionEntrySize : (i+1)*sectionEntrySize]
		dir[i] = sectionEntry{
			Kind:           SectionKind(entry[0]),
			Flags:          entry[1],
			Offset:         byteOrder.Uint64(entry[4:12]),
			DecodedSize:    byteOrder.Uint64(entry[12:20]),
			CompressedSize: byteOrder.Uint64(entry[20:28]),
		}
	}
	return dir, nil
}

func appendU32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	byteOrder.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendU64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	byteOrder.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendString(buf []byte, s string) []byte {
	buf = appendU32(buf, uint32(len(s)))
	return append(buf, s...)
}

func readU32(buf []byte, off int) (uint32, int) {
	return byteOrder.Uint32(buf[off : off+4]), off + 4
}

func readU64(buf []byte, off int) (uint64, int) {
	return byteOrder.Uint64(buf[off : off+8]), off + 8
}

func readString(buf []byte, off int) (string, int) {
	n, off := readU32(buf, off)
	s := string(buf[off : off+int(n)])
	return s, off + int(n)
}

func encodeStringPool(strs []string) []byte {
	var buf []byte
	buf = appendU32(buf, uint32(len(strs)))
	for _, s := range strs {
		buf = appendString(buf, s)
	}
	return buf
}

func decodeStringPool(buf []byte) ([]string, error) {
	if len(buf) < 4 {
		return nil, &Error{Kind: ErrCorruptedData, Section: "string pool", Message: "truncated count"}
	}
	n, off := readU32(buf, 0)
	out := make([]string, 0, n)
	for i := uint32(0); i < n; i++ {
		if off >= len(buf) {
			return nil, &Error{Kind: ErrCorruptedData, Section: "string pool", Message: "truncated entry"}
		}
		var s string
		s, off = readString(buf, off)
		out = append(out, s)
	}
	return out, nil
}

func encodeModuleTable(nameIdx, entryFunc uint32) []byte {
	var buf []byte
	buf = appendU32(buf, nameIdx)
	buf = appendU32(buf, entryFunc)
	return buf
}

func decodeModuleTable(buf []byte) (nameIdx, entryFunc uint32, err error) {
	if len(buf) < 8 {
		return 0, 0, &Error{Kind: ErrCorruptedData, Section: "module table", Message: "truncated"}
	}
	nameIdx, off := readU32(buf, 0)
	entryFunc, _ = readU32(buf, off)
	return nameIdx, entryFunc, nil
}

func encodeShapeTable(shapes []shapeEntry) []byte {
	var buf []byte
	buf = appendU32(buf, uint32(len(shapes)))
	for _, s := range shapes {
		buf = appendU32(buf, s.NameIdx)
		buf = appendU32(buf, uint32(len(s.FieldIndices)))
		for _, f := range s.FieldIndices {
			buf = appendU32(buf, f)
		}
	}
	return buf
}

func decodeShapeTable(buf []byte) ([]shapeEntry, error) {
	if len(buf) < 4 {
		return nil, &Error{Kind: ErrCorruptedData, Section: "shape table", Message: "truncated count"}
	}
	n, off := readU32(buf, 0)
	out := make([]shapeEntry, 0, n)
	for i := uint32(0); i < n; i++ {
		var nameIdx, fieldCount uint32
		nameIdx, off = readU32(buf, off)
		fieldCount, off = readU32(buf, off)
		fields := make([]uint32, fieldCount)
		for j := range fields {
			fields[j], off = readU32(buf, off)
		}
		out = append(out, shapeEntry{NameIdx: nameIdx, FieldIndices: fields})
	}
	return out, nil
}

func encodeExportTable(exports []exportEntry) []byte {
	var buf []byte
	buf = appendU32(buf, uint32(len(exports)))
	for _, e := range exports {
		buf = appendU32(buf, e.NameIdx)
		buf = appendU32(buf, uint32(e.Slot))
	}
	return buf
}

func decodeExportTable(buf []byte) ([]exportEntry, error) {
	if len(buf) < 4 {
		return nil, &Error{Kind: ErrCorruptedData, Section: "export table", Message: "truncated count"}
	}
	n, off := readU32(buf, 0)
	out := make([]exportEntry, 0, n)
	for i := uint32(0); i < n; i++ {
		var nameIdx, slot uint32
		nameIdx, off = readU32(buf, off)
		slot, off = readU32(buf, off)
		out = append(out, exportEntry{NameIdx: nameIdx, Slot: int32(slot)})
	}
	return out, nil
}

func encodeImportTable(idxs []uint32) []byte {
	var buf []byte
	buf = appendU32(buf, uint32(len(idxs)))
	for _, idx := range idxs {
		buf = appendU32(buf, idx)
	}
	return buf
}

func decodeImportTable(buf []byte) ([]uint32, error) {
	if len(buf) < 4 {
		return nil, &Error{Kind: ErrCorruptedData, Section: "import table", Message: "truncated count"}
	}
	n, off := readU32(buf, 0)
	out := make([]uint32, 0, n)
	for i := uint32(0); i < n; i++ {
		var idx uint32
		idx, off = readU32(buf, off)
		out = append(out, idx)
	}
	return out, nil
}

func encodeFunctionPool(fns []funcEntry) []byte {
	var buf []byte
	buf = appendU32(buf, uint32(len(fns)))
	for _, f := range fns {
		buf = appendU32(buf, f.NameIdx)
		buf = appendU32(buf, uint32(f.Arity))
		if f.IsGenerator {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
		buf = appendU32(buf, uint32(len(f.Code)))
		buf = append(buf, f.Code...)

		lineBytes := encodeLines(f.Lines)
		buf = appendU32(buf, uint32(len(lineBytes)))
		buf = append(buf, lineBytes...)

		buf = appendU32(buf, uint32(len(f.Constants)))
		for _, ce := range f.Constants {
			buf = encodeConst(buf, ce)
		}

		buf = appendU32(buf, uint32(len(f.Upvalues)))
		for _, uv := range f.Upvalues {
			if uv.FromParentLocal {
				buf = append(buf, 1)
			} else {
				buf = append(buf, 0)
			}
			buf = appendU32(buf, uint32(uv.Index))
		}
	}
	return buf
}

func decodeFunctionPool(buf []byte) ([]funcEntry, error) {
	if len(buf) < 4 {
		return nil, &Error{Kind: ErrCorruptedData, Section: "function pool", Message: "truncated count"}
	}
	n, off := readU32(buf, 0)
	out := make([]funcEntry, 0, n)
	for i := uint32(0); i < n; i++ {
		var f funcEntry
		f.NameIdx, off = readU32(buf, off)
		var arity uint32
		arity, off = readU32(buf, off)
		f.Arity = int32(arity)
		f.IsGenerator = buf[off] != 0
		off++

		var codeLen uint32
		codeLen, off = readU32(buf, off)
		f.Code = append([]byte(nil), buf[off:off+int(codeLen)]...)
		off += int(codeLen)

		var lineLen uint32
		lineLen, off = readU32(buf, off)
		f.Lines = decodeLines(buf[off:off+int(lineLen)], int(codeLen))
		off += int(lineLen)

		var constCount uint32
		constCount, off = readU32(buf, off)
		f.Constants = make([]constEntry, constCount)
		for j := range f.Constants {
			f.Constants[j], off = decodeConst(buf, off)
		}

		var upvalCount uint32
		upvalCount, off = readU32(buf, off)
		f.Upvalues = make([]value.UpvalueDesc, upvalCount)
		for j := range f.Upvalues {
			fromLocal := buf[off] != 0
			off++
			var idx uint32
			idx, off = readU32(buf, off)
			f.Upvalues[j] = value.UpvalueDesc{FromParentLocal: fromLocal, Index: int(idx)}
		}

		out = append(out, f)
	}
	return out, nil
}

func encodeConst(buf []byte, ce constEntry) []byte {
	buf = append(buf, byte(ce.Kind))
	switch ce.Kind {
	case constInt:
		buf = appendU64(buf, uint64(ce.Int))
	case constFloat:
		buf = appendU64(buf, floatBits(ce.Float))
	case constString, constFunc, constShape:
		buf = appendU32(buf, ce.Ref)
	}
	return buf
}

func decodeConst(buf []byte, off int) (constEntry, int) {
	kind := constKind(buf[off])
	off++
	var ce constEntry
	ce.Kind = kind
	switch kind {
	case constInt:
		var bits uint64
		bits, off = readU64(buf, off)
		ce.Int = int64(bits)
	case constFloat:
		var bits uint64
		bits, off = readU64(buf, off)
		ce.Float = floatFromBits(bits)
	case constString, constFunc, constShape:
		ce.Ref, off = readU32(buf, off)
	}
	return ce, off
}
