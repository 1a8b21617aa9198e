package binary

import (
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/kaubo-lang/kaubo/lang/compiler"
	"github.com/kaubo-lang/kaubo/lang/value"
)

// Module is a decoded `.kaubod` file: the entry chunk reconstructed as a
// runnable compiler.Chunk plus the module's export slots and import
// dependency list.
type Module struct {
	Name    string
	Entry   *compiler.Chunk
	Exports []compiler.ExportSlot
	Imports []string
}

// Read decodes a `.kaubod` file written by Write, verifying its magic,
// version and checksum before reconstructing heap objects for every
// function and shape the entry chunk references.
func Read(r io.Reader, heap *value.Heap) (*Module, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(raw) < HeaderSize {
		return nil, &Error{Kind: ErrCorruptedData, Message: "file shorter than header"}
	}
	h, err := decodeHeader(raw[:HeaderSize])
	if err != nil {
		return nil, err
	}
	if h.Magic != Magic {
		return nil, &Error{Kind: ErrInvalidMagic, Message: fmt.Sprintf("got %q", h.Magic)}
	}
	if h.VersionMajor != VersionMajor {
		return nil, &Error{Kind: ErrUnsupportedVersion, Message: fmt.Sprintf("file is v%d.%d.%d", h.VersionMajor, h.VersionMinor, h.VersionPatch)}
	}

	sum := sha256.New()
	sum.Write(raw[:HeaderSize-32])
	sum.Write(raw[HeaderSize:])
	if got, want := sum.Sum(nil), h.Checksum[:]; string(got) != string(want) {
		return nil, &Error{Kind: ErrChecksumMismatch, Message: "computed checksum does not match header"}
	}

	if h.DirOffset+h.DirSize > uint64(len(raw)) {
		return nil, &Error{Kind: ErrCorruptedData, Message: "section directory out of range"}
	}
	dir, err := decodeDirectory(raw[h.DirOffset:h.DirOffset+h.DirSize], h.DirCount)
	if err != nil {
		return nil, err
	}

	sectionData := make(map[SectionKind][]byte, len(dir))
	for _, e := range dir {
		start := HeaderSize + e.Offset
		end := start + e.DecodedSize
		if end > uint64(len(raw)) {
			return nil, &Error{Kind: ErrCorruptedData, Message: "section out of range"}
		}
		sectionData[e.Kind] = raw[start:end]
	}

	strPool, ok := sectionData[SectionStringPool]
	if !ok {
		return nil, &Error{Kind: ErrMissingSection, Section: "string pool"}
	}
	strs, err := decodeStringPool(strPool)
	if err != nil {
		return nil, err
	}

	modData, ok := sectionData[SectionModuleTable]
	if !ok {
		return nil, &Error{Kind: ErrMissingSection, Section: "module table"}
	}
	nameIdx, entryFunc, err := decodeModuleTable(modData)
	if err != nil {
		return nil, err
	}

	funcData, ok := sectionData[SectionFunctionPool]
	if !ok {
		return nil, &Error{Kind: ErrMissingSection, Section: "function pool"}
	}
	fnEntries, err := decodeFunctionPool(funcData)
	if err != nil {
		return nil, err
	}

	shapeData, ok := sectionData[SectionShapeTable]
	if !ok {
		return nil, &Error{Kind: ErrMissingSection, Section: "shape table"}
	}
	shapeEntries, err := decodeShapeTable(shapeData)
	if err != nil {
		return nil, err
	}

	var exportEntries []exportEntry
	if d, ok := sectionData[SectionExportTable]; ok {
		if exportEntries, err = decodeExportTable(d); err != nil {
			return nil, err
		}
	}
	var importIdxs []uint32
	if d, ok := sectionData[SectionImportTable]; ok {
		if importIdxs, err = decodeImportTable(d); err != nil {
			return nil, err
		}
	}

	str := func(idx uint32) string {
		if int(idx) >= len(strs) {
			return ""
		}
		return strs[idx]
	}

	shapeValues := make([]value.Value, len(shapeEntries))
	for i, se := range shapeEntries {
		fields := make([]string, len(se.FieldIndices))
		for j, fi := range se.FieldIndices {
			fields[j] = str(fi)
		}
		shapeValues[i] = heap.NewShape(&value.ObjShape{Name: str(se.NameIdx), Fields: fields})
	}

	// Constants only ever reference a function with a strictly higher pool
	// index than their owner (internChunk reserves its own slot before
	// recursing into nested constants), so building from the highest index
	// down guarantees every referenced function value already exists.
	funcValues := make([]value.Value, len(fnEntries))
	for i := len(fnEntries) - 1; i >= 0; i-- {
		fe := fnEntries[i]
		constants := make([]value.Value, len(fe.Constants))
		for j, ce := range fe.Constants {
			constants[j] = decodeConstValue(heap, ce, str, funcValues, shapeValues)
		}
		funcValues[i] = heap.NewFunction(&value.ObjFunction{
			Name:        str(fe.NameIdx),
			Arity:       int(fe.Arity),
			Code:        fe.Code,
			Constants:   constants,
			Lines:       fe.Lines,
			UpvalueInfo: fe.Upvalues,
			IsGenerator: fe.IsGenerator,
		})
	}

	if int(entryFunc) >= len(fnEntries) {
		return nil, &Error{Kind: ErrCorruptedData, Message: "entry function index out of range"}
	}
	entry := fnEntries[entryFunc]
	entryConstants := make([]value.Value, len(entry.Constants))
	for j, ce := range entry.Constants {
		entryConstants[j] = decodeConstValue(heap, ce, str, funcValues, shapeValues)
	}
	chunk := &compiler.Chunk{
		Name:        str(entry.NameIdx),
		Arity:       int(entry.Arity),
		Code:        entry.Code,
		Constants:   entryConstants,
		Lines:       entry.Lines,
		Upvalues:    entry.Upvalues,
		IsGenerator: entry.IsGenerator,
	}

	var exports []compiler.ExportSlot
	for _, e := range exportEntries {
		exports = append(exports, compiler.ExportSlot{Name: str(e.NameIdx), Slot: int(e.Slot)})
	}
	var imports []string
	for _, idx := range importIdxs {
		imports = append(imports, str(idx))
	}

	return &Module{Name: str(nameIdx), Entry: chunk, Exports: exports, Imports: imports}, nil
}

func decodeConstValue(heap *value.Heap, ce constEntry, str func(uint32) string, funcValues, shapeValues []value.Value) value.Value {
	switch ce.Kind {
	case constNull:
		return value.Null()
	case constTrue:
		return value.Bool(true)
	case constFalse:
		return value.Bool(false)
	case constInt:
		return value.Int(ce.Int)
	case constFloat:
		return value.Float(ce.Float)
	case constString:
		return heap.NewString(str(ce.Ref))
	case constFunc:
		return funcValues[ce.Ref]
	case constShape:
		return shapeValues[ce.Ref]
	default:
		return value.Null()
	}
}
