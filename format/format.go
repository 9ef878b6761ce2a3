// Package format defines the on-disk constants and fixed-layout
// structures of a tracelog file: the header, the job record, and the
// module id / compression type enums. Fields are packed and unpacked by
// hand through an endian.EndianEngine rather than mapped onto a Go
// struct, so the wire layout never depends on compiler padding.
package format

import (
	"github.com/hpcio/tracelog/endian"
	"github.com/hpcio/tracelog/errs"
)

// ModuleID identifies a recognized instrumentation module.
type ModuleID int32

const (
	ModulePOSIX ModuleID = iota
	ModuleMPIIO
	ModuleHDF5
	ModulePNetCDF

	// NumModules is the number of recognized modules; the header
	// reserves exactly this many extent slots.
	NumModules int = 4
)

func (m ModuleID) String() string {
	switch m {
	case ModulePOSIX:
		return "POSIX"
	case ModuleMPIIO:
		return "MPI-IO"
	case ModuleHDF5:
		return "HDF5"
	case ModulePNetCDF:
		return "PNetCDF"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether m is a recognized module id.
func (m ModuleID) Valid() bool {
	return m >= 0 && int(m) < NumModules
}

// CompressionType identifies the streaming backend used to compress
// every region but the header.
type CompressionType uint8

const (
	CompressionDeflate CompressionType = 1
	CompressionBzip2   CompressionType = 2
)

func (c CompressionType) String() string {
	switch c {
	case CompressionDeflate:
		return "DEFLATE"
	case CompressionBzip2:
		return "BZIP2"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether c is a recognized compression type.
func (c CompressionType) Valid() bool {
	return c == CompressionDeflate || c == CompressionBzip2
}

const (
	// Version is the fixed, space-padded 8-byte version string stamped
	// into every header.
	Version = "TRCL-1.0"
	// MagicNumber detects the byte order a log was written in: a
	// reader that finds neither this value nor its byte-swapped form
	// at the expected offset rejects the file outright.
	MagicNumber uint64 = 0x5452434c4f473031

	versionSize = 8
	extentSize  = 16 // offset int64 + length int64
)

// HeaderSize is the fixed, uncompressed size of the header region.
var HeaderSize = versionSize + 8 /*magic*/ + 1 /*compression*/ + 1 /*partial*/ + extentSize + NumModules*extentSize

// Extent locates a region within the file by (offset, length).
type Extent struct {
	Offset int64
	Length int64
}

// Header is the fixed, uncompressed region at the start of every log.
type Header struct {
	Version     string
	Magic       uint64
	Compression CompressionType
	Partial     bool
	RecordMap   Extent
	Modules     [NumModules]Extent
}

func putExtent(buf []byte, engine endian.EndianEngine, e Extent) []byte {
	buf = engine.AppendUint64(buf, uint64(e.Offset))
	buf = engine.AppendUint64(buf, uint64(e.Length))

	return buf
}

func getExtent(data []byte, engine endian.EndianEngine) Extent {
	return Extent{
		Offset: int64(engine.Uint64(data[0:8])),
		Length: int64(engine.Uint64(data[8:16])),
	}
}

// Bytes serializes h using the native byte order. Headers are always
// written in host order; byte order is recovered at read time from the
// magic number, not recorded explicitly.
func (h *Header) Bytes() []byte {
	engine := endian.NativeEngine()

	buf := make([]byte, 0, HeaderSize)

	var versionBuf [versionSize]byte
	copy(versionBuf[:], h.Version)
	for i := len(h.Version); i < versionSize; i++ {
		versionBuf[i] = ' '
	}
	buf = append(buf, versionBuf[:]...)

	buf = engine.AppendUint64(buf, h.Magic)
	buf = append(buf, byte(h.Compression))

	var partial byte
	if h.Partial {
		partial = 1
	}
	buf = append(buf, partial)

	buf = putExtent(buf, engine, h.RecordMap)
	for _, m := range h.Modules {
		buf = putExtent(buf, engine, m)
	}

	return buf
}

// Parse decodes data (exactly HeaderSize bytes) into h. It detects byte
// order from the magic number: if it matches neither the native nor the
// byte-swapped constant, it fails with errs.ErrBadMagic. swapped reports
// whether the file was written on a host of the opposite byte order, so
// the caller knows to byte-swap every other integer field it decodes
// from the rest of the log.
func (h *Header) Parse(data []byte) (swapped bool, err error) {
	if len(data) != HeaderSize {
		return false, errs.New(errs.KindFormat, "format.Header.Parse", errs.ErrTruncated)
	}

	h.Version = string(data[0:versionSize])

	engine := endian.NativeEngine()
	magic := engine.Uint64(data[versionSize : versionSize+8])

	switch {
	case magic == MagicNumber:
		swapped = false
	case endian.SwapU64(magic) == MagicNumber:
		swapped = true
	default:
		return false, errs.New(errs.KindFormat, "format.Header.Parse", errs.ErrBadMagic)
	}

	h.Magic = MagicNumber

	off := versionSize + 8
	h.Compression = CompressionType(data[off])
	off++
	h.Partial = data[off] != 0
	off++

	h.RecordMap = getExtent(data[off:], engine)
	off += extentSize
	for i := range h.Modules {
		h.Modules[i] = getExtent(data[off:], engine)
		off += extentSize
	}

	if swapped {
		h.RecordMap.Offset = endian.SwapI64(h.RecordMap.Offset)
		h.RecordMap.Length = endian.SwapI64(h.RecordMap.Length)
		for i := range h.Modules {
			h.Modules[i].Offset = endian.SwapI64(h.Modules[i].Offset)
			h.Modules[i].Length = endian.SwapI64(h.Modules[i].Length)
		}
	}

	if !h.Compression.Valid() {
		return swapped, errs.New(errs.KindFormat, "format.Header.Parse", errs.ErrUnsupportedCompression)
	}

	return swapped, nil
}
