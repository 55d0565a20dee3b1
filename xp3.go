// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Nanoris
// Source: github.com/nanoris/arcdec

package arcdec

import (
	"bytes"
	"fmt"
	"path"
	"strings"
)

// xp3Magic is the XP3 container signature. The CR/LF pair and the
// high-bit marker bytes detect text-mode corruption of the archive
// during transfer, the same trick PNG uses.
var xp3Magic = []byte{'X', 'P', '3', 0x0D, 0x0A, 0x20, 0x0A, 0x1A, 0x8B, 0x67, 0x01}

const (
	// xp3VersionProbeOffset is the fixed offset probed for the
	// version-2 marker, independent of any explicit version field.
	xp3VersionProbeOffset = 19
	// xp3SegmentRecordSize is the fixed size of one segment record in
	// a SEGM chunk.
	xp3SegmentRecordSize = 28
)

// XP3Decoder unpacks XP3 archive containers (krkr/xp3). It owns a
// per-title filter registry and an optional set of nested file
// decoders applied to entries it has already produced.
type XP3Decoder struct {
	filters *FilterRegistry
	nested  []FileDecoder
}

// NewXP3Decoder builds an XP3 decoder with the default filter registry
// and no nested decoders.
func NewXP3Decoder() *XP3Decoder {
	return &XP3Decoder{filters: DefaultFilters()}
}

// Tag returns the registry tag of the XP3 format.
func (d *XP3Decoder) Tag() string {
	return "krkr/xp3"
}

// Recognize reports whether the file starts with the XP3 signature.
func (d *XP3Decoder) Recognize(f *File) bool {
	return f != nil && bytes.HasPrefix(f.Data, xp3Magic)
}

// Filters returns the decoder's per-title filter registry.
func (d *XP3Decoder) Filters() *FilterRegistry {
	return d.filters
}

// AddDecoder attaches a nested file decoder. Each produced entry that
// a nested decoder recognizes is decoded before reaching the sink.
func (d *XP3Decoder) AddDecoder(sub FileDecoder) {
	if sub != nil {
		d.nested = append(d.nested, sub)
	}
}

// Unpack parses the archive table and pushes every decoded entry to
// the sink in table order. Any structural failure aborts the whole
// unpack with ErrCorruptData; saved entries are not rolled back.
func (d *XP3Decoder) Unpack(f *File, sink Sink, opts UnpackOptions) error {
	if f == nil {
		return ErrNilFile
	}
	if sink == nil {
		return ErrNilSink
	}
	if !d.Recognize(f) {
		return fmt.Errorf("%w: not an XP3 archive", ErrUnrecognizedFormat)
	}

	opts.applyDefaults()

	selector, err := newEntrySelector(opts.Select, opts.SelectMatcherOptions)
	if err != nil {
		return err
	}

	arc, table, err := openTable(f.Data)
	if err != nil {
		return err
	}

	filter := d.filters.Resolve(resolveFilterTitle(opts.FilterTitle, f.Name))

	// The loop terminates exactly at table end; every entry must have
	// consumed its declared chunk span for position tracking to hold.
	for table.remaining() > 0 {
		entry, err := readEntry(arc, table, filter)
		if err != nil {
			return err
		}

		if selector != nil && !selector.Match(entry.Name) {
			continue
		}

		out := entry
		for _, sub := range d.nested {
			if !sub.Recognize(out) {
				continue
			}

			decoded, decodeErr := sub.Decode(out)
			if decodeErr != nil {
				return fmt.Errorf("nested decode %s: %w", out.Name, decodeErr)
			}

			out = decoded
			break
		}

		if err := sink.Save(out); err != nil {
			return fmt.Errorf("save %s: %w", out.Name, err)
		}
	}

	return nil
}

// EntryStat describes one archive entry without its payload.
type EntryStat struct {
	// Name is the entry display name decoded from UTF-16LE.
	Name string `json:"name" yaml:"name"`
	// Flags is the raw INFO chunk flag word.
	Flags uint32 `json:"flags" yaml:"flags"`
	// OriginalSize is the declared uncompressed entry size.
	OriginalSize uint64 `json:"original_size" yaml:"original_size"`
	// CompressedSize is the declared stored entry size.
	CompressedSize uint64 `json:"compressed_size" yaml:"compressed_size"`
	// Segments is the number of stored data segments.
	Segments int `json:"segments" yaml:"segments"`
}

// List parses the archive table and returns entry metadata without
// reading or assembling any segment payload.
func (d *XP3Decoder) List(f *File) ([]EntryStat, error) {
	if f == nil {
		return nil, ErrNilFile
	}
	if !d.Recognize(f) {
		return nil, fmt.Errorf("%w: not an XP3 archive", ErrUnrecognizedFormat)
	}

	_, table, err := openTable(f.Data)
	if err != nil {
		return nil, err
	}

	var stats []EntryStat
	for table.remaining() > 0 {
		stat, err := scanEntry(table)
		if err != nil {
			return nil, err
		}

		stats = append(stats, stat)
	}

	return stats, nil
}

// openTable resolves the XP3 table offset, reads the raw table and
// returns cursors over the archive and the decoded table.
func openTable(data []byte) (arc, table *cursor, err error) {
	arc = newCursor(data)
	_ = arc.skip(len(xp3Magic))

	version, err := detectVersion(arc)
	if err != nil {
		return nil, nil, err
	}

	tableOffset, err := readTableOffset(arc, version)
	if err != nil {
		return nil, nil, err
	}

	off, err := checkedU64ToInt(tableOffset)
	if err != nil {
		return nil, nil, fmt.Errorf("table offset: %w", err)
	}
	if err := arc.seek(off); err != nil {
		return nil, nil, fmt.Errorf("seek table: %w", err)
	}

	table, err = readRawTable(arc)
	if err != nil {
		return nil, nil, err
	}

	return arc, table, nil
}

// detectVersion probes the fixed offset for the version-2 marker and
// restores the cursor position afterwards.
func detectVersion(arc *cursor) (int, error) {
	oldPos := arc.tell()
	if err := arc.seek(xp3VersionProbeOffset); err != nil {
		return 0, fmt.Errorf("probe version: %w", err)
	}

	marker, err := arc.readU32()
	if err != nil {
		return 0, fmt.Errorf("probe version: %w", err)
	}

	if err := arc.seek(oldPos); err != nil {
		return 0, err
	}

	if marker == 1 {
		return 2, nil
	}

	return 1, nil
}

// readTableOffset reads the table offset for the detected version.
// Version 1 stores it directly after the signature. Version 2 stores
// an additional-header offset plus a minor version that must equal 1,
// and the real table offset lives inside the additional header.
func readTableOffset(arc *cursor, version int) (uint64, error) {
	if version == 1 {
		off, err := arc.readU64()
		if err != nil {
			return 0, fmt.Errorf("read table offset: %w", err)
		}

		return off, nil
	}

	additionalHeaderOffset, err := arc.readU64()
	if err != nil {
		return 0, fmt.Errorf("read additional header offset: %w", err)
	}

	minorVersion, err := arc.readU32()
	if err != nil {
		return 0, fmt.Errorf("read minor version: %w", err)
	}
	if minorVersion != 1 {
		return 0, fmt.Errorf("%w: unexpected XP3 version", ErrCorruptData)
	}

	headerOff, err := checkedU64ToInt(additionalHeaderOffset)
	if err != nil {
		return 0, fmt.Errorf("additional header offset: %w", err)
	}
	if err := arc.seek(headerOff); err != nil {
		return 0, fmt.Errorf("seek additional header: %w", err)
	}

	if err := arc.skip(1); err != nil { // flags
		return 0, fmt.Errorf("additional header: %w", err)
	}
	if err := arc.skip(8); err != nil { // table size
		return 0, fmt.Errorf("additional header: %w", err)
	}

	off, err := arc.readU64()
	if err != nil {
		return 0, fmt.Errorf("read table offset: %w", err)
	}

	return off, nil
}

// readRawTable reads the table-of-contents bytes, inflating them when
// the zlib flag is set, and returns an in-memory cursor over them.
func readRawTable(arc *cursor) (*cursor, error) {
	useZlibByte, err := arc.readU8()
	if err != nil {
		return nil, fmt.Errorf("read table flags: %w", err)
	}
	useZlib := useZlibByte != 0

	sizeCompressed, err := arc.readU64()
	if err != nil {
		return nil, fmt.Errorf("read table size: %w", err)
	}

	sizeOriginal := sizeCompressed
	if useZlib {
		sizeOriginal, err = arc.readU64()
		if err != nil {
			return nil, fmt.Errorf("read table original size: %w", err)
		}
	}

	compLen, err := checkedU64ToInt(sizeCompressed)
	if err != nil {
		return nil, fmt.Errorf("table size: %w", err)
	}
	origLen, err := checkedU64ToInt(sizeOriginal)
	if err != nil {
		return nil, fmt.Errorf("table original size: %w", err)
	}

	data, err := arc.readBytes(compLen)
	if err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}

	if useZlib {
		data, err = inflate(data, origLen)
		if err != nil {
			return nil, fmt.Errorf("table: %w", err)
		}
	}

	return newCursor(data), nil
}

// resolveFilterTitle returns the explicit title when set, otherwise
// derives one from the archive file name (base name, no extension).
func resolveFilterTitle(title, archiveName string) string {
	if title != "" {
		return title
	}

	base := path.Base(NormalizePath(archiveName))
	return strings.TrimSuffix(base, path.Ext(base))
}
