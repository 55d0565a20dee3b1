// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Nanoris
// Source: github.com/nanoris/arcdec

package arcdec

import (
	"bytes"
	"fmt"

	"golang.org/x/text/encoding/unicode"
)

// Entry table chunk tags, in required order inside one File chunk.
var (
	chunkTagFile = []byte("File")
	chunkTagInfo = []byte("info")
	chunkTagSegm = []byte("segm")
	chunkTagAdlr = []byte("adlr")
)

var utf16LEDecoder = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// xp3Info holds the decoded INFO sub-chunk of one entry.
type xp3Info struct {
	flags          uint32
	originalSize   uint64
	compressedSize uint64
	name           string
}

// xp3Segment is one 28-byte SEGM record: a contiguous slice of the
// entry's data as stored in the archive.
type xp3Segment struct {
	flags          uint32
	offset         uint64
	originalSize   uint64
	compressedSize uint64
}

// compressed reports whether the segment payload is zlib-compressed.
func (s xp3Segment) compressed() bool {
	return s.flags&7 != 0
}

// readEntry parses one File chunk from the table cursor, assembles the
// entry data from its segments and applies the decryption filter.
func readEntry(arc, table *cursor, filter FilterFunc) (*File, error) {
	chunkSize, err := expectChunk(table, chunkTagFile)
	if err != nil {
		return nil, err
	}

	chunkStart := table.tell()

	info, err := readInfoChunk(table)
	if err != nil {
		return nil, err
	}

	segments, err := readSegmChunk(table)
	if err != nil {
		return nil, err
	}

	data, err := assembleSegments(arc, segments, info.originalSize)
	if err != nil {
		return nil, fmt.Errorf("entry %q: %w", info.name, err)
	}

	key, err := readAdlrChunk(table)
	if err != nil {
		return nil, err
	}

	// The sub-chunks must consume exactly the declared File chunk span.
	if table.tell()-chunkStart != chunkSize {
		return nil, fmt.Errorf("%w: unexpected file data size for %q", ErrCorruptData, info.name)
	}

	if filter != nil {
		filter(data, key)
	}

	return NewFile(info.name, data), nil
}

// scanEntry parses one File chunk for metadata only, without touching
// the archive payload region.
func scanEntry(table *cursor) (EntryStat, error) {
	chunkSize, err := expectChunk(table, chunkTagFile)
	if err != nil {
		return EntryStat{}, err
	}

	chunkStart := table.tell()

	info, err := readInfoChunk(table)
	if err != nil {
		return EntryStat{}, err
	}

	segments, err := readSegmChunk(table)
	if err != nil {
		return EntryStat{}, err
	}

	if _, err := readAdlrChunk(table); err != nil {
		return EntryStat{}, err
	}

	if table.tell()-chunkStart != chunkSize {
		return EntryStat{}, fmt.Errorf("%w: unexpected file data size for %q", ErrCorruptData, info.name)
	}

	return EntryStat{
		Name:           info.name,
		Flags:          info.flags,
		OriginalSize:   info.originalSize,
		CompressedSize: info.compressedSize,
		Segments:       len(segments),
	}, nil
}

// expectChunk reads one 4-byte ASCII tag plus a 64-bit length prefix
// and verifies the tag.
func expectChunk(table *cursor, tag []byte) (int, error) {
	got, err := table.readBytes(len(tag))
	if err != nil {
		return 0, fmt.Errorf("%w: expected %s chunk", ErrCorruptData, tag)
	}
	if !bytes.Equal(got, tag) {
		return 0, fmt.Errorf("%w: expected %s chunk", ErrCorruptData, tag)
	}

	rawSize, err := table.readU64()
	if err != nil {
		return 0, fmt.Errorf("read %s chunk size: %w", tag, err)
	}

	size, err := checkedU64ToInt(rawSize)
	if err != nil {
		return 0, fmt.Errorf("%s chunk size: %w", tag, err)
	}

	return size, nil
}

// readInfoChunk parses the INFO sub-chunk: flags, sizes and the
// UTF-16LE entry name.
func readInfoChunk(table *cursor) (xp3Info, error) {
	if _, err := expectChunk(table, chunkTagInfo); err != nil {
		return xp3Info{}, err
	}

	var info xp3Info
	var err error

	if info.flags, err = table.readU32(); err != nil {
		return xp3Info{}, fmt.Errorf("read info flags: %w", err)
	}
	if info.originalSize, err = table.readU64(); err != nil {
		return xp3Info{}, fmt.Errorf("read info original size: %w", err)
	}
	if info.compressedSize, err = table.readU64(); err != nil {
		return xp3Info{}, fmt.Errorf("read info compressed size: %w", err)
	}

	nameLen, err := table.readU16()
	if err != nil {
		return xp3Info{}, fmt.Errorf("read info name length: %w", err)
	}

	nameBytes, err := table.readBytes(int(nameLen) * 2)
	if err != nil {
		return xp3Info{}, fmt.Errorf("read info name: %w", err)
	}

	info.name, err = decodeUTF16LE(nameBytes)
	if err != nil {
		return xp3Info{}, err
	}

	return info, nil
}

// readSegmChunk parses the SEGM sub-chunk into segment records. The
// declared chunk length must be a multiple of the fixed record size.
func readSegmChunk(table *cursor) ([]xp3Segment, error) {
	size, err := expectChunk(table, chunkTagSegm)
	if err != nil {
		return nil, err
	}
	if size%xp3SegmentRecordSize != 0 {
		return nil, fmt.Errorf("%w: unexpected segm chunk size %d", ErrCorruptData, size)
	}

	segments := make([]xp3Segment, 0, size/xp3SegmentRecordSize)
	for i := 0; i < size/xp3SegmentRecordSize; i++ {
		var seg xp3Segment

		if seg.flags, err = table.readU32(); err != nil {
			return nil, fmt.Errorf("read segment flags: %w", err)
		}
		if seg.offset, err = table.readU64(); err != nil {
			return nil, fmt.Errorf("read segment offset: %w", err)
		}
		if seg.originalSize, err = table.readU64(); err != nil {
			return nil, fmt.Errorf("read segment original size: %w", err)
		}
		if seg.compressedSize, err = table.readU64(); err != nil {
			return nil, fmt.Errorf("read segment compressed size: %w", err)
		}

		segments = append(segments, seg)
	}

	return segments, nil
}

// assembleSegments reads each segment payload from the archive,
// inflating compressed segments, and concatenates them in order.
func assembleSegments(arc *cursor, segments []xp3Segment, sizeHint uint64) ([]byte, error) {
	var full bytes.Buffer
	if hint, err := checkedU64ToInt(sizeHint); err == nil {
		full.Grow(hint)
	}

	for i, seg := range segments {
		off, err := checkedU64ToInt(seg.offset)
		if err != nil {
			return nil, fmt.Errorf("segment %d offset: %w", i, err)
		}
		if err := arc.seek(off); err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}

		if seg.compressed() {
			compLen, err := checkedU64ToInt(seg.compressedSize)
			if err != nil {
				return nil, fmt.Errorf("segment %d compressed size: %w", i, err)
			}

			raw, err := arc.readBytes(compLen)
			if err != nil {
				return nil, fmt.Errorf("segment %d: %w", i, err)
			}

			origLen, _ := checkedU64ToInt(seg.originalSize)
			data, err := inflate(raw, origLen)
			if err != nil {
				return nil, fmt.Errorf("segment %d: %w", i, err)
			}

			full.Write(data)
			continue
		}

		origLen, err := checkedU64ToInt(seg.originalSize)
		if err != nil {
			return nil, fmt.Errorf("segment %d original size: %w", i, err)
		}

		raw, err := arc.readBytes(origLen)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}

		full.Write(raw)
	}

	return full.Bytes(), nil
}

// readAdlrChunk parses the ADLR sub-chunk and returns the entry key.
func readAdlrChunk(table *cursor) (uint32, error) {
	size, err := expectChunk(table, chunkTagAdlr)
	if err != nil {
		return 0, err
	}
	if size != 4 {
		return 0, fmt.Errorf("%w: unexpected adlr chunk size %d", ErrCorruptData, size)
	}

	key, err := table.readU32()
	if err != nil {
		return 0, fmt.Errorf("read adlr key: %w", err)
	}

	return key, nil
}

// decodeUTF16LE decodes UTF-16LE bytes to a Go string. Unpaired
// surrogates are replaced, not rejected, to keep mangled names usable.
func decodeUTF16LE(b []byte) (string, error) {
	out, err := utf16LEDecoder.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("%w: entry name is not valid UTF-16LE", ErrCorruptData)
	}

	return string(out), nil
}
