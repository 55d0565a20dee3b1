// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Nanoris
// Source: github.com/nanoris/arcdec

package arcdec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math/rand"
	"testing"
)

// literalOp encodes one literal-copy operation for up to 32 bytes.
func literalOp(data []byte) []byte {
	if len(data) == 0 || len(data) > 32 {
		panic("literalOp supports 1..32 bytes")
	}

	out := []byte{byte(len(data) - 1)}
	return append(out, data...)
}

// buildLNDFile assembles an LND file around an encoded payload.
func buildLNDFile(name string, payload []byte, sizeOrig uint32) *File {
	var buf bytes.Buffer
	buf.Write(lndMagic)
	buf.Write([]byte{0, 0, 0, 0})
	_ = binary.Write(&buf, binary.LittleEndian, sizeOrig)
	buf.Write([]byte{0, 0, 0, 0})
	buf.Write(payload)
	return NewFile(name, buf.Bytes())
}

func TestDecompressRawLiteralRoundTrip(t *testing.T) {
	t.Parallel()

	want := []byte("the quick brown fox")
	input := literalOp(want)

	got := DecompressRaw(input, len(want))
	if !bytes.Equal(got, want) {
		t.Fatalf("DecompressRaw=%q, want %q", got, want)
	}
}

func TestDecompressRawLiteralExtendedLength(t *testing.T) {
	t.Parallel()

	// bit5 set: length = (ctrl&0x1F)+1 + extra<<5.
	want := bytes.Repeat([]byte{0xAB}, 1+1<<5)
	input := append([]byte{0x20, 0x01}, want...)

	got := DecompressRaw(input, len(want))
	if !bytes.Equal(got, want) {
		t.Fatalf("extended literal: got %d bytes, want %d", len(got), len(want))
	}
}

func TestDecompressRawBackReferenceOverlap(t *testing.T) {
	t.Parallel()

	// Literal "AB", then copy 4 bytes from distance 1: the copy must
	// reuse bytes written earlier within the same operation.
	input := []byte{
		0x01, 'A', 'B',
		0x88, 0x00, // length 4, distance 1
	}

	got := DecompressRaw(input, 6)
	if want := []byte("ABBBBB"); !bytes.Equal(got, want) {
		t.Fatalf("overlap copy=%q, want %q", got, want)
	}
}

func TestDecompressRawBackReferenceBeforeStart(t *testing.T) {
	t.Parallel()

	// A back-reference reaching before the start of the output must
	// not panic; out-of-range source bytes read as zero.
	input := []byte{0x88, 0x20} // length 4, distance 33
	got := DecompressRaw(input, 4)
	if want := []byte{0, 0, 0, 0}; !bytes.Equal(got, want) {
		t.Fatalf("before-start copy=%v, want %v", got, want)
	}
}

func TestDecompressRawFillRun(t *testing.T) {
	t.Parallel()

	// ctrl 0xC3: bit7=1 bit6=1, run length (3)+2=5, value 0xFF.
	input := []byte{0xC3, 0xFF}
	got := DecompressRaw(input, 8)
	if want := bytes.Repeat([]byte{0xFF}, 5); !bytes.Equal(got, want) {
		t.Fatalf("fill run=%v, want %v", got, want)
	}
}

func TestDecompressRawFillRunConsumesOneValueByte(t *testing.T) {
	t.Parallel()

	// The fill value byte is consumed exactly once after the run, so
	// the next operation starts right after it.
	input := []byte{
		0xC3, 0xFF, // five 0xFF bytes
		0x00, 'A', // one literal byte
	}

	got := DecompressRaw(input, 6)
	if want := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 'A'}; !bytes.Equal(got, want) {
		t.Fatalf("fill run consumption: got %v, want %v", got, want)
	}
}

func TestDecompressRawFillRunExtendedLength(t *testing.T) {
	t.Parallel()

	// bit5 set: run length (0)+2 + 1<<5 = 34.
	input := []byte{0xE0, 0x01, 0x55}
	got := DecompressRaw(input, 64)
	if want := bytes.Repeat([]byte{0x55}, 34); !bytes.Equal(got, want) {
		t.Fatalf("extended fill run: got %d bytes, want %d", len(got), len(want))
	}
}

func TestDecompressRawFillRunOutputFullStillConsumesValue(t *testing.T) {
	t.Parallel()

	// Output fills after 2 of 5 repetitions. The value byte must
	// still be consumed, so a following operation would start after
	// it; with nothing following, decoding just stops.
	input := []byte{0xC3, 0xFF}
	got := DecompressRaw(input, 2)
	if want := []byte{0xFF, 0xFF}; !bytes.Equal(got, want) {
		t.Fatalf("truncated fill run=%v, want %v", got, want)
	}
}

func TestDecompressRawAdditiveBlend(t *testing.T) {
	t.Parallel()

	// ctrl 0x40: block size 2, repeat count 3. The window [1 2] is
	// overlaid three times onto the same output span.
	input := []byte{0x40, 0x02, 0x01, 0x02}
	got := DecompressRaw(input, 2)
	if want := []byte{3, 6}; !bytes.Equal(got, want) {
		t.Fatalf("additive blend=%v, want %v", got, want)
	}
}

func TestDecompressRawAdditiveBlendAfterLiteral(t *testing.T) {
	t.Parallel()

	// The blend adds into whatever the output span already holds and
	// advances positions by the block size once.
	input := []byte{
		0x01, 10, 20, // literal [10 20]
		0x40, 0x00, 0x05, 0x06, // blend window [5 6], one repeat
		0x00, 99, // literal [99]
	}

	got := DecompressRaw(input, 5)
	// Literal writes 10,20; blend targets the next span (zeros).
	if want := []byte{10, 20, 5, 6, 99}; !bytes.Equal(got, want) {
		t.Fatalf("blend after literal=%v, want %v", got, want)
	}
}

func TestDecompressRawTruncatesOnInputEnd(t *testing.T) {
	t.Parallel()

	// Declared output is larger than the encoded stream produces.
	input := literalOp([]byte("abc"))
	got := DecompressRaw(input, 100)
	if want := []byte("abc"); !bytes.Equal(got, want) {
		t.Fatalf("truncated decode=%q, want %q", got, want)
	}
}

func TestDecompressRawNeverOverflowsOutput(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 2000; round++ {
		input := make([]byte, rng.Intn(64))
		rng.Read(input)
		sizeOrig := rng.Intn(96)

		got := DecompressRaw(input, sizeOrig)
		if len(got) > sizeOrig {
			t.Fatalf("round %d: output %d bytes exceeds declared %d", round, len(got), sizeOrig)
		}
	}
}

func TestLNDDecoderRecognize(t *testing.T) {
	t.Parallel()

	dec := LNDDecoder{}

	if !dec.Recognize(buildLNDFile("a.lnd", nil, 0)) {
		t.Fatal("valid magic not recognized")
	}

	if dec.Recognize(NewFile("a.bin", []byte("LND\x00junk"))) {
		t.Fatal("signature must be compared exactly")
	}

	if dec.Recognize(nil) {
		t.Fatal("nil file recognized")
	}

	if dec.Recognize(NewFile("short", []byte("ln"))) {
		t.Fatal("short file recognized")
	}
}

func TestLNDDecoderDecode(t *testing.T) {
	t.Parallel()

	want := []byte("decoded content")
	file := buildLNDFile("script.lnd", literalOp(want), uint32(len(want)))

	got, err := LNDDecoder{}.Decode(file)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if got.Name != "script.lnd" {
		t.Fatalf("Name=%q, want %q", got.Name, "script.lnd")
	}
	if !bytes.Equal(got.Data, want) {
		t.Fatalf("Data=%q, want %q", got.Data, want)
	}
}

func TestLNDDecoderDecodeErrors(t *testing.T) {
	t.Parallel()

	if _, err := (LNDDecoder{}).Decode(nil); !errors.Is(err, ErrNilFile) {
		t.Fatalf("expected ErrNilFile, got %v", err)
	}

	_, err := LNDDecoder{}.Decode(NewFile("x", []byte("not lnd")))
	if !errors.Is(err, ErrUnrecognizedFormat) {
		t.Fatalf("expected ErrUnrecognizedFormat, got %v", err)
	}

	_, err = LNDDecoder{}.Decode(NewFile("x", append([]byte{}, lndMagic...)))
	if !errors.Is(err, ErrCorruptData) {
		t.Fatalf("expected ErrCorruptData for short header, got %v", err)
	}
}
