// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Nanoris
// Source: github.com/nanoris/arcdec

/*
Package arcdec decodes proprietary game-asset archive and compression
formats into plain files. Given an opaque byte blob it recognizes which
container/codec format produced it, reverses any custom compression or
XOR-style obfuscation, and re-exposes the result as named files,
recursively applying nested decoders where entries are themselves
encoded.

Supported formats:
  - kid/lnd — LND compressed file (custom byte-oriented LZ codec);
  - krkr/xp3 — XP3 archive container (chunked table of contents,
    zlib-compressed segments, pluggable per-title decryption filters).

# Probing and decoding single files

Select a decoder automatically and decode one file:

	reg := arcdec.DefaultRegistry()
	file := arcdec.NewFile("script.lnd", raw)
	dec, err := reg.Probe(file)
	if err != nil {
	    return err
	}
	fd, ok := dec.(arcdec.FileDecoder)
	if !ok {
	    return fmt.Errorf("%s is an archive, not a plain file", dec.Tag())
	}
	plain, err := fd.Decode(file)
	if err != nil {
	    return err
	}
	_ = plain.Data

# Unpacking archives

Unpack an XP3 archive into a directory, selecting the per-title
decryption filter by name:

	xp3 := arcdec.NewXP3Decoder()
	sink, err := arcdec.NewDirSink("out/", arcdec.SaveOptions{})
	if err != nil {
	    return err
	}
	err = xp3.Unpack(file, sink, arcdec.UnpackOptions{
	    FilterTitle: "fsn",
	})

Entry selection rules limit which entries reach the sink; examples
below use github.com/woozymasta/pathrules:

	err = xp3.Unpack(file, sink, arcdec.UnpackOptions{
	    Select: []pathrules.Rule{
	        {Action: pathrules.ActionInclude, Pattern: "*.ks"},
	        {Action: pathrules.ActionInclude, Pattern: "data/**"},
	    },
	})

# Nested decoders

An archive decoder may own sub-decoders that further transform entries
it has already produced. Each produced entry that a sub-decoder
recognizes is decoded before being handed to the sink:

	xp3 := arcdec.NewXP3Decoder()
	xp3.AddDecoder(arcdec.LNDDecoder{})

Output file names are sanitized to filesystem-safe form by default
during directory extraction; disable explicitly when raw names are
required:

	sink, err := arcdec.NewDirSink("out/", arcdec.SaveOptions{
	    RawNames: true,
	})

All structural failures wrap ErrCorruptData and abort the whole unpack;
entries already pushed to the sink are not rolled back. Use errors.Is
to classify failures.
*/
package arcdec
