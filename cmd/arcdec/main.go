// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Nanoris
// Source: github.com/nanoris/arcdec

// Command arcdec is a thin CLI over the arcdec decoding library: it
// selects a registered decoder by tag or by auto-probe and streams
// results to stdout or to an output directory.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"github.com/woozymasta/pathrules"

	"github.com/nanoris/arcdec"
)

func main() {
	app := &cli.App{
		Name:  "arcdec",
		Usage: "decode proprietary game-asset archives and compressed files",
		Commands: []*cli.Command{
			&cmdProbe,
			&cmdList,
			&cmdDecode,
			&cmdExtract,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

var cmdProbe = cli.Command{
	Name:      "probe",
	Usage:     "Detect the format of a file and print its tag",
	ArgsUsage: "<file>",
	Action:    runProbe,
}

var cmdList = cli.Command{
	Name:      "list",
	Usage:     "List archive entries without extracting them",
	ArgsUsage: "<archive>",
	Action:    runList,
}

var cmdDecode = cli.Command{
	Name:      "decode",
	Usage:     "Decode one compressed file",
	ArgsUsage: "<file>",
	Flags: []cli.Flag{
		&cli.PathFlag{
			Name:    "out",
			Aliases: []string{"o"},
			Usage:   "output path (default: <file>.out)",
		},
	},
	Action: runDecode,
}

var cmdExtract = cli.Command{
	Name:      "extract",
	Usage:     "Unpack an archive into a directory",
	ArgsUsage: "<archive>",
	Flags: []cli.Flag{
		&cli.PathFlag{
			Name:    "out",
			Aliases: []string{"o"},
			Usage:   "output directory (default: <archive>.out)",
		},
		&cli.StringFlag{
			Name:  "filter",
			Usage: "per-title decryption filter (e.g. fsn)",
		},
		&cli.StringSliceFlag{
			Name:  "include",
			Usage: "entry path pattern to include (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "entry path pattern to exclude (repeatable)",
		},
		&cli.BoolFlag{
			Name:  "raw-names",
			Usage: "disable output name sanitization",
		},
		&cli.BoolFlag{
			Name:  "nested",
			Usage: "decode recognized nested formats inside entries",
		},
	},
	Action: runExtract,
}

func runProbe(c *cli.Context) error {
	file, err := loadFile(c)
	if err != nil {
		return err
	}

	dec, err := arcdec.DefaultRegistry().Probe(file)
	if err != nil {
		return err
	}

	fmt.Println(dec.Tag())
	return nil
}

func runList(c *cli.Context) error {
	file, err := loadFile(c)
	if err != nil {
		return err
	}

	xp3 := arcdec.NewXP3Decoder()
	if !xp3.Recognize(file) {
		return fmt.Errorf("%s: not an XP3 archive", file.Name)
	}

	stats, err := xp3.List(file)
	if err != nil {
		return err
	}

	for _, stat := range stats {
		fmt.Printf("%10d  %s\n", stat.OriginalSize, stat.Name)
	}

	return nil
}

func runDecode(c *cli.Context) error {
	file, err := loadFile(c)
	if err != nil {
		return err
	}

	dec, err := arcdec.DefaultRegistry().Probe(file)
	if err != nil {
		return err
	}

	fd, ok := dec.(arcdec.FileDecoder)
	if !ok {
		return fmt.Errorf("%s is an archive; use extract", dec.Tag())
	}

	plain, err := fd.Decode(file)
	if err != nil {
		return err
	}

	outPath := c.Path("out")
	if outPath == "" {
		outPath = file.Name + ".out"
	}

	if err := os.WriteFile(outPath, plain.Data, 0o600); err != nil {
		return err
	}

	fmt.Printf("saved %d bytes to %s\n", len(plain.Data), outPath)
	return nil
}

func runExtract(c *cli.Context) error {
	file, err := loadFile(c)
	if err != nil {
		return err
	}

	xp3 := arcdec.NewXP3Decoder()
	if !xp3.Recognize(file) {
		return fmt.Errorf("%s: not an XP3 archive", file.Name)
	}

	if c.Bool("nested") {
		xp3.AddDecoder(arcdec.LNDDecoder{})
	}

	outDir := c.Path("out")
	if outDir == "" {
		outDir = file.Name + ".out"
	}

	sink, err := arcdec.NewDirSink(outDir, arcdec.SaveOptions{
		RawNames: c.Bool("raw-names"),
		OnSaved: func(name string, written int64, _ string) {
			fmt.Printf("%10d  %s\n", written, name)
		},
	})
	if err != nil {
		return err
	}

	return xp3.Unpack(file, sink, arcdec.UnpackOptions{
		FilterTitle: c.String("filter"),
		Select:      selectionRules(c.StringSlice("include"), c.StringSlice("exclude")),
	})
}

// selectionRules builds ordered pathrules from include/exclude flags.
// Exclude-only rule sets keep unmatched entries included.
func selectionRules(include, exclude []string) []pathrules.Rule {
	rules := make([]pathrules.Rule, 0, len(include)+len(exclude)+1)
	for _, pattern := range include {
		rules = append(rules, pathrules.Rule{Action: pathrules.ActionInclude, Pattern: pattern})
	}
	for _, pattern := range exclude {
		rules = append(rules, pathrules.Rule{Action: pathrules.ActionExclude, Pattern: pattern})
	}
	if len(include) == 0 && len(exclude) > 0 {
		rules = append([]pathrules.Rule{{Action: pathrules.ActionInclude, Pattern: "**"}}, rules...)
	}

	return rules
}

// loadFile reads the single positional argument into a File.
func loadFile(c *cli.Context) (*arcdec.File, error) {
	if c.NArg() != 1 {
		return nil, fmt.Errorf("expected exactly one input file, got %d", c.NArg())
	}

	path := strings.TrimSpace(c.Args().First())
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return arcdec.NewFile(path, data), nil
}
