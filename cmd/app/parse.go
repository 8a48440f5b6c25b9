package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/starford/gedreader/internal/collation"
	"github.com/starford/gedreader/internal/gedcom"
	"github.com/starford/gedreader/internal/textenc"
)

const (
	formatJSON  = "json"
	formatTable = "table"
)

type parseOptions struct {
	fallback textenc.Fallback
	sort     collation.Key
	format   string
}

type parseOutput struct {
	Encoding textenc.Encoding  `json:"encoding"`
	Counts   gedcom.Counts     `json:"counts"`
	Records  *gedcom.ResultSet `json:"records"`
}

func parseCommand() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "Parse a GEDCOM file (or - for stdin) and print its records",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "fallback",
				Usage: "Encoding tried when the input is not UTF-8 (macintosh, none)",
				Value: string(textenc.FallbackMacintosh),
			},
			&cli.StringFlag{
				Name:  "sort",
				Usage: "Record order (id, name); insertion order when empty",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format (json, table)",
				Value: formatJSON,
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				return fmt.Errorf("parse: a file argument is required")
			}
			key, err := collation.ParseKey(cmd.String("sort"))
			if err != nil {
				return fmt.Errorf("parse: %w", err)
			}
			opts := parseOptions{
				fallback: textenc.Fallback(cmd.String("fallback")),
				sort:     key,
				format:   cmd.String("format"),
			}

			var in io.Reader = os.Stdin
			if name != "-" {
				f, err := os.Open(name)
				if err != nil {
					return fmt.Errorf("parse: %w", err)
				}
				defer f.Close()
				in = f
			}
			return runParse(os.Stdout, in, opts)
		},
	}
}

func runParse(w io.Writer, r io.Reader, opts parseOptions) error {
	switch opts.fallback {
	case textenc.FallbackMacintosh, textenc.FallbackNone:
	default:
		return fmt.Errorf("parse: unknown fallback %q", opts.fallback)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("parse: read input: %w", err)
	}
	text, encoding, err := textenc.Decode(data, opts.fallback)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	rs, err := gedcom.Parse(text)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	rs.Individuals = collation.SortIndividuals(rs.Individuals, opts.sort)
	if opts.sort != collation.Insertion {
		rs.Families = collation.SortFamilies(rs.Families, opts.sort)
		rs.Sources = collation.SortGeneral(rs.Sources, opts.sort)
		rs.Others = collation.SortGeneral(rs.Others, opts.sort)
	}

	switch opts.format {
	case formatJSON:
		out := json.NewEncoder(w)
		out.SetIndent("", "  ")
		return out.Encode(parseOutput{Encoding: encoding, Counts: rs.Counts(), Records: rs})
	case formatTable:
		return writeTable(w, rs)
	default:
		return fmt.Errorf("parse: unknown format %q", opts.format)
	}
}

func writeTable(w io.Writer, rs *gedcom.ResultSet) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tID\tNAME\tHUSBAND\tWIFE")
	for _, ind := range rs.Individuals {
		fmt.Fprintf(tw, "INDI\t%s\t%s\t\t\n", ind.ID, ind.DisplayName)
	}
	for _, fam := range rs.Families {
		fmt.Fprintf(tw, "FAM\t%s\t\t%s\t%s\n", fam.ID, fam.HusbandSurname, fam.WifeSurname)
	}
	for _, src := range rs.Sources {
		fmt.Fprintf(tw, "SOUR\t%s\t\t\t\n", src.ID)
	}
	for _, other := range rs.Others {
		fmt.Fprintf(tw, "OTHER\t%s\t\t\t\n", other.ID)
	}
	c := rs.Counts()
	fmt.Fprintf(tw, "\n%d individuals, %d families, %d sources, %d others\n",
		c.Individuals, c.Families, c.Sources, c.Others)
	return tw.Flush()
}
