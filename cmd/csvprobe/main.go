// Command csvprobe samples the head of a delimited sales export, infers
// column names and types, and optionally emits a starter pipeline config.
//
// Examples:
//
//	csvprobe -path data/walmart.csv
//	csvprobe -url https://example.com/sales.csv -name walmart_sales -json
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"unicode/utf8"

	"salesetl/internal/datasource"
	"salesetl/internal/datasource/file"
	"salesetl/internal/datasource/httpds"
	"salesetl/internal/probe"
)

func main() {
	var (
		path      string
		url       string
		name      string
		maxBytes  int
		delimiter string
		asJSON    bool
	)

	flag.StringVar(&path, "path", "", "local file to sample")
	flag.StringVar(&url, "url", "", "remote file to sample (used when -path is empty)")
	flag.StringVar(&name, "name", "sales", "job/table name for the suggested config")
	flag.IntVar(&maxBytes, "max-bytes", 0, "bytes to sample from the start of the file (0 = default)")
	flag.StringVar(&delimiter, "delimiter", ",", "field delimiter")
	flag.BoolVar(&asJSON, "json", false, "emit a starter pipeline config instead of a column summary")
	flag.Parse()

	var src datasource.Source
	switch {
	case path != "":
		src = file.NewLocal(path)
	case url != "":
		src = httpds.NewRemote(httpds.Config{}, url)
	default:
		fatalf("one of -path or -url is required")
	}

	cols, err := probe.Sample(context.Background(), src, probe.Options{
		MaxBytes:  maxBytes,
		Delimiter: decodeDelimiter(delimiter),
	})
	if err != nil {
		fatalf("%v", err)
	}

	if asJSON {
		out, err := probe.RenderJSON(probe.SuggestPipeline(name, cols))
		if err != nil {
			fatalf("%v", err)
		}
		os.Stdout.Write(out)
		return
	}
	os.Stdout.Write(probe.RenderText(cols))
}

// decodeDelimiter converts a user-supplied string into a single rune.
func decodeDelimiter(s string) rune {
	if s == "" {
		return ','
	}
	if s == `\t` {
		return '\t'
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
