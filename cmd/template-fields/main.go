package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/geoirb/go-booking-pdf/internal/inspect"
	"github.com/geoirb/go-booking-pdf/internal/templater"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s template.pdf\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	b, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fields, err := inspect.Fields(b)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTYPE\tVALUE")
	for _, f := range fields {
		fmt.Fprintf(w, "%s\t%s\t%s\n", f.Name, f.Type, f.CurrentValue)
	}
	w.Flush()

	if missing := inspect.Missing(fields, templater.RequiredFields...); len(missing) > 0 {
		fmt.Fprintf(os.Stderr, "missing required text fields: %v\n", missing)
		os.Exit(1)
	}
}
