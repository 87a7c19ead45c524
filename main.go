package main

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	flag "github.com/spf13/pflag"

	"github.com/mikhail-m1/rust/colors"
	"github.com/mikhail-m1/rust/internal/borrowck"
	"github.com/mikhail-m1/rust/internal/mir"
	"github.com/mikhail-m1/rust/internal/mir/parse"
)

const version = "0.1.0"

func main() {
	debug := flag.BoolP("debug", "d", false, "Dump the parsed body before analysis")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	showVersion := flag.BoolP("version", "v", false, "Show version")
	flag.Parse()

	if *showVersion {
		fmt.Printf("rust-escape version %s\n", version)
		os.Exit(0)
	}
	if *noColor {
		colors.Enabled = false
	}

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: rust-escape [options] <file.mir>")
		fmt.Fprintln(os.Stderr, "\nOptions:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	body, err := parse.File(args[0])
	if err != nil {
		colors.RED.Fprintf(os.Stderr, "%s: %v\n", args[0], err)
		os.Exit(1)
	}

	if *debug {
		colors.GREY.Println(mir.FormatBody(body))
		spew.Fdump(os.Stderr, body)
	}

	escaping := borrowck.FindEscapingLocals(body)
	if len(escaping) == 0 {
		colors.GREEN.Printf("fn %s: no locals escape into the return slot\n", body.Name)
		return
	}

	colors.YELLOW.Printf("fn %s: %d local(s) escape into the return slot\n", body.Name, len(escaping))
	for _, local := range escaping {
		decl := body.Locals[local]
		if decl.Name != "" {
			fmt.Printf("  _%d (%s): %s\n", local, decl.Name, decl.Type)
		} else {
			fmt.Printf("  _%d: %s\n", local, decl.Type)
		}
	}
}
