// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"log"
	"os"

	"github.com/mmyjona/cvm/compiler"
	"github.com/mmyjona/cvm/parse"
	"github.com/mmyjona/cvm/vm"
)

func main() {
	var verbose bool
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("%v: usage: %v [-v] <source-file>", os.Args[0], os.Args[0])
	}
	source := flag.Arg(0)

	inf, err := os.Open(source)
	if err != nil {
		log.Fatalf("%v: %v", source, err)
	}
	defer inf.Close()

	if verbose {
		log.Printf("%v: parsing", source)
	}
	prog, err := parse.Parse(inf)
	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

	if verbose {
		log.Printf("%v: compiling", source)
	}
	mod, err := compiler.Compile(prog)
	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

	if verbose {
		log.Printf("%v: running entry %q", source, mod.Entry)
	}
	if err := vm.Run(mod); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
}
