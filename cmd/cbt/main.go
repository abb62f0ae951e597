// Package main provides the cbt command: encode source code into symbol
// streams, build corpora and inspect them.
package main

import (
	"fmt"
	"log"
	"os"
	"sort"
)

const version = "v0.1.0"

type command struct {
	usage string
	run   func(args []string) error
}

var commands = map[string]command{
	"version": {usage: "version", run: runVersion},
	"encode":  {usage: "encode [-lang L] FILE", run: runEncode},
	"decode":  {usage: "decode FILE", run: runDecode},
	"split":   {usage: "split [-decode] -out DIR CORPUS", run: runSplit},
	"build":   {usage: "build [-config FILE] [-lang L] [-root DIR] [-out FILE] [-policy P] [-workers N]", run: runBuild},
	"stats":   {usage: "stats [-bpe ENCODING] CORPUS", run: runStats},
	"vocab":   {usage: "vocab -out FILE CORPUS", run: runVocab},
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("cbt: ")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}
	cmd, ok := commands[os.Args[1]]
	if !ok {
		log.Printf("unknown command %q", os.Args[1])
		printUsage()
		os.Exit(2)
	}
	if err := cmd.run(os.Args[2:]); err != nil {
		log.Fatal(err)
	}
}

func printUsage() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(os.Stderr, "cbt %s - code symbol tokenizer\n\nCommands:\n", version)
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "  cbt %s\n", commands[name].usage)
	}
}

func runVersion([]string) error {
	fmt.Printf("cbt %s\n", version)
	return nil
}
