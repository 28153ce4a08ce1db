package main

import (
	"fmt"
	"os"

	"github.com/cms-nanoAOD/correctionlib/schema"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "summary":
		if err := summary(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "eval":
		if err := eval(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "validate":
		if err := validate(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "registry":
		if err := registryCmd(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version", "-v", "--version":
		fmt.Printf("correction evaluator (schema v%d)\n", schema.SupportedVersion)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`correction - evaluate and inspect correction-set documents

Usage:
  correction summary <file> [name]          Show correction structure and input stats
  correction eval <file> <name> <values>    Evaluate a correction on one input tuple
  correction validate <file>                Load and fully validate a document
  correction registry [-db path] add <file> Index a document in the local catalog
  correction registry [-db path] list       List catalogued documents
  correction registry [-db path] find <n>   Find documents providing a correction
  correction registry [-db path] rm <key>   Remove a document by id or path
  correction version                        Show evaluator version

Documents may be gzip-compressed; values for eval are parsed per the
declared input types (string, int or real).`)
}
