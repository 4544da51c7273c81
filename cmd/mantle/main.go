package main

import (
	"context"
	"fmt"
	"io"
	"os"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "mantle: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) < 1 {
		usage(stderr)
		return errUsage
	}
	switch args[0] {
	case "decode":
		return remapCmd(ctx, directionDecode, args[1:], stdin, stdout, stderr)
	case "encode":
		return remapCmd(ctx, directionEncode, args[1:], stdin, stdout, stderr)
	case "transformers":
		for _, n := range predefinedNames() {
			fmt.Fprintln(stdout, n)
		}
		return nil
	default:
		usage(stderr)
		return errUsage
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "mantle CLI\n\nUsage:\n  mantle decode -m keypaths.yaml [-t prop=transformer]... [--mandatory prop,...] [-i in.json] [--from json|yaml] [--to json|yaml]\n  mantle encode -m keypaths.yaml [-t prop=transformer]... [--mandatory prop,...] [-i in.json] [--from json|yaml] [--to json|yaml]\n  mantle transformers\n\nNotes:\n  - decode reads a document laid out by the key-path map and prints it keyed by property.\n  - encode does the reverse.")
}
