// Huffman file compressor / decompressor.
//
// huffman huff filename
//   Creates filename.huff
//
// huffman puff filename.huff
//   Creates out_filename
package main

import (
	"fmt"
	"os"

	"github.com/rcrook11/huffman/huffman"
)

var usage = "Usage: huffman [huff|puff] filename"

func main() {
	args := os.Args[1:]
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	var err error
	switch args[0] {
	case "huff":
		err = huffman.Huff(args[1])
	case "puff":
		err = huffman.Puff(args[1])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n%s\n", args[0], usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
