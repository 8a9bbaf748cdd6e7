// Package huffman compresses and decompresses single files with Huffman
// coding.
//
// Huff(path) writes path.huff: a key describing the byte frequencies of the
// input, then the input re-encoded as a packed bit stream with the shortest
// codes on the most frequent bytes.  Puff(path.huff) rebuilds the identical
// tree from the key and writes the decoded bytes to out_path.
//
// The work is strictly sequential, two linear passes over the input per
// direction: count then encode, read the key then walk bits.
package huffman

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/icza/bitio"
)

const huffSuffix = ".huff"

// Compress the file at path into path.huff.

func Huff(path string) error {
	in, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s for reading: %w", path, err)
	}
	defer in.Close()

	ft, err := countFrequencies(in)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	// Build the codes before touching the output path, so a table the codec
	// can't represent leaves nothing behind.
	var codes codeTable
	if len(ft) > 0 {
		if codes, err = assignCodes(buildTree(ft)); err != nil {
			return fmt.Errorf("building codes for %s: %w", path, err)
		}
	}

	outPath := path + huffSuffix
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("opening %s for writing: %w", outPath, err)
	}
	defer out.Close()
	w := bufio.NewWriter(out)

	// An empty input has no tree; its whole representation is a bare key
	// with no records and a zero bit count.
	if len(ft) == 0 {
		if err := writeKey(w, ft, 0); err != nil {
			return fmt.Errorf("writing key to %s: %w", outPath, err)
		}
		return w.Flush()
	}

	if err := writeKey(w, ft, ft.encodedBits(codes)); err != nil {
		return fmt.Errorf("writing key to %s: %w", outPath, err)
	}

	// Second pass over the input; nothing from the first pass is retained
	// but the frequency table.
	if _, err := in.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewinding %s: %w", path, err)
	}
	if err := encode(in, w, codes); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return w.Flush()
}

// Decompress the file at path, which must be named something.huff, into
// out_something in the same directory.

func Puff(path string) error {
	base, found := strings.CutSuffix(path, huffSuffix)
	if !found {
		return fmt.Errorf("file to decompress must be named something%s: %s", huffSuffix, path)
	}
	dir, name := filepath.Split(base)
	outPath := filepath.Join(dir, "out_"+name)

	in, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s for reading: %w", path, err)
	}
	defer in.Close()

	br := bufio.NewReader(in)
	k, err := readKey(br)
	if err != nil {
		return fmt.Errorf("reading key from %s: %w", path, err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("opening %s for writing: %w", outPath, err)
	}
	defer out.Close()
	w := bufio.NewWriter(out)

	if len(k.freqs) == 0 {
		if k.bitLen != 0 {
			return fmt.Errorf("%w: %d payload bits but no frequency records", ErrFormat, k.bitLen)
		}
		return w.Flush()
	}
	if err := decode(br, w, buildTree(k.freqs), k.bitLen); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return w.Flush()
}

// Replace each input byte with its code, most significant code bit first.
// Closing the bit writer pads the final partial byte with zero bits; the
// padding lies beyond the bit count recorded in the key and is never read
// back.  A byte without a code means the input no longer matches the table
// counted from it, which is fatal.

func encode(in io.Reader, out io.Writer, codes codeTable) error {
	w := bitio.NewWriter(out)
	block := make([]byte, blockSize)
	for {
		n, err := in.Read(block)
		for _, b := range block[:n] {
			c := codes[b]
			if c.width == 0 {
				return fmt.Errorf("%w: %#02x", ErrNoCode, b)
			}
			if err := w.WriteBits(c.bits, uint8(c.width)); err != nil {
				return err
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}
	return w.Close()
}

// Walk the tree bit by bit: zero branch on 0, one branch on 1, emit the
// leaf's byte and restart at the root.  The cursor is bounded by the bit
// count from the key, so the padding bits that fill out the payload's final
// byte are never interpreted as data.  A lone-leaf tree skips the descent
// but still consumes one bit per emitted byte.

func decode(in io.Reader, out *bufio.Writer, root *node, bitLen uint64) error {
	r := bitio.NewReader(in)
	for used := uint64(0); used < bitLen; {
		t := root
		for t.zero != nil {
			bit, err := r.ReadBool()
			if err != nil {
				return fmt.Errorf("%w: payload truncated at bit %d of %d: %v", ErrFormat, used, bitLen, err)
			}
			used++
			if bit {
				t = t.one
			} else {
				t = t.zero
			}
		}
		if t == root {
			if _, err := r.ReadBool(); err != nil {
				return fmt.Errorf("%w: payload truncated at bit %d of %d: %v", ErrFormat, used, bitLen, err)
			}
			used++
		}
		if err := out.WriteByte(t.val); err != nil {
			return err
		}
	}
	return nil
}
