package huffman

import "io"

// Input is read in blocks of this size everywhere; nothing here ever holds
// more of the file in memory than one block.

const blockSize = 65536

// One entry per byte value that occurs in the input.  The table is kept
// ascending by byte value, so that everything derived from it - the merge
// order, the serialized key - is reproducible.

type freqEntry struct {
	val   byte
	count uint64
}

type freqTable []freqEntry

// Count byte occurrences in the input.  Aggregation is commutative so the
// read order doesn't matter, only that the stream is consumed to the end.

func countFrequencies(r io.Reader) (freqTable, error) {
	var counts [256]uint64
	block := make([]byte, blockSize)
	for {
		n, err := r.Read(block)
		for _, b := range block[:n] {
			counts[b]++
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	ft := make(freqTable, 0, 256)
	for v, c := range counts {
		if c > 0 {
			ft = append(ft, freqEntry{val: byte(v), count: c})
		}
	}
	return ft, nil
}

// The exact number of meaningful bits the encoded payload will occupy, as
// the sum over the table of frequency times code width.  Knowing it up front
// lets the key be written before the payload is produced.

func (ft freqTable) encodedBits(codes codeTable) uint64 {
	var bits uint64
	for _, e := range ft {
		bits += e.count * uint64(codes[e.val].width)
	}
	return bits
}
