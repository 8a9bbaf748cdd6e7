package huffman

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sort"
)

// Errors the codec surfaces beyond plain I/O failures.  ErrFormat covers
// every way a compressed file can be structurally wrong.  ErrNoCode flags an
// encode-time lookup miss, which can't happen unless the input changed
// between the counting and encoding passes.  ErrCodeTooWide means the
// frequency distribution demands a code longer than 64 bits.

var (
	ErrFormat      = errors.New("malformed huff file")
	ErrNoCode      = errors.New("byte has no code")
	ErrCodeTooWide = errors.New("code width exceeds 64 bits")
)

// The key is the header prepended to the payload: the frequency table, which
// is enough to rebuild the coding tree without the original file, plus the
// exact number of meaningful payload bits.  Layout, big-endian throughout:
//
//	keyLen: u16, total header bytes including these ten
//	bitLen: u64, meaningful bits in the payload that follows
//	(keyLen-10)/9 records of: byte value u8, frequency u64

const (
	keyFixedLen = 10
	keyRecLen   = 9
)

type key struct {
	bitLen uint64
	freqs  freqTable
}

// Serialize the key for the given table.  Records go out ascending by byte
// value, which the table already guarantees, so compressing the same input
// always produces identical bytes.

func writeKey(w io.Writer, ft freqTable, bitLen uint64) error {
	buf := make([]byte, keyFixedLen+keyRecLen*len(ft))
	binary.BigEndian.PutUint16(buf[0:2], uint16(len(buf)))
	binary.BigEndian.PutUint64(buf[2:10], bitLen)
	at := keyFixedLen
	for _, e := range ft {
		buf[at] = e.val
		binary.BigEndian.PutUint64(buf[at+1:at+keyRecLen], e.count)
		at += keyRecLen
	}
	_, err := w.Write(buf)
	return err
}

// Parse a key from the start of the stream, consuming exactly the declared
// header length.  Reading stops at the declared record count, never beyond,
// so a trailing payload is left in place for the decoder; a stream that ends
// before the declared count is truncated, not short.

func readKey(r io.Reader) (*key, error) {
	var fixed [keyFixedLen]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrFormat, err)
	}
	keyLen := binary.BigEndian.Uint16(fixed[0:2])
	bitLen := binary.BigEndian.Uint64(fixed[2:10])
	if keyLen < keyFixedLen || (keyLen-keyFixedLen)%keyRecLen != 0 {
		return nil, fmt.Errorf("%w: header length %d", ErrFormat, keyLen)
	}
	numRecs := int(keyLen-keyFixedLen) / keyRecLen
	if numRecs > 256 {
		return nil, fmt.Errorf("%w: %d frequency records", ErrFormat, numRecs)
	}
	recs := make([]byte, numRecs*keyRecLen)
	if _, err := io.ReadFull(r, recs); err != nil {
		return nil, fmt.Errorf("%w: reading %d frequency records: %v", ErrFormat, numRecs, err)
	}
	var seen [256]bool
	ft := make(freqTable, 0, numRecs)
	for i := 0; i < numRecs; i++ {
		rec := recs[i*keyRecLen:]
		if seen[rec[0]] {
			return nil, fmt.Errorf("%w: duplicate frequency record for byte %#02x", ErrFormat, rec[0])
		}
		seen[rec[0]] = true
		ft = append(ft, freqEntry{
			val:   rec[0],
			count: binary.BigEndian.Uint64(rec[1:keyRecLen]),
		})
	}
	// Restore the table's ordering invariant; our own encoder writes records
	// ascending but the format doesn't promise it.
	sort.Slice(ft, func(i, j int) bool { return ft[i].val < ft[j].val })
	return &key{bitLen: bitLen, freqs: ft}, nil
}
