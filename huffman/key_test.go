package huffman

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyExactBytes(t *testing.T) {
	var buf bytes.Buffer
	ft := freqTable{{'A', 3}, {'B', 2}, {'C', 1}}
	require.NoError(t, writeKey(&buf, ft, 9))

	want := []byte{
		0, 37, // 10 + 3*9
		0, 0, 0, 0, 0, 0, 0, 9,
		'A', 0, 0, 0, 0, 0, 0, 0, 3,
		'B', 0, 0, 0, 0, 0, 0, 0, 2,
		'C', 0, 0, 0, 0, 0, 0, 0, 1,
	}
	require.Equal(t, want, buf.Bytes())
}

func TestKeyRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	ft := freqTable{{0x00, 1}, {0x41, 300}, {0xff, 1 << 40}}
	require.NoError(t, writeKey(&buf, ft, 12345))

	k, err := readKey(&buf)
	require.NoError(t, err)
	require.Equal(t, uint64(12345), k.bitLen)
	require.Equal(t, ft, k.freqs)
}

func TestKeyEmptyTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeKey(&buf, nil, 0))
	require.Equal(t, keyFixedLen, buf.Len())

	k, err := readKey(&buf)
	require.NoError(t, err)
	require.Zero(t, k.bitLen)
	require.Empty(t, k.freqs)
}

// The parser does not trust record order in the file; the table comes back
// ascending regardless.

func TestKeyUnsortedRecords(t *testing.T) {
	raw := []byte{
		0, 28,
		0, 0, 0, 0, 0, 0, 0, 5,
		'Z', 0, 0, 0, 0, 0, 0, 0, 2,
		'A', 0, 0, 0, 0, 0, 0, 0, 3,
	}
	k, err := readKey(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Equal(t, freqTable{{'A', 3}, {'Z', 2}}, k.freqs)
}

func TestKeyMalformed(t *testing.T) {
	valid := func() []byte {
		var buf bytes.Buffer
		require.NoError(t, writeKey(&buf, freqTable{{'A', 3}, {'B', 2}}, 8))
		return buf.Bytes()
	}

	// A third record repeating the first one's byte value.
	dup := valid()
	dup = append(dup, dup[keyFixedLen:keyFixedLen+keyRecLen]...)
	dup = mutateKeyLen(dup, keyFixedLen+3*keyRecLen)

	tests := []struct {
		name string
		raw  []byte
	}{
		{"empty", nil},
		{"short header", valid()[:5]},
		{"truncated records", valid()[:keyFixedLen+keyRecLen+4]},
		{"header length below fixed part", mutateKeyLen(valid(), 9)},
		{"header length not on a record boundary", mutateKeyLen(valid(), 11)},
		{"header length beyond 256 records", mutateKeyLen(valid(), keyFixedLen+257*keyRecLen)},
		{"duplicate record", dup},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := readKey(bytes.NewReader(tc.raw))
			require.ErrorIs(t, err, ErrFormat)
		})
	}
}

func mutateKeyLen(raw []byte, keyLen int) []byte {
	binary.BigEndian.PutUint16(raw[0:2], uint16(keyLen))
	return raw
}
