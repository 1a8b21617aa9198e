package charstream_test

import (
	"testing"

	"github.com/kaubo-lang/kaubo/internal/logging"
	"github.com/kaubo-lang/kaubo/lang/charstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedCloseThenFeedFails(t *testing.T) {
	cs := charstream.New(nil)
	require.NoError(t, cs.Feed([]byte("ab")))
	cs.Close()
	err := cs.Feed([]byte("c"))
	assert.ErrorIs(t, err, charstream.ErrStreamClosed)
}

func TestTryAdvanceTracksLineCol(t *testing.T) {
	cs := charstream.New(nil)
	require.NoError(t, cs.Feed([]byte("a\nb")))
	cs.Close()

	r, res := cs.TryAdvance()
	require.Equal(t, charstream.Char, res)
	assert.Equal(t, 'a', r)
	assert.Equal(t, 1, cs.Line())

	r, res = cs.TryAdvance()
	require.Equal(t, charstream.Char, res)
	assert.Equal(t, '\n', r)
	assert.Equal(t, 2, cs.Line())
	assert.Equal(t, 1, cs.Col())

	r, res = cs.TryAdvance()
	require.Equal(t, charstream.Char, res)
	assert.Equal(t, 'b', r)
}

func TestIncompleteBeforeClose(t *testing.T) {
	cs := charstream.New(nil)
	require.NoError(t, cs.Feed([]byte{0xE4})) // first byte of a 3-byte sequence
	_, res := cs.TryAdvance()
	assert.Equal(t, charstream.Incomplete, res)
}

func TestEofAfterClose(t *testing.T) {
	cs := charstream.New(nil)
	cs.Close()
	_, res := cs.TryAdvance()
	assert.Equal(t, charstream.Eof, res)
}

func TestInvalidUTF8LogsWarning(t *testing.T) {
	rb := logging.NewRingBuffer(4)
	logger := logging.New(logging.Trace, nil, rb)
	cs := charstream.New(logger)
	require.NoError(t, cs.Feed([]byte{0xFF, 'x'}))
	cs.Close()

	r, res := cs.TryAdvance()
	require.Equal(t, charstream.Char, res)
	assert.Equal(t, rune(0xFFFD), r)

	recs := rb.DumpRecords()
	require.Len(t, recs, 1)
	assert.Equal(t, logging.Warn, recs[0].Level)
}
