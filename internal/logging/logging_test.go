package logging_test

import (
	"testing"
	"time"

	"github.com/kaubo-lang/kaubo/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingBufferDropsOldest(t *testing.T) {
	rb := logging.NewRingBuffer(2)
	now := time.Unix(0, 0)
	logger := logging.New(logging.Trace, func() time.Time { return now }, rb)

	logger.Info("one")
	logger.Info("two")
	logger.Info("three")

	recs := rb.DumpRecords()
	require.Len(t, recs, 2)
	assert.Equal(t, "two", recs[0].Message)
	assert.Equal(t, "three", recs[1].Message)
	assert.Equal(t, 1, rb.Dropped())
}

func TestFacadeFiltersBelowMinLevel(t *testing.T) {
	rb := logging.NewRingBuffer(10)
	logger := logging.New(logging.Warn, nil, rb)

	logger.Debug("ignored")
	logger.Warn("kept")

	recs := rb.DumpRecords()
	require.Len(t, recs, 1)
	assert.Equal(t, "kept", recs[0].Message)
	assert.Equal(t, logging.Warn, recs[0].Level)
}
