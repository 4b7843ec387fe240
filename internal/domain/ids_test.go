package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlatformID(t *testing.T) {
	t.Parallel()

	t.Run("valid snowflake", func(t *testing.T) {
		t.Parallel()

		id, err := ParsePlatformID("345993194322001923")
		require.NoError(t, err)
		assert.Equal(t, PlatformID(345993194322001923), id)
		assert.Equal(t, "345993194322001923", id.String())
	})

	t.Run("invalid input", func(t *testing.T) {
		t.Parallel()

		for _, input := range []string{"", "abc", "-5", "12.5"} {
			_, err := ParsePlatformID(input)
			assert.ErrorIs(t, err, ErrInvalidID, "input %q", input)
		}
	})
}

func TestPlatformID_Int64RoundTrip(t *testing.T) {
	t.Parallel()

	// Snowflakes use the full uint64 range; the BIGINT conversion must
	// survive values with the high bit set.
	ids := []PlatformID{0, 1, 345993194322001923, PlatformID(^uint64(0))}
	for _, id := range ids {
		assert.Equal(t, id, PlatformIDFromInt64(id.Int64()))
	}
}

func TestParseRecordID(t *testing.T) {
	t.Parallel()

	id, err := ParseRecordID("42")
	require.NoError(t, err)
	assert.Equal(t, RecordID(42), id)
	assert.Equal(t, int32(42), id.Int32())

	_, err = ParseRecordID("not-a-number")
	assert.ErrorIs(t, err, ErrInvalidID)

	// A snowflake does not fit in a RecordID; the parse must fail rather
	// than silently truncate.
	_, err = ParseRecordID("345993194322001923")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestIDZeroChecks(t *testing.T) {
	t.Parallel()

	assert.True(t, PlatformID(0).IsZero())
	assert.False(t, PlatformID(7).IsZero())
	assert.True(t, RecordID(0).IsZero())
	assert.False(t, RecordID(7).IsZero())
}
