package domain

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidID is returned when an identifier cannot be parsed from its
// wire or storage representation.
var ErrInvalidID = errors.New("invalid identifier")

// PlatformID identifies an entity owned by Discord: a guild, channel,
// category, role, user or message. Discord assigns these (snowflakes) and
// the gateway carries them as decimal strings.
//
// PlatformID and RecordID are deliberately distinct defined types so that a
// platform identifier can never be passed where a storage primary key is
// expected, or vice versa. All conversions are explicit.
type PlatformID uint64

// ParsePlatformID parses a Discord snowflake from its string form.
func ParsePlatformID(s string) (PlatformID, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: platform id %q: %v", ErrInvalidID, s, err)
	}
	return PlatformID(n), nil
}

// String returns the snowflake in the decimal form discordgo expects.
func (id PlatformID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Int64 converts the snowflake for storage in a BIGINT column.
func (id PlatformID) Int64() int64 {
	return int64(id)
}

// PlatformIDFromInt64 restores a snowflake read from a BIGINT column.
func PlatformIDFromInt64(n int64) PlatformID {
	return PlatformID(uint64(n))
}

// IsZero reports whether the identifier is unset.
func (id PlatformID) IsZero() bool {
	return id == 0
}

// RecordID identifies a row in our own relational store. The database
// assigns these on insert (SERIAL columns).
type RecordID int32

// ParseRecordID parses a storage primary key from its string form.
func ParseRecordID(s string) (RecordID, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: record id %q: %v", ErrInvalidID, s, err)
	}
	return RecordID(n), nil
}

// Int32 converts the identifier for use as a query argument.
func (id RecordID) Int32() int32 {
	return int32(id)
}

// String implements fmt.Stringer for log output.
func (id RecordID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// IsZero reports whether the identifier is unset.
func (id RecordID) IsZero() bool {
	return id == 0
}
