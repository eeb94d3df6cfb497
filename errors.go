package cbor

import (
	"errors"
	"fmt"
)

// ErrUnexpectedEnd is matched by errors that ran out of input in the
// middle of a data item.
var ErrUnexpectedEnd = errors.New("cbor: unexpected end")

// ErrNotWellFormed is matched by errors reporting input that violates the
// CBOR well-formedness rules.
var ErrNotWellFormed = errors.New("cbor: not well-formed")

// ErrValueTooLarge is returned when a big integer does not fit the 64-bit
// argument of an integer header.
var ErrValueTooLarge = errors.New("cbor: value too large")

// EndOfStreamError reports that a decode step required more bytes than
// remained. Offset is where the missing bytes should have started.
type EndOfStreamError struct {
	Offset int
}

func (e *EndOfStreamError) Error() string {
	return fmt.Sprintf("cbor: unexpected end of input at offset %d", e.Offset)
}

func (e *EndOfStreamError) Is(target error) bool {
	return target == ErrUnexpectedEnd
}

// InvalidUTF8Error reports a text string whose bytes are not valid UTF-8.
// Offset is the start of the offending string (or chunk) payload.
type InvalidUTF8Error struct {
	Offset int
}

func (e *InvalidUTF8Error) Error() string {
	return fmt.Sprintf("cbor: invalid UTF-8 string at offset %d", e.Offset)
}

// IntegerOverflowError reports an integer whose magnitude does not fit
// an int64 while big integers are rejected.
type IntegerOverflowError struct {
	Negative bool
	Offset   int
}

func (e *IntegerOverflowError) Error() string {
	if e.Negative {
		return fmt.Sprintf("cbor: negative integer overflow at offset %d", e.Offset)
	}
	return fmt.Sprintf("cbor: positive integer overflow at offset %d", e.Offset)
}

// UnknownInitialByteError reports an illegal major type and additional
// information combination.
type UnknownInitialByteError struct {
	Byte   byte
	Offset int
}

func (e *UnknownInitialByteError) Error() string {
	return fmt.Sprintf("cbor: unknown initial byte 0x%02x at offset %d", e.Byte, e.Offset)
}

func (e *UnknownInitialByteError) Is(target error) bool {
	return target == ErrNotWellFormed
}

// InvalidSimpleValueError reports a simple value in the reserved range.
// While encoding, Offset is the position in the output.
type InvalidSimpleValueError struct {
	Value  byte
	Offset int
}

func (e *InvalidSimpleValueError) Error() string {
	return fmt.Sprintf("cbor: invalid simple value %d at offset %d", e.Value, e.Offset)
}

func (e *InvalidSimpleValueError) Is(target error) bool {
	return target == ErrNotWellFormed
}

// UnexpectedBreakError reports a "break" stop code outside of an
// indefinite-length item.
type UnexpectedBreakError struct {
	Offset int
}

func (e *UnexpectedBreakError) Error() string {
	return fmt.Sprintf("cbor: unexpected break at offset %d", e.Offset)
}

func (e *UnexpectedBreakError) Is(target error) bool {
	return target == ErrNotWellFormed
}

// InvalidIndefiniteChunkError reports a chunk of an indefinite-length
// string that is not a definite string of the same major type.
type InvalidIndefiniteChunkError struct {
	Offset int
}

func (e *InvalidIndefiniteChunkError) Error() string {
	return fmt.Sprintf("cbor: invalid indefinite-length string chunk at offset %d", e.Offset)
}

func (e *InvalidIndefiniteChunkError) Is(target error) bool {
	return target == ErrNotWellFormed
}

// MaxNestedLevelsError reports arrays, maps or tags nested deeper than
// the configured limit.
type MaxNestedLevelsError struct {
	Max    int
	Offset int
}

func (e *MaxNestedLevelsError) Error() string {
	return fmt.Sprintf("cbor: exceeded max nested levels %d at offset %d", e.Max, e.Offset)
}

// DuplicateMapKeyError reports a map key that repeats an earlier key of
// the same map.
type DuplicateMapKeyError struct {
	Offset int
}

func (e *DuplicateMapKeyError) Error() string {
	return fmt.Sprintf("cbor: duplicate map key at offset %d", e.Offset)
}

// ExtraneousDataError reports bytes left over after a complete data item.
type ExtraneousDataError struct {
	Offset int
}

func (e *ExtraneousDataError) Error() string {
	return fmt.Sprintf("cbor: extraneous data at offset %d", e.Offset)
}
