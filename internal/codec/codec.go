// Package codec defines the on-disk encoding of command records.
//
// A segment file is a concatenation of JSON objects, one per mutation, with
// no separators, header or footer:
//
//	{"Set":{"key":"a","value":"1"}}{"Remove":{"key":"a"}}
//
// The encoding is self-delimiting: a decoder positioned at the first byte of
// a record finds its end without a length prefix or trailing table, which is
// what lets recovery and compaction stream records forward while tracking
// byte offsets, and lets the read path decode exactly one record from a
// bounded reader. Identical commands always encode to identical bytes, so
// compacting already-compacted data is idempotent.
package codec

import (
	"encoding/json"
	"io"

	"github.com/iamNilotpal/flint/pkg/errors"
)

// Command is one on-disk record. Exactly one of Set or Remove is non-nil;
// the field name doubles as the JSON tag distinguishing the two variants.
type Command struct {
	Set    *SetCommand    `json:"Set,omitempty"`
	Remove *RemoveCommand `json:"Remove,omitempty"`
}

// SetCommand assigns a value to a key.
type SetCommand struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// RemoveCommand marks a key as deleted.
type RemoveCommand struct {
	Key string `json:"key"`
}

// NewSet builds an assignment record.
func NewSet(key, value string) Command {
	return Command{Set: &SetCommand{Key: key, Value: value}}
}

// NewRemove builds a deletion marker.
func NewRemove(key string) Command {
	return Command{Remove: &RemoveCommand{Key: key}}
}

// Key returns the key the command operates on.
func (c Command) Key() string {
	if c.Set != nil {
		return c.Set.Key
	}
	if c.Remove != nil {
		return c.Remove.Key
	}
	return ""
}

// Encode serializes the command to its on-disk form.
func Encode(cmd Command) ([]byte, error) {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return nil, errors.NewStorageError(
			err, errors.ErrorCodeCorruptRecord, "Failed to encode command record",
		).WithDetail("key", cmd.Key())
	}
	return payload, nil
}

// Decode reads exactly one command record from r. The caller bounds r to the
// record's length; any input after the first record is not examined.
func Decode(r io.Reader) (Command, error) {
	var cmd Command
	if err := json.NewDecoder(r).Decode(&cmd); err != nil {
		return Command{}, errors.NewStorageError(
			err, errors.ErrorCodeCorruptRecord, "Failed to decode command record",
		)
	}
	if err := validate(cmd); err != nil {
		return Command{}, err
	}
	return cmd, nil
}

// StreamDecoder decodes consecutive records from a segment stream, reporting
// the start and end byte offset of each. Recovery uses the offsets to build
// index entries; compaction uses them to copy records verbatim.
type StreamDecoder struct {
	dec *json.Decoder
	pos int64
}

// NewStreamDecoder wraps a reader positioned at the start of a segment.
func NewStreamDecoder(r io.Reader) *StreamDecoder {
	return &StreamDecoder{dec: json.NewDecoder(r)}
}

// Next decodes the next record and returns it together with its start and
// end offsets within the stream. It returns io.EOF once the stream is
// exhausted; any other error means the segment is malformed from the
// reported start offset onward.
func (d *StreamDecoder) Next() (Command, int64, int64, error) {
	start := d.pos

	var cmd Command
	if err := d.dec.Decode(&cmd); err != nil {
		if err == io.EOF {
			return Command{}, start, start, io.EOF
		}
		return Command{}, start, start, errors.NewStorageError(
			err, errors.ErrorCodeCorruptRecord, "Failed to decode command record stream",
		).WithOffset(start)
	}

	// InputOffset points at the end of the record just returned, which is
	// also the start of the next one: records abut with no separators.
	end := d.dec.InputOffset()
	d.pos = end

	if err := validate(cmd); err != nil {
		return Command{}, start, end, err
	}
	return cmd, start, end, nil
}

// validate rejects records that decode structurally but name neither or both
// variants. Such records cannot come from Encode; seeing one means the
// segment bytes were produced or damaged by something else.
func validate(cmd Command) error {
	if (cmd.Set == nil) == (cmd.Remove == nil) {
		return errors.NewStorageError(
			nil, errors.ErrorCodeCorruptRecord,
			"Command record must contain exactly one of Set or Remove",
		)
	}
	return nil
}
