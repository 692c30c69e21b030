package record

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Wire format of a marshaled store (before the outer encryption pass):
//
//	version  byte (currently 1)
//	count    uvarint
//	entries  count times: klen uvarint, key ciphertext, vlen uvarint, value ciphertext
//
// The format is deliberately explicit. Decoding validates the shape and
// rejects anything that does not consume exactly.
const encodingVersion = 1

var ErrCorrupt = errors.New("malformed record data")

// Marshal encodes the entry sequence. The result still contains only
// ciphertext fields; the caller encrypts it once more before persisting.
func (s *Store) Marshal() []byte {
	buf := []byte{encodingVersion}
	buf = binary.AppendUvarint(buf, uint64(len(s.entries)))
	for i := range s.entries {
		buf = binary.AppendUvarint(buf, uint64(len(s.entries[i].Key)))
		buf = append(buf, s.entries[i].Key...)
		buf = binary.AppendUvarint(buf, uint64(len(s.entries[i].Value)))
		buf = append(buf, s.entries[i].Value...)
	}
	return buf
}

// Unmarshal replaces the store's entries with the decoded sequence. Empty
// input decodes to an empty store. Any structural mismatch, including
// trailing bytes, returns ErrCorrupt.
func (s *Store) Unmarshal(data []byte) error {
	if len(data) == 0 {
		s.entries = nil
		return nil
	}

	if data[0] != encodingVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrCorrupt, data[0])
	}
	data = data[1:]

	count, n := binary.Uvarint(data)
	if n <= 0 {
		return fmt.Errorf("%w: bad entry count", ErrCorrupt)
	}
	data = data[n:]

	// An entry takes at least two length bytes; cheap upper bound before
	// allocating.
	if count > uint64(len(data)/2)+1 {
		return fmt.Errorf("%w: entry count exceeds payload", ErrCorrupt)
	}

	entries := make([]Entry, 0, count)
	for i := uint64(0); i < count; i++ {
		key, rest, err := readField(data)
		if err != nil {
			return err
		}
		value, rest, err := readField(rest)
		if err != nil {
			return err
		}
		data = rest
		entries = append(entries, Entry{Key: key, Value: value})
	}

	if len(data) != 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, len(data))
	}

	s.entries = entries
	return nil
}

// readField decodes one length-prefixed byte string.
func readField(data []byte) ([]byte, []byte, error) {
	size, n := binary.Uvarint(data)
	if n <= 0 {
		return nil, nil, fmt.Errorf("%w: bad field length", ErrCorrupt)
	}
	data = data[n:]
	if size > uint64(len(data)) {
		return nil, nil, fmt.Errorf("%w: field length exceeds payload", ErrCorrupt)
	}
	field := make([]byte, size)
	copy(field, data[:size])
	return field, data[size:], nil
}
