// SPDX-FileCopyrightText: 2026 The vmshim authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package shim

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// ByteSeq is a byte sequence that serializes as a JSON array of numbers.
//
// The descriptor wire format represents payload bytes as plain numbers, not
// as the base64 string Go would use for []byte by default.
type ByteSeq []byte

// MarshalJSON implements [json.Marshaler].
func (b ByteSeq) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, len(b)*4+2)
	buf = append(buf, '[')

	for idx, value := range b {
		if idx > 0 {
			buf = append(buf, ',')
		}

		buf = strconv.AppendUint(buf, uint64(value), 10)
	}

	return append(buf, ']'), nil
}

// UnmarshalJSON implements [json.Unmarshaler].
func (b *ByteSeq) UnmarshalJSON(data []byte) error {
	var values []int

	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("byte sequence: %w", err)
	}

	seq := make(ByteSeq, len(values))

	for idx, value := range values {
		if value < 0 || value > math.MaxUint8 {
			return fmt.Errorf("%w: %d", ErrByteValueOutOfRange, value)
		}

		seq[idx] = byte(value)
	}

	*b = seq

	return nil
}
