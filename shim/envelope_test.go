// SPDX-FileCopyrightText: 2026 The vmshim authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package shim_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmshim/vmshim/shim"
)

func TestEnvelope_Marshal(t *testing.T) {
	tests := []struct {
		name     string
		envelope shim.Envelope
		expected string
	}{
		{
			name: "ok",
			envelope: shim.OkEnvelope(shim.TaskResult{
				ID:    "task01",
				Data:  shim.ByteSeq{1, 2, 3},
				Files: []string{"out.bin"},
			}),
			expected: `{"Ok":{"id":"task01","data":[1,2,3],` +
				`"files":["out.bin"]}}`,
		},
		{
			name:     "err",
			envelope: shim.ErrEnvelope("boom"),
			expected: `{"Err":"boom"}`,
		},
		{
			name:     "err with empty message",
			envelope: shim.ErrEnvelope(""),
			expected: `{"Err":""}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.envelope)
			require.NoError(t, err)

			assert.JSONEq(t, tt.expected, string(data))
		})
	}
}

func TestEnvelope_RoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		envelope shim.Envelope
	}{
		{
			name: "ok",
			envelope: shim.OkEnvelope(shim.TaskResult{
				ID:    "task01",
				Data:  shim.ByteSeq{42},
				Files: []string{"a", "b"},
			}),
		},
		{
			name:     "err",
			envelope: shim.ErrEnvelope("boom"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.envelope)
			require.NoError(t, err)

			var actual shim.Envelope

			require.NoError(t, json.Unmarshal(data, &actual))
			assert.Equal(t, tt.envelope, actual)
		})
	}
}

func TestEnvelope_UnmarshalMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "no arm",
			input: `{}`,
		},
		{
			name:  "both arms",
			input: `{"Ok":{"id":"t","data":[],"files":[]},"Err":"boom"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var envelope shim.Envelope

			err := json.Unmarshal([]byte(tt.input), &envelope)
			require.ErrorIs(t, err, shim.ErrMalformedEnvelope)
		})
	}
}

func TestEnvelope_Result(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		expected := shim.TaskResult{ID: "task01", Data: shim.ByteSeq{1}}

		actual, err := shim.OkEnvelope(expected).Result()
		require.NoError(t, err)

		assert.Equal(t, expected, actual)
	})

	t.Run("err keeps exact message", func(t *testing.T) {
		_, err := shim.ErrEnvelope("boom").Result()
		require.ErrorIs(t, err, &shim.ExecutorError{})

		assert.Equal(t, "boom", err.Error())
	})
}
