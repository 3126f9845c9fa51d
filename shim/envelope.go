// SPDX-FileCopyrightText: 2026 The vmshim authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package shim

import (
	"encoding/json"
	"fmt"
)

// Envelope is the success/failure union that is actually persisted as the
// result descriptor.
//
// It carries either a [TaskResult] or an executor error message. This lets
// the guest communicate executor failure back to the host through the
// workspace without relying on the VM's exit status and without losing the
// error text.
type Envelope struct {
	result  TaskResult
	errMsg  string
	failure bool
}

// OkEnvelope returns an [Envelope] carrying the given result.
func OkEnvelope(result TaskResult) Envelope {
	return Envelope{result: result}
}

// ErrEnvelope returns an [Envelope] carrying the given error message.
func ErrEnvelope(msg string) Envelope {
	return Envelope{errMsg: msg, failure: true}
}

// Result unpacks the envelope.
//
// It returns the carried [TaskResult], or an [ExecutorError] with the
// carried message if the envelope records a failure.
func (e Envelope) Result() (TaskResult, error) {
	if e.failure {
		return TaskResult{}, &ExecutorError{Msg: e.errMsg}
	}

	return e.result, nil
}

// envelopeWire is the serialized form of [Envelope]. Exactly one of the two
// arms must be present.
type envelopeWire struct {
	Ok  *TaskResult `json:"Ok,omitempty"`
	Err *string     `json:"Err,omitempty"`
}

// MarshalJSON implements [json.Marshaler].
func (e Envelope) MarshalJSON() ([]byte, error) {
	var wire envelopeWire

	if e.failure {
		wire.Err = &e.errMsg
	} else {
		wire.Ok = &e.result
	}

	return json.Marshal(wire) //nolint:wrapcheck
}

// UnmarshalJSON implements [json.Unmarshaler].
//
// Envelopes with neither or both arms set are rejected. The receiver is not
// modified on error.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var wire envelopeWire

	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("envelope: %w", err)
	}

	switch {
	case wire.Ok != nil && wire.Err != nil:
		return fmt.Errorf("%w: both arms present", ErrMalformedEnvelope)
	case wire.Ok != nil:
		*e = OkEnvelope(*wire.Ok)
	case wire.Err != nil:
		*e = ErrEnvelope(*wire.Err)
	default:
		return fmt.Errorf("%w: no arm present", ErrMalformedEnvelope)
	}

	return nil
}
