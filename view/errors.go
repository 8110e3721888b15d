// Copyright 2024-2025 NetCracker Technology Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package view

import (
	"errors"
	"fmt"
)

// SerializationError means the document cannot be represented in the target
// encoding. Fatal to the operation, always surfaced to the caller.
type SerializationError struct {
	Encoding Encoding
	Cause    error
}

func (s *SerializationError) Error() string {
	return fmt.Sprintf("failed to serialize document to %s: %s", s.Encoding, s.Cause)
}

func (s *SerializationError) Unwrap() error {
	return s.Cause
}

// TransportError means a delivery or generation call failed. Message is the
// human-readable text shown to the user.
type TransportError struct {
	Operation string
	Message   string
	Cause     error
}

func (t *TransportError) Error() string {
	if t.Cause != nil {
		return fmt.Sprintf("%s failed: %s: %s", t.Operation, t.Message, t.Cause)
	}
	return fmt.Sprintf("%s failed: %s", t.Operation, t.Message)
}

func (t *TransportError) Unwrap() error {
	return t.Cause
}

// RecoveryWriteError is a best-effort recovery store failure. Logged only,
// never surfaced to the user.
type RecoveryWriteError struct {
	SessionId string
	Cause     error
}

func (r *RecoveryWriteError) Error() string {
	return fmt.Sprintf("failed to write recovery snapshot for session %s: %s", r.SessionId, r.Cause)
}

func (r *RecoveryWriteError) Unwrap() error {
	return r.Cause
}

func AsTransportError(err error) *TransportError {
	var te *TransportError
	if errors.As(err, &te) {
		return te
	}
	return nil
}

func AsSerializationError(err error) *SerializationError {
	var se *SerializationError
	if errors.As(err, &se) {
		return se
	}
	return nil
}
