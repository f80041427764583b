/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package wol

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMACLength is returned when a MAC address string or byte
	// sequence has the wrong size (not 17 characters / not 6 bytes)
	ErrInvalidMACLength = errors.New("invalid MAC address length")

	// ErrInvalidMACFormat is returned when a MAC address string has the
	// right length but a field fails hexadecimal decoding, or the
	// separator does not produce exactly 6 fields
	ErrInvalidMACFormat = errors.New("invalid MAC address format")
)

// SendError wraps a transport failure while sending a magic packet.
// Op names the step that failed: "resolve", "bind", "broadcast" or "send".
type SendError struct {
	Op  string
	Err error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("couldn't send magic packet: %s: %v", e.Op, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}
