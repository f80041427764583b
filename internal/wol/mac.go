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
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// MACSize is the length of a hardware address in bytes
	MACSize = 6

	// macStringLen is the exact length of a textual MAC address:
	// six 2-hex-digit octets joined by 5 single-character separators
	macStringLen = MACSize*3 - 1
)

// MACAddress is a 6-byte hardware address of the target network interface
type MACAddress [MACSize]byte

// ParseMAC converts a string representation of a MAC address
// (e.g. 00:01:02:03:04:05) to its byte form. The separator must be a
// single character and consistent across the whole string.
//
// The length check runs strictly before any splitting: a stray digit that
// shifts field boundaries is rejected cheaply, and a misplaced separator at
// the correct length fails the per-field decode instead.
func ParseMAC(text string, sep byte) (MACAddress, error) {
	var mac MACAddress

	if len(text) != macStringLen {
		return mac, ErrInvalidMACLength
	}

	fields := strings.Split(text, string(sep))
	if len(fields) != MACSize {
		return mac, ErrInvalidMACFormat
	}

	for i, field := range fields {
		if len(field) != 2 {
			return mac, ErrInvalidMACFormat
		}
		b, err := hex.DecodeString(field)
		if err != nil {
			return mac, ErrInvalidMACFormat
		}
		mac[i] = b[0]
	}

	return mac, nil
}

// MACFromBytes validates a raw byte slice as a MAC address. Bytes arriving
// from sources other than ParseMAC must go through here.
func MACFromBytes(raw []byte) (MACAddress, error) {
	var mac MACAddress

	if len(raw) != MACSize {
		return mac, ErrInvalidMACLength
	}

	copy(mac[:], raw)
	return mac, nil
}

// String formats the MAC address as lowercase with colons
func (m MACAddress) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x",
		m[0], m[1], m[2], m[3], m[4], m[5])
}

// normalizeMACAddress converts a MAC address string to lowercase and
// standardized format
func normalizeMACAddress(mac string) string {
	return strings.ToLower(strings.TrimSpace(mac))
}

// InferSeparator scans text for one of the conventional MAC separators
// (':', '-', '/'), first match wins. Falls back to ':' when none is found;
// ParseMAC then reports the malformed input.
func InferSeparator(text string) byte {
	if i := strings.IndexAny(text, ":-/"); i >= 0 {
		return text[i]
	}
	return ':'
}
