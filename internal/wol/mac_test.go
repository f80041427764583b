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
	"testing"
)

func TestParseMAC(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		sep     byte
		want    MACAddress
		wantErr error
	}{
		{
			name: "colon separator",
			text: "01:02:03:04:05:06",
			sep:  ':',
			want: MACAddress{0x01, 0x02, 0x03, 0x04, 0x05, 0x06},
		},
		{
			name: "dash separator",
			text: "01-02-03-04-05-06",
			sep:  '-',
			want: MACAddress{0x01, 0x02, 0x03, 0x04, 0x05, 0x06},
		},
		{
			name: "slash separator",
			text: "aa/bb/cc/dd/ee/ff",
			sep:  '/',
			want: MACAddress{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF},
		},
		{
			name: "uppercase hex",
			text: "AA:BB:CC:DD:EE:FF",
			sep:  ':',
			want: MACAddress{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF},
		},
		{
			name:    "too short",
			text:    "01:02:03:04:05",
			sep:     ':',
			wantErr: ErrInvalidMACLength,
		},
		{
			name:    "too long",
			text:    "01:02:03:04:05:06:07",
			sep:     ':',
			wantErr: ErrInvalidMACLength,
		},
		{
			name:    "empty",
			text:    "",
			sep:     ':',
			wantErr: ErrInvalidMACLength,
		},
		{
			name:    "non-hex characters",
			text:    "ZZ:02:03:04:05:06",
			sep:     ':',
			wantErr: ErrInvalidMACFormat,
		},
		{
			name:    "misplaced separator at correct length",
			text:    "01002:03:04:05:06",
			sep:     ':',
			wantErr: ErrInvalidMACFormat,
		},
		{
			name:    "wrong separator supplied",
			text:    "01:02:03:04:05:06",
			sep:     '-',
			wantErr: ErrInvalidMACFormat,
		},
		{
			name:    "separator character inside a field",
			text:    "0-:02:03:04:05:06",
			sep:     ':',
			wantErr: ErrInvalidMACFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mac, err := ParseMAC(tt.text, tt.sep)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseMAC(%q, %q) error = %v, want %v", tt.text, tt.sep, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMAC(%q, %q) unexpected error: %v", tt.text, tt.sep, err)
			}
			if mac != tt.want {
				t.Errorf("ParseMAC(%q, %q) = %v, want %v", tt.text, tt.sep, mac, tt.want)
			}
		})
	}
}

func TestMACFromBytes(t *testing.T) {
	tests := []struct {
		name    string
		raw     []byte
		wantErr bool
	}{
		{name: "exactly 6 bytes", raw: []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}},
		{name: "too short", raw: []byte{0x01, 0x02, 0x03, 0x04, 0x05}, wantErr: true},
		{name: "too long", raw: []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07}, wantErr: true},
		{name: "nil", raw: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mac, err := MACFromBytes(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidMACLength) {
					t.Fatalf("MACFromBytes(%v) error = %v, want ErrInvalidMACLength", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("MACFromBytes(%v) unexpected error: %v", tt.raw, err)
			}
			for i := range tt.raw {
				if mac[i] != tt.raw[i] {
					t.Errorf("MACFromBytes(%v)[%d] = %#x, want %#x", tt.raw, i, mac[i], tt.raw[i])
				}
			}
		})
	}
}

func TestMACAddressString(t *testing.T) {
	mac := MACAddress{0x52, 0x54, 0x00, 0x12, 0x34, 0x56}
	if got := mac.String(); got != "52:54:00:12:34:56" {
		t.Errorf("String() = %q, want %q", got, "52:54:00:12:34:56")
	}
}

func TestInferSeparator(t *testing.T) {
	tests := []struct {
		text string
		want byte
	}{
		{"01:02:03:04:05:06", ':'},
		{"01-02-03-04-05-06", '-'},
		{"01/02/03/04/05/06", '/'},
		{"01:02-03:04:05:06", ':'}, // first match wins
		{"010203040506", ':'},      // fallback
	}

	for _, tt := range tests {
		if got := InferSeparator(tt.text); got != tt.want {
			t.Errorf("InferSeparator(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}
