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

const (
	// DefaultWOLPort is the standard Wake-on-LAN UDP port
	DefaultWOLPort = 9

	// MACPerMagic is the number of MAC repetitions in a magic packet
	MACPerMagic = 16

	// headerSize is the length of the 0xFF synchronization header
	headerSize = 6

	// MagicPacketSize is the size of a WOL magic packet
	// (6x0xFF + 16 repetitions of MAC = 102 bytes)
	MagicPacketSize = headerSize + MACPerMagic*MACSize
)

// MagicPacket is the fixed 102-byte Wake-on-LAN payload: 6 bytes of 0xFF
// followed by the target MAC address repeated 16 times. It is a value type,
// immutable once built; copies may be shared and sent concurrently.
type MagicPacket [MagicPacketSize]byte

// NewMagicPacket builds the magic packet for the given MAC address.
// Each MAC byte is emitted verbatim in input order.
func NewMagicPacket(mac MACAddress) MagicPacket {
	var p MagicPacket

	for i := 0; i < headerSize; i++ {
		p[i] = 0xFF
	}
	for i := 0; i < MACPerMagic; i++ {
		copy(p[headerSize+i*MACSize:headerSize+(i+1)*MACSize], mac[:])
	}

	return p
}

// MagicPacketFromBytes builds the magic packet from a raw byte MAC
// representation, revalidating its length.
func MagicPacketFromBytes(raw []byte) (MagicPacket, error) {
	mac, err := MACFromBytes(raw)
	if err != nil {
		return MagicPacket{}, err
	}
	return NewMagicPacket(mac), nil
}

// Bytes returns the packet payload as a byte slice
func (p *MagicPacket) Bytes() []byte {
	return p[:]
}

// ParseMagicPacket validates a received payload as a WOL magic packet and
// extracts the target MAC address. A valid magic packet contains:
// - 6 bytes of 0xFF
// - 16 repetitions of the target MAC address (6 bytes each)
// Trailing bytes (padding, SecureOn password) are ignored.
func ParseMagicPacket(payload []byte) (MACAddress, bool) {
	var mac MACAddress

	// Check minimum size
	if len(payload) < MagicPacketSize {
		return mac, false
	}

	// Check for 6 bytes of 0xFF at the start
	for i := 0; i < headerSize; i++ {
		if payload[i] != 0xFF {
			return mac, false
		}
	}

	// The first repetition (bytes 6-11) is the candidate MAC
	copy(mac[:], payload[headerSize:headerSize+MACSize])

	// Verify that the MAC is repeated 16 times
	for i := 1; i < MACPerMagic; i++ {
		offset := headerSize + i*MACSize
		for j := 0; j < MACSize; j++ {
			if payload[offset+j] != mac[j] {
				return MACAddress{}, false
			}
		}
	}

	return mac, true
}
