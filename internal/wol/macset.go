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
	"sync"
)

// MACSet is a concurrency-safe set of MAC addresses. The relay uses it as
// an allowlist: an empty set forwards everything.
type MACSet struct {
	mu   sync.RWMutex
	macs map[MACAddress]struct{}
}

// NewMACSet creates an empty MAC set
func NewMACSet() *MACSet {
	return &MACSet{
		macs: make(map[MACAddress]struct{}),
	}
}

// Add inserts a MAC address into the set
func (s *MACSet) Add(mac MACAddress) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.macs[mac] = struct{}{}
	AllowedMACs.Set(float64(len(s.macs)))
}

// AddString parses a textual MAC address (any conventional separator) and
// inserts it into the set
func (s *MACSet) AddString(text string) error {
	mac, err := ParseMAC(normalizeMACAddress(text), InferSeparator(text))
	if err != nil {
		return err
	}
	s.Add(mac)
	return nil
}

// Contains reports whether the MAC address is in the set
func (s *MACSet) Contains(mac MACAddress) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, found := s.macs[mac]
	return found
}

// Len returns the number of MAC addresses in the set
func (s *MACSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.macs)
}

// Empty reports whether the set has no entries
func (s *MACSet) Empty() bool {
	return s.Len() == 0
}
