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
	"context"
	"encoding/binary"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"github.com/go-logr/logr"
	"golang.org/x/sys/unix"
)

// etherTypeWOL is the EtherType of classic Layer-2 Wake-on-LAN frames
const etherTypeWOL = 0x0842

// RawCapture listens for classic Layer-2 WoL frames (EtherType 0x0842) on a
// single interface via an AF_PACKET socket. These frames never cross an IP
// stack, so a UDP listener alone would miss them. Requires CAP_NET_RAW.
type RawCapture struct {
	interfaceName string
	handler       PacketHandler
	log           logr.Logger

	fd       int
	stopOnce sync.Once
	closed   atomic.Bool
	wg       sync.WaitGroup
}

// NewRawCapture creates a raw Ethernet WoL capture bound to interfaceName
func NewRawCapture(interfaceName string, handler PacketHandler, log logr.Logger) *RawCapture {
	return &RawCapture{
		interfaceName: interfaceName,
		handler:       handler,
		log:           log,
		fd:            -1,
	}
}

// Start opens the AF_PACKET socket, attaches the WoL BPF filter and begins
// capturing in the background until the context is cancelled or Stop is
// called.
func (r *RawCapture) Start(ctx context.Context) error {
	ifi, err := net.InterfaceByName(r.interfaceName)
	if err != nil {
		return fmt.Errorf("failed to get interface %s: %w", r.interfaceName, err)
	}

	fd, err := unix.Socket(unix.AF_PACKET, unix.SOCK_RAW, int(htons(unix.ETH_P_ALL)))
	if err != nil {
		return fmt.Errorf("failed to create raw socket: %w (requires CAP_NET_RAW)", err)
	}
	r.fd = fd

	addr := &unix.SockaddrLinklayer{
		Protocol: htons(unix.ETH_P_ALL),
		Ifindex:  ifi.Index,
	}
	if err := unix.Bind(fd, addr); err != nil {
		unix.Close(fd)
		r.fd = -1
		return fmt.Errorf("failed to bind to interface %s: %w", ifi.Name, err)
	}

	if err := r.attachFilter(fd); err != nil {
		r.log.V(1).Info("Failed to attach BPF filter (continuing)", "error", err)
	}

	// Receive timeout keeps the loop responsive to Stop
	tv := &unix.Timeval{Sec: 1}
	if err := unix.SetsockoptTimeval(fd, unix.SOL_SOCKET, unix.SO_RCVTIMEO, tv); err != nil {
		r.log.V(1).Info("Failed to set SO_RCVTIMEO (continuing)", "error", err)
	}

	r.log.Info("Raw Ethernet WoL capture started",
		"interface", ifi.Name,
		"mac", ifi.HardwareAddr.String())

	r.wg.Add(1)
	go r.capture(ctx)
	return nil
}

// attachFilter installs a classic BPF program accepting only EtherType 0x0842
func (r *RawCapture) attachFilter(fd int) error {
	filter := []unix.SockFilter{
		// ldh [12] - load the EtherType halfword
		{Code: 0x28, K: 12},
		// jeq #0x0842, accept : drop
		{Code: 0x15, Jf: 1, K: etherTypeWOL},
		// ret #0x40000 (accept entire packet)
		{Code: 0x6, K: 0x00040000},
		// ret #0 (drop)
		{Code: 0x6},
	}
	fprog := unix.SockFprog{
		Len:    uint16(len(filter)),
		Filter: &filter[0],
	}
	return unix.SetsockoptSockFprog(fd, unix.SOL_SOCKET, unix.SO_ATTACH_FILTER, &fprog)
}

// capture is the frame read loop
func (r *RawCapture) capture(ctx context.Context) {
	defer r.wg.Done()

	buffer := make([]byte, 2000) // room for VLAN-tagged frames

	for {
		if ctx.Err() != nil || r.closed.Load() {
			return
		}

		n, _, err := unix.Recvfrom(r.fd, buffer, 0)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EWOULDBLOCK || err == unix.EINTR {
				continue
			}
			if ctx.Err() != nil || r.closed.Load() {
				return
			}
			r.log.Error(err, "Error reading raw packet")
			continue
		}
		if n <= 14 {
			continue
		}

		r.processFrame(buffer[:n])
	}
}

// processFrame parses an Ethernet frame and dispatches any magic packet in it
func (r *RawCapture) processFrame(frame []byte) {
	dstMAC := frame[0:6]
	srcMAC := frame[6:12]
	etherType := binary.BigEndian.Uint16(frame[12:14])
	payload := frame[14:]

	// 802.1Q tag: skip 4 bytes and read the inner EtherType
	if etherType == 0x8100 {
		if len(payload) < 4 {
			return
		}
		etherType = binary.BigEndian.Uint16(payload[2:4])
		payload = payload[4:]
	}

	if etherType != etherTypeWOL {
		return
	}

	// Classic L2 WoL frames are broadcast
	if !isBroadcastMAC(dstMAC) {
		return
	}

	mac, valid := ParseMagicPacket(payload)
	if !valid {
		InvalidPacketsTotal.Inc()
		return
	}

	PacketsReceivedTotal.Inc()
	r.log.Info("Valid WoL magic packet received (raw Ethernet)",
		"targetMAC", mac.String(),
		"sourceMAC", net.HardwareAddr(srcMAC).String(),
		"interface", r.interfaceName)

	if r.handler != nil {
		r.handler(mac, nil)
	}
}

// Stop closes the socket and waits for the capture loop to exit
func (r *RawCapture) Stop() {
	r.stopOnce.Do(func() {
		r.closed.Store(true)
		if r.fd >= 0 {
			// Unblock any pending Recvfrom
			_ = unix.Shutdown(r.fd, unix.SHUT_RD)
			if err := unix.Close(r.fd); err != nil {
				r.log.Error(err, "Failed to close raw socket")
			}
			r.fd = -1
		}
		r.wg.Wait()
		r.log.Info("Raw Ethernet WoL capture stopped")
	})
}

// isBroadcastMAC reports whether b is the all-ones Ethernet broadcast address
func isBroadcastMAC(b []byte) bool {
	if len(b) != MACSize {
		return false
	}
	for _, v := range b {
		if v != 0xFF {
			return false
		}
	}
	return true
}

// htons converts uint16 from host to network byte order
func htons(v uint16) uint16 { return (v << 8) | (v >> 8) }
