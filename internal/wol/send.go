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
	"net"

	"golang.org/x/sys/unix"
)

const (
	// DefaultSourceAddr is the default bind address for outbound packets:
	// wildcard address, ephemeral port
	DefaultSourceAddr = "0.0.0.0:0"

	// DefaultBroadcastAddr is the default destination: limited broadcast
	// address, discard port (the standard WOL target)
	DefaultBroadcastAddr = "255.255.255.255:9"
)

// Send broadcasts the magic packet from / to the default addresses
// (0.0.0.0:0 -> 255.255.255.255:9) as a single UDP datagram.
// WOL has no acknowledgment in-protocol, so nothing is awaited.
func (p *MagicPacket) Send() error {
	return p.SendTo(DefaultSourceAddr, DefaultBroadcastAddr)
}

// SendTo broadcasts the magic packet from source to destination.
// Both accept literal "host:port" addresses or resolvable hostnames.
// The socket is bound, broadcast-enabled, written once and closed on every
// exit path; failures surface as *SendError and are never retried here.
func (p *MagicPacket) SendTo(source, destination string) error {
	src, err := net.ResolveUDPAddr("udp4", source)
	if err != nil {
		SendErrorsTotal.Inc()
		return &SendError{Op: "resolve", Err: err}
	}
	dst, err := net.ResolveUDPAddr("udp4", destination)
	if err != nil {
		SendErrorsTotal.Inc()
		return &SendError{Op: "resolve", Err: err}
	}

	conn, err := net.ListenUDP("udp4", src)
	if err != nil {
		SendErrorsTotal.Inc()
		return &SendError{Op: "bind", Err: err}
	}
	defer func() {
		_ = conn.Close()
	}()

	if err := enableBroadcast(conn); err != nil {
		SendErrorsTotal.Inc()
		return &SendError{Op: "broadcast", Err: err}
	}

	if _, err := conn.WriteToUDP(p.Bytes(), dst); err != nil {
		SendErrorsTotal.Inc()
		return &SendError{Op: "send", Err: err}
	}

	PacketsSentTotal.Inc()
	return nil
}

// enableBroadcast sets SO_BROADCAST on the socket so datagrams may be
// addressed to 255.255.255.255
func enableBroadcast(conn *net.UDPConn) error {
	file, err := conn.File()
	if err != nil {
		return err
	}
	defer file.Close()

	return unix.SetsockoptInt(int(file.Fd()), unix.SOL_SOCKET, unix.SO_BROADCAST, 1)
}
