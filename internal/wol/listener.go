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
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/sys/unix"
)

// PacketHandler is invoked for every valid magic packet a listener receives
type PacketHandler func(mac MACAddress, source *net.UDPAddr)

// Listener receives Wake-on-LAN magic packets on a UDP port and hands the
// target MAC of every valid packet to a PacketHandler.
type Listener struct {
	port    int
	handler PacketHandler
	log     logr.Logger

	conn     *net.UDPConn
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewListener creates a new WOL listener. Port 0 binds an ephemeral port;
// a negative port falls back to the standard WOL port.
func NewListener(port int, handler PacketHandler, log logr.Logger) *Listener {
	if port < 0 {
		port = DefaultWOLPort
	}
	return &Listener{
		port:    port,
		handler: handler,
		log:     log,
	}
}

// Start binds the UDP socket and begins listening for WOL packets in the
// background. The listener runs until the context is cancelled or Stop is
// called.
func (l *Listener) Start(ctx context.Context) error {
	addr := &net.UDPAddr{
		Port: l.port,
		IP:   net.IPv4zero, // 0.0.0.0 - listen on all interfaces
	}

	conn, err := net.ListenUDP("udp4", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on UDP port %d: %w", l.port, err)
	}
	l.conn = conn

	if err := l.configureSocket(); err != nil {
		l.log.Error(err, "Failed to configure socket (continuing anyway)")
	}

	l.log.Info("WOL listener started", "port", l.port, "actualAddress", conn.LocalAddr().String())

	l.wg.Add(1)
	go l.listen(ctx)

	return nil
}

// configureSocket sets UDP socket options needed to receive broadcast packets
func (l *Listener) configureSocket() error {
	file, err := l.conn.File()
	if err != nil {
		return err
	}
	defer func() {
		if err := file.Close(); err != nil {
			l.log.Error(err, "Failed to close file descriptor")
		}
	}()

	fd := int(file.Fd())

	// Allow multiple binds to the same port
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		l.log.Error(err, "Failed to enable SO_REUSEADDR")
	} else {
		l.log.V(1).Info("SO_REUSEADDR enabled")
	}

	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEPORT, 1); err != nil {
		l.log.Error(err, "Failed to enable SO_REUSEPORT")
	} else {
		l.log.V(1).Info("SO_REUSEPORT enabled")
	}

	// SO_BROADCAST is essential for WOL
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_BROADCAST, 1); err != nil {
		return fmt.Errorf("SO_BROADCAST: %w", err)
	}
	l.log.V(1).Info("SO_BROADCAST enabled")

	// Receive broadcast packets sent to 255.255.255.255
	if err := unix.SetsockoptInt(fd, unix.IPPROTO_IP, unix.IP_PKTINFO, 1); err != nil {
		l.log.Error(err, "Failed to enable IP_PKTINFO (continuing anyway)")
	}

	if err := l.conn.SetReadBuffer(1024 * 64); err != nil {
		l.log.Error(err, "Failed to set read buffer size")
	}

	return nil
}

// LocalAddr returns the address the listener is bound to, or nil before Start
func (l *Listener) LocalAddr() net.Addr {
	if l.conn == nil {
		return nil
	}
	return l.conn.LocalAddr()
}

// listen is the main listening loop
func (l *Listener) listen(ctx context.Context) {
	defer l.wg.Done()

	buffer := make([]byte, 1024)

	l.log.Info("UDP listener loop started, waiting for WOL packets...")

	for {
		select {
		case <-ctx.Done():
			l.log.Info("Context cancelled, stopping listener")
			return
		default:
			// Read deadline allows periodic context checks
			if err := l.conn.SetReadDeadline(time.Now().Add(1 * time.Second)); err != nil {
				l.log.Error(err, "Failed to set read deadline")
			}

			n, addr, err := l.conn.ReadFromUDP(buffer)
			if err != nil {
				if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
					continue
				}
				if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
					return
				}
				l.log.Error(err, "Error reading UDP packet")
				continue
			}

			l.log.V(1).Info("UDP packet received", "from", addr.String(), "size", n)

			payload := make([]byte, n)
			copy(payload, buffer[:n])
			go l.processPacket(payload, addr)
		}
	}
}

// processPacket validates a received payload and dispatches it
func (l *Listener) processPacket(payload []byte, addr *net.UDPAddr) {
	mac, valid := ParseMagicPacket(payload)
	if !valid {
		InvalidPacketsTotal.Inc()
		l.log.V(1).Info("Invalid WOL packet received", "from", addr.String(), "size", len(payload))
		return
	}

	PacketsReceivedTotal.Inc()
	l.log.Info("Valid WOL magic packet received", "mac", mac.String(), "from", addr.String())

	if l.handler != nil {
		l.handler(mac, addr)
	}
}

// Stop stops the listener and waits for the read loop to exit
func (l *Listener) Stop() {
	l.stopOnce.Do(func() {
		if l.conn != nil {
			if err := l.conn.Close(); err != nil {
				l.log.Error(err, "Failed to close UDP connection")
			}
		}
		l.wg.Wait()
		l.log.Info("WOL listener stopped")
	})
}
