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

package e2e

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/go-logr/logr"

	"github.com/gpillon/wolcast/internal/wol"
)

var _ = Describe("wake round trip", Ordered, func() {
	var (
		ctx      context.Context
		cancel   context.CancelFunc
		listener *wol.Listener
		port     int

		mu       sync.Mutex
		received []wol.MACAddress
	)

	BeforeAll(func() {
		ctx, cancel = context.WithCancel(context.Background())

		By("starting a WOL listener on an ephemeral UDP port")
		listener = wol.NewListener(0, func(mac wol.MACAddress, source *net.UDPAddr) {
			mu.Lock()
			defer mu.Unlock()
			received = append(received, mac)
		}, logr.Discard())

		Expect(listener.Start(ctx)).To(Succeed())
		port = listener.LocalAddr().(*net.UDPAddr).Port
	})

	AfterAll(func() {
		cancel()
		listener.Stop()
	})

	It("should deliver a parsed and built magic packet to the listener", func() {
		By("parsing the MAC address")
		mac, err := wol.ParseMAC("52:54:00:12:34:56", ':')
		Expect(err).NotTo(HaveOccurred())

		By("building and sending the magic packet")
		packet := wol.NewMagicPacket(mac)
		Expect(packet.SendTo("127.0.0.1:0", fmt.Sprintf("127.0.0.1:%d", port))).To(Succeed())

		By("waiting for the listener to hand the wake to its handler")
		Eventually(func() []wol.MACAddress {
			mu.Lock()
			defer mu.Unlock()
			return append([]wol.MACAddress(nil), received...)
		}, 5*time.Second, 100*time.Millisecond).Should(ContainElement(mac))
	})

	It("should surface a SendError for an unbindable source address", func() {
		By("occupying a local port")
		blocker, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
		Expect(err).NotTo(HaveOccurred())
		defer blocker.Close()

		By("sending from the occupied port")
		packet := wol.NewMagicPacket(wol.MACAddress{0x00, 0x01, 0x02, 0x03, 0x04, 0x05})
		err = packet.SendTo(blocker.LocalAddr().String(), fmt.Sprintf("127.0.0.1:%d", port))

		var sendErr *wol.SendError
		Expect(err).To(HaveOccurred())
		Expect(errors.As(err, &sendErr)).To(BeTrue())
		Expect(sendErr.Op).To(Equal("bind"))
	})
})
