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
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/go-logr/logr"
)

// defaultDedupeWindow suppresses re-forwarding of the same MAC for a short
// period. WoL senders commonly fire several identical packets in a burst,
// and the relay's own rebroadcast may echo back on a shared segment.
const defaultDedupeWindow = 2 * time.Second

// Relay listens for Wake-on-LAN magic packets on one network segment and
// rebroadcasts them to target segments. It does not retry and does not wait
// for any confirmation: each forwarded packet is a one-shot send.
type Relay struct {
	port     int
	targets  []string
	rawIface string
	allowed  *MACSet
	log      logr.Logger

	listener *Listener
	capture  *RawCapture

	dedupeCache    map[MACAddress]time.Time
	dedupeLock     sync.Mutex
	dedupeDuration time.Duration
}

// NewRelay creates a relay forwarding to the given target broadcast
// addresses ("host:port"). allowed may be nil or empty to forward every MAC.
func NewRelay(port int, targets []string, allowed *MACSet, log logr.Logger) *Relay {
	if allowed == nil {
		allowed = NewMACSet()
	}
	return &Relay{
		port:           port,
		targets:        targets,
		allowed:        allowed,
		log:            log,
		dedupeCache:    make(map[MACAddress]time.Time),
		dedupeDuration: defaultDedupeWindow,
	}
}

// SetRawInterface enables raw Ethernet capture of classic L2 WoL frames on
// the named interface. Must be called before Start.
func (r *Relay) SetRawInterface(name string) {
	r.rawIface = name
}

// Start runs the relay until the context is cancelled
func (r *Relay) Start(ctx context.Context) error {
	if len(r.targets) == 0 {
		return fmt.Errorf("no relay targets configured")
	}

	r.listener = NewListener(r.port, r.forward, r.log)
	if err := r.listener.Start(ctx); err != nil {
		return err
	}

	if r.rawIface != "" {
		r.capture = NewRawCapture(r.rawIface, r.forward, r.log.WithValues("iface", r.rawIface))
		if err := r.capture.Start(ctx); err != nil {
			// UDP listening still works without CAP_NET_RAW
			r.log.Error(err, "Failed to start raw Ethernet capture (continuing with UDP only)")
			r.capture = nil
		}
	}

	go r.cleanupCache(ctx)

	r.log.Info("WOL relay started",
		"port", r.port,
		"targets", r.targets,
		"allowedMACs", r.allowed.Len(),
		"rawInterface", r.rawIface)

	<-ctx.Done()
	r.Stop()
	return nil
}

// forward rebroadcasts a received wake request to every target segment
func (r *Relay) forward(mac MACAddress, source *net.UDPAddr) {
	if !r.allowed.Empty() && !r.allowed.Contains(mac) {
		r.log.V(1).Info("MAC not in allowlist, dropping", "mac", mac.String())
		return
	}

	if !r.shouldProcess(mac) {
		r.log.V(1).Info("Skipping duplicate packet (dedupe cache)", "mac", mac.String())
		return
	}

	from := ""
	if source != nil {
		from = source.String()
	}

	packet := NewMagicPacket(mac)
	for _, target := range r.targets {
		if err := packet.SendTo(DefaultSourceAddr, target); err != nil {
			r.log.Error(err, "Failed to forward magic packet",
				"mac", mac.String(), "target", target)
			continue
		}
		PacketsForwardedTotal.Inc()
		r.log.Info("Magic packet forwarded",
			"mac", mac.String(), "target", target, "from", from)
	}
}

// shouldProcess checks the dedupe window for a MAC and records it
func (r *Relay) shouldProcess(mac MACAddress) bool {
	r.dedupeLock.Lock()
	defer r.dedupeLock.Unlock()

	if lastSeen, exists := r.dedupeCache[mac]; exists {
		if time.Since(lastSeen) < r.dedupeDuration {
			return false
		}
	}

	r.dedupeCache[mac] = time.Now()
	return true
}

// cleanupCache periodically drops stale dedupe entries
func (r *Relay) cleanupCache(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.dedupeLock.Lock()
			now := time.Now()
			for mac, lastSeen := range r.dedupeCache {
				if now.Sub(lastSeen) > r.dedupeDuration*3 {
					delete(r.dedupeCache, mac)
				}
			}
			remaining := len(r.dedupeCache)
			r.dedupeLock.Unlock()
			r.log.V(1).Info("Cleaned up dedupe cache", "remaining", remaining)
		}
	}
}

// Stop stops the listener and any raw capture
func (r *Relay) Stop() {
	r.log.Info("Stopping WOL relay...")

	if r.capture != nil {
		r.capture.Stop()
	}
	if r.listener != nil {
		r.listener.Stop()
	}

	r.log.Info("WOL relay stopped")
}
