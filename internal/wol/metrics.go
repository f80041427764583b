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
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// PacketsSentTotal counts the number of magic packets sent
	PacketsSentTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wol_packets_sent_total",
			Help: "Number of Wake-on-LAN magic packets sent",
		},
	)

	// SendErrorsTotal counts the number of failed send attempts
	SendErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wol_send_errors_total",
			Help: "Number of Wake-on-LAN send failures",
		},
	)

	// PacketsReceivedTotal counts the number of valid magic packets received
	PacketsReceivedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wol_packets_received_total",
			Help: "Number of valid Wake-on-LAN magic packets received",
		},
	)

	// InvalidPacketsTotal counts received payloads that failed validation
	InvalidPacketsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wol_invalid_packets_total",
			Help: "Number of received payloads that were not valid magic packets",
		},
	)

	// PacketsForwardedTotal counts the number of magic packets relayed
	PacketsForwardedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wol_packets_forwarded_total",
			Help: "Number of Wake-on-LAN magic packets relayed to target segments",
		},
	)

	// AllowedMACs is a gauge for the number of MACs in the relay allowlist
	AllowedMACs = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "wol_allowed_macs",
			Help: "Number of MAC addresses in the relay allowlist (0 = forward all)",
		},
	)
)

func init() {
	prometheus.MustRegister(
		PacketsSentTotal,
		SendErrorsTotal,
		PacketsReceivedTotal,
		InvalidPacketsTotal,
		PacketsForwardedTotal,
		AllowedMACs,
	)
}
