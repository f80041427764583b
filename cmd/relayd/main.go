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

package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/gpillon/wolcast/internal/wol"
)

func main() {
	var port int
	var targetsStr string
	var allowedStr string
	var rawIface string
	var metricsAddr string
	var development bool

	flag.IntVar(&port, "port", wol.DefaultWOLPort, "UDP port to listen on for WOL packets")
	flag.StringVar(&targetsStr, "targets", "",
		"Comma-separated broadcast addresses to relay magic packets to, "+
			"e.g. 192.168.2.255:9,10.0.0.255:9")
	flag.StringVar(&allowedStr, "allowed-macs", "",
		"Comma-separated MAC allowlist; empty relays every MAC")
	flag.StringVar(&rawIface, "raw-iface", "",
		"Interface for raw Ethernet WoL capture (EtherType 0x0842, requires CAP_NET_RAW); empty disables")
	flag.StringVar(&metricsAddr, "metrics-bind-address", ":8080",
		"Address for the health and metrics endpoints")
	flag.BoolVar(&development, "development", false, "Enable development logging")
	flag.Parse()

	zapCfg := zap.NewProductionConfig()
	if development {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapLog, err := zapCfg.Build()
	if err != nil {
		os.Exit(1)
	}
	defer func() {
		_ = zapLog.Sync()
	}()

	log := zapr.NewLogger(zapLog)
	setupLog := log.WithName("setup")

	targets := splitList(targetsStr)
	if len(targets) == 0 {
		setupLog.Error(nil, "at least one relay target is required (use --targets)")
		os.Exit(1)
	}

	allowed := wol.NewMACSet()
	for _, mac := range splitList(allowedStr) {
		if err := allowed.AddString(mac); err != nil {
			setupLog.Error(err, "Invalid MAC in allowlist", "mac", mac)
			os.Exit(1)
		}
	}

	setupLog.Info("Starting WOL relay",
		"port", port,
		"targets", targets,
		"allowedMACs", allowed.Len(),
		"rawInterface", rawIface)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go serveHealthAndMetrics(ctx, metricsAddr, log.WithName("http"))

	relay := wol.NewRelay(port, targets, allowed, log.WithName("relay"))
	if rawIface != "" {
		relay.SetRawInterface(rawIface)
	}

	if err := relay.Start(ctx); err != nil {
		setupLog.Error(err, "Relay failed to start")
		os.Exit(1)
	}

	setupLog.Info("Relay stopped gracefully")
}

// serveHealthAndMetrics exposes /healthz, /readyz and prometheus /metrics
func serveHealthAndMetrics(ctx context.Context, addr string, log logr.Logger) {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("ok")); err != nil {
			log.Error(err, "Failed to write health check response")
		}
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("ready")); err != nil {
			log.Error(err, "Failed to write readiness check response")
		}
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	log.Info("Starting health and metrics server", "addr", addr)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error(err, "Failed to shutdown health and metrics server")
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error(err, "Health and metrics server failed")
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
