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
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/gpillon/wolcast/internal/wol"
)

func main() {
	var macStr string
	var source string
	var broadcast string

	flag.StringVar(&macStr, "mac", "",
		"MAC address of the device to wake, e.g. 01:02:03:04:05:06 "+
			"(separators ':', '-' and '/' are accepted)")
	flag.StringVar(&source, "source", wol.DefaultSourceAddr,
		"Local address to send from")
	flag.StringVar(&broadcast, "broadcast", wol.DefaultBroadcastAddr,
		"Broadcast address to send the magic packet to")
	flag.Parse()

	// Also accept the MAC as a positional argument
	if macStr == "" && flag.NArg() > 0 {
		macStr = flag.Arg(0)
	}
	if macStr == "" {
		fmt.Fprintln(os.Stderr, "give a MAC address to wake up (-mac or positional argument)")
		flag.Usage()
		os.Exit(2)
	}

	mac, err := wol.ParseMAC(macStr, wol.InferSeparator(macStr))
	if err != nil {
		switch {
		case errors.Is(err, wol.ErrInvalidMACLength):
			fmt.Fprintf(os.Stderr, "Invalid MAC address length: %q\n", macStr)
		case errors.Is(err, wol.ErrInvalidMACFormat):
			fmt.Fprintf(os.Stderr, "Invalid MAC address format: %q\n", macStr)
		default:
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}

	packet := wol.NewMagicPacket(mac)
	if err := packet.SendTo(source, broadcast); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to send the magic packet: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Sent the magic packet.")
}
