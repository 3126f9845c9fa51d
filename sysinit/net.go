// SPDX-FileCopyrightText: 2026 The vmshim authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysinit

import (
	"fmt"

	"github.com/vishvananda/netlink"
)

// InterfaceUp brings the network interface with the given name up.
//
// The kernel configures the loopback address automatically once the
// interface is up.
func InterfaceUp(name string) error {
	link, err := netlink.LinkByName(name)
	if err != nil {
		return fmt.Errorf("link %s: %w", name, err)
	}

	if err := netlink.LinkSetUp(link); err != nil {
		return fmt.Errorf("link %s up: %w", name, err)
	}

	return nil
}
