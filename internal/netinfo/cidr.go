// Package netinfo provides CIDR naming and port formatting helpers for the
// graph builder. Everything here is total: malformed input is passed through,
// never rejected.
package netinfo

import "net/netip"

// Namer maps CIDR strings to human-friendly labels. The well-known table is
// supplied by configuration (common_cidrs) and consulted before any
// classification. A zero-value Namer is usable and classifies only.
type Namer struct {
	wellKnown map[string]string
}

// NewNamer returns a Namer backed by the given well-known CIDR table.
// The table is not copied; it is treated as immutable for the Namer lifetime.
func NewNamer(wellKnown map[string]string) *Namer {
	return &Namer{wellKnown: wellKnown}
}

// FriendlyName converts a CIDR string into a display label.
//
// Resolution order:
//  1. exact match in the well-known table: "Internet (0.0.0.0/0)"
//  2. valid prefix, private address space: "Private Network (10.1.2.0/24)"
//  3. valid prefix, globally routable: "Public Network (203.0.113.5/32)"
//  4. anything else (including parse failures): the input unchanged
func (n *Namer) FriendlyName(cidr string) string {
	if n != nil && n.wellKnown != nil {
		if name, ok := n.wellKnown[cidr]; ok {
			return name + " (" + cidr + ")"
		}
	}

	prefix, err := netip.ParsePrefix(cidr)
	if err != nil {
		return cidr
	}

	addr := prefix.Addr()
	switch {
	case addr.IsPrivate() || addr.IsLoopback() || addr.IsLinkLocalUnicast():
		return "Private Network (" + cidr + ")"
	case !addr.IsMulticast() && !addr.IsUnspecified():
		return "Public Network (" + cidr + ")"
	default:
		return cidr
	}
}

// PrefixInfo describes a parsed CIDR block. Used by diagnostics output, not
// by the graph builder itself.
type PrefixInfo struct {
	Network      string `json:"network"`
	Bits         int    `json:"bits"`
	NumAddresses uint64 `json:"num_addresses"`
	Private      bool   `json:"private"`
}

// ParsePrefix parses a CIDR block and returns its basic properties, or
// ok=false when the string is not a valid prefix. Address counts for IPv6
// prefixes wider than /64 saturate at the maximum uint64.
func ParsePrefix(cidr string) (PrefixInfo, bool) {
	prefix, err := netip.ParsePrefix(cidr)
	if err != nil {
		return PrefixInfo{}, false
	}

	hostBits := prefix.Addr().BitLen() - prefix.Bits()
	var count uint64
	if hostBits >= 64 {
		count = ^uint64(0)
	} else {
		count = uint64(1) << hostBits
	}

	return PrefixInfo{
		Network:      prefix.Masked().String(),
		Bits:         prefix.Bits(),
		NumAddresses: count,
		Private:      prefix.Addr().IsPrivate(),
	}, true
}
