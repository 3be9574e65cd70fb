package netinfo

import "strconv"

// FormatPorts renders a port range for display. Equal ports collapse to the
// single number, including the -1 "all ports" sentinel, which callers
// interpret at a higher layer.
func FormatPorts(from, to int) string {
	if from == to {
		return strconv.Itoa(from)
	}
	return strconv.Itoa(from) + "-" + strconv.Itoa(to)
}

// DisplayProtocol maps the EC2 "-1" protocol sentinel to "All" for
// human-facing labels. Any other value is returned unchanged. The raw
// protocol string must be kept separately wherever exact matching matters.
func DisplayProtocol(protocol string) string {
	if protocol == "-1" {
		return "All"
	}
	return protocol
}
