// Package hostinfo resolves the identity of the machine running the
// adapter. Resolution happens once at startup; every fallback is internal
// and never surfaces as an error.
package hostinfo

import (
	"fmt"
	"net"
	"os"
	"os/user"
	"strings"

	"github.com/google/uuid"
)

// Identity describes the local machine.
type Identity struct {
	Hostname string
	IP       string
	MAC      string
	User     string
}

// Resolve detects hostname, IP, hardware address and user. Call once and
// cache the result on the session.
func Resolve() Identity {
	hostname := localHostname()
	return Identity{
		Hostname: hostname,
		IP:       localIP(hostname),
		MAC:      hardwareAddr(),
		User:     currentUser(),
	}
}

// localHostname returns the system hostname with any ".local" domain
// suffix truncated.
func localHostname() string {
	h, err := os.Hostname()
	if err != nil || h == "" {
		return "localhost"
	}
	if i := strings.Index(h, ".local"); i >= 0 {
		h = h[:i]
	}
	return h
}

// localIP resolves the machine's outbound IPv4 address. It tries a
// reverse lookup of the hostname first, then opens a throwaway UDP
// socket to a non-routable address so the OS picks an outbound interface.
// The probe never sends a packet and is closed on every path. Loopback is
// the final fallback.
func localIP(hostname string) string {
	if addrs, err := net.LookupHost(hostname); err == nil {
		for _, a := range addrs {
			if ip := net.ParseIP(a); ip != nil && ip.To4() != nil {
				return a
			}
		}
	}

	conn, err := net.Dial("udp4", "10.255.255.255:1")
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()

	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok && addr.IP != nil {
		return addr.IP.String()
	}
	return "127.0.0.1"
}

// hardwareAddr returns the 48-bit node identifier as lower-case
// colon-separated hex octets, e.g. "02:42:ac:11:00:02".
func hardwareAddr() string {
	node := uuid.NodeID()
	parts := make([]string, len(node))
	for i, b := range node {
		parts[i] = fmt.Sprintf("%02x", b)
	}
	return strings.Join(parts, ":")
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}
