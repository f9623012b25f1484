package env

import (
	"net"
	"runtime"
	"strings"
)

// loopbackIP is the fallback when no external interface is found.
const loopbackIP = "127.0.0.1"

// netInterfaces is a factory variable replaced in tests.
var netInterfaces = net.Interfaces

// ExternalIP returns the host's primary external IPv4 address.
//
// Interfaces are scanned in two passes: first the conventional primary
// interface for the OS family (en0 on darwin, eth0/en*/ens* on linux),
// then any other interface that is up and not a loopback. The first
// global unicast IPv4 wins. Falls back to 127.0.0.1 when nothing is
// found, so the result is never empty.
func ExternalIP() string {
	ifaces, err := netInterfaces()
	if err != nil {
		return loopbackIP
	}

	for _, iface := range ifaces {
		if !preferredInterface(runtime.GOOS, iface.Name) {
			continue
		}
		if ip := firstGlobalIPv4(iface); ip != "" {
			return ip
		}
	}

	for _, iface := range ifaces {
		if ip := firstGlobalIPv4(iface); ip != "" {
			return ip
		}
	}

	return loopbackIP
}

// preferredInterface reports whether name is the conventional primary
// interface for the given OS family.
func preferredInterface(goos, name string) bool {
	switch goos {
	case "darwin":
		return name == "en0"
	case "linux":
		return name == "eth0" || strings.HasPrefix(name, "ens") || strings.HasPrefix(name, "enp")
	default:
		return false
	}
}

// firstGlobalIPv4 returns the first global unicast IPv4 on an interface
// that is up and not a loopback, or "".
func firstGlobalIPv4(iface net.Interface) string {
	if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
		return ""
	}

	addrs, err := iface.Addrs()
	if err != nil {
		return ""
	}

	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		ip := ipNet.IP.To4()
		if ip == nil || !ip.IsGlobalUnicast() {
			continue
		}
		return ip.String()
	}

	return ""
}
