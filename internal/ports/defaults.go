package ports

import "slices"

// defaultPorts are ports commonly left open by HTTP, SOCKS and VPN relays.
var defaultPorts = []int{
	80,    // HTTP
	81,    // HTTP alt
	443,   // HTTPS / CONNECT
	553,   // CORBA IIOP, common on open proxies
	554,   // RTSP relays
	1080,  // SOCKS
	1081,  // SOCKS alt
	1194,  // OpenVPN
	1723,  // PPTP
	3128,  // Squid
	3129,  // Squid alt
	4145,  // SOCKS4
	6588,  // AnalogX
	8000,  // HTTP alt
	8080,  // HTTP proxy
	8081,  // HTTP proxy alt
	8088,  // HTTP proxy alt
	8118,  // Privoxy
	8888,  // HTTP proxy alt
	9050,  // Tor SOCKS
	9051,  // Tor control
	9150,  // Tor Browser SOCKS
	9999,  // HTTP proxy alt
	10808, // v2ray SOCKS
	10809, // v2ray HTTP
}

// Default returns the built-in port list used when no ports are configured.
func Default() []int {
	return slices.Clone(defaultPorts)
}
