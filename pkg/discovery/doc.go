// Package discovery finds register API backends and announces consoles
// over mDNS/DNS-SD.
//
// # Backends (_vitolink._tcp)
//
// A register API gateway advertises this service. The instance name is
// free-form. TXT records may carry:
//   - path: URL prefix in front of /api (default none)
//   - ver: gateway version
//   - tls: "1" when the API is served over https
//
// # Consoles (_regconsole._tcp)
//
// regconsole-web advertises this service so operators can find it.
// TXT records carry ver (console version) and api (the backend URL in use).
package discovery
