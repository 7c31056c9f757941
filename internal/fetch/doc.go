// Package fetch retrieves source images for conversion.
//
// Requests are credential-less: the client carries no cookie jar, sends no
// Authorization header, and follows at most ten redirects. An optional SOCKS5
// proxy can be configured for all outgoing connections. data: URLs are
// decoded in-process without touching the network.
package fetch
