// Package discovery finds network-attached boards via mDNS.
//
// Boards running a network Firmata firmware (or an OTA-capable core)
// advertise the "_arduino._tcp" service on the local network. Browser
// resolves those advertisements into BoardService records carrying the
// addresses and port needed to open a stream.TCPStream.
//
// Discovery is best-effort: browsing aggregates announcements from all
// interfaces until the context expires, and a board that stops
// announcing simply never appears.
package discovery
