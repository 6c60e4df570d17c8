package discovery

import (
	"errors"
	"strconv"
	"strings"

	"github.com/enbility/zeroconf/v3"
)

// mDNS service parameters for network-attached boards.
const (
	// ServiceTypeBoard is the service boards advertise on the network.
	ServiceTypeBoard = "_arduino._tcp"

	// Domain is the mDNS domain.
	Domain = "local."
)

// Discovery errors.
var (
	// ErrNotFound indicates no matching board appeared before the
	// context expired.
	ErrNotFound = errors.New("board not found")
)

// BoardService describes one discovered board.
type BoardService struct {
	// InstanceName is the advertised instance name (typically the
	// board's configured hostname).
	InstanceName string

	// Host is the board's mDNS hostname.
	Host string

	// Port is the advertised TCP port.
	Port uint16

	// Addresses holds the board's IPv4 and IPv6 addresses as strings.
	Addresses []string

	// TXT holds the advertised key=value TXT records (e.g. board
	// model, auth upload mode).
	TXT map[string]string
}

// Address returns a dialable host:port for the board's first address,
// or empty when no address was resolved.
func (s *BoardService) Address() string {
	if len(s.Addresses) == 0 {
		return ""
	}
	host := s.Addresses[0]
	if strings.Contains(host, ":") {
		// IPv6 literal
		host = "[" + host + "]"
	}
	return host + ":" + strconv.Itoa(int(s.Port))
}

// entryToBoard converts a zeroconf entry to a BoardService.
func entryToBoard(entry *zeroconf.ServiceEntry) *BoardService {
	// Collect addresses
	addrs := make([]string, 0, len(entry.AddrIPv4)+len(entry.AddrIPv6))
	for _, ip := range entry.AddrIPv4 {
		addrs = append(addrs, ip.String())
	}
	for _, ip := range entry.AddrIPv6 {
		addrs = append(addrs, ip.String())
	}

	return &BoardService{
		InstanceName: entry.Instance,
		Host:         entry.HostName,
		Port:         uint16(entry.Port),
		Addresses:    addrs,
		TXT:          ParseTXT(entry.Text),
	}
}

// ParseTXT splits raw TXT strings into a key=value map. Entries
// without '=' become keys with an empty value.
func ParseTXT(records []string) map[string]string {
	txt := make(map[string]string, len(records))
	for _, rec := range records {
		if rec == "" {
			continue
		}
		key, value, _ := strings.Cut(rec, "=")
		txt[key] = value
	}
	return txt
}
