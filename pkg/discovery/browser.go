package discovery

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/enbility/zeroconf/v3"
)

// BrowseTimeout is the default timeout for browse operations.
const BrowseTimeout = 10 * time.Second

// Browser provides mDNS browsing for network-attached boards.
type Browser interface {
	// Browse searches for boards. The channel is closed when the
	// context is cancelled or browsing completes.
	Browse(ctx context.Context) (<-chan *BoardService, error)

	// FindByName searches for a board whose instance name matches
	// (case-insensitive). Returns ErrNotFound when the context expires
	// without a match.
	FindByName(ctx context.Context, name string) (*BoardService, error)
}

// BrowserConfig configures browser behavior.
type BrowserConfig struct {
	// Interface specifies which network interface to use.
	// Empty string means all interfaces.
	Interface string
}

// MDNSBrowser implements the Browser interface using zeroconf.
type MDNSBrowser struct {
	config BrowserConfig
}

// NewMDNSBrowser creates a new mDNS browser.
func NewMDNSBrowser(config BrowserConfig) *MDNSBrowser {
	return &MDNSBrowser{config: config}
}

// Browse searches for boards. Announcements are aggregated by instance
// name - addresses from multiple interfaces are combined into a single
// entry, emitted once.
func (b *MDNSBrowser) Browse(ctx context.Context) (<-chan *BoardService, error) {
	out := make(chan *BoardService)

	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)

	opts := b.browserOptions()

	// Process entries with aggregation
	go func() {
		defer close(out)

		// Track boards by instance name, aggregating addresses
		boards := make(map[string]*BoardService)

		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				svc := entryToBoard(entry)

				existing, found := boards[svc.InstanceName]
				if found {
					existing.Addresses = mergeAddresses(existing.Addresses, svc.Addresses)
					continue
				}

				boards[svc.InstanceName] = svc
				select {
				case out <- svc:
				case <-ctx.Done():
					return
				}

			case _, ok := <-removed:
				if !ok {
					continue
				}

			case <-ctx.Done():
				return
			}
		}
	}()

	// Start browsing in background
	go func() {
		_ = zeroconf.Browse(ctx, ServiceTypeBoard, Domain, entries, removed, opts...)
	}()

	return out, nil
}

// FindByName searches for a specific board by instance name.
func (b *MDNSBrowser) FindByName(ctx context.Context, name string) (*BoardService, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, BrowseTimeout)
		defer cancel()
	}

	boards, err := b.Browse(ctx)
	if err != nil {
		return nil, err
	}

	for {
		select {
		case svc, ok := <-boards:
			if !ok {
				return nil, ErrNotFound
			}
			if strings.EqualFold(svc.InstanceName, name) {
				return svc, nil
			}
		case <-ctx.Done():
			return nil, ErrNotFound
		}
	}
}

// browserOptions builds zeroconf client options from the config.
func (b *MDNSBrowser) browserOptions() []zeroconf.ClientOption {
	var opts []zeroconf.ClientOption
	if b.config.Interface != "" {
		if iface, err := net.InterfaceByName(b.config.Interface); err == nil {
			opts = append(opts, zeroconf.SelectIfaces([]net.Interface{*iface}))
		}
	}
	return opts
}

// mergeAddresses appends addresses not already present.
func mergeAddresses(existing, extra []string) []string {
	seen := make(map[string]struct{}, len(existing))
	for _, a := range existing {
		seen[a] = struct{}{}
	}
	for _, a := range extra {
		if _, ok := seen[a]; !ok {
			existing = append(existing, a)
		}
	}
	return existing
}

// Compile-time interface satisfaction check.
var _ Browser = (*MDNSBrowser)(nil)
