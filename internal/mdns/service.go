// Package mdns advertises the FounderShelf API over mDNS/DNS-SD via Avahi so
// LAN clients can discover a self-hosted instance without configuration.
package mdns

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/holoplot/go-avahi"
)

const (
	// ServiceType is the DNS-SD service type for FounderShelf servers.
	ServiceType = "_foundershelf._tcp"

	// APIVersion is the current API version advertised in TXT records.
	APIVersion = "v1"
)

// Service manages mDNS advertisement through the Avahi daemon. Requires a
// running D-Bus system bus; callers should treat Start failures as
// non-fatal (containers commonly lack both).
type Service struct {
	logger *slog.Logger

	mu     sync.Mutex
	server *avahi.Server
	group  *avahi.EntryGroup
}

// NewService creates a new mDNS service.
func NewService(logger *slog.Logger) *Service {
	return &Service{logger: logger}
}

// Start begins advertising the server. name is the human-readable server
// name from configuration; port is the HTTP listen port.
func (s *Service) Start(name string, port int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Stop an existing registration first (restart scenarios).
	s.stopLocked()

	conn, err := dbus.SystemBus()
	if err != nil {
		return fmt.Errorf("connect system bus: %w", err)
	}

	server, err := avahi.ServerNew(conn)
	if err != nil {
		return fmt.Errorf("connect avahi daemon: %w", err)
	}

	group, err := server.EntryGroupNew()
	if err != nil {
		server.Close()
		return fmt.Errorf("create avahi entry group: %w", err)
	}

	host, err := os.Hostname()
	if err != nil {
		host = "foundershelf"
	}

	txt := [][]byte{
		[]byte("name=" + name),
		[]byte("api=" + APIVersion),
	}

	err = group.AddService(
		avahi.InterfaceUnspec,
		avahi.ProtoUnspec,
		0,
		host,        // Instance name
		ServiceType, // Service type
		"",          // Domain (empty = .local)
		"",          // Host (empty = system hostname)
		uint16(port),
		txt,
	)
	if err != nil {
		server.Close()
		return fmt.Errorf("add avahi service: %w", err)
	}

	if err := group.Commit(); err != nil {
		server.Close()
		return fmt.Errorf("commit avahi entry group: %w", err)
	}

	s.server = server
	s.group = group

	s.logger.Info("mDNS advertisement started",
		"service", ServiceType,
		"instance", host,
		"port", port,
		"name", name,
	)

	return nil
}

// Stop withdraws the advertisement. Safe to call without a prior Start.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// Running reports whether an advertisement is active.
func (s *Service) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.server != nil
}

func (s *Service) stopLocked() {
	if s.server == nil {
		return
	}

	s.server.Close()
	s.server = nil
	s.group = nil

	s.logger.Info("mDNS advertisement stopped", "service", ServiceType)
}
