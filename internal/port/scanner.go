package port

import (
	"fmt"
	"net"

	"github.com/shinji-kodama/intervalset/internal/intervalset"
)

// Prober reports whether a port can be bound on the host. The Pool asks it
// before handing out a port so that ports held by unrelated processes are
// skipped.
type Prober interface {
	IsPortAvailable(port int, protocol string) bool
}

// Scanner is the Prober backed by the operating system's network stack.
//
// It asks the OS directly with net.Listen / net.ListenPacket rather than
// parsing /proc/net/* or running external commands like `lsof` or `ss`,
// which may require elevated permissions.
type Scanner struct{}

// NewScanner creates a new Scanner instance.
func NewScanner() *Scanner {
	return &Scanner{}
}

// IsPortAvailable checks whether a single port is free on the host machine.
//
// For TCP, it attempts net.Listen("tcp", ":port"). For UDP, it attempts
// net.ListenPacket("udp", ":port"). If the bind succeeds the port is free,
// and the listener is closed again immediately.
//
// Returns true if the port is free, false if it is in use, out of range, or
// the protocol is unknown.
func (s *Scanner) IsPortAvailable(port int, protocol string) bool {
	if port < minPort || port > maxPort {
		return false
	}
	addr := fmt.Sprintf(":%d", port)

	switch protocol {
	case "tcp":
		listener, err := net.Listen("tcp", addr)
		if err != nil {
			return false
		}
		defer func() { _ = listener.Close() }()
		return true

	case "udp":
		// UDP is connectionless, so ListenPacket is the bind test.
		conn, err := net.ListenPacket("udp", addr)
		if err != nil {
			return false
		}
		defer func() { _ = conn.Close() }()
		return true

	default:
		// Unknown protocol: treat as unavailable to fail safe.
		return false
	}
}

// Busy probes every port in [startPort, endPort] and returns the ones that
// could not be bound as a set, so that runs of busy ports collapse into
// intervals.
func Busy(p Prober, startPort, endPort int, protocol string) *intervalset.Set[int] {
	busy := intervalset.NewOrdered[int]()
	runStart := -1
	for port := startPort; port <= endPort+1; port++ {
		inUse := port <= endPort && !p.IsPortAvailable(port, protocol)
		switch {
		case inUse && runStart < 0:
			runStart = port
		case !inUse && runStart >= 0 && runStart == port-1:
			busy.AddPoint(runStart)
			runStart = -1
		case !inUse && runStart >= 0:
			busy.AddInterval(runStart, port-1, false, false)
			runStart = -1
		}
	}
	return busy
}
