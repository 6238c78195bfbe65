package port

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shinji-kodama/intervalset/internal/intervalset"
	"github.com/shinji-kodama/intervalset/internal/model"
)

const (
	// minPort and maxPort bound the valid TCP/UDP port numbers.
	minPort = 1
	maxPort = 65535
)

// Pool hands out host ports from a fixed range while keeping track of
// reserved ports per protocol.
//
// Reservations are stored as interval sets: reserving 8000-8010 stores one
// interval, and releasing 8005 afterwards punches a single hole in it
// instead of splitting the range into two entries. Allocated ports become
// reservations too, so a port is never handed out twice.
type Pool struct {
	// prober is asked about OS-level availability. Injected so tests can
	// use a fake.
	prober Prober

	start, end int

	// reserved maps a protocol to its reserved ports.
	reserved map[string]*intervalset.Set[int]

	allocations []model.PortAllocation
}

// NewPool creates a Pool that allocates from [start, end] inclusive.
// A nil prober treats every unreserved port as free.
func NewPool(prober Prober, start, end int) (*Pool, error) {
	if start < minPort || end > maxPort || start > end {
		return nil, fmt.Errorf("invalid port range %d-%d (must be within %d-%d)", start, end, minPort, maxPort)
	}
	return &Pool{
		prober:   prober,
		start:    start,
		end:      end,
		reserved: make(map[string]*intervalset.Set[int]),
	}, nil
}

func (p *Pool) set(protocol string) *intervalset.Set[int] {
	s, ok := p.reserved[protocol]
	if !ok {
		s = intervalset.NewOrdered(intervalset.WithFormatter(strconv.Itoa))
		p.reserved[protocol] = s
	}
	return s
}

// Reserve marks every port in [lo, hi] as taken. Endpoints may be given in
// either order. Reserving an already reserved port is a no-op.
func (p *Pool) Reserve(lo, hi int, protocol string) error {
	if err := checkPort(lo); err != nil {
		return err
	}
	if err := checkPort(hi); err != nil {
		return err
	}
	protocol, err := normalizeProtocol(protocol)
	if err != nil {
		return err
	}
	if lo == hi {
		p.set(protocol).AddPoint(lo)
	} else {
		p.set(protocol).AddInterval(lo, hi, false, false)
	}
	return nil
}

// ReserveSpec reserves a port ("8080") or an inclusive range ("8000-8010").
func (p *Pool) ReserveSpec(spec, protocol string) error {
	lo, hi, err := ParseRange(spec)
	if err != nil {
		return err
	}
	return p.Reserve(lo, hi, protocol)
}

// Release makes a single port available again. Releasing a port that is
// not reserved is a no-op. A matching allocation is forgotten.
func (p *Pool) Release(port int, protocol string) error {
	if err := checkPort(port); err != nil {
		return err
	}
	protocol, err := normalizeProtocol(protocol)
	if err != nil {
		return err
	}
	p.set(protocol).RemovePoint(port)

	kept := p.allocations[:0]
	for _, a := range p.allocations {
		if a.HostPort != port || a.Protocol != protocol {
			kept = append(kept, a)
		}
	}
	p.allocations = kept
	return nil
}

// IsReserved reports whether port is reserved for protocol.
func (p *Pool) IsReserved(port int, protocol string) bool {
	protocol, err := normalizeProtocol(protocol)
	if err != nil {
		return false
	}
	s, ok := p.reserved[protocol]
	return ok && s.Contains(port)
}

// Allocate finds a free port for spec and reserves it.
//
// The search starts at spec.Port when it lies inside the pool range, else
// at the start of the range, moves upward to the end of the range, and then
// wraps around. A port qualifies when it is not reserved and the prober
// reports it bindable.
func (p *Pool) Allocate(spec model.PortSpec) (*model.PortAllocation, error) {
	protocol, err := normalizeProtocol(spec.Protocol)
	if err != nil {
		return nil, err
	}

	from := p.start
	if spec.Port >= p.start && spec.Port <= p.end {
		from = spec.Port
	}

	reserved := p.set(protocol)
	for i := 0; i <= p.end-p.start; i++ {
		candidate := p.start + (from-p.start+i)%(p.end-p.start+1)
		if reserved.Contains(candidate) {
			continue
		}
		if p.prober != nil && !p.prober.IsPortAvailable(candidate, protocol) {
			continue
		}

		reserved.AddPoint(candidate)
		alloc := model.PortAllocation{
			ServiceName:   spec.ServiceName,
			RequestedPort: spec.Port,
			HostPort:      candidate,
			Protocol:      protocol,
			Label:         spec.Label,
		}
		p.allocations = append(p.allocations, alloc)
		return &alloc, nil
	}
	return nil, fmt.Errorf("no available %s port found in range %d-%d", protocol, p.start, p.end)
}

// AllocateMany allocates a port for every spec in order. If any allocation
// fails, the ports allocated by this call are released again and the error
// is returned.
func (p *Pool) AllocateMany(specs []model.PortSpec) ([]model.PortAllocation, error) {
	allocations := make([]model.PortAllocation, 0, len(specs))
	rollback := func() {
		for _, a := range allocations {
			_ = p.Release(a.HostPort, a.Protocol)
		}
	}
	for _, spec := range specs {
		alloc, err := p.Allocate(spec)
		if err != nil {
			rollback()
			return nil, fmt.Errorf("failed to allocate port for %s: %w", spec.ServiceName, err)
		}
		allocations = append(allocations, *alloc)
	}
	if err := model.ValidatePortAllocations(allocations); err != nil {
		rollback()
		return nil, err
	}
	return allocations, nil
}

// Allocations returns every allocation made and not yet released.
func (p *Pool) Allocations() []model.PortAllocation {
	return append([]model.PortAllocation(nil), p.allocations...)
}

// Protocols returns the protocols that have reservations, sorted.
func (p *Pool) Protocols() []string {
	out := make([]string, 0, len(p.reserved))
	for proto, s := range p.reserved {
		if !s.IsEmpty() {
			out = append(out, proto)
		}
	}
	sort.Strings(out)
	return out
}

// Render returns the reserved ports of protocol in interval set notation,
// for example "[8000,8005),(8005,8010],≠9000,".
func (p *Pool) Render(protocol string) string {
	s, ok := p.reserved[protocol]
	if !ok {
		return ""
	}
	return s.String()
}

// ReservedCount returns the number of reserved ports of protocol.
func (p *Pool) ReservedCount(protocol string) int {
	s, ok := p.reserved[protocol]
	if !ok {
		return 0
	}
	count := 0
	for _, seg := range s.Segments() {
		n := seg.Right - seg.Left + 1
		if seg.LeftOpen {
			n--
		}
		if seg.RightOpen {
			n--
		}
		count += n
	}
	return count
}

// ParseRange reads "8080" or "8000-8010" into an inclusive range.
func ParseRange(spec string) (lo, hi int, err error) {
	spec = strings.TrimSpace(spec)
	loText, hiText, isRange := strings.Cut(spec, "-")
	lo, err = strconv.Atoi(strings.TrimSpace(loText))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid port range %q: %w", spec, err)
	}
	hi = lo
	if isRange {
		hi, err = strconv.Atoi(strings.TrimSpace(hiText))
		if err != nil {
			return 0, 0, fmt.Errorf("invalid port range %q: %w", spec, err)
		}
	}
	if err := checkPort(lo); err != nil {
		return 0, 0, err
	}
	if err := checkPort(hi); err != nil {
		return 0, 0, err
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi, nil
}

// ParsePortSpec reads an allocation request of the form
// "service[:port][/protocol]", for example "web:3000/udp" or "db".
func ParsePortSpec(s string) (model.PortSpec, error) {
	spec := model.PortSpec{Protocol: "tcp"}

	rest := strings.TrimSpace(s)
	if name, proto, ok := strings.Cut(rest, "/"); ok {
		rest, spec.Protocol = name, proto
	}
	if name, port, ok := strings.Cut(rest, ":"); ok {
		n, err := strconv.Atoi(port)
		if err != nil {
			return model.PortSpec{}, fmt.Errorf("invalid port in %q: %w", s, err)
		}
		if err := checkPort(n); err != nil {
			return model.PortSpec{}, err
		}
		rest, spec.Port = name, n
	}
	if rest == "" {
		return model.PortSpec{}, fmt.Errorf("missing service name in %q", s)
	}
	spec.ServiceName = rest

	if err := model.ValidateProtocol(spec.Protocol); err != nil {
		return model.PortSpec{}, err
	}
	return spec, nil
}

func checkPort(port int) error {
	if port < minPort || port > maxPort {
		return fmt.Errorf("port %d out of range (%d-%d)", port, minPort, maxPort)
	}
	return nil
}

func normalizeProtocol(protocol string) (string, error) {
	if protocol == "" {
		return "tcp", nil
	}
	if err := model.ValidateProtocol(protocol); err != nil {
		return "", err
	}
	return protocol, nil
}
