package port

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/intervalset/internal/model"
)

func newTestPool(t *testing.T, prober Prober, start, end int) *Pool {
	t.Helper()
	pool, err := NewPool(prober, start, end)
	require.NoError(t, err)
	return pool
}

// TestNewPool_InvalidRange verifies that ranges outside 1-65535 or
// inverted ranges are rejected.
func TestNewPool_InvalidRange(t *testing.T) {
	for _, r := range [][2]int{{0, 10}, {10, 70000}, {500, 100}} {
		_, err := NewPool(nil, r[0], r[1])
		assert.Error(t, err, "range %v", r)
	}
}

// TestPool_ReserveAndRelease verifies that a released port inside a
// reserved range becomes a hole rather than splitting the range.
func TestPool_ReserveAndRelease(t *testing.T) {
	pool := newTestPool(t, nil, 1000, 9999)

	require.NoError(t, pool.ReserveSpec("8000-8010", "tcp"))
	require.NoError(t, pool.ReserveSpec("9000", ""))
	require.NoError(t, pool.Release(8005, "tcp"))

	assert.Equal(t, "[8000,8005),(8005,8010],≠9000,", pool.Render("tcp"))
	assert.True(t, pool.IsReserved(8004, "tcp"))
	assert.False(t, pool.IsReserved(8005, "tcp"))
	assert.True(t, pool.IsReserved(9000, "tcp"))
	assert.False(t, pool.IsReserved(8004, "udp"), "reservations are per protocol")
	assert.Equal(t, 11, pool.ReservedCount("tcp"))

	require.NoError(t, pool.Reserve(8005, 8005, "tcp"))
	assert.Equal(t, "[8000,8010],≠9000,", pool.Render("tcp"), "re-reserving fills the hole")
	assert.Equal(t, 12, pool.ReservedCount("tcp"))
	assert.Equal(t, []string{"tcp"}, pool.Protocols())
}

// TestPool_ReserveMerges verifies that overlapping and touching ranges
// collapse into one stored interval.
func TestPool_ReserveMerges(t *testing.T) {
	pool := newTestPool(t, nil, 1, 65535)

	require.NoError(t, pool.Reserve(3010, 3000, "udp"))
	require.NoError(t, pool.Reserve(3005, 3020, "udp"))
	require.NoError(t, pool.Reserve(3020, 3030, "udp"))

	assert.Equal(t, "[3000,3030],", pool.Render("udp"))
	assert.Equal(t, 31, pool.ReservedCount("udp"))
}

// TestPool_ReserveErrors verifies input validation.
func TestPool_ReserveErrors(t *testing.T) {
	pool := newTestPool(t, nil, 1, 65535)

	assert.Error(t, pool.Reserve(0, 10, "tcp"))
	assert.Error(t, pool.Reserve(10, 70000, "tcp"))
	assert.Error(t, pool.Reserve(10, 20, "sctp"))
	assert.Error(t, pool.ReserveSpec("80-abc", "tcp"))
	assert.Error(t, pool.Release(0, "tcp"))
	assert.Empty(t, pool.Protocols())
}

// TestPool_Allocate verifies that allocation starts at the requested port
// and skips reserved and busy ports.
func TestPool_Allocate(t *testing.T) {
	pool := newTestPool(t, newFakeProber(3003), 3000, 3010)
	require.NoError(t, pool.Reserve(3000, 3002, "tcp"))

	alloc, err := pool.Allocate(model.PortSpec{ServiceName: "web", Port: 3000, Label: "frontend"})
	require.NoError(t, err)
	assert.Equal(t, 3004, alloc.HostPort, "3000-3002 are reserved and 3003 is busy")
	assert.Equal(t, 3000, alloc.RequestedPort)
	assert.Equal(t, "tcp", alloc.Protocol)
	assert.Equal(t, "frontend", alloc.Label)
	assert.True(t, pool.IsReserved(3004, "tcp"), "allocated ports are reserved")

	again, err := pool.Allocate(model.PortSpec{ServiceName: "api", Port: 3004})
	require.NoError(t, err)
	assert.Equal(t, 3005, again.HostPort, "a port is never handed out twice")

	assert.Equal(t, "[3000,3002],≠3004,≠3005,", pool.Render("tcp"))
	assert.Len(t, pool.Allocations(), 2)
}

// TestPool_Allocate_Wraps verifies that the search wraps to the start of
// the range and that a requested port outside the range is ignored.
func TestPool_Allocate_Wraps(t *testing.T) {
	pool := newTestPool(t, nil, 100, 105)
	require.NoError(t, pool.Reserve(103, 105, "tcp"))

	alloc, err := pool.Allocate(model.PortSpec{ServiceName: "a", Port: 104})
	require.NoError(t, err)
	assert.Equal(t, 100, alloc.HostPort)

	alloc, err = pool.Allocate(model.PortSpec{ServiceName: "b", Port: 9999})
	require.NoError(t, err)
	assert.Equal(t, 101, alloc.HostPort)
}

// TestPool_Allocate_Exhausted verifies the error once every port is taken.
func TestPool_Allocate_Exhausted(t *testing.T) {
	pool := newTestPool(t, newFakeProber(102), 100, 102)
	require.NoError(t, pool.Reserve(100, 101, "tcp"))

	_, err := pool.Allocate(model.PortSpec{ServiceName: "a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no available tcp port")

	alloc, err := pool.Allocate(model.PortSpec{ServiceName: "a", Protocol: "udp"})
	require.NoError(t, err, "udp has no reservations")
	assert.Equal(t, 100, alloc.HostPort)
}

// TestPool_AllocateMany_RollsBack verifies that a failing batch leaves no
// partial reservations behind.
func TestPool_AllocateMany_RollsBack(t *testing.T) {
	pool := newTestPool(t, nil, 100, 101)

	allocs, err := pool.AllocateMany([]model.PortSpec{{ServiceName: "a"}, {ServiceName: "b"}})
	require.NoError(t, err)
	assert.Equal(t, []int{100, 101}, []int{allocs[0].HostPort, allocs[1].HostPort})

	require.NoError(t, pool.Release(100, "tcp"))
	require.NoError(t, pool.Release(101, "tcp"))
	assert.Empty(t, pool.Allocations())
	assert.Equal(t, "", pool.Render("tcp"))

	_, err = pool.AllocateMany([]model.PortSpec{{ServiceName: "a"}, {ServiceName: "b"}, {ServiceName: "c"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to allocate port for c")
	assert.Equal(t, "", pool.Render("tcp"), "partial batch must be released")
	assert.Empty(t, pool.Allocations())
}

// TestParseRange covers single ports, ranges and reversed ranges.
func TestParseRange(t *testing.T) {
	tests := []struct {
		input  string
		lo, hi int
	}{
		{"8080", 8080, 8080},
		{"8000-8010", 8000, 8010},
		{" 8010 - 8000 ", 8000, 8010},
	}
	for _, tt := range tests {
		lo, hi, err := ParseRange(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.lo, lo, tt.input)
		assert.Equal(t, tt.hi, hi, tt.input)
	}

	for _, bad := range []string{"", "http", "0", "1-70000", "5-"} {
		_, _, err := ParseRange(bad)
		assert.Error(t, err, bad)
	}
}

// TestParsePortSpec covers every optional part of the request syntax.
func TestParsePortSpec(t *testing.T) {
	tests := []struct {
		input string
		want  model.PortSpec
	}{
		{"db", model.PortSpec{ServiceName: "db", Protocol: "tcp"}},
		{"web:3000", model.PortSpec{ServiceName: "web", Port: 3000, Protocol: "tcp"}},
		{"dns:53/udp", model.PortSpec{ServiceName: "dns", Port: 53, Protocol: "udp"}},
		{"syslog/udp", model.PortSpec{ServiceName: "syslog", Protocol: "udp"}},
	}
	for _, tt := range tests {
		got, err := ParsePortSpec(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}

	for _, bad := range []string{"", ":3000", "web:http", "web:0", "web/sctp"} {
		_, err := ParsePortSpec(bad)
		assert.Error(t, err, bad)
	}
}
