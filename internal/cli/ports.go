// Package cli: ports.go implements the "intervalset ports" command.
//
// The ports command builds a port pool from the configured reservations,
// applies the reservations, releases and allocations given as flags in
// that order, and prints the reserved ports per protocol in interval
// notation together with the allocations made.
package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/intervalset/internal/model"
	"github.com/shinji-kodama/intervalset/internal/port"
)

// portsFlags holds the flag values for the ports command.
type portsFlags struct {
	reserve  []string // --reserve: ports or ranges to reserve
	release  []string // --release: single ports to release
	allocate []string // --allocate: service[:port][/protocol] requests
	protocol string   // --protocol: protocol for --reserve and --release
	start    int      // --start: first port of the pool range
	end      int      // --end: last port of the pool range
	scan     bool     // --scan: skip ports bound on this host
	busy     bool     // --busy: list ports bound on this host
}

// NewPortsCommand creates the "ports" cobra command.
func NewPortsCommand() *cobra.Command {
	flags := &portsFlags{}

	cmd := &cobra.Command{
		Use:   "ports",
		Short: "Reserve, release and allocate ports",
		Long: `Manage a port pool whose reservations are stored as interval sets.

Reservations from the configuration file (ports.reserved) are applied
first, then --reserve, --release and --allocate in that order.

Examples:
  intervalset ports --reserve 8000-8010 --release 8005
  intervalset ports --allocate web:3000 --allocate dns:53/udp --scan
  intervalset ports --busy --start 3000 --end 3100`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runPorts(cmd, flags)
		},
	}

	cmd.Flags().StringArrayVar(&flags.reserve, "reserve", nil, "Port or range to reserve, e.g. 8000-8010 (repeatable)")
	cmd.Flags().StringArrayVar(&flags.release, "release", nil, "Port to release (repeatable)")
	cmd.Flags().StringArrayVar(&flags.allocate, "allocate", nil, "Allocation request service[:port][/protocol] (repeatable)")
	cmd.Flags().StringVar(&flags.protocol, "protocol", "", "Protocol for --reserve/--release (default from config)")
	cmd.Flags().IntVar(&flags.start, "start", 0, "First port of the pool range (default from config)")
	cmd.Flags().IntVar(&flags.end, "end", 0, "Last port of the pool range (default from config)")
	cmd.Flags().BoolVar(&flags.scan, "scan", false, "Skip ports already bound on this host when allocating")
	cmd.Flags().BoolVar(&flags.busy, "busy", false, "List ports in the pool range bound on this host")

	return cmd
}

// portsResult is the JSON output structure of the ports command.
type portsResult struct {
	Start       int                    `json:"start"`
	End         int                    `json:"end"`
	Reserved    map[string]string      `json:"reserved"`
	Counts      map[string]int         `json:"counts"`
	Allocations []model.PortAllocation `json:"allocations"`
	Busy        map[string]string      `json:"busy,omitempty"`
}

func runPorts(cmd *cobra.Command, flags *portsFlags) error {
	start, end := settings.Ports.Start, settings.Ports.End
	if flags.start != 0 {
		start = flags.start
	}
	if flags.end != 0 {
		end = flags.end
	}
	protocol := settings.Ports.Protocol
	if flags.protocol != "" {
		protocol = flags.protocol
	}

	var prober port.Prober
	if flags.scan {
		prober = port.NewScanner()
	}
	pool, err := port.NewPool(prober, start, end)
	if err != nil {
		return model.WrapCLIError(model.ExitPortAllocationFailed, "invalid port pool", err)
	}
	VerboseLog("Port pool %d-%d (default protocol %s, scan=%t)", start, end, protocol, flags.scan)

	reservations := append(append([]string(nil), settings.Ports.Reserved...), flags.reserve...)
	for _, spec := range reservations {
		if err := pool.ReserveSpec(spec, protocol); err != nil {
			return model.WrapCLIError(model.ExitInvalidValue, fmt.Sprintf("invalid reservation %q", spec), err)
		}
	}
	for _, raw := range flags.release {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err == nil {
			err = pool.Release(n, protocol)
		}
		if err != nil {
			return model.WrapCLIError(model.ExitInvalidValue, fmt.Sprintf("invalid release %q", raw), err)
		}
	}

	specs := make([]model.PortSpec, 0, len(flags.allocate))
	for _, raw := range flags.allocate {
		spec, err := port.ParsePortSpec(raw)
		if err != nil {
			return model.WrapCLIError(model.ExitInvalidValue, fmt.Sprintf("invalid allocation request %q", raw), err)
		}
		specs = append(specs, spec)
	}
	allocations, err := pool.AllocateMany(specs)
	if err != nil {
		return model.WrapCLIError(model.ExitPortAllocationFailed, "port allocation failed", err)
	}

	res := portsResult{
		Start:       start,
		End:         end,
		Reserved:    make(map[string]string),
		Counts:      make(map[string]int),
		Allocations: allocations,
	}
	for _, proto := range pool.Protocols() {
		res.Reserved[proto] = pool.Render(proto)
		res.Counts[proto] = pool.ReservedCount(proto)
	}
	if flags.busy {
		res.Busy = make(map[string]string)
		for _, proto := range []string{"tcp", "udp"} {
			VerboseLog("Scanning %s ports %d-%d", proto, start, end)
			res.Busy[proto] = port.Busy(port.NewScanner(), start, end, proto).String()
		}
	}

	out := cmd.OutOrStdout()
	if IsJSONOutput() {
		return printJSON(out, res)
	}
	printPortsText(out, res)
	return nil
}

// printPortsText writes the ports result as text:
//
//	pool 20000-29999
//	tcp reserved (10 ports): [8000,8005),(8005,8010],
//	web → 20000/tcp
func printPortsText(w io.Writer, res portsResult) {
	fmt.Fprintf(w, "pool %d-%d\n", res.Start, res.End)
	if len(res.Reserved) == 0 {
		fmt.Fprintln(w, "no reservations")
	}
	for _, proto := range sortedKeys(res.Reserved) {
		fmt.Fprintf(w, "%s reserved (%s): %s\n", proto, plural(res.Counts[proto], "port"), intervalColor.Sprint(res.Reserved[proto]))
	}
	for i := range res.Allocations {
		fmt.Fprintln(w, res.Allocations[i].String())
	}
	for _, proto := range sortedKeys(res.Busy) {
		busy := res.Busy[proto]
		if busy == "" {
			busy = "none"
		}
		fmt.Fprintf(w, "%s busy: %s\n", proto, pointColor.Sprint(busy))
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
