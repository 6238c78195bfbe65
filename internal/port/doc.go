// Package port implements port availability scanning and a reservation
// pool for the intervalset CLI.
//
// The Pool keeps reserved ports per protocol in interval sets, so large
// reserved ranges with a few released holes stay compact:
//
//	reserve 8000-8010, release 8005  ->  [8000,8005),(8005,8010],
//
// Allocation searches the pool range upward from the requested port,
// wrapping around once, and skips ports that are reserved or that the
// Prober reports as bound by another process. The Scanner is the Prober
// that asks the OS via net.Listen / net.ListenPacket.
package port
