// raft/util.go
package raft

import (
	"crypto/rand"
	"encoding/binary"
	mathrand "math/rand"
)

// seedFromCryptoRand draws a fresh int64 seed from crypto/rand. Each node
// gets its own math/rand source seeded this way rather than sharing the
// package-level math/rand default source, which would need its own
// locking to be safe across concurrently-running nodes in one process.
func seedFromCryptoRand() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand failing is effectively unrecoverable on any real
		// platform; fall back to a fixed seed rather than panic, since
		// a slightly-less-random election timeout is still a valid one.
		return 0x5EED
	}
	return int64(binary.BigEndian.Uint64(buf[:]))
}

// newNodeRand builds the per-node randomness source used to draw
// election timeouts.
func newNodeRand() *mathrand.Rand {
	return mathrand.New(mathrand.NewSource(seedFromCryptoRand()))
}

// hasQuorum reports whether votesReceived (self-vote included) clears
// the quorum threshold for a cluster with the given peer count:
// votesReceived > peerCount/2. For an odd-sized cluster this is a strict
// majority; for an even-sized one it is exactly half (2 of 4).
func hasQuorum(votesReceived, peerCount int) bool {
	return votesReceived > peerCount/2
}
