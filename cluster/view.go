// cluster/view.go
package cluster

import "fmt"

// View is a fixed snapshot of a node's place in the cluster: its own
// address and the ordered list of peer addresses, fixed at construction.
// A View never supports registering or unregistering members at
// runtime — dynamic cluster membership is out of scope for this core.
type View struct {
	Self  string
	Peers []string
}

// New builds a View for self out of the full roster of cluster
// addresses, excluding self from its own peer list.
func New(self string, roster []string) View {
	peers := make([]string, 0, len(roster))
	for _, addr := range roster {
		if addr != self {
			peers = append(peers, addr)
		}
	}
	return View{Self: self, Peers: peers}
}

// N is the total cluster size, self included.
func (v View) N() int {
	return len(v.Peers) + 1
}

// Quorum is the strict majority of the cluster (glossary: ⌊N/2⌋+1).
func (v View) Quorum() int {
	return v.N()/2 + 1
}

func (v View) String() string {
	return fmt.Sprintf("%s (peers=%v)", v.Self, v.Peers)
}

// ReferenceRoster is the three-port cluster the reference harness
// hard-codes.
var ReferenceRoster = []string{
	"127.0.0.1:8081",
	"127.0.0.1:8082",
	"127.0.0.1:8083",
}
