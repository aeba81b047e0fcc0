// raft/node.go
package raft

import (
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// NodeState enumerates a node's role in the cluster.
type NodeState int

const (
	Follower NodeState = iota
	Candidate
	Leader
)

func (s NodeState) String() string {
	switch s {
	case Follower:
		return "Follower"
	case Candidate:
		return "Candidate"
	case Leader:
		return "Leader"
	default:
		return "Unknown"
	}
}

// Timing knobs. They are package vars, not consts, so a test can tighten
// them rather than waiting out the production timeout values.
var (
	ElectionTimeoutMin = 150 * time.Millisecond
	ElectionTimeoutMax = 300 * time.Millisecond
	HeartbeatInterval  = 100 * time.Millisecond
	IdleYield          = 10 * time.Millisecond
)

// Config configures a single node at construction. Identity and peer
// list are fixed for the node's lifetime.
type Config struct {
	Addr  string
	Peers []string
}

// Node is one member of the cluster: receiver, timer loop, and sender in
// one. Its mutable fields are guarded by a single mutex, acquired and
// released around each logical step — never held across network I/O or
// the heartbeat/idle sleeps.
type Node struct {
	mu sync.Mutex

	addr  string
	peers []string

	state           NodeState
	currentTerm     uint64
	votesReceived   int
	electionTimeout time.Duration
	lastHeartbeat   time.Time

	rng *mathrand.Rand

	transport *Transport
	logger    *Logger
	runID     string

	shutdownCh chan struct{}
	wg         sync.WaitGroup
}

// NewNode binds the node's transport and returns it ready to Start. A
// socket bind failure is fatal at startup and is returned to the caller
// unwrapped.
func NewNode(cfg Config) (*Node, error) {
	transport, err := NewTransport(cfg.Addr)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	n := &Node{
		addr:       cfg.Addr,
		peers:      append([]string(nil), cfg.Peers...),
		state:      Follower,
		transport:  transport,
		logger:     NewLogger(cfg.Addr, runID),
		runID:      runID,
		shutdownCh: make(chan struct{}),
		rng:        newNodeRand(),
	}
	n.lastHeartbeat = time.Now()
	n.electionTimeout = n.randomElectionTimeout()
	return n, nil
}

// randomElectionTimeout draws a fresh, uniformly distributed timeout in
// [ElectionTimeoutMin, ElectionTimeoutMax). Caller must hold n.mu, since
// n.rng is not safe for concurrent use.
func (n *Node) randomElectionTimeout() time.Duration {
	span := ElectionTimeoutMax - ElectionTimeoutMin
	if span <= 0 {
		return ElectionTimeoutMin
	}
	return ElectionTimeoutMin + time.Duration(n.rng.Int63n(int64(span)))
}

// Start launches the node's single logical loop as its own goroutine.
// It returns immediately; the loop runs until Shutdown is called.
func (n *Node) Start() {
	n.wg.Add(1)
	go n.run()
}

// Shutdown stops the loop goroutine and releases the socket. Calling it
// again after it has returned does nothing.
func (n *Node) Shutdown() {
	select {
	case <-n.shutdownCh:
		return
	default:
	}
	close(n.shutdownCh)
	n.wg.Wait()
	_ = n.transport.Close()
}

// State returns the current term and role, for callers and test
// harnesses that need it without scraping logs.
func (n *Node) State() (term uint64, state NodeState) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.currentTerm, n.state
}

// run is the single event loop interleaving timeout checks, heartbeat
// ticks, and datagram receipt.
func (n *Node) run() {
	defer n.wg.Done()
	for {
		select {
		case <-n.shutdownCh:
			return
		default:
		}
		n.tick()
	}
}

// tick performs one iteration of the loop: timeout check, heartbeat
// tick, receive, idle pacing, in that order. Only one of the four
// branches fires per call; the idle/receive and leader-drain cases share
// the same short, non-blocking wait on the socket.
func (n *Node) tick() {
	n.mu.Lock()
	state := n.state
	elapsed := time.Since(n.lastHeartbeat)
	timedOut := state != Leader && elapsed >= n.electionTimeout
	n.mu.Unlock()

	if timedOut {
		n.startElection()
		return
	}

	if state == Leader {
		n.broadcastHeartbeat()
		n.drainWhileLeader(HeartbeatInterval)
		return
	}

	msg, from, ok := n.transport.Recv(IdleYield)
	if ok {
		n.dispatch(msg, from)
	}
}

// drainWhileLeader keeps polling the socket for up to d, dispatching
// whatever arrives, instead of blindly sleeping through the heartbeat
// interval. A Leader still needs to observe inbound RequestVote and
// AppendEntries traffic from a higher term so it can step down; a plain
// sleep here would make a running Leader deaf until its next heartbeat.
// It returns early if dispatch demotes this node away from Leader.
func (n *Node) drainWhileLeader(d time.Duration) {
	deadline := time.Now().Add(d)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return
		}
		wait := IdleYield
		if wait > remaining {
			wait = remaining
		}
		msg, from, ok := n.transport.Recv(wait)
		if ok {
			n.dispatch(msg, from)
		}
		n.mu.Lock()
		stillLeader := n.state == Leader
		n.mu.Unlock()
		if !stillLeader {
			return
		}
	}
}

// dispatch decodes nothing itself (the transport already did) and routes
// a decoded message to its handler.
func (n *Node) dispatch(msg interface{}, from string) {
	switch m := msg.(type) {
	case RequestVoteMsg:
		n.onRequestVote(m)
	case AppendEntriesMsg:
		n.onAppendEntries(m)
	case VoteGrantedMsg:
		n.onVoteGranted(m)
	default:
		_ = from
	}
}

// applyTermDominanceLocked enforces term dominance: observing a higher
// term always demotes to Follower and adopts the term, before any
// type-specific handling runs. Caller must hold n.mu.
func (n *Node) applyTermDominanceLocked(term uint64) {
	oldState := n.state
	oldTerm := n.currentTerm
	n.currentTerm = term
	n.state = Follower
	if oldState == Leader || oldState == Candidate {
		n.logger.LogStepDown(oldTerm, term)
	}
}
