// raft/logging.go
package raft

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger wraps a per-node zerolog.Logger with a specialized per-event
// method set, keyed to this node's address and a run-id.
type Logger struct {
	addr string
	zl   zerolog.Logger
}

// NewLogger builds the logger for a single node, tagging every line with
// its address and a run-id so repeated restarts of the same addr in a
// test harness don't get confused for one another in the log stream.
func NewLogger(addr string, runID string) *Logger {
	zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05.000", NoColor: true}).
		With().
		Timestamp().
		Str("node", addr).
		Str("run", runID).
		Logger()
	return &Logger{addr: addr, zl: zl}
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.zl.Debug().Msgf(format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.zl.Info().Msgf(format, args...)
}

// LogStateChange logs any transition between Follower, Candidate, and Leader.
func (l *Logger) LogStateChange(old, new NodeState, term uint64) {
	l.zl.Info().Msgf("Node %s %s -> %s (term=%d)", l.addr, old, new, term)
}

// LogElectionStart logs the Candidate entry action.
func (l *Logger) LogElectionStart(term uint64) {
	l.zl.Info().Msgf("Node %s became Candidate for term %d", l.addr, term)
}

// LogBecameLeader announces a node winning an election.
func (l *Logger) LogBecameLeader(term uint64) {
	l.zl.Info().Msgf("Node %s became Leader for term %d", l.addr, term)
}

func (l *Logger) LogVoteGranted(candidateID string, term uint64) {
	l.zl.Info().Msgf("Node %s voted for %s in term %d", l.addr, candidateID, term)
}

func (l *Logger) LogVoteDenied(candidateID string, term uint64) {
	l.zl.Debug().Msgf("Node %s denied vote to %s for term %d", l.addr, candidateID, term)
}

func (l *Logger) LogVoteReceived(term uint64, votesReceived int) {
	l.zl.Debug().Msgf("Node %s received a vote for term %d, total votes: %d", l.addr, term, votesReceived)
}

// LogHeartbeatReceived announces a follower hearing from its leader.
func (l *Logger) LogHeartbeatReceived(leaderID string, term uint64) {
	l.zl.Debug().Msgf("Node %s received heartbeat from Leader %s in term %d", l.addr, leaderID, term)
}

func (l *Logger) LogHeartbeatSent(term uint64, peerCount int) {
	l.zl.Debug().Msgf("Node %s sent heartbeats to %d peers (term=%d)", l.addr, peerCount, term)
}

func (l *Logger) LogStepDown(oldTerm, newTerm uint64) {
	l.zl.Info().Msgf("Node %s stepping down: term %d -> %d", l.addr, oldTerm, newTerm)
}

func (l *Logger) LogElectionLost(term uint64, votesReceived, votesNeeded int) {
	l.zl.Debug().Msgf("Node %s election for term %d ended without quorum (votes=%d/%d)", l.addr, term, votesReceived, votesNeeded)
}
