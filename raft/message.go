// raft/message.go
package raft

import (
	"encoding/json"
	"fmt"
)

// RequestVoteMsg is sent by a Candidate to solicit a vote.
type RequestVoteMsg struct {
	Term        uint64
	CandidateID string
}

// AppendEntriesMsg is the heartbeat broadcast by the Leader. It never
// carries log entries — replication is out of scope for this core.
type AppendEntriesMsg struct {
	Term     uint64
	LeaderID string
}

// VoteGrantedMsg is the reply to a granted RequestVote.
type VoteGrantedMsg struct {
	Term uint64
}

// wire types carry the exact JSON field names the externally-tagged
// encoding uses: {"RequestVote": {"term":.., "candidate_id":..}}.
type requestVoteWire struct {
	Term        uint64 `json:"term"`
	CandidateID string `json:"candidate_id"`
}

type appendEntriesWire struct {
	Term     uint64 `json:"term"`
	LeaderID string `json:"leader_id"`
}

type voteGrantedWire struct {
	Term uint64 `json:"term"`
}

type envelope struct {
	RequestVote   *requestVoteWire   `json:"RequestVote,omitempty"`
	AppendEntries *appendEntriesWire `json:"AppendEntries,omitempty"`
	VoteGranted   *voteGrantedWire   `json:"VoteGranted,omitempty"`
}

// encodeMessage serializes one of the three message kinds into the
// externally-tagged JSON envelope the wire protocol requires.
func encodeMessage(msg interface{}) ([]byte, error) {
	switch m := msg.(type) {
	case RequestVoteMsg:
		return json.Marshal(envelope{RequestVote: &requestVoteWire{Term: m.Term, CandidateID: m.CandidateID}})
	case AppendEntriesMsg:
		return json.Marshal(envelope{AppendEntries: &appendEntriesWire{Term: m.Term, LeaderID: m.LeaderID}})
	case VoteGrantedMsg:
		return json.Marshal(envelope{VoteGranted: &voteGrantedWire{Term: m.Term}})
	default:
		return nil, fmt.Errorf("raft: unknown message type %T", msg)
	}
}

// decodeMessage parses a datagram payload into one of the three message
// kinds. Unknown variants or malformed JSON are reported as an error; the
// caller treats this as a non-fatal, silently-dropped decode failure.
func decodeMessage(data []byte) (interface{}, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	switch {
	case env.RequestVote != nil:
		return RequestVoteMsg{Term: env.RequestVote.Term, CandidateID: env.RequestVote.CandidateID}, nil
	case env.AppendEntries != nil:
		return AppendEntriesMsg{Term: env.AppendEntries.Term, LeaderID: env.AppendEntries.LeaderID}, nil
	case env.VoteGranted != nil:
		return VoteGrantedMsg{Term: env.VoteGranted.Term}, nil
	default:
		return nil, fmt.Errorf("raft: datagram did not match any known message variant")
	}
}
