// raft/election_test.go
package raft

import (
	"testing"
	"time"
)

func TestVoteGrantedOnlyForHigherTerm(t *testing.T) {
	n := newTestNode(t, "127.0.0.1:19301", []string{"127.0.0.1:19302"})
	listener := newTestNode(t, "127.0.0.1:19302", nil)

	n.onRequestVote(RequestVoteMsg{Term: 1, CandidateID: listener.addr})
	if term, state := n.State(); term != 1 || state != Follower {
		t.Fatalf("expected term=1 Follower after granting, got term=%d state=%s", term, state)
	}

	msg, _, ok := listener.transport.Recv(500 * time.Millisecond)
	if !ok {
		t.Fatal("expected a VoteGranted reply on the wire")
	}
	vg, ok := msg.(VoteGrantedMsg)
	if !ok || vg.Term != 1 {
		t.Fatalf("expected VoteGranted{Term:1}, got %#v", msg)
	}

	// A second RequestVote at the same term must not be granted again:
	// term 1 no longer strictly exceeds currentTerm 1.
	n.onRequestVote(RequestVoteMsg{Term: 1, CandidateID: listener.addr})
	if _, _, ok := listener.transport.Recv(50 * time.Millisecond); ok {
		t.Fatal("a same-term RequestVote should not have produced a second grant")
	}
}

func TestStaleVoteGrantedIsIgnored(t *testing.T) {
	n := newTestNode(t, "127.0.0.1:19310", []string{"127.0.0.1:19311", "127.0.0.1:19312"})

	n.mu.Lock()
	n.state = Candidate
	n.currentTerm = 5
	n.votesReceived = 1
	n.mu.Unlock()

	n.onVoteGranted(VoteGrantedMsg{Term: 0})

	n.mu.Lock()
	votes, state, term := n.votesReceived, n.state, n.currentTerm
	n.mu.Unlock()

	if votes != 1 {
		t.Errorf("stale vote grant should not have been counted, votes=%d", votes)
	}
	if state != Candidate {
		t.Errorf("expected to remain Candidate, got %s", state)
	}
	if term != 5 {
		t.Errorf("expected term to remain 5, got %d", term)
	}
}

func TestHigherTermRequestVoteDemotesLeader(t *testing.T) {
	leader := newTestNode(t, "127.0.0.1:19320", []string{"127.0.0.1:19321"})
	candidate := newTestNode(t, "127.0.0.1:19321", nil)

	leader.mu.Lock()
	leader.state = Leader
	leader.currentTerm = 5
	leader.mu.Unlock()

	leader.onRequestVote(RequestVoteMsg{Term: 99, CandidateID: candidate.addr})

	term, state := leader.State()
	if state != Follower {
		t.Fatalf("expected a higher-term RequestVote to demote the leader to Follower, got %s", state)
	}
	if term != 99 {
		t.Fatalf("expected term to adopt 99, got %d", term)
	}

	msg, _, ok := candidate.transport.Recv(500 * time.Millisecond)
	if !ok {
		t.Fatal("expected the demoted node to still grant the vote")
	}
	if vg, ok := msg.(VoteGrantedMsg); !ok || vg.Term != 99 {
		t.Fatalf("expected VoteGranted{Term:99}, got %#v", msg)
	}
}

func TestHigherTermHeartbeatDemotesLeader(t *testing.T) {
	leader := newTestNode(t, "127.0.0.1:19330", []string{"127.0.0.1:19331"})

	leader.mu.Lock()
	leader.state = Leader
	leader.currentTerm = 5
	leader.mu.Unlock()

	leader.onAppendEntries(AppendEntriesMsg{Term: 9, LeaderID: "127.0.0.1:19331"})

	term, state := leader.State()
	if state != Follower {
		t.Fatalf("expected heartbeat at a higher term to demote the leader, got %s", state)
	}
	if term != 9 {
		t.Fatalf("expected term to adopt 9, got %d", term)
	}
}

func TestStaleHeartbeatIsRejected(t *testing.T) {
	n := newTestNode(t, "127.0.0.1:19340", nil)

	n.mu.Lock()
	n.state = Follower
	n.currentTerm = 7
	n.mu.Unlock()

	n.onAppendEntries(AppendEntriesMsg{Term: 3, LeaderID: "127.0.0.1:19341"})

	term, state := n.State()
	if term != 7 {
		t.Errorf("a heartbeat from a stale term should not change the term, got %d", term)
	}
	if state != Follower {
		t.Errorf("expected to remain Follower, got %s", state)
	}
}

func TestQuorumRequiresStrictMajorityOfVotes(t *testing.T) {
	// Five-node cluster: 4 peers, quorum is votesReceived > 2, i.e. 3.
	n := newTestNode(t, "127.0.0.1:19350", []string{
		"127.0.0.1:19351", "127.0.0.1:19352", "127.0.0.1:19353", "127.0.0.1:19354",
	})

	n.mu.Lock()
	n.state = Candidate
	n.currentTerm = 1
	n.votesReceived = 1
	n.mu.Unlock()

	n.onVoteGranted(VoteGrantedMsg{Term: 1})
	if _, state := n.State(); state != Candidate {
		t.Fatalf("2 of 5 votes should not yet be quorum, got %s", state)
	}

	n.onVoteGranted(VoteGrantedMsg{Term: 1})
	if _, state := n.State(); state != Leader {
		t.Fatalf("3 of 5 votes should clear quorum, got %s", state)
	}
}

func TestVoteGrantedWhileNotCandidateIsIgnored(t *testing.T) {
	n := newTestNode(t, "127.0.0.1:19360", []string{"127.0.0.1:19361"})

	n.mu.Lock()
	n.state = Follower
	n.currentTerm = 2
	n.mu.Unlock()

	n.onVoteGranted(VoteGrantedMsg{Term: 2})

	if _, state := n.State(); state != Follower {
		t.Fatalf("a vote grant while Follower must not promote to Leader, got %s", state)
	}
}
