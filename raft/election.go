// raft/election.go
package raft

import "time"

// startElection is the Follower/Candidate -> Candidate entry action:
// increment the term, vote for self, redraw the election timeout, and
// broadcast RequestVote to every peer. The lock is released before any
// datagram is sent.
func (n *Node) startElection() {
	n.mu.Lock()
	oldState := n.state
	oldTerm := n.currentTerm
	oldVotes := n.votesReceived
	oldPeerCount := len(n.peers)
	n.state = Candidate
	n.currentTerm++
	n.votesReceived = 1
	n.electionTimeout = n.randomElectionTimeout()
	n.lastHeartbeat = time.Now()
	term := n.currentTerm
	addr := n.addr
	peers := append([]string(nil), n.peers...)
	// The self-vote alone can already clear quorum when there are too
	// few peers to need a second grant — most relevantly a single-node
	// deployment, which production clusters never run but tests exercise
	// directly.
	wonImmediately := hasQuorum(n.votesReceived, len(peers))
	if wonImmediately {
		n.state = Leader
	}
	n.mu.Unlock()

	if oldState == Candidate {
		n.logger.LogElectionLost(oldTerm, oldVotes, oldPeerCount/2+1)
	} else {
		n.logger.LogStateChange(oldState, Candidate, term)
	}
	n.logger.LogElectionStart(term)

	if wonImmediately {
		n.logger.LogStateChange(Candidate, Leader, term)
		n.logger.LogBecameLeader(term)
		n.broadcastHeartbeat()
		return
	}

	req := RequestVoteMsg{Term: term, CandidateID: addr}
	for _, peer := range peers {
		n.transport.Send(peer, req)
	}
}

// broadcastHeartbeat is the Leader's periodic (and on-entry) AppendEntries
// broadcast. It carries no log entries — this core only elects leaders
// and keeps them alive.
func (n *Node) broadcastHeartbeat() {
	n.mu.Lock()
	if n.state != Leader {
		n.mu.Unlock()
		return
	}
	term := n.currentTerm
	addr := n.addr
	peers := append([]string(nil), n.peers...)
	n.mu.Unlock()

	msg := AppendEntriesMsg{Term: term, LeaderID: addr}
	for _, peer := range peers {
		n.transport.Send(peer, msg)
	}
	n.logger.LogHeartbeatSent(term, len(peers))
}

// onRequestVote handles an inbound RequestVote. A vote is granted only
// when the request's term strictly exceeds ours at arrival — deliberately
// stricter than canonical Raft (which would also grant within an equal,
// not-yet-voted term), at the cost of an extra election round in some
// traces.
func (n *Node) onRequestVote(msg RequestVoteMsg) {
	n.mu.Lock()
	oldState := n.state
	grant := msg.Term > n.currentTerm
	if grant {
		n.applyTermDominanceLocked(msg.Term)
		n.electionTimeout = n.randomElectionTimeout()
		n.lastHeartbeat = time.Now()
	}
	term := n.currentTerm
	n.mu.Unlock()

	if grant {
		if oldState != Follower {
			n.logger.LogStateChange(oldState, Follower, term)
		}
		n.logger.LogVoteGranted(msg.CandidateID, term)
		n.transport.Send(msg.CandidateID, VoteGrantedMsg{Term: term})
		return
	}
	n.logger.LogVoteDenied(msg.CandidateID, msg.Term)
}

// onAppendEntries handles an inbound heartbeat. Any term at least as
// current as ours is accepted: the sender is recognized as leader, we
// become (or stay) Follower, and the election timeout resets.
func (n *Node) onAppendEntries(msg AppendEntriesMsg) {
	n.mu.Lock()
	priorTerm := n.currentTerm
	oldState := n.state
	if msg.Term > priorTerm {
		n.applyTermDominanceLocked(msg.Term)
	}
	accept := msg.Term >= priorTerm
	if accept {
		n.state = Follower
		n.electionTimeout = n.randomElectionTimeout()
		n.lastHeartbeat = time.Now()
	}
	term := n.currentTerm
	n.mu.Unlock()

	if !accept {
		return
	}
	if oldState != Follower {
		n.logger.LogStateChange(oldState, Follower, term)
	}
	n.logger.LogHeartbeatReceived(msg.LeaderID, term)
}

// onVoteGranted handles a vote reply. Stale grants (term mismatch) and
// grants while not Candidate are silently ignored. Grants are not
// deduplicated by sender: a duplicated or replayed grant is counted
// again.
func (n *Node) onVoteGranted(msg VoteGrantedMsg) {
	n.mu.Lock()
	if msg.Term > n.currentTerm {
		n.applyTermDominanceLocked(msg.Term)
	}
	grant := n.state == Candidate && msg.Term == n.currentTerm
	becameLeader := false
	var votes, peerCount int
	if grant {
		n.votesReceived++
		votes = n.votesReceived
		peerCount = len(n.peers)
		if hasQuorum(votes, peerCount) {
			n.state = Leader
			becameLeader = true
		}
	}
	term := n.currentTerm
	n.mu.Unlock()

	if !grant {
		return
	}
	n.logger.LogVoteReceived(term, votes)
	if becameLeader {
		n.logger.LogStateChange(Candidate, Leader, term)
		n.logger.LogBecameLeader(term)
		n.broadcastHeartbeat()
	}
}
