// raft/transport.go
package raft

import (
	"net"
	"time"
)

// datagramBufferSize is the receive buffer; every message this protocol
// sends comfortably fits inside 1 KiB.
const datagramBufferSize = 1024

// Transport owns the single UDP socket a node sends and receives on: one
// type, two directions, no connection state to hold across calls.
type Transport struct {
	conn *net.UDPConn
}

// NewTransport binds a UDP socket to addr. A bind failure here is fatal
// at startup and propagates to the caller to abort node creation.
func NewTransport(addr string) (*Transport, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, err
	}
	return &Transport{conn: conn}, nil
}

// Send encodes and fires a single datagram at addr. Failures — the peer
// being unreachable, a full send buffer, a bad address — are transient
// and silently dropped; the protocol recovers via the next
// election/heartbeat retransmission.
func (t *Transport) Send(addr string, msg interface{}) {
	data, err := encodeMessage(msg)
	if err != nil {
		return
	}
	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return
	}
	_, _ = t.conn.WriteToUDP(data, raddr)
}

// Recv drains at most one datagram, waiting no longer than timeout. It
// returns ok=false on an empty read (deadline expiry — the event loop's
// non-blocking poll) or on a decode failure; the caller drops both
// silently.
func (t *Transport) Recv(timeout time.Duration) (msg interface{}, from string, ok bool) {
	_ = t.conn.SetReadDeadline(time.Now().Add(timeout))
	buf := make([]byte, datagramBufferSize)
	n, raddr, err := t.conn.ReadFromUDP(buf)
	if err != nil {
		return nil, "", false
	}
	decoded, err := decodeMessage(buf[:n])
	if err != nil {
		return nil, raddr.String(), false
	}
	return decoded, raddr.String(), true
}

// Close releases the socket. There is no structured shutdown protocol
// beyond this: once closed, the node's loop must stop calling Recv/Send.
func (t *Transport) Close() error {
	return t.conn.Close()
}
