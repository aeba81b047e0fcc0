// cmd/node/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/dott13/raft-lab3/cluster"
	"github.com/dott13/raft-lab3/raft"
)

func main() {
	addr := flag.String("addr", "", "this node's address (host:port); with -peers, runs a single node")
	peers := flag.String("peers", "", "comma-separated peer addresses (only used with -addr)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *addr == "" {
		// No flags: run the reference three-port cluster in one process,
		// one goroutine per endpoint.
		if err := runCluster(ctx, cluster.ReferenceRoster, cluster.ReferenceRoster); err != nil {
			log.Fatalf("cluster exited with error: %v", err)
		}
		return
	}

	roster := append([]string{*addr}, splitPeers(*peers)...)
	if err := runCluster(ctx, []string{*addr}, roster); err != nil {
		log.Fatalf("node exited with error: %v", err)
	}
}

func splitPeers(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// runCluster starts one raft.Node per address in local, each peered with
// the rest of roster, and blocks until ctx is cancelled. A bind failure is
// fatal at startup: it is returned at once, before any node is started.
// The errgroup runs a single goroutine that shuts every node down once ctx
// is cancelled.
func runCluster(ctx context.Context, local, roster []string) error {
	g, gctx := errgroup.WithContext(ctx)

	nodes := make([]*raft.Node, 0, len(local))
	for _, addr := range local {
		view := cluster.New(addr, roster)
		n, err := raft.NewNode(raft.Config{Addr: view.Self, Peers: view.Peers})
		if err != nil {
			return fmt.Errorf("bind %s: %w", addr, err)
		}
		nodes = append(nodes, n)
	}

	for _, n := range nodes {
		n.Start()
	}

	g.Go(func() error {
		<-gctx.Done()
		for _, n := range nodes {
			n.Shutdown()
		}
		return nil
	})

	return g.Wait()
}
