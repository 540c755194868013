package headless

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/roach88/ashborn/internal/config"
	"github.com/roach88/ashborn/internal/subsystem"
)

// Network is a UDP endpoint. Hosting modes bind the configured port;
// client modes resolve and connect to the server address.
type Network struct {
	lifecycle
	cfg  config.NetworkConfig
	conn net.PacketConn

	counters subsystem.NetworkCounters
}

// NewNetwork creates a network collaborator for cfg.
func NewNetwork(cfg config.NetworkConfig) *Network {
	return &Network{cfg: cfg}
}

func (n *Network) Name() string { return "network" }

func (n *Network) Init(ctx context.Context) error {
	if n.up {
		return nil
	}

	switch {
	case n.cfg.Mode == config.NetworkOffline:
	case n.cfg.Mode.Hosting():
		var lc net.ListenConfig
		addr := net.JoinHostPort("", strconv.Itoa(n.cfg.Port))
		conn, err := lc.ListenPacket(ctx, "udp", addr)
		if err != nil {
			return subsystem.NewNetworkError(subsystem.PortBindFailed, fmt.Sprintf("port %d", n.cfg.Port), err)
		}
		n.conn = conn
	default:
		addr := net.JoinHostPort(n.cfg.ServerAddress, strconv.Itoa(n.cfg.Port))
		raddr, err := net.ResolveUDPAddr("udp", addr)
		if err != nil {
			return subsystem.NewNetworkError(subsystem.ConnectionFailed, addr, err)
		}
		conn, err := net.DialUDP("udp", nil, raddr)
		if err != nil {
			return subsystem.NewNetworkError(subsystem.ConnectionFailed, addr, err)
		}
		n.conn = conn
	}

	n.counters = subsystem.NetworkCounters{}
	n.up = true
	return nil
}

func (n *Network) Shutdown(ctx context.Context) error {
	n.up = false
	if n.conn == nil {
		return nil
	}
	err := n.conn.Close()
	n.conn = nil
	if err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}

// LocalAddr returns the bound address, or nil while down.
func (n *Network) LocalAddr() net.Addr {
	if n.conn == nil {
		return nil
	}
	return n.conn.LocalAddr()
}

// RecordTraffic adds to the cumulative counters.
func (n *Network) RecordTraffic(sent, received uint64) {
	if sent > 0 {
		n.counters.PacketsSent++
		n.counters.BytesSent += sent
	}
	if received > 0 {
		n.counters.PacketsReceived++
		n.counters.BytesReceived += received
	}
}

// NetworkCounters reports cumulative traffic.
func (n *Network) NetworkCounters() subsystem.NetworkCounters {
	return n.counters
}
