package tcp

import (
	"github.com/nilfjord/seqstore/rpc/common"
	"github.com/nilfjord/seqstore/rpc/transport"
	"github.com/nilfjord/seqstore/rpc/transport/base"
	"net"
	"time"
)

// clientConnector implements the IClientConnector interface for TCP sockets
type clientConnector struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see base.IClientConnector)
// --------------------------------------------------------------------------

func (c *clientConnector) GetName() string {
	return "tcp"
}

func (c *clientConnector) Connect(endpoint string) (net.Conn, error) {
	return net.Dial("tcp", endpoint)
}

// UpgradeConnection applies the configured TCPConf/SocketConf settings to a
// freshly dialed connection, mirroring the server side's socket tuning.
func (c *clientConnector) UpgradeConnection(conn net.Conn, config common.ClientConfig) error {
	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return nil
	}

	if err := tcpConn.SetNoDelay(config.Transport.TCPConf.TCPNoDelay); err != nil {
		return err
	}

	if config.Transport.SocketConf.WriteBufferSize > 0 {
		if err := tcpConn.SetWriteBuffer(config.Transport.SocketConf.WriteBufferSize); err != nil {
			return err
		}
	}

	if config.Transport.SocketConf.ReadBufferSize > 0 {
		if err := tcpConn.SetReadBuffer(config.Transport.SocketConf.ReadBufferSize); err != nil {
			return err
		}
	}

	if config.Transport.TCPConf.TCPKeepAliveSec > 0 {
		if err := tcpConn.SetKeepAlive(true); err != nil {
			return err
		}
		if err := tcpConn.SetKeepAlivePeriod(time.Duration(config.Transport.TCPConf.TCPKeepAliveSec) * time.Second); err != nil {
			return err
		}
	}

	if config.Transport.TCPConf.TCPLingerSec >= 0 {
		if err := tcpConn.SetLinger(config.Transport.TCPConf.TCPLingerSec); err != nil {
			return err
		}
	}

	return nil
}

// --------------------------------------------------------------------------
// Client Transport Factory Method
// --------------------------------------------------------------------------

// NewTCPClientTransport creates a new TCP client transport
func NewTCPClientTransport() transport.IRPCClientTransport {
	return base.NewBaseClientTransport(&clientConnector{})
}
