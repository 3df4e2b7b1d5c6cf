package transport

import (
	"context"
	"fmt"
	"net"
)

// DialTCP connects to a TCP address, returning a ReadWriteCloser suitable
// for rpc.NewConnection's reader/writer/closer arguments (a net.Conn
// already satisfies all three).
func DialTCP(ctx context.Context, addr string) (net.Conn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial tcp %s: %w", addr, err)
	}
	return conn, nil
}

// ListenTCP starts listening on addr, returning a net.Listener whose Accept
// loop yields one net.Conn per connecting client.
func ListenTCP(addr string) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen tcp %s: %w", addr, err)
	}
	return ln, nil
}
