package transport

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTCPDialListenRoundtrip(t *testing.T) {
	ln, err := ListenTCP("127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			accepted <- conn
		}
	}()

	conn, err := DialTCP(context.Background(), ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	select {
	case server := <-accepted:
		defer server.Close()
	case <-time.After(2 * time.Second):
		t.Fatal("listener never accepted connection")
	}
}

func TestUnixSocketWatcherReconnectOnRecreate(t *testing.T) {
	dir := t.TempDir()
	socketPath := filepath.Join(dir, "test.sock")

	ln, err := net.Listen("unix", socketPath)
	require.NoError(t, err)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	sw, err := NewUnixSocketWatcher(socketPath, nil)
	require.NoError(t, err)
	defer sw.Close()

	conn, err := sw.Dial()
	require.NoError(t, err)
	conn.Close()

	// Closing a listener created by net.Listen also unlinks its socket file.
	ln.Close()
	_, statErr := os.Stat(socketPath)
	require.True(t, os.IsNotExist(statErr), "socket file should be gone after listener Close")

	ln2, err := net.Listen("unix", socketPath)
	require.NoError(t, err)
	defer ln2.Close()
	go func() {
		for {
			conn, err := ln2.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	select {
	case <-sw.Reconnect():
	case <-time.After(2 * time.Second):
		t.Fatal("expected a reconnect signal after socket recreation")
	}

	conn2, err := sw.Dial()
	require.NoError(t, err)
	conn2.Close()
}
