// Package transport provides concrete byte-stream factories an LSP server or
// client can hand to rpc.NewConnection: stdio, TCP, and a Unix-domain socket
// dialer that signals when the socket is recreated so the caller can redial.
package transport

import (
	"io"
	"os"
)

// Stdio returns the process's standard input and output, the transport
// every editor-spawned language server uses by default.
func Stdio() (io.Reader, io.Writer) {
	return os.Stdin, os.Stdout
}
