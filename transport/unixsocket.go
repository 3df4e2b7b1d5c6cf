package transport

import (
	"fmt"
	"log/slog"
	"net"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reconnectDebounce coalesces the burst of Remove+Create events a socket
// file recreation typically produces into a single reconnect signal.
const reconnectDebounce = 200 * time.Millisecond

// UnixSocketWatcher dials a Unix-domain socket and watches its containing
// directory for the socket file being recreated (the daemon restarted),
// emitting a debounced signal on Reconnect so a client can redial.
// Grounded on the daemon lock-file/socket-watch pattern used to coordinate
// client reconnection in a comparable daemon architecture.
type UnixSocketWatcher struct {
	socketPath string
	watcher    *fsnotify.Watcher
	reconnect  chan struct{}
	stop       chan struct{}
	logger     *slog.Logger

	mu    sync.Mutex
	timer *time.Timer
}

// NewUnixSocketWatcher begins watching socketPath's parent directory for the
// socket file's recreation. The caller is responsible for calling Dial to
// obtain the initial connection and again after each Reconnect signal.
func NewUnixSocketWatcher(socketPath string, logger *slog.Logger) (*UnixSocketWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create socket watcher: %w", err)
	}
	dir := filepath.Dir(socketPath)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	sw := &UnixSocketWatcher{
		socketPath: socketPath,
		watcher:    w,
		reconnect:  make(chan struct{}, 1),
		stop:       make(chan struct{}),
		logger:     logger,
	}
	go sw.watch()
	return sw, nil
}

// Dial connects to the socket path this watcher observes.
func (sw *UnixSocketWatcher) Dial() (net.Conn, error) {
	conn, err := net.Dial("unix", sw.socketPath)
	if err != nil {
		return nil, fmt.Errorf("dial unix socket %s: %w", sw.socketPath, err)
	}
	return conn, nil
}

// Reconnect yields a value every time the socket file has been recreated
// and a redial is worth attempting.
func (sw *UnixSocketWatcher) Reconnect() <-chan struct{} {
	return sw.reconnect
}

func (sw *UnixSocketWatcher) watch() {
	base := filepath.Base(sw.socketPath)
	for {
		select {
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				sw.scheduleReconnect()
			}
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			sw.logger.Error("socket watcher error", "err", err)
		case <-sw.stop:
			return
		}
	}
}

func (sw *UnixSocketWatcher) scheduleReconnect() {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	if sw.timer != nil {
		sw.timer.Stop()
	}
	sw.timer = time.AfterFunc(reconnectDebounce, func() {
		select {
		case sw.reconnect <- struct{}{}:
		default:
		}
	})
}

// Close stops the watcher and releases its fsnotify resources.
func (sw *UnixSocketWatcher) Close() error {
	close(sw.stop)
	sw.mu.Lock()
	if sw.timer != nil {
		sw.timer.Stop()
	}
	sw.mu.Unlock()
	return sw.watcher.Close()
}
