package tcp

import (
	"net"
	"sync"

	"github.com/pkg/errors"
)

// ErrShutdown is returned by Start after the server was stopped.
var ErrShutdown = errors.New("server is shut down")

type OnConn func(net.Conn)

// Server accepts connections and serves each one in its own goroutine.
type Server struct {
	sock     net.Listener
	onConn   OnConn
	wg       sync.WaitGroup
	mu       sync.Mutex
	conns    map[net.Conn]struct{}
	shutdown bool
}

func NewServer(sock net.Listener, onConn OnConn) *Server {
	return &Server{
		sock:   sock,
		onConn: onConn,
		conns:  make(map[net.Conn]struct{}),
	}
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() net.Addr {
	return s.sock.Addr()
}

// Start accepts connections until the listener is closed. It returns only after all the
// connections are done. ErrShutdown is returned if the listener was closed by Stop or
// GracefulShutdown.
func (s *Server) Start() error {
	for {
		conn, err := s.sock.Accept()
		if err != nil {
			s.wg.Wait()

			if s.isShutdown() {
				return ErrShutdown
			}

			return errors.WithStack(err)
		}

		if !s.track(conn) {
			_ = conn.Close()
			continue
		}

		s.wg.Add(1)
		go s.connHandler(conn)
	}
}

// Stop shuts the listener and ALL the connections down.
func (s *Server) Stop() error {
	if err := s.stopListener(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for conn := range s.conns {
		_ = conn.Close()
	}

	return nil
}

// GracefulShutdown stops the listener, leaving all the connections free to end their
// lives peacefully.
func (s *Server) GracefulShutdown() error {
	return s.stopListener()
}

// Live returns the number of connections being currently served.
func (s *Server) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.conns)
}

func (s *Server) stopListener() error {
	s.mu.Lock()
	s.shutdown = true
	s.mu.Unlock()

	return s.sock.Close()
}

func (s *Server) isShutdown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.shutdown
}

// track registers the connection, unless the server is already stopping.
func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.shutdown {
		return false
	}

	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) connHandler(conn net.Conn) {
	defer s.wg.Done()
	s.onConn(conn)

	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
}

// StopAll stops every server, returning the first error occurred.
func StopAll(servers []*Server) (err error) {
	for _, server := range servers {
		if serr := server.Stop(); serr != nil && err == nil {
			err = serr
		}
	}

	return err
}

// ShutdownAll gracefully shuts every server down, returning the first error occurred.
func ShutdownAll(servers []*Server) (err error) {
	for _, server := range servers {
		if serr := server.GracefulShutdown(); serr != nil && err == nil {
			err = serr
		}
	}

	return err
}
