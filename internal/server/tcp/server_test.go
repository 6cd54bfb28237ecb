package tcp

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func listen(t *testing.T) net.Listener {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	return listener
}

func TestTCP(t *testing.T) {
	t.Run("stop", func(t *testing.T) {
		server := NewServer(listen(t), func(net.Conn) {})
		stopCh := make(chan error)
		go func() {
			stopCh <- server.Start()
		}()

		require.NoError(t, server.Stop())
		require.ErrorIs(t, <-stopCh, ErrShutdown)
	})

	t.Run("serve", func(t *testing.T) {
		server := NewServer(listen(t), func(conn net.Conn) {
			_, _ = conn.Write([]byte("hello"))
			_ = conn.Close()
		})
		stopCh := make(chan error)
		go func() {
			stopCh <- server.Start()
		}()

		conn, err := net.Dial("tcp", server.Addr().String())
		require.NoError(t, err)
		data, err := io.ReadAll(conn)
		require.NoError(t, err)
		require.Equal(t, "hello", string(data))
		require.NoError(t, conn.Close())

		require.NoError(t, server.Stop())
		require.ErrorIs(t, <-stopCh, ErrShutdown)
	})

	t.Run("stop closes live connections", func(t *testing.T) {
		accepted := make(chan struct{})
		server := NewServer(listen(t), func(conn net.Conn) {
			close(accepted)
			// blocks until the connection is closed by the server
			_, _ = io.ReadAll(conn)
		})
		stopCh := make(chan error)
		go func() {
			stopCh <- server.Start()
		}()

		conn, err := net.Dial("tcp", server.Addr().String())
		require.NoError(t, err)
		defer conn.Close()

		<-accepted
		require.Equal(t, 1, server.Live())
		require.NoError(t, server.Stop())

		select {
		case err = <-stopCh:
			require.ErrorIs(t, err, ErrShutdown)
		case <-time.After(5 * time.Second):
			require.Fail(t, "server didn't stop")
		}
		require.Zero(t, server.Live())
	})

	t.Run("graceful shutdown waits for connections", func(t *testing.T) {
		release := make(chan struct{})
		accepted := make(chan struct{})
		server := NewServer(listen(t), func(conn net.Conn) {
			close(accepted)
			<-release
			_ = conn.Close()
		})
		stopCh := make(chan error)
		go func() {
			stopCh <- server.Start()
		}()

		conn, err := net.Dial("tcp", server.Addr().String())
		require.NoError(t, err)
		defer conn.Close()

		<-accepted
		require.NoError(t, server.GracefulShutdown())

		select {
		case <-stopCh:
			require.Fail(t, "server stopped before the connection was done")
		case <-time.After(50 * time.Millisecond):
		}

		close(release)
		require.ErrorIs(t, <-stopCh, ErrShutdown)
	})
}
