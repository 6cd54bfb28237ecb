package h1

import (
	"log"
	"net"

	"github.com/indigo-web/h1/config"
	"github.com/indigo-web/h1/internal/server/http"
	"github.com/indigo-web/h1/internal/server/tcp"
	"github.com/indigo-web/h1/router"
	"github.com/indigo-web/h1/router/simple"
	"github.com/pkg/errors"
)

// ListenerFactory opens a listener. net.Listen is the one used for plain connections.
type ListenerFactory func(network, addr string) (net.Listener, error)

type Logger interface {
	Printf(format string, v ...any)
}

var errGracefulShutdown = errors.New("graceful shutdown")

// App binds the listeners and serves every accepted connection with a single
// request-response exchange.
type App struct {
	cfg       *config.Config
	logger    Logger
	hooks     hooks
	listeners []listener
	servers   []*tcp.Server
	stopCh    chan error
}

// New returns a new App instance, serving plain connections on the address.
func New(addr string) *App {
	return &App{
		cfg:       config.Default(),
		logger:    log.Default(),
		listeners: []listener{{Addr: addr, Factory: net.Listen}},
		stopCh:    make(chan error, 1),
	}
}

// Tune replaces the default config.
func (a *App) Tune(cfg *config.Config) *App {
	a.cfg = cfg
	return a
}

// Logger replaces the default logger, which is log.Default().
func (a *App) Logger(logger Logger) *App {
	a.logger = logger
	return a
}

// Listen adds one more listener.
func (a *App) Listen(addr string, factory ListenerFactory) *App {
	a.listeners = append(a.listeners, listener{Addr: addr, Factory: factory})
	return a
}

// NotifyOnStart calls the callback at the moment, when all the servers are started. However,
// it isn't strongly guaranteed that they'll be able to accept new connections immediately
func (a *App) NotifyOnStart(cb func()) *App {
	a.hooks.OnStart = cb
	return a
}

// NotifyOnStop calls the callback at the moment, when all the servers are down. It's guaranteed,
// that at the moment as the callback is called, the server isn't able to accept any new connections
// and all the clients are already disconnected
func (a *App) NotifyOnStop(cb func()) *App {
	a.hooks.OnStop = cb
	return a
}

// Addrs returns the addresses the servers are actually bound to. It's meaningful only
// after the app is started, e.g. inside the OnStart callback.
func (a *App) Addrs() []net.Addr {
	addrs := make([]net.Addr, len(a.servers))
	for i, server := range a.servers {
		addrs[i] = server.Addr()
	}

	return addrs
}

// Serve starts the application and blocks until it's stopped. If nil is passed instead of
// a router, an empty one is used, responding 404 to everything. Stopping the app by Stop
// or GracefulStop isn't an error, so nil is returned.
func (a *App) Serve(r router.Router) error {
	if r == nil {
		r = simple.New()
	}

	if err := a.cfg.Validate(); err != nil {
		return err
	}

	servers, err := a.bind(r)
	if err != nil {
		return err
	}

	a.servers = servers
	return a.run(servers)
}

// GracefulStop stops accepting new connections, but keeps serving old ones.
//
// NOTE: the call isn't blocking. So by that, after the method returned, the server
// will be still working
func (a *App) GracefulStop() {
	a.requestStop(errGracefulShutdown)
}

// Stop stops the whole application immediately.
//
// NOTE: the call isn't blocking. So by that, after the method returned, the server
// will still be working
func (a *App) Stop() {
	a.requestStop(tcp.ErrShutdown)
}

func (a *App) requestStop(reason error) {
	select {
	case a.stopCh <- reason:
	default:
		// a stop is already pending
	}
}

func (a *App) bind(r router.Router) ([]*tcp.Server, error) {
	httpServer := http.NewServer(r, a.cfg, a.logger)
	onConn := func(conn net.Conn) {
		httpServer.Run(conn)
	}

	servers := make([]*tcp.Server, 0, len(a.listeners))

	for _, l := range a.listeners {
		sock, err := l.Factory("tcp", l.Addr)
		if err != nil {
			_ = tcp.StopAll(servers)
			return nil, errors.Wrapf(err, "listen %s", l.Addr)
		}

		servers = append(servers, tcp.NewServer(sock, onConn))
	}

	return servers, nil
}

func (a *App) run(servers []*tcp.Server) error {
	exited := make(chan error, len(servers))

	for _, server := range servers {
		a.logger.Printf("listening on %s", server.Addr())

		go func(server *tcp.Server) {
			exited <- server.Start()
		}(server)
	}

	callIfNotNil(a.hooks.OnStart)

	var (
		err     error
		pending = len(servers)
	)

	select {
	case reason := <-a.stopCh:
		if reason == errGracefulShutdown {
			// stop listening to new clients and process till the end all the old ones
			_ = tcp.ShutdownAll(servers)
		} else {
			_ = tcp.StopAll(servers)
		}
	case err = <-exited:
		pending--
		_ = tcp.StopAll(servers)
	}

	for range pending {
		<-exited
	}

	callIfNotNil(a.hooks.OnStop)

	return err
}

type hooks struct {
	OnStart, OnStop func()
}

func callIfNotNil(f func()) {
	if f != nil {
		f()
	}
}

type listener struct {
	Addr    string
	Factory ListenerFactory
}
