package http

import (
	"bufio"
	"net"
	"strings"
	"time"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/h1/config"
	"github.com/indigo-web/h1/http"
	"github.com/indigo-web/h1/http/status"
	"github.com/indigo-web/h1/internal/protocol/http1"
	"github.com/indigo-web/h1/router"
	"github.com/pkg/errors"
)

const connIDLength = 8

type Logger interface {
	Printf(format string, v ...any)
}

// Server serves connections, exactly one exchange per each.
type Server struct {
	router router.Router
	cfg    *config.Config
	logger Logger
}

func NewServer(r router.Router, cfg *config.Config, logger Logger) *Server {
	return &Server{
		router: r,
		cfg:    cfg,
		logger: logger,
	}
}

// Run serves the connection and closes it afterwards. The returned exchange is already
// finished and is meant to be inspected only.
func (s *Server) Run(conn net.Conn) *Exchange {
	e := newExchange(s, conn)
	e.run()

	return e
}

// Exchange is the lifecycle of a single connection: a request is read, dispatched and
// responded to, then the connection is closed.
type Exchange struct {
	id         string
	srv        *Server
	conn       net.Conn
	reader     *bufio.Reader
	parser     *http1.Parser
	serializer *http1.Serializer
	request    *http.Request
	trace      []State
}

func newExchange(s *Server, conn net.Conn) *Exchange {
	return &Exchange{
		id:         uniuri.NewLen(connIDLength),
		srv:        s,
		conn:       conn,
		reader:     bufio.NewReaderSize(conn, s.cfg.NET.ReadBufferSize),
		parser:     http1.NewParser(s.cfg),
		serializer: http1.NewSerializer(s.cfg),
		trace:      make([]State, 1, 8),
	}
}

// ID returns the random identifier of the connection, used in logs.
func (e *Exchange) ID() string {
	return e.id
}

// State returns the current state.
func (e *Exchange) State() State {
	return e.trace[len(e.trace)-1]
}

// Trace returns all the visited states in order.
func (e *Exchange) Trace() []State {
	return e.trace
}

// Request returns the parsed request. It's nil, unless the exchange reached Ready.
func (e *Exchange) Request() *http.Request {
	return e.request
}

func (e *Exchange) run() {
	defer e.close()

	if timeout := e.srv.cfg.NET.ReadTimeout; timeout > 0 {
		if err := e.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			e.abort(status.Transport(err, "set read deadline"))
			return
		}
	}

	request, err := e.readRequest()
	if err != nil {
		if !status.IsClientFault(err) {
			// the peer is gone or broken, there's nobody to respond to
			e.abort(err)
			return
		}

		e.to(BadRequest)
		e.respondError(err)
		return
	}

	e.request = request
	e.to(Ready)

	response, err := e.dispatch(request)
	if err != nil {
		e.to(ServerError)
		e.respondError(err)
		return
	}

	e.to(Dispatched)

	if err = e.serializer.Write(e.conn, response); err != nil {
		// a part of the response may already be on the wire, so nothing can be written anymore
		e.to(ServerError)
		e.srv.logger.Printf("%s %s %s: %v", e.id, request.Method(), request.Target(), err)
		return
	}

	e.to(ResponseWritten)
	e.srv.logger.Printf(
		"%s %s %s %d", e.id, request.Method(), request.Target(), response.Reveal().Status.Code(),
	)
}

func (e *Exchange) readRequest() (*http.Request, error) {
	return e.parser.ParseStages(e.reader, func(stage http1.Stage) {
		switch stage {
		case http1.StageHeaders:
			e.to(AwaitHeaders)
		case http1.StageBody:
			e.to(AwaitBody)
		}
	})
}

// dispatch calls the router. A panicking handler is turned into an error, so the client
// still gets a response.
func (e *Exchange) dispatch(request *http.Request) (response *http.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			response, err = nil, errors.Errorf("handler panicked: %v", r)
		}
	}()

	return notNil(e.srv.router.OnRequest(request)), nil
}

func (e *Exchange) respondError(err error) {
	response := e.srv.router.OnError(err)
	if response == nil {
		response = http.NewResponse().Error(err)
	}

	if werr := e.serializer.Write(e.conn, response); werr != nil {
		e.srv.logger.Printf("%s %v: %v", e.id, err, werr)
		return
	}

	e.srv.logger.Printf("%s %v: %d", e.id, err, response.Reveal().Status.Code())
}

func (e *Exchange) abort(err error) {
	e.to(ServerError)
	e.srv.logger.Printf("%s aborted: %v", e.id, err)
}

func (e *Exchange) close() {
	if err := e.conn.Close(); err != nil {
		e.srv.logger.Printf("%s close: %v", e.id, err)
	}

	e.to(Closed)
	e.srv.logger.Printf("%s %s", e.id, formatTrace(e.trace))
}

func (e *Exchange) to(state State) {
	e.trace = append(e.trace, state)
}

func formatTrace(trace []State) string {
	names := make([]string, len(trace))
	for i, state := range trace {
		names[i] = state.String()
	}

	return strings.Join(names, " -> ")
}

func notNil(resp *http.Response) *http.Response {
	if resp != nil {
		return resp
	}

	return http.NewResponse()
}
