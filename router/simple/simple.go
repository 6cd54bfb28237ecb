package simple

import (
	"github.com/indigo-web/h1/http"
	"github.com/indigo-web/h1/router"
)

type (
	Handler      func(*http.Request) *http.Response
	ErrorHandler func(error) *http.Response
)

var _ router.Router = new(Router)

// Router matches requests by the method and the exact request target.
type Router struct {
	routes     map[string]map[string]Handler
	notFound   Handler
	errHandler ErrorHandler
}

func New() *Router {
	return &Router{
		routes:     make(map[string]map[string]Handler),
		notFound:   http.NotFound,
		errHandler: defaultErrHandler,
	}
}

// Route registers the handler. Registering the same method and target again replaces
// the previous handler.
func (r *Router) Route(method, target string, handler Handler) *Router {
	byTarget, found := r.routes[method]
	if !found {
		byTarget = make(map[string]Handler)
		r.routes[method] = byTarget
	}

	byTarget[target] = handler
	return r
}

// Get is a shortcut for Route("GET", ...).
func (r *Router) Get(target string, handler Handler) *Router {
	return r.Route("GET", target, handler)
}

// NotFound replaces the handler of requests no route matches.
func (r *Router) NotFound(handler Handler) *Router {
	r.notFound = handler
	return r
}

// OnErrorFunc replaces the producer of responses to requests that couldn't be read.
func (r *Router) OnErrorFunc(handler ErrorHandler) *Router {
	r.errHandler = handler
	return r
}

func (r *Router) OnRequest(request *http.Request) *http.Response {
	if handler, found := r.routes[request.Method()][request.Target()]; found {
		return handler(request)
	}

	return r.notFound(request)
}

func (r *Router) OnError(err error) *http.Response {
	return r.errHandler(err)
}

func defaultErrHandler(err error) *http.Response {
	return http.NewResponse().Error(err)
}
