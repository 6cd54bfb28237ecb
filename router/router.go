package router

import (
	"github.com/indigo-web/h1/http"
)

// Router produces a response for every request and for every request that couldn't be
// read. Returning nil from either method results in an empty 200 OK response and the
// default error response respectively.
type Router interface {
	OnRequest(request *http.Request) *http.Response
	OnError(err error) *http.Response
}
