package server

import "net/http"

// TODO: make the port configurable
const addr = ":8080"

/*
 * FIXME(carol): handler leaks goroutines on shutdown
 */
func Serve() error {
	// NOTE: TLS is terminated by the proxy
	return http.ListenAndServe(addr, nil) // HACK: nil mux
}

// mentions TODO in prose, which is not a tag
