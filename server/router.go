// Copyright (C) 2024, KipuBank contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/ava-labs/avalanchego/utils/set"
	"github.com/gorilla/mux"
)

var errDuplicateRoute = errors.New("duplicate route")

type router struct {
	lock   sync.RWMutex
	router *mux.Router

	routes set.Set[string]
}

func newRouter() *router {
	return &router{
		router: mux.NewRouter(),
	}
}

func (r *router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	r.router.ServeHTTP(w, req)
}

func (r *router) AddRouter(base, endpoint string, handler http.Handler) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	url := base + endpoint
	if r.routes.Contains(url) {
		return errDuplicateRoute
	}
	r.routes.Add(url)
	r.router.Handle(url, handler)
	return nil
}

// filterInvalidHosts rejects requests whose Host header names a host outside
// [hosts]. An empty list, or the wildcard "*", admits everything.
func filterInvalidHosts(next http.Handler, hosts []string) http.Handler {
	allowed := set.NewSet[string](len(hosts))
	wildcard := len(hosts) == 0
	for _, host := range hosts {
		if host == "*" {
			wildcard = true
			break
		}
		allowed.Add(strings.ToLower(host))
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if wildcard {
			next.ServeHTTP(w, r)
			return
		}
		host, _, err := net.SplitHostPort(r.Host)
		if err != nil {
			host = r.Host
		}
		if !allowed.Contains(strings.ToLower(host)) {
			http.Error(w, "invalid host", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
