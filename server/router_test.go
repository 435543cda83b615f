// Copyright (C) 2024, KipuBank contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRouterRejectsDuplicateRoutes(t *testing.T) {
	require := require.New(t)
	r := newRouter()

	handler := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	require.NoError(r.AddRouter("/kipubank", "", handler))
	require.ErrorIs(r.AddRouter("/kipubank", "", handler), errDuplicateRoute)
	require.NoError(r.AddRouter("/kipubank", "/ws", handler))
}

func TestFilterInvalidHosts(t *testing.T) {
	require := require.New(t)
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name     string
		allowed  []string
		host     string
		wantCode int
	}{
		{
			name:     "empty list admits all",
			allowed:  nil,
			host:     "anything.example",
			wantCode: http.StatusOK,
		},
		{
			name:     "wildcard admits all",
			allowed:  []string{"*"},
			host:     "anything.example",
			wantCode: http.StatusOK,
		},
		{
			name:     "allowed host",
			allowed:  []string{"vault.example"},
			host:     "vault.example:8547",
			wantCode: http.StatusOK,
		},
		{
			name:     "blocked host",
			allowed:  []string{"vault.example"},
			host:     "evil.example",
			wantCode: http.StatusForbidden,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(*testing.T) {
			handler := filterInvalidHosts(ok, tt.allowed)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Host = tt.host
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			require.Equal(tt.wantCode, rec.Code)
		})
	}
}
