package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveClientIP(t *testing.T) {
	tests := []struct {
		name       string
		forwarded  []string
		remoteAddr string
		want       string
	}{
		{name: "single forwarded", forwarded: []string{"5.5.5.5"}, remoteAddr: "10.0.0.1:1234", want: "5.5.5.5"},
		{name: "first of chain", forwarded: []string{" 5.5.5.5 , 10.0.0.2"}, remoteAddr: "10.0.0.1:1234", want: "5.5.5.5"},
		{name: "first header value", forwarded: []string{"6.6.6.6", "7.7.7.7"}, remoteAddr: "10.0.0.1:1234", want: "6.6.6.6"},
		{name: "socket with port", remoteAddr: "8.8.8.8:4321", want: "8.8.8.8"},
		{name: "ipv6 loopback socket", remoteAddr: "[::1]:4000", want: "127.0.0.1"},
		{name: "ipv6 loopback forwarded", forwarded: []string{"::1"}, remoteAddr: "10.0.0.1:1", want: "127.0.0.1"},
		{name: "ipv6 socket", remoteAddr: "[2001:db8::1]:80", want: "2001:db8::1"},
		{name: "socket without port", remoteAddr: "9.9.9.9", want: "9.9.9.9"},
		{name: "empty forwarded", forwarded: []string{""}, remoteAddr: "10.0.0.1:1", want: "10.0.0.1"},
		{name: "blank forwarded", forwarded: []string{"  "}, remoteAddr: "10.0.0.2:1", want: "10.0.0.2"},
		{name: "empty first entry", forwarded: []string{" , 5.5.5.5"}, remoteAddr: "10.0.0.3:1", want: "10.0.0.3"},
		{name: "empty forwarded and socket", forwarded: []string{""}, remoteAddr: "", want: "unknown"},
		{name: "nothing", remoteAddr: "", want: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			for _, v := range tt.forwarded {
				header.Add("X-Forwarded-For", v)
			}
			assert.Equal(t, tt.want, ResolveClientIP(header, tt.remoteAddr))
		})
	}
}
