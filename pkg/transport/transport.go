// Package transport names the bindings the server can run on. It carries no
// dependency on the protocol runtime: pkg/server maps each Kind to a runtime
// transport.
package transport

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

type Kind string

const (
	Stdio          Kind = "stdio"
	SSE            Kind = "sse"
	StreamableHTTP Kind = "streamable-http"
)

// Default is the binding used when none is given.
const Default = StreamableHTTP

var kinds = []Kind{Stdio, SSE, StreamableHTTP}

var aliases = map[string]Kind{
	"http":       StreamableHTTP,
	"streaming":  StreamableHTTP,
	"streamable": StreamableHTTP,
}

// Parse resolves a transport name, case-insensitively. Aliases used by other
// MCP tools for streamable HTTP are accepted.
func Parse(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, k := range kinds {
		if string(k) == name {
			return k, nil
		}
	}
	if k, ok := aliases[name]; ok {
		return k, nil
	}
	return "", fmt.Errorf("unknown transport %q, expected %s", name, Supported())
}

// Supported lists the canonical names, quoted.
func Supported() string {
	var quoted []string
	for _, k := range kinds {
		quoted = append(quoted, "'"+string(k)+"'")
	}
	return strings.Join(quoted, ", ")
}

// Network reports whether the binding listens on a TCP address.
func (k Kind) Network() bool {
	return k == SSE || k == StreamableHTTP
}

// Endpoint is the HTTP path serving the protocol. Empty for stdio.
func (k Kind) Endpoint() string {
	switch k {
	case SSE:
		return "/sse"
	case StreamableHTTP:
		return "/mcp"
	}
	return ""
}

func (k *Kind) String() string {
	return string(*k)
}

func (k *Kind) Set(v string) error {
	parsed, err := Parse(v)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Type is only used in help text
func (k *Kind) Type() string {
	return "transport"
}

// Address joins host and port into a listen address.
func Address(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
