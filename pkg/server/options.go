package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/docker/mcp-simple-server/pkg/transport"
)

const (
	DefaultHost = "0.0.0.0"
	DefaultPort = 3000

	// AuthTokenEnv names the environment variable holding the optional bearer
	// token for the HTTP transports.
	AuthTokenEnv = "MCP_SIMPLE_SERVER_AUTH_TOKEN"
)

type Options struct {
	Transport   transport.Kind `validate:"required,oneof=stdio sse streamable-http"`
	Host        string         `validate:"omitempty,hostname_rfc1123|ip"`
	Port        int            `validate:"gte=0,lte=65535"`
	LogCalls    bool
	LogFilePath string
	// AuthToken, when set, is required as a bearer token on every HTTP path
	// except /health.
	AuthToken string
}

func DefaultOptions() Options {
	return Options{
		Transport: transport.Default,
		Host:      DefaultHost,
		Port:      DefaultPort,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the options and reports every invalid field.
func (o Options) Validate() error {
	err := validate.Struct(o)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	var problems []string
	for _, fe := range validationErrors {
		problems = append(problems, describeFieldError(fe))
	}
	return fmt.Errorf("invalid options: %s", strings.Join(problems, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Field() {
	case "Transport":
		return fmt.Sprintf("transport %q, expected %s", fe.Value(), transport.Supported())
	case "Host":
		return fmt.Sprintf("host %q is neither an IP address nor a hostname", fe.Value())
	case "Port":
		return fmt.Sprintf("port %v out of range 0-65535", fe.Value())
	}
	return fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag())
}
