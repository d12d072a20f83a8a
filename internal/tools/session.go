// Package tools exposes the Capsule CRM API as MCP tools.
package tools

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/RobinCoderZhao/capsule-mcp/pkg/capsule"
	"github.com/RobinCoderZhao/capsule-mcp/pkg/mcpserver"
)

// Bootstrap tool names. They run without a client.
const (
	SetAPITokenTool    = "capsule_set_api_token"
	TestConnectionTool = "capsule_test_connection"
)

// ClientFactory builds a client for an API token.
type ClientFactory func(token string) (*capsule.Client, error)

// Session holds the client used by every tool call. It starts
// unauthenticated and becomes authenticated on the first successful
// Authenticate; later calls replace the client.
type Session struct {
	mu        sync.RWMutex
	client    *capsule.Client
	newClient ClientFactory
	onAuth    []func()
	logger    *slog.Logger
}

// NewSession creates a session whose clients share cfg except for the token.
func NewSession(cfg capsule.Config) *Session {
	return NewSessionWithFactory(func(token string) (*capsule.Client, error) {
		c := cfg
		c.APIToken = token
		return capsule.NewClient(c)
	}, cfg.Logger)
}

// NewSessionWithFactory creates a session that builds clients with f.
func NewSessionWithFactory(f ClientFactory, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{newClient: f, logger: logger}
}

// Authenticate builds a client for token and makes it current.
func (s *Session) Authenticate(token string) error {
	client, err := s.newClient(token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	replaced := s.client != nil
	s.client = client
	hooks := append([]func(){}, s.onAuth...)
	s.mu.Unlock()

	s.logger.Info("capsule client initialized", "replaced", replaced)
	for _, fn := range hooks {
		fn()
	}
	return nil
}

// OnAuthenticate registers fn to run after every successful Authenticate.
func (s *Session) OnAuthenticate(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onAuth = append(s.onAuth, fn)
}

// Client returns the current client, or nil before authentication.
func (s *Session) Client() *capsule.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client
}

// Authenticated reports whether a client is set.
func (s *Session) Authenticated() bool { return s.Client() != nil }

// Guard blocks every tool except the bootstrap ones until a client is set.
func (s *Session) Guard(_ context.Context, name string) *mcpserver.ToolCallResult {
	if name == SetAPITokenTool || name == TestConnectionTool || s.Authenticated() {
		return nil
	}
	return mcpserver.ErrorText(fmt.Sprintf(
		"Error: Capsule CRM client not initialized. Please use '%s' with your API token first before using %s.",
		SetAPITokenTool, name))
}
