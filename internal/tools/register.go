package tools

import "github.com/RobinCoderZhao/capsule-mcp/pkg/mcpserver"

// ResourceTools returns every tool that needs an authenticated client.
func ResourceTools(s *Session) []mcpserver.ToolHandler {
	var out []mcpserver.ToolHandler
	out = append(out, partyTools(s)...)
	out = append(out, opportunityTools(s)...)
	out = append(out, projectTools(s)...)
	out = append(out, taskTools(s)...)
	out = append(out, metadataTools(s)...)
	return out
}

// Register installs the bootstrap and resource tools on server and gates
// resource tools behind s. Every successful authentication registers the
// resource tools again; registering a name twice replaces it in place.
func Register(server *mcpserver.Server, s *Session) {
	server.RegisterTools(bootstrapTools(s)...)
	server.RegisterTools(ResourceTools(s)...)
	server.SetGuard(s.Guard)
	s.OnAuthenticate(func() {
		server.RegisterTools(ResourceTools(s)...)
	})
}
