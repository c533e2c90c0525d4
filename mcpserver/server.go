package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/padelhq/club-manager/services"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "Padel Club Manager"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// Server exposes the club's core operations as MCP tools so a calling agent
// can look up members, run the matchmaking workflow and reserve courts.
type Server struct {
	mcpServer *mcp.Server
}

func New(
	members services.MemberService,
	matchmaking services.MatchmakingService,
	reservations services.ReservationService,
) *Server {
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	mcp.AddTool(mcpServer, SearchMemberByPhoneTool(), SearchMemberByPhoneHandler(members))
	mcp.AddTool(mcpServer, FindCandidatesTool(), FindCandidatesHandler(members))
	mcp.AddTool(mcpServer, CreateMatchRequestTool(), CreateMatchRequestHandler(matchmaking))
	mcp.AddTool(mcpServer, SaveInvitationsTool(), SaveInvitationsHandler(matchmaking))
	mcp.AddTool(mcpServer, UpdateInvitationStatusTool(), UpdateInvitationStatusHandler(matchmaking))
	mcp.AddTool(mcpServer, ReserveCourtTool(), ReserveCourtHandler(reservations))

	return &Server{mcpServer: mcpServer}
}

// Run serves MCP over the given transport until the context ends.
func Run(ctx context.Context, server *Server, transport string) error {
	switch transport {
	case "stdio", "":
		return server.mcpServer.Run(ctx, &mcp.StdioTransport{})
	default:
		return fmt.Errorf("transport %q is not supported", transport)
	}
}
