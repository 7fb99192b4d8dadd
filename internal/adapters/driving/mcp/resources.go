package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/timerdiv/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for timerdiv resources.
	uriScheme = "timerdiv://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "profiles",
		Name:        "profiles",
		Description: "Built-in and user timer profiles",
		MIMEType:    "application/json",
	}, s.handleProfilesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "profiles/{name}",
		Name:        "profile",
		Description: "Full definition of one timer profile",
		MIMEType:    "application/json",
	}, s.handleProfileResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "digits",
		Name:        "digits",
		Description: "Seven-segment digit table as a C header",
		MIMEType:    "text/x-c",
	}, s.handleDigitsResource)
}

// handleProfilesResource returns a summary of every profile.
func (s *Server) handleProfilesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	profiles, err := s.ports.Profile.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}

	summaries := make([]ProfileOutput, len(profiles))
	for i := range profiles {
		summaries[i] = profileOutput(&profiles[i])
	}
	return jsonResource(req.Params.URI, summaries)
}

// handleProfileResource returns one profile in full.
func (s *Server) handleProfileResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	name := extractProfileName(req.Params.URI)
	if name == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	profile, err := s.ports.Profile.Get(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting profile: %w", err)
	}
	return jsonResource(req.Params.URI, profile)
}

// handleDigitsResource returns the seg_patterns header.
func (s *Server) handleDigitsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Display == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/x-c",
			Text:     s.ports.Display.Header(),
		}},
	}, nil
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractProfileName extracts the name from timerdiv://profiles/{name}.
func extractProfileName(uri string) string {
	name, ok := strings.CutPrefix(uri, uriScheme+"profiles/")
	if !ok || strings.Contains(name, "/") {
		return ""
	}
	return name
}
