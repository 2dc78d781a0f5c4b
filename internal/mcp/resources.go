package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"canvasboard/internal/domain"
)

const activeCanvasURI = "canvas://active"

func (s *Server) registerResources() {
	// ── canvas://active ────────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		activeCanvasURI,
		"Active Canvas",
		mcp.WithMIMEType("application/json"),
	), s.handleActiveCanvasResource)

	// ── canvas://{suiteId}/{officeId}/state ────────────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"canvas://{suiteId}/{officeId}/state",
			"Saved Canvas State",
		),
		s.handleSavedStateResource,
	)
}

func (s *Server) handleActiveCanvasResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	sess, err := s.session()
	if err != nil {
		return nil, err
	}
	data, _ := json.MarshalIndent(sess.Canvas.Snapshot(), "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      activeCanvasURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleSavedStateResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	t, ok := tenantFromURI(uri)
	if !ok {
		return nil, fmt.Errorf("could not extract tenant from URI: %s", uri)
	}

	state := s.app.States().Load(ctx, t)
	if state == nil {
		return nil, fmt.Errorf("no saved canvas for %s/%s", t.SuiteID, t.OfficeID)
	}

	data, _ := json.MarshalIndent(state, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// tenantFromURI extracts the tenant from "canvas://{suiteId}/{officeId}/state".
func tenantFromURI(uri string) (domain.Tenant, bool) {
	rest, ok := strings.CutPrefix(uri, "canvas://")
	if !ok {
		return domain.Tenant{}, false
	}
	rest, ok = strings.CutSuffix(rest, "/state")
	if !ok {
		return domain.Tenant{}, false
	}
	suite, office, ok := strings.Cut(rest, "/")
	t := domain.Tenant{SuiteID: suite, OfficeID: office}
	return t, ok && t.Valid() && !strings.Contains(office, "/")
}
