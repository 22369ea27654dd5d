// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes mdxpress publishing tools for LLM integration via stdio
// transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/arnestad/mdxpress/internal/manifest"
	"github.com/arnestad/mdxpress/internal/push"
	"github.com/arnestad/mdxpress/internal/storage"
	"github.com/arnestad/mdxpress/internal/transform"
)

// Server wraps the MCP server with mdxpress tools.
type Server struct {
	mcp    *server.MCPServer
	pusher *push.Pusher
	man    manifest.Store
	dst    storage.Provider
}

// New creates a new MCP server with all mdxpress tools registered.
func New(pusher *push.Pusher, man manifest.Store, dst storage.Provider) *Server {
	s := &Server{pusher: pusher, man: man, dst: dst}

	s.mcp = server.NewMCPServer(
		"mdxpress",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("preview_document",
		mcp.WithDescription("Run the Markdown-to-MDX transformation on the given document "+
			"text and return the result without writing anything. Use this to check how "+
			"a document will be published. The input should follow the authoring format; "+
			"read it first via the get_publish_contract tool or the mdxpress://format resource."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Markdown document text to transform")),
		mcp.WithString("url_prefix", mcp.Description("URL prefix for image and cover links (default /work/)")),
	), s.previewDocument)

	s.mcp.AddTool(mcp.NewTool("push_folder",
		mcp.WithDescription("Publish a source folder to the destination tree. Top-level "+
			"Markdown files are transformed to .mdx, everything else is copied. Returns "+
			"the batch report as JSON, including per-file failures."),
		mcp.WithString("folder", mcp.Required(), mcp.Description("Folder name relative to the source root")),
	), s.pushFolder)

	s.mcp.AddTool(mcp.NewTool("list_published",
		mcp.WithDescription("List published artifacts recorded in the manifest."),
	), s.listPublished)

	s.mcp.AddTool(mcp.NewTool("read_published",
		mcp.WithDescription("Read a published file from the destination tree."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path in the destination (e.g. folder/doc.mdx)")),
	), s.readPublished)

	s.mcp.AddTool(mcp.NewTool("get_publish_contract",
		mcp.WithDescription("Returns the canonical mdxpress authoring and publishing format. "+
			"Call this before previewing or pushing documents."),
	), s.getPublishContract)

	// Resource: publishing format contract.
	s.mcp.AddResource(
		mcp.NewResource("mdxpress://format", "Publishing Format Contract",
			mcp.WithResourceDescription("Authoring format and the transformations applied when publishing."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) previewDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := transform.Options{}
	if v, pErr := req.RequireString("url_prefix"); pErr == nil {
		opts.URLPrefix = v
	}
	if opts.URLPrefix == "" {
		opts.URLPrefix = "/work/"
	}

	return mcp.NewToolResultText(transform.Apply(content, opts)), nil
}

func (s *Server) pushFolder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folder, err := req.RequireString("folder")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	report, err := s.pusher.PushFolder(ctx, folder)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("push %s: %v", folder, err)), nil
	}
	out, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listPublished(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arts, _, err := s.man.List(0, 0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(arts) == 0 {
		return mcp.NewToolResultText("no published artifacts"), nil
	}

	var lines []string
	for _, a := range arts {
		lines = append(lines, fmt.Sprintf("%s -> %s", a.SourcePath, a.OutputPath))
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) readPublished(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.dst.Read(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) getPublishContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(PublishFormatContract), nil
}

func (s *Server) readFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "mdxpress://format",
			MIMEType: "text/markdown",
			Text:     PublishFormatContract,
		},
	}, nil
}
