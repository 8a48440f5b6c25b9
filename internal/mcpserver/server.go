// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes gedreader tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/gedreader/internal/apperr"
	"github.com/starford/gedreader/internal/collation"
	"github.com/starford/gedreader/internal/gedcom"
	"github.com/starford/gedreader/internal/treeservice"
)

const formatURI = "gedreader://format"

// Server wraps the MCP server with gedreader tools.
type Server struct {
	mcp *server.MCPServer
	svc *treeservice.Service
}

// New creates a new MCP server with all gedreader tools registered.
func New(svc *treeservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"gedreader",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("parse_gedcom",
		mcp.WithDescription("Parse lineage-linked genealogy text without storing it. "+
			"Returns families, individuals, sources and other records as JSON, or the "+
			"kind of error that rejected the text."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Full file text, starting with 0 HEAD")),
		mcp.WithString("sort", mcp.Description("Optional ordering: id or name (default: file order)")),
	), s.parseGedcom)

	s.mcp.AddTool(mcp.NewTool("list_trees",
		mcp.WithDescription("List the trees in the library with their record counts and last error."),
	), s.listTrees)

	s.mcp.AddTool(mcp.NewTool("list_individuals",
		mcp.WithDescription("List the individuals of a tree with given name, surname and display name."),
		mcp.WithString("tree", mcp.Required(), mcp.Description("Tree path (e.g. windsor.ged)")),
		mcp.WithString("sort", mcp.Description("Optional ordering: id or name")),
	), s.listIndividuals)

	s.mcp.AddTool(mcp.NewTool("list_families",
		mcp.WithDescription("List the families of a tree with both spouse surnames. "+
			"noTAG means the spouse line is missing, noINDI that the spouse has no known surname."),
		mcp.WithString("tree", mcp.Required(), mcp.Description("Tree path")),
		mcp.WithString("sort", mcp.Description("Optional ordering: id")),
	), s.listFamilies)

	s.mcp.AddTool(mcp.NewTool("get_record",
		mcp.WithDescription("Return one record of a tree by its cross-reference id, including its raw body."),
		mcp.WithString("tree", mcp.Required(), mcp.Description("Tree path")),
		mcp.WithString("id", mcp.Required(), mcp.Description("Cross-reference id without @ (e.g. I1)")),
	), s.getRecord)

	s.mcp.AddTool(mcp.NewTool("search_records",
		mcp.WithDescription("Full-text search through names and record bodies of every tree."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of hits (default 20)")),
	), s.searchRecords)

	s.mcp.AddTool(mcp.NewTool("import_tree",
		mcp.WithDescription("Add a new tree to the library. Provide the text in content, or a "+
			"url (http, https or base64 data: URI) to fetch it from. The text is parsed first and "+
			"nothing is stored if it is rejected. Read get_format_notes first."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path for the new tree (must end with .ged)")),
		mcp.WithString("content", mcp.Description("Full file text")),
		mcp.WithString("url", mcp.Description("Where to fetch the file text from when content is empty")),
	), s.importTree)

	s.mcp.AddTool(mcp.NewTool("get_format_notes",
		mcp.WithDescription("Returns notes on the lineage file layout gedreader accepts and "+
			"how names and family links are derived."),
	), s.getFormatNotes)

	s.mcp.AddResource(
		mcp.NewResource(formatURI, "Lineage Format Notes",
			mcp.WithResourceDescription("How gedreader splits, classifies and links lineage records."),
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

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// errorResult turns a service error into a tool error the model can act on.
func errorResult(err error) *mcp.CallToolResult {
	var pe *gedcom.ParseError
	switch {
	case errors.As(err, &pe):
		return mcp.NewToolResultError(fmt.Sprintf("rejected (%s): %s", pe.KindName(), pe.Error()))
	case errors.Is(err, apperr.ErrNotFound):
		return mcp.NewToolResultError("not found")
	case errors.Is(err, apperr.ErrAlreadyExists):
		return mcp.NewToolResultError("tree already exists")
	default:
		return mcp.NewToolResultError(err.Error())
	}
}

func sortKey(req mcp.CallToolRequest) (collation.Key, error) {
	return collation.ParseKey(req.GetString("sort", ""))
}

func (s *Server) parseGedcom(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	key, err := sortKey(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.Parse(ctx, []byte(content), key)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(res)
}

func (s *Server) listTrees(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	trees, err := s.svc.ListTrees(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	if len(trees) == 0 {
		return mcp.NewToolResultText("no trees in the library"), nil
	}
	return jsonResult(trees)
}

func (s *Server) listIndividuals(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tree, err := req.RequireString("tree")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	key, err := sortKey(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	list, err := s.svc.Individuals(ctx, tree, key)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(list)
}

func (s *Server) listFamilies(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tree, err := req.RequireString("tree")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	key, err := sortKey(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	list, err := s.svc.Families(ctx, tree, key)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(list)
}

func (s *Server) getRecord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tree, err := req.RequireString("tree")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, err := s.svc.Record(ctx, tree, id)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(rec)
}

func (s *Server) searchRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	hits, err := s.svc.Search(ctx, query, req.GetInt("limit", 20))
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(hits)
}

func (s *Server) importTree(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var data []byte
	if content := req.GetString("content", ""); content != "" {
		data = []byte(content)
	} else if src := req.GetString("url", ""); src != "" {
		if data, err = fetchSource(src); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	} else {
		return mcp.NewToolResultError("one of content or url is required"), nil
	}

	tree, err := s.svc.Import(ctx, path, data)
	if err != nil {
		return errorResult(err), nil
	}
	c := tree.Counts
	return mcp.NewToolResultText(fmt.Sprintf("imported: %s (%d individuals, %d families, %d sources, %d others)",
		path, c.Individuals, c.Families, c.Sources, c.Others)), nil
}

func (s *Server) getFormatNotes(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(FormatNotes), nil
}

func (s *Server) readFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      formatURI,
			MIMEType: "text/markdown",
			Text:     FormatNotes,
		},
	}, nil
}
