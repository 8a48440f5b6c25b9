package mcpserver

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/gedreader/internal/gedcom"
	"github.com/starford/gedreader/internal/storage"
	"github.com/starford/gedreader/internal/testutil"
	"github.com/starford/gedreader/internal/textenc"
	"github.com/starford/gedreader/internal/treeservice"
)

func testServer(t *testing.T) (*Server, storage.Provider) {
	t.Helper()
	_, store := testutil.TestLibrary(t)
	db := testutil.TestDB(t)
	svc := treeservice.NewService(store, db, textenc.FallbackMacintosh)
	return New(svc, "test"), store
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper, so handlers are
	// invoked directly.
	handlers := map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"parse_gedcom":     srv.parseGedcom,
		"list_trees":       srv.listTrees,
		"list_individuals": srv.listIndividuals,
		"list_families":    srv.listFamilies,
		"get_record":       srv.getRecord,
		"search_records":   srv.searchRecords,
		"import_tree":      srv.importTree,
		"get_format_notes": srv.getFormatNotes,
	}
	h, ok := handlers[name]
	if !ok {
		t.Fatalf("unknown tool: %s", name)
	}
	result, err := h(ctx, req)
	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func importSample(t *testing.T, srv *Server, path string) {
	t.Helper()
	r := callTool(t, srv, "import_tree", map[string]interface{}{
		"path":    path,
		"content": testutil.SampleTree,
	})
	if r.IsError {
		t.Fatalf("import failed: %s", resultText(r))
	}
}

func TestParseGedcom(t *testing.T) {
	srv, store := testServer(t)

	r := callTool(t, srv, "parse_gedcom", map[string]interface{}{
		"content": testutil.SampleTree,
		"sort":    "name",
	})
	if r.IsError {
		t.Fatalf("parse error: %s", resultText(r))
	}
	var res treeservice.ParseResult
	if err := json.Unmarshal([]byte(resultText(r)), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if res.Counts != (gedcom.Counts{Families: 1, Individuals: 2, Sources: 1, Others: 2}) {
		t.Errorf("counts = %+v", res.Counts)
	}
	if res.Records.Individuals[0].ID != "I2" {
		t.Errorf("sort by name: first = %s", res.Records.Individuals[0].ID)
	}

	list, _ := store.List("")
	if len(list) != 0 {
		t.Error("parse_gedcom wrote to the library")
	}
}

func TestParseGedcom_Rejected(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "parse_gedcom", map[string]interface{}{"content": "0 HEAD\n0 @I1@ INDI"})
	if !r.IsError {
		t.Fatal("expected error result")
	}
	if !strings.Contains(resultText(r), "unreadable_body") {
		t.Errorf("text = %q", resultText(r))
	}
}

func TestParseGedcom_BadSort(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "parse_gedcom", map[string]interface{}{
		"content": testutil.SampleTree,
		"sort":    "birth",
	})
	if !r.IsError {
		t.Error("expected error for unknown sort key")
	}
}

func TestImportAndListTrees(t *testing.T) {
	srv, store := testServer(t)

	r := callTool(t, srv, "list_trees", map[string]interface{}{})
	if resultText(r) != "no trees in the library" {
		t.Errorf("empty list = %q", resultText(r))
	}

	r = callTool(t, srv, "import_tree", map[string]interface{}{
		"path":    "royal.ged",
		"content": testutil.SampleTree,
	})
	want := "imported: royal.ged (2 individuals, 1 families, 1 sources, 2 others)"
	if resultText(r) != want {
		t.Errorf("import result = %q", resultText(r))
	}
	if _, err := store.Read("royal.ged"); err != nil {
		t.Errorf("tree not written: %v", err)
	}

	r = callTool(t, srv, "list_trees", map[string]interface{}{})
	var trees []treeservice.TreeSummary
	if err := json.Unmarshal([]byte(resultText(r)), &trees); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(trees) != 1 || trees[0].Path != "royal.ged" {
		t.Errorf("trees = %+v", trees)
	}
}

func TestImportTree_DataURI(t *testing.T) {
	srv, _ := testServer(t)
	uri := "data:text/plain;base64," + base64.StdEncoding.EncodeToString([]byte(testutil.SampleTree))

	r := callTool(t, srv, "import_tree", map[string]interface{}{"path": "uri.ged", "url": uri})
	if r.IsError {
		t.Fatalf("import failed: %s", resultText(r))
	}
}

func TestImportTree_Errors(t *testing.T) {
	srv, _ := testServer(t)
	importSample(t, srv, "dup.ged")

	cases := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{"no source", map[string]interface{}{"path": "a.ged"}, "content or url"},
		{"duplicate", map[string]interface{}{"path": "dup.ged", "content": testutil.SampleTree}, "already exists"},
		{"rejected", map[string]interface{}{"path": "bad.ged", "content": "nonsense"}, "malformed_header"},
		{"bad scheme", map[string]interface{}{"path": "f.ged", "url": "file:///etc/passwd"}, "unsupported scheme"},
		{"loopback", map[string]interface{}{"path": "l.ged", "url": "http://127.0.0.1/tree.ged"}, "blocked host"},
		{"plain data uri", map[string]interface{}{"path": "p.ged", "url": "data:text/plain,0 HEAD"}, "base64"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := callTool(t, srv, "import_tree", tc.args)
			if !r.IsError {
				t.Fatal("expected error result")
			}
			if !strings.Contains(resultText(r), tc.want) {
				t.Errorf("text = %q, want it to contain %q", resultText(r), tc.want)
			}
		})
	}
}

func TestListIndividualsAndFamilies(t *testing.T) {
	srv, _ := testServer(t)
	importSample(t, srv, "t.ged")

	r := callTool(t, srv, "list_individuals", map[string]interface{}{"tree": "t.ged", "sort": "id"})
	var inds []gedcom.Individual
	_ = json.Unmarshal([]byte(resultText(r)), &inds)
	if len(inds) != 2 || inds[0].ID != "I1" || inds[0].Surname != "Smith" {
		t.Errorf("individuals = %+v", inds)
	}

	r = callTool(t, srv, "list_families", map[string]interface{}{"tree": "t.ged"})
	var fams []gedcom.Family
	_ = json.Unmarshal([]byte(resultText(r)), &fams)
	if len(fams) != 1 || fams[0].WifeSurname != "Doe" {
		t.Errorf("families = %+v", fams)
	}

	r = callTool(t, srv, "list_individuals", map[string]interface{}{"tree": "missing.ged"})
	if !r.IsError || resultText(r) != "not found" {
		t.Errorf("missing tree = %q", resultText(r))
	}
}

func TestGetRecord(t *testing.T) {
	srv, _ := testServer(t)
	importSample(t, srv, "t.ged")

	r := callTool(t, srv, "get_record", map[string]interface{}{"tree": "t.ged", "id": "N1"})
	if r.IsError {
		t.Fatalf("get_record: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), "Shared note 1") {
		t.Errorf("record = %s", resultText(r))
	}

	r = callTool(t, srv, "get_record", map[string]interface{}{"tree": "t.ged"})
	if !r.IsError {
		t.Error("expected error without id")
	}
}

func TestSearchRecords(t *testing.T) {
	srv, _ := testServer(t)
	importSample(t, srv, "t.ged")

	r := callTool(t, srv, "search_records", map[string]interface{}{"query": "Parish", "limit": 5})
	if r.IsError || !strings.Contains(resultText(r), `"S1"`) {
		t.Errorf("search = %s", resultText(r))
	}
}

func TestGetFormatNotes(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_format_notes", map[string]interface{}{})
	text := resultText(r)
	for _, want := range []string{"0 HEAD", "noTAG", "noINDI", "malformed_record_boundary"} {
		if !strings.Contains(text, want) {
			t.Errorf("format notes missing %q", want)
		}
	}
}
