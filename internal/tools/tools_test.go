package tools

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/RobinCoderZhao/capsule-mcp/pkg/capsule"
	"github.com/RobinCoderZhao/capsule-mcp/pkg/mcpserver"
)

type recorded struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   map[string]any
}

// crm is a fake Capsule API that records every request.
type crm struct {
	mu       sync.Mutex
	requests []recorded
	status   int
	reply    string
}

func (f *crm) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec := recorded{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Auth:   r.Header.Get("Authorization"),
	}
	if data, _ := io.ReadAll(r.Body); len(data) > 0 {
		json.Unmarshal(data, &rec.Body)
	}

	f.mu.Lock()
	f.requests = append(f.requests, rec)
	status, reply := f.status, f.reply
	f.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, reply)
}

func (f *crm) respond(status int, reply string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status, f.reply = status, reply
}

func (f *crm) last(t *testing.T) recorded {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		t.Fatal("no request reached the CRM")
	}
	return f.requests[len(f.requests)-1]
}

func (f *crm) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func setup(t *testing.T, f *crm) (*mcpserver.Server, *Session) {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	session := NewSession(capsule.Config{BaseURL: srv.URL, Logger: logger})
	server := mcpserver.New("capsule-mcp", "test")
	server.SetLogger(logger)
	Register(server, session)
	return server, session
}

func args(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		t.Fatal(err)
	}
	return m
}

func call(t *testing.T, server *mcpserver.Server, name, raw string) *mcpserver.ToolCallResult {
	t.Helper()
	res, rpcErr := server.CallTool(context.Background(), name, args(t, raw))
	if rpcErr != nil {
		t.Fatalf("%s: unexpected rpc error %v", name, rpcErr)
	}
	return res
}

func TestGuardBlocksUnauthenticatedCalls(t *testing.T) {
	f := &crm{reply: `{"parties":[]}`}
	server, _ := setup(t, f)

	res := call(t, server, "capsule_list_parties", `{}`)
	want := "Error: Capsule CRM client not initialized. Please use 'capsule_set_api_token' with your API token first before using capsule_list_parties."
	if !res.IsError || res.Text() != want {
		t.Fatalf("got %+v", res)
	}
	if f.count() != 0 {
		t.Fatalf("guard made %d CRM requests", f.count())
	}
}

func TestSetAPIToken(t *testing.T) {
	f := &crm{reply: `{"parties":[{"id":1},{"id":2}]}`}
	server, session := setup(t, f)

	res := call(t, server, SetAPITokenTool, `{"apiToken":"first"}`)
	if res.Text() != "API token set successfully. Capsule CRM client initialized." {
		t.Fatalf("got %q", res.Text())
	}
	call(t, server, SetAPITokenTool, `{"apiToken":"second"}`)
	if !session.Authenticated() {
		t.Fatal("session should be authenticated")
	}

	res = call(t, server, "capsule_list_parties", `{"perPage":2}`)
	if !strings.HasPrefix(res.Text(), "Found 2 parties\n\n") {
		t.Fatalf("got %q", res.Text())
	}
	got := f.last(t)
	if got.Auth != "Bearer second" {
		t.Errorf("Authorization = %q, want the latest token", got.Auth)
	}
	if got.Query != "perPage=2" {
		t.Errorf("query = %q", got.Query)
	}
	if len(server.Tools()) != len(ResourceTools(session))+2 {
		t.Errorf("re-registration changed the tool count to %d", len(server.Tools()))
	}
}

func TestSetAPITokenEmptyIsFault(t *testing.T) {
	server, session := setup(t, &crm{})

	_, rpcErr := server.CallTool(context.Background(), SetAPITokenTool, map[string]any{"apiToken": ""})
	if rpcErr == nil {
		t.Fatal("expected rpc error")
	}
	if rpcErr.Code != mcpserver.CodeInternalError {
		t.Errorf("code = %d", rpcErr.Code)
	}
	if rpcErr.Message != "Tool execution failed: Failed to set API token: API token is required" {
		t.Errorf("message = %q", rpcErr.Message)
	}
	if session.Authenticated() {
		t.Error("empty token must not authenticate")
	}
}

func TestTestConnection(t *testing.T) {
	f := &crm{reply: `{"user":{"id":1,"name":"Ada Lovelace","username":"ada"}}`}
	server, session := setup(t, f)

	_, rpcErr := server.CallTool(context.Background(), TestConnectionTool, map[string]any{"random_string": "x"})
	if rpcErr == nil || rpcErr.Message != "Tool execution failed: API token not set. Please use capsule_set_api_token first." {
		t.Fatalf("unauthenticated: got %v", rpcErr)
	}

	if err := session.Authenticate("token"); err != nil {
		t.Fatal(err)
	}
	res := call(t, server, TestConnectionTool, `{"random_string":"x"}`)
	if res.Text() != "Connection successful! Authenticated as: Ada Lovelace (ada)" {
		t.Fatalf("got %q", res.Text())
	}
	if got := f.last(t); got.Path != "/users/me" {
		t.Errorf("path = %q", got.Path)
	}

	f.respond(http.StatusUnauthorized, `{"error":"invalid_token"}`)
	_, rpcErr = server.CallTool(context.Background(), TestConnectionTool, map[string]any{"random_string": "x"})
	if rpcErr == nil || rpcErr.Message != "Tool execution failed: Connection test failed: HTTP 401: invalid_token" {
		t.Fatalf("failure: got %v", rpcErr)
	}
}

func TestCreatePerson(t *testing.T) {
	f := &crm{
		status: http.StatusCreated,
		reply:  `{"party":{"id":11,"type":"person","firstName":"Ada","lastName":"Lovelace"}}`,
	}
	server, session := setup(t, f)
	session.Authenticate("token")

	res := call(t, server, "capsule_create_person", `{"firstName":"Ada","lastName":"Lovelace","ownerId":3}`)
	if res.IsError {
		t.Fatalf("unexpected error: %s", res.Text())
	}
	if !strings.HasPrefix(res.Text(), "Created person: Ada Lovelace\n\n{\n  \"party\"") {
		t.Fatalf("got %q", res.Text())
	}

	got := f.last(t)
	if got.Method != http.MethodPost || got.Path != "/parties" {
		t.Errorf("request = %s %s", got.Method, got.Path)
	}
	if got.Query != "embed=tags%2Cfields%2Corganisation" {
		t.Errorf("query = %q", got.Query)
	}
	want := map[string]any{"party": map[string]any{
		"type":      "person",
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"owner":     map[string]any{"id": float64(3)},
	}}
	if diff := cmp.Diff(want, got.Body); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdatePartyClearsOwner(t *testing.T) {
	f := &crm{reply: `{"party":{"id":7,"type":"organisation","name":"Acme"}}`}
	server, session := setup(t, f)
	session.Authenticate("token")

	res := call(t, server, "capsule_update_party", `{"partyId":7,"ownerId":null,"about":"Widgets"}`)
	if !strings.HasPrefix(res.Text(), "Updated party: Acme\n\n") {
		t.Fatalf("got %q", res.Text())
	}
	got := f.last(t)
	if got.Method != http.MethodPut || got.Path != "/parties/7" {
		t.Errorf("request = %s %s", got.Method, got.Path)
	}
	want := map[string]any{"party": map[string]any{"about": "Widgets", "owner": nil}}
	if diff := cmp.Diff(want, got.Body); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
}

func TestMarkTaskComplete(t *testing.T) {
	f := &crm{reply: `{"task":{"id":42,"description":"Call Ada","completed":true}}`}
	server, session := setup(t, f)
	session.Authenticate("token")

	res := call(t, server, "capsule_mark_task_complete", `{"taskId":42}`)
	if !strings.HasPrefix(res.Text(), "Task marked as complete: Call Ada\n\n") {
		t.Fatalf("got %q", res.Text())
	}
	got := f.last(t)
	if got.Method != http.MethodPut || got.Path != "/tasks/42" {
		t.Errorf("request = %s %s", got.Method, got.Path)
	}
	want := map[string]any{"task": map[string]any{"completed": true}}
	if diff := cmp.Diff(want, got.Body); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
}

func TestDeleteProject(t *testing.T) {
	f := &crm{status: http.StatusNoContent}
	server, session := setup(t, f)
	session.Authenticate("token")

	res := call(t, server, "capsule_delete_project", `{"projectId":5}`)
	if res.IsError || res.Text() != "Project with ID 5 has been successfully deleted." {
		t.Fatalf("got %+v", res)
	}
	if got := f.last(t); got.Method != http.MethodDelete || got.Path != "/kases/5" {
		t.Errorf("request = %s %s", got.Method, got.Path)
	}
}

func TestCreateEntrySummary(t *testing.T) {
	long := strings.Repeat("x", 60)
	f := &crm{reply: `{"entry":{"id":1,"content":"` + long + `"}}`}
	server, session := setup(t, f)
	session.Authenticate("token")

	res := call(t, server, "capsule_create_entry", `{"content":"`+long+`","partyId":9}`)
	if !strings.HasPrefix(res.Text(), "Created entry: "+long[:50]+"...\n\n") {
		t.Fatalf("got %q", res.Text())
	}
	want := map[string]any{"entry": map[string]any{"content": long, "party": map[string]any{"id": float64(9)}}}
	if diff := cmp.Diff(want, f.last(t).Body); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
}

func TestErrorEnvelopes(t *testing.T) {
	tests := []struct {
		name   string
		tool   string
		args   string
		status int
		reply  string
		want   string
		calls  int
	}{
		{
			name: "invalid arguments",
			tool: "capsule_get_party",
			args: `{"partyId":"seven"}`,
			want: "Error: invalid arguments:",
		},
		{
			name: "missing required argument",
			tool: "capsule_search_parties",
			args: `{}`,
			want: "Error: invalid arguments:",
		},
		{
			name:   "http error",
			tool:   "capsule_create_organization",
			args:   `{"name":"Acme"}`,
			status: http.StatusUnprocessableEntity,
			reply:  `{"error_description":"name is taken"}`,
			want:   "Error: HTTP 422: name is taken",
			calls:  1,
		},
		{
			name:  "delete without id",
			tool:  "capsule_update_task",
			args:  `{"taskId":1,"tags":[{"_delete":true}]}`,
			want:  "Error: invalid arguments:",
			calls: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &crm{status: tt.status, reply: tt.reply}
			server, session := setup(t, f)
			session.Authenticate("token")

			res := call(t, server, tt.tool, tt.args)
			if !res.IsError {
				t.Fatalf("expected error result, got %q", res.Text())
			}
			if !strings.HasPrefix(res.Text(), tt.want) {
				t.Errorf("got %q, want prefix %q", res.Text(), tt.want)
			}
			if f.count() != tt.calls {
				t.Errorf("CRM requests = %d, want %d", f.count(), tt.calls)
			}
		})
	}
}

func TestListMilestonesByPipeline(t *testing.T) {
	f := &crm{reply: `{"milestones":[{"id":1},{"id":2},{"id":3}]}`}
	server, session := setup(t, f)
	session.Authenticate("token")

	call(t, server, "capsule_list_milestones", `{"pipelineId":4}`)
	if got := f.last(t).Path; got != "/pipelines/4/milestones" {
		t.Errorf("path = %q", got)
	}
	call(t, server, "capsule_list_milestones", `{"page":2}`)
	got := f.last(t)
	if got.Path != "/milestones" || got.Query != "page=2" {
		t.Errorf("request = %s?%s", got.Path, got.Query)
	}
}

func TestOptionsFromArgs(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want capsule.Options
	}{
		{name: "empty", in: `{}`},
		{
			name: "reserved",
			in:   `{"page":2,"perPage":100,"embed":"tags","since":"2024-01-01T00:00:00Z","q":"ada"}`,
			want: capsule.Options{Page: 2, PerPage: 100, Embed: []string{"tags"}, Since: "2024-01-01T00:00:00Z", Query: "ada"},
		},
		{
			name: "embed list keeps order",
			in:   `{"embed":["fields","tags"]}`,
			want: capsule.Options{Embed: []string{"fields", "tags"}},
		},
		{
			name: "filters",
			in:   `{"status":"OPEN","limit":5,"skip":null}`,
			want: capsule.Options{Filters: map[string]any{"status": "OPEN", "limit": float64(5)}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OptionsFromArgs(args(t, tt.in))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestToolSet(t *testing.T) {
	server, _ := setup(t, &crm{})

	names := map[string]mcpserver.ToolDef{}
	for _, def := range server.Tools() {
		names[def.Name] = def
	}
	want := []string{
		SetAPITokenTool, TestConnectionTool,
		"capsule_list_parties", "capsule_get_party", "capsule_get_multiple_parties",
		"capsule_search_parties", "capsule_create_person", "capsule_create_organization",
		"capsule_update_party", "capsule_delete_party", "capsule_list_employees",
		"capsule_list_opportunities", "capsule_get_opportunity", "capsule_get_multiple_opportunities",
		"capsule_list_opportunities_by_party", "capsule_search_opportunities",
		"capsule_create_opportunity", "capsule_update_opportunity", "capsule_delete_opportunity",
		"capsule_list_opportunity_parties", "capsule_add_party_to_opportunity",
		"capsule_remove_party_from_opportunity", "capsule_list_pipelines", "capsule_get_pipeline",
		"capsule_list_milestones", "capsule_get_milestone",
		"capsule_list_projects", "capsule_get_project", "capsule_list_projects_by_party",
		"capsule_search_projects", "capsule_create_project", "capsule_update_project",
		"capsule_delete_project",
		"capsule_list_tasks", "capsule_get_task", "capsule_search_tasks", "capsule_create_task",
		"capsule_update_task", "capsule_delete_task", "capsule_mark_task_complete",
		"capsule_mark_task_incomplete", "capsule_list_tag_definitions", "capsule_list_custom_fields",
		"capsule_list_users", "capsule_create_entry", "capsule_list_entries",
	}
	for _, name := range want {
		if _, ok := names[name]; !ok {
			t.Errorf("tool %s is not registered", name)
		}
	}
	if len(names) != len(want) {
		t.Errorf("registered %d tools, want %d", len(names), len(want))
	}

	def := names["capsule_delete_party"]
	if def.Annotations == nil || !def.Annotations.DestructiveHint {
		t.Errorf("delete_party annotations = %+v", def.Annotations)
	}
	if def.InputSchema["type"] != "object" {
		t.Errorf("schema type = %v", def.InputSchema["type"])
	}
}

func TestEmbedAcceptsStringOrList(t *testing.T) {
	f := &crm{reply: `{"party":{"id":7,"type":"person","firstName":"Ada","lastName":"Lovelace"}}`}
	server, session := setup(t, f)
	session.Authenticate("token")

	for _, tt := range []struct{ args, query string }{
		{`{"partyId":7,"embed":"tags"}`, "embed=tags"},
		{`{"partyId":7,"embed":["fields","tags"]}`, "embed=fields%2Ctags"},
	} {
		res := call(t, server, "capsule_get_party", tt.args)
		if !strings.HasPrefix(res.Text(), "Retrieved party: Ada Lovelace\n\n") {
			t.Fatalf("%s: got %q", tt.args, res.Text())
		}
		if got := f.last(t).Query; got != tt.query {
			t.Errorf("%s: query = %q, want %q", tt.args, got, tt.query)
		}
	}

	res := call(t, server, "capsule_get_party", `{"partyId":7,"embed":"everything"}`)
	if !res.IsError {
		t.Errorf("unknown embed accepted: %q", res.Text())
	}
}
