package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/motion/pkg/config"
	"github.com/aretw0/motion/pkg/domain"
	"github.com/aretw0/motion/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockEngine struct {
	err     error
	ids     []string
	visible ports.VisibilityRequest
	content ports.ContentRequest
	target  string
	closed  string
}

func (m *mockEngine) frame(id string) (*domain.Frame, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Frame{SessionID: id, Revision: 1}, nil
}

func (m *mockEngine) OpenVisibility(ctx context.Context, id string, req ports.VisibilityRequest) (*domain.Frame, error) {
	m.visible = req
	return m.frame(id)
}

func (m *mockEngine) SetVisible(ctx context.Context, id string, visible bool, enter, exit string) (*domain.Frame, error) {
	return m.frame(id)
}

func (m *mockEngine) OpenContent(ctx context.Context, id string, req ports.ContentRequest) (*domain.Frame, error) {
	m.content = req
	return m.frame(id)
}

func (m *mockEngine) SetTarget(ctx context.Context, id, target, enter, exit string) (*domain.Frame, error) {
	m.target = target
	return m.frame(id)
}

func (m *mockEngine) Frame(ctx context.Context, id string) (*domain.Frame, error) {
	return m.frame(id)
}

func (m *mockEngine) Sessions(ctx context.Context) ([]string, error) { return m.ids, m.err }

func (m *mockEngine) Close(ctx context.Context, id string) error {
	m.closed = id
	return m.err
}

func (m *mockEngine) Watch(ctx context.Context, id string) (<-chan domain.FrameDiff, error) {
	return nil, m.err
}

func TestToolHandlers(t *testing.T) {
	eng := &mockEngine{}
	s := NewServer(eng, config.Default())
	ctx := context.Background()

	res, err := s.handleOpenVisibility(ctx, mcp.CallToolRequest{}, OpenVisibilityArgs{
		SessionID:         "banner",
		VisibilityRequest: ports.VisibilityRequest{Visible: true, Enter: "fade-in"},
	})
	require.NoError(t, err)
	assert.Equal(t, "banner", res.Frame.SessionID)
	assert.True(t, eng.visible.Visible)
	assert.Equal(t, "fade-in", eng.visible.Enter)

	_, err = s.handleOpenContent(ctx, mcp.CallToolRequest{}, OpenContentArgs{
		SessionID:      "tabs",
		ContentRequest: ports.ContentRequest{Target: "home", NewStateOnTop: true},
	})
	require.NoError(t, err)
	assert.True(t, eng.content.NewStateOnTop)

	_, err = s.handleSetTarget(ctx, mcp.CallToolRequest{}, SetTargetArgs{SessionID: "tabs", Target: "settings"})
	require.NoError(t, err)
	assert.Equal(t, "settings", eng.target)

	list, err := s.handleListSessions(ctx, mcp.CallToolRequest{}, struct{}{})
	require.NoError(t, err)
	assert.Equal(t, []string{}, list.Sessions)

	closed, err := s.handleCloseSession(ctx, mcp.CallToolRequest{}, SessionArgs{SessionID: "tabs"})
	require.NoError(t, err)
	assert.Equal(t, "tabs", closed.Closed)
	assert.Equal(t, "tabs", eng.closed)
}

func TestToolHandlers_Errors(t *testing.T) {
	s := NewServer(&mockEngine{err: domain.ErrSessionNotFound}, config.Default())

	_, err := s.handleGetFrame(context.Background(), mcp.CallToolRequest{}, SessionArgs{SessionID: "x"})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.Contains(t, err.Error(), "get_frame failed")
}

func TestArgsDecodeFromToolArguments(t *testing.T) {
	var args OpenContentArgs
	raw := `{"session_id":"tabs","target":"home","shared_enter":"fade-in","keep_content_in_bounds":true}`
	require.NoError(t, json.Unmarshal([]byte(raw), &args))

	assert.Equal(t, "tabs", args.SessionID)
	assert.Equal(t, "home", args.Target)
	assert.Equal(t, "fade-in", args.SharedEnter)
	assert.True(t, args.KeepContentInBounds)
}

func TestLibraryResource(t *testing.T) {
	s := NewServer(&mockEngine{}, config.Default())

	contents, err := s.readLibrary(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, LibraryURI, text.URI)
	assert.Equal(t, "application/json", text.MIMEType)
	assert.Contains(t, text.Text, `"fade-in"`)
}

func TestListToolsOverJSONRPC(t *testing.T) {
	s := NewServer(&mockEngine{}, config.Default())

	resp := s.MCPServer().HandleMessage(context.Background(),
		json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	out, err := json.Marshal(resp)
	require.NoError(t, err)

	for _, name := range []string{"open_visibility", "set_visible", "open_content", "set_target", "get_frame", "list_sessions", "close_session"} {
		assert.Contains(t, string(out), `"`+name+`"`)
	}
}
