package mcp

import (
	"context"
	"testing"

	"github.com/aretw0/fsm/pkg/adapters/memory"
	"github.com/aretw0/fsm/pkg/domain"
	"github.com/aretw0/fsm/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := &domain.Config{
		Initial: "idle",
		States: map[string]domain.StateDefinition{
			"idle":    {Transitions: map[string]string{"start": "running"}},
			"running": {Transitions: map[string]string{"stop": "idle", "pause": "paused"}},
			"paused":  {Transitions: map[string]string{"resume": "running", "stop": "idle"}},
		},
		Order: []string{"idle", "running", "paused"},
	}
	mgr, err := session.NewManager(cfg, memory.NewStore())
	require.NoError(t, err)
	return NewServer(mgr, nil)
}

func TestHandleTrigger(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleTrigger(ctx, mcp.CallToolRequest{}, map[string]interface{}{"session_id": "agent", "event": "start"})
	require.NoError(t, err)
	assert.Equal(t, "running", res.Snapshot.Active)
	assert.True(t, res.Moved)

	_, err = s.handleTrigger(ctx, mcp.CallToolRequest{}, map[string]interface{}{"session_id": "agent", "event": "start"})
	assert.ErrorIs(t, err, domain.ErrUnknownEvent)

	_, err = s.handleTrigger(ctx, mcp.CallToolRequest{}, map[string]interface{}{"event": "start"})
	assert.ErrorContains(t, err, `missing required argument "session_id"`)
}

func TestHandleChangeState(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleChangeState(ctx, mcp.CallToolRequest{}, map[string]interface{}{"session_id": "agent", "state": "paused"})
	require.NoError(t, err)
	assert.Equal(t, []string{"idle", "paused"}, res.Snapshot.History)

	_, err = s.handleChangeState(ctx, mcp.CallToolRequest{}, map[string]interface{}{"session_id": "agent", "state": "flying"})
	assert.ErrorIs(t, err, domain.ErrUnknownState)
}

func TestHandleListStates(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleListStates(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{"event": "stop"})
	require.NoError(t, err)
	assert.Equal(t, []string{"running", "paused"}, res.States)

	res, err = s.handleListStates(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{})
	require.NoError(t, err)
	assert.Equal(t, []string{"idle", "running", "paused"}, res.States)
}

func TestGet(t *testing.T) {
	s := newTestServer(t)

	res, err := s.get(context.Background(), "fresh")
	require.NoError(t, err)
	assert.Equal(t, domain.NewSnapshot("idle"), res.Snapshot)
}

func TestStringArg(t *testing.T) {
	v, err := stringArg(map[string]interface{}{"k": "  go \x00"}, "k")
	require.NoError(t, err)
	assert.Equal(t, "go", v)

	_, err = stringArg(map[string]interface{}{"k": 42}, "k")
	assert.Error(t, err)
}
