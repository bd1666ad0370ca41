package tui

import (
	"strings"
	"testing"

	"github.com/aretw0/fsm/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	cfg := &domain.Config{
		Initial: "draft",
		States: map[string]domain.StateDefinition{
			"draft":     {Transitions: map[string]string{"submit": "review"}, Extra: map[string]any{"owner": "author"}},
			"review":    {Transitions: map[string]string{"reject": "draft", "approve": "published"}},
			"published": {Transitions: map[string]string{"archive": "archived"}},
		},
		Order: []string{"draft", "review", "published"},
	}

	md := Describe("article", cfg)

	assert.True(t, strings.HasPrefix(md, "# article\n"))
	assert.Contains(t, md, "Initial state: **draft**. 3 states.")
	assert.Contains(t, md, "## draft (initial)")
	assert.Contains(t, md, "| `submit` | review |")
	assert.Contains(t, md, "- owner: author")
	assert.Contains(t, md, "| `archive` | archived (undefined) |")
	assert.Less(t, strings.Index(md, "| `approve`"), strings.Index(md, "| `reject`"))
	assert.Less(t, strings.Index(md, "## review"), strings.Index(md, "## published"))
}

func TestDescribe_NoTransitions(t *testing.T) {
	md := Describe("single", &domain.Config{
		Initial: "only",
		States:  map[string]domain.StateDefinition{"only": {}},
	})
	assert.Contains(t, md, "No outgoing transitions.")
}

func TestNewRenderer(t *testing.T) {
	render := NewRenderer()
	out, err := render("# Title\n\nsome *text*\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
}
