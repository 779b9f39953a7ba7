package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphFollowsConditionalEdge(t *testing.T) {
	var visited []string
	g := NewGraph()
	g.AddNode("start", func(_ context.Context, s *State) error {
		visited = append(visited, "start")
		s.Intent = "b"
		return nil
	})
	for _, name := range []string{"a", "b"} {
		name := name
		g.AddNode(name, func(_ context.Context, s *State) error {
			visited = append(visited, name)
			s.Result = &Result{Answer: name}
			return nil
		})
	}
	g.AddConditionalEdges("start", func(s *State) string { return string(s.Intent) },
		map[string]string{"a": "a", "b": "b"})
	g.SetEntryPoint("start")

	state := &State{Input: "hi"}
	require.NoError(t, g.Invoke(context.Background(), state))
	assert.Equal(t, []string{"start", "b"}, visited)
	assert.Equal(t, "b", state.Result.Answer)
}

func TestGraphMissingEdge(t *testing.T) {
	g := NewGraph()
	g.AddNode("start", func(context.Context, *State) error { return nil })
	g.AddConditionalEdges("start", func(*State) string { return "nowhere" }, map[string]string{})
	g.SetEntryPoint("start")

	err := g.Invoke(context.Background(), &State{})
	assert.ErrorContains(t, err, "no edge")
}

func TestGraphDetectsCycle(t *testing.T) {
	g := NewGraph()
	g.AddNode("loop", func(context.Context, *State) error { return nil })
	g.AddConditionalEdges("loop", func(*State) string { return "again" }, map[string]string{"again": "loop"})
	g.SetEntryPoint("loop")

	err := g.Invoke(context.Background(), &State{})
	assert.ErrorContains(t, err, "cycle")
}
