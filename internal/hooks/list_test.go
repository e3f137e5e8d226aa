package hooks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestList_Empty(t *testing.T) {
	t.Parallel()

	list := NewList()
	assert.Equal(t, 0, list.Len())
	assert.Equal(t, noIndex, list.First())
	assert.Empty(t, list.Hooks())
	assert.Empty(t, list.Names())
}

func TestList_AppendOrMoveToTail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		names []string
		want  []string
	}{
		{"single", []string{"lint"}, []string{"lint"}},
		{"distinct keep order", []string{"lint", "test", "fmt"}, []string{"lint", "test", "fmt"}},
		{"redeclared moves to tail", []string{"lint", "test", "lint"}, []string{"test", "lint"}},
		{"head moves", []string{"a", "b", "c", "a"}, []string{"b", "c", "a"}},
		{"middle moves", []string{"a", "b", "c", "b"}, []string{"a", "c", "b"}},
		{"tail stays", []string{"a", "b", "b"}, []string{"a", "b"}},
		{"repeated", []string{"a", "a", "a"}, []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			list := NewList()
			for _, name := range tt.names {
				list.AppendOrMoveToTail(name)
			}
			assert.Equal(t, tt.want, list.Names())
			assert.Equal(t, len(tt.want), list.Len())
		})
	}
}

func TestList_SetDefault(t *testing.T) {
	t.Parallel()

	list := NewList()
	list.AppendOrMoveToTail("lint")
	list.SetDefault("/repo/.git/hooks/pre-commit")
	list.AppendOrMoveToTail("test")
	list.AppendOrMoveToTail("lint")

	assert.Equal(t, []string{"test", "lint", "/repo/.git/hooks/pre-commit"}, list.Names())

	list.SetDefault("/other/pre-commit")
	assert.Equal(t, 3, list.Len())

	hooks := list.Hooks()
	require.Len(t, hooks, 3)
	last := hooks[2]
	assert.True(t, last.Anonymous())
	assert.Equal(t, "/other/pre-commit", last.Path)
	assert.Equal(t, anonymousLabel, last.Label())
}

func TestList_WalkByIndex(t *testing.T) {
	t.Parallel()

	list := NewList()
	for _, name := range []string{"a", "b", "c", "a"} {
		list.AppendOrMoveToTail(name)
	}

	var walked []string
	for idx := list.First(); idx != noIndex; idx = list.Next(idx) {
		walked = append(walked, list.At(idx).Name)
	}
	assert.Equal(t, []string{"b", "c", "a"}, walked)
}

// TestList_OrderProperty checks the list against a simple model: configured
// hooks ordered by their last declaration, then the filesystem hook.
func TestList_OrderProperty(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		ops := rapid.SliceOf(rapid.SampledFrom([]string{"a", "b", "c", "d", "e", "*"})).Draw(t, "ops")

		list := NewList()
		var model []string
		defaultPath := ""
		for i, op := range ops {
			if op == "*" {
				defaultPath = "/hooks/" + string(rune('0'+i%10))
				list.SetDefault(defaultPath)
				continue
			}
			list.AppendOrMoveToTail(op)
			for j, name := range model {
				if name == op {
					model = append(model[:j:j], model[j+1:]...)
					break
				}
			}
			model = append(model, op)
		}
		if defaultPath != "" {
			model = append(model, defaultPath)
		}

		if got := list.Names(); len(got) != len(model) {
			t.Fatalf("Names() = %v, want %v", got, model)
		} else {
			for i := range got {
				if got[i] != model[i] {
					t.Fatalf("Names() = %v, want %v", got, model)
				}
			}
		}

		seen := map[string]bool{}
		anonymous := 0
		hooks := list.Hooks()
		for i, hook := range hooks {
			if hook.Anonymous() {
				anonymous++
				if i != len(hooks)-1 {
					t.Fatalf("filesystem hook at %d of %d", i, len(hooks))
				}
				continue
			}
			if seen[hook.Name] {
				t.Fatalf("duplicate hook %q", hook.Name)
			}
			seen[hook.Name] = true
		}
		if anonymous > 1 {
			t.Fatalf("%d filesystem hooks", anonymous)
		}
		if list.Len() != len(hooks) {
			t.Fatalf("Len() = %d, walked %d", list.Len(), len(hooks))
		}
	})
}
