package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Tests for Store and Scope ---

func TestStore_SharedIsSingleton(t *testing.T) {
	store := NewStore()

	a := store.Shared()
	b := store.Shared()
	require.Same(t, a, b)
	assert.Equal(t, Shared, a.Kind())
}

func TestStore_NewIsolatedIsFresh(t *testing.T) {
	store := NewStore()

	a := store.NewIsolated()
	b := store.NewIsolated()
	require.NotSame(t, a, b)
	assert.Equal(t, Isolated, a.Kind())

	a.Write("k", "v")
	_, ok := b.Read("k")
	assert.False(t, ok, "isolated scopes must not share entries")
}

func TestScope_WriteRead(t *testing.T) {
	store := NewStore()
	sc := store.Shared()

	sc.Write("k", map[string]any{"answer": 42})

	v, ok := sc.Read("k")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"answer": 42}, v)

	_, ok = sc.Read("missing")
	assert.False(t, ok)
}

func TestScope_WriteReplaces(t *testing.T) {
	sc := NewStore().Shared()

	sc.Write("k", "first")
	sc.Write("k", "second")

	v, ok := sc.Read("k")
	require.True(t, ok)
	assert.Equal(t, "second", v)
	assert.Equal(t, 1, sc.Len())
}

func TestScope_IsolatedDoesNotTouchShared(t *testing.T) {
	store := NewStore()
	iso := store.NewIsolated()

	iso.Write("private", "x")

	_, ok := store.Shared().Read("private")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Shared().Len())
}

func TestScope_ConcurrentWriters(t *testing.T) {
	sc := NewStore().Shared()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			sc.Write(fmt.Sprintf("key-%d", n), n)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, sc.Len())
	v, ok := sc.Read("key-7")
	require.True(t, ok)
	assert.Equal(t, 7, v)
}

// --- Tests for NamespacedKey ---

func TestNamespacedKey_SanitizesAndPrefixes(t *testing.T) {
	assert.Equal(t, "subagent:research_Notion_features",
		NamespacedKey("research Notion features"))
}

func TestNamespacedKey_ReplacesNonWordCharacters(t *testing.T) {
	assert.Equal(t, "subagent:git__commit__push_",
		NamespacedKey("git: commit, push!"))
}

func TestNamespacedKey_TruncatesTo40(t *testing.T) {
	long := "this description is far longer than forty characters in total"
	key := NamespacedKey(long)

	assert.Len(t, key, len("subagent:")+40)
	assert.Equal(t, "subagent:this_description_is_far_longer_than_fort", key)
}

func TestNamespacedKey_Idempotent(t *testing.T) {
	inputs := []string{
		"research Notion features",
		"already_sanitized_description",
		"UPPER lower 123 !!!",
		"",
	}
	for _, in := range inputs {
		once := NamespacedKey(in)
		// Re-sanitizing the sanitized portion must be a fixed point.
		again := NamespacedKey(once[len("subagent:"):])
		assert.Equal(t, once, again, "input %q", in)
	}
}

func TestNamespacedKey_Deterministic(t *testing.T) {
	assert.Equal(t, NamespacedKey("same input"), NamespacedKey("same input"))
}
