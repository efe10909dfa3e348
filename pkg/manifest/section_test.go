package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSection_SetKeepsOrder(t *testing.T) {
	s := NewSection[string]()
	s.Set("b", "1")
	s.Set("a", "2")
	s.Set("c", "3")
	s.Set("a", "4")

	assert.Equal(t, []string{"b", "a", "c"}, s.Keys())
	assert.Equal(t, 3, s.Len())

	v, ok := s.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "4", v)
}

func TestSection_Add(t *testing.T) {
	s := NewSection[string]()
	require.NoError(t, s.Add("a", "1"))

	err := s.Add("a", "2")
	var dupErr *DuplicateKeyError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "a", dupErr.Key)
	assert.Equal(t, 0, dupErr.Line)
	assert.Equal(t, `manifest: duplicate key "a"`, err.Error())

	v, _ := s.Get("a")
	assert.Equal(t, "1", v)
}

func TestSection_Delete(t *testing.T) {
	s := NewSection[int]()
	s.Set("a", 1)
	s.Set("b", 2)
	s.Set("c", 3)

	assert.True(t, s.Delete("b"))
	assert.False(t, s.Delete("b"))
	assert.False(t, s.Has("b"))
	assert.Equal(t, []string{"a", "c"}, s.Keys())

	s.Set("b", 4)
	assert.Equal(t, []string{"a", "c", "b"}, s.Keys())
}

func TestSection_All(t *testing.T) {
	s := NewSection[int]()
	s.Set("x", 1)
	s.Set("y", 2)
	s.Set("z", 3)

	var keys []string
	var sum int
	for k, v := range s.All() {
		keys = append(keys, k)
		sum += v
	}
	assert.Equal(t, []string{"x", "y", "z"}, keys)
	assert.Equal(t, 6, sum)

	// Stops when the loop breaks
	var first string
	for k := range s.All() {
		first = k
		break
	}
	assert.Equal(t, "x", first)
}

func TestSection_ZeroValue(t *testing.T) {
	var s Section[string]
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Has("a"))

	s.Set("a", "b")
	v, ok := s.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "b", v)
}

func TestSection_KeysIsCopy(t *testing.T) {
	s := NewSection[string]()
	s.Set("a", "1")

	keys := s.Keys()
	keys[0] = "mutated"
	assert.Equal(t, []string{"a"}, s.Keys())
}

func TestManifest_Main(t *testing.T) {
	var empty Manifest[string]
	assert.Nil(t, empty.Main())

	main := stringSection("Manifest-Version", "1.0")
	m := Manifest[string]{main, stringSection("Name", "x")}
	assert.Same(t, main, m.Main())
}
