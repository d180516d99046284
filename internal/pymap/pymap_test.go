package pymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, name string, args ...string) string {
	t.Helper()
	b, ok := Lookup(name)
	require.True(t, ok, "builtin %s not in table", name)
	require.True(t, b.Accepts(len(args)), "builtin %s rejects %d args", name, len(args))
	return b.Render(args)
}

func TestDirectMappings(t *testing.T) {
	assert.Equal(t, `print("hi")`, render(t, "PRINT", `"hi"`))
	assert.Equal(t, "len(xs)", render(t, "GET_LENGTH", "xs"))
	assert.Equal(t, "len(s)", render(t, "GET_STRING_LENGTH", "s"))
	assert.Equal(t, "str(n)", render(t, "INTEGER_TO_STRING", "n"))
	assert.Equal(t, "str(f)", render(t, "FLOAT_TO_STRING", "f"))
	assert.Equal(t, "str(b)", render(t, "BOOLEAN_TO_STRING", "b"))
	assert.Equal(t, "str(x)", render(t, "NULL_TO_STRING", "x"))
	assert.Equal(t, "int(s)", render(t, "STRING_TO_INTEGER", "s"))
	assert.Equal(t, "float(s)", render(t, "STRING_TO_FLOAT", "s"))
}

func TestStringRewrites(t *testing.T) {
	assert.Equal(t, `(s == "TRUE")`, render(t, "STRING_TO_BOOLEAN", "s"))
	assert.Equal(t, "(a + b)", render(t, "CONCATENATE_STRINGS", "a", "b"))
	assert.Equal(t, "(a + b + c)", render(t, "CONCATENATE_STRINGS", "a", "b", "c"))
	assert.Equal(t, "s.split()", render(t, "SPLIT_STRING", "s"))
	assert.Equal(t, `s.split(",")`, render(t, "SPLIT_STRING", "s", `","`))
}

func TestListRewrites(t *testing.T) {
	assert.Equal(t, "xs.append(v)", render(t, "ADD_ELEMENT", "xs", "v"))
	assert.Equal(t, "xs[i]", render(t, "GET_ELEMENT", "xs", "i"))
	assert.Equal(t, "xs[i] = v", render(t, "SET_ELEMENT", "xs", "i", "v"))
}

func TestMapRewrites(t *testing.T) {
	assert.Equal(t, "(k in m)", render(t, "MAP_HAS_KEY", "m", "k"))
	assert.Equal(t, "m[k]", render(t, "GET_MAP_VALUE", "m", "k"))
	assert.Equal(t, "m.get(k, d)", render(t, "GET_MAP_VALUE", "m", "k", "d"))
	assert.Equal(t, "m[k] = v", render(t, "SET_MAP_VALUE", "m", "k", "v"))
	assert.Equal(t, "list(m.keys())", render(t, "GET_MAP_KEYS", "m"))
}

func TestFileRewrites(t *testing.T) {
	assert.Equal(t, "open(p)", render(t, "OPEN_FILE", "p"))
	assert.Equal(t, `open(p, "w")`, render(t, "OPEN_FILE", "p", `"w"`))
	assert.Equal(t, "f.readline()", render(t, "READ_LINE", "f"))
	assert.Equal(t, "print(line, file=f)", render(t, "WRITE_LINE", "line", "f"))
	assert.Equal(t, "f.close()", render(t, "CLOSE_FILE", "f"))
}

func TestArityChecks(t *testing.T) {
	getLen, _ := Lookup("GET_LENGTH")
	assert.True(t, getLen.Accepts(1))
	assert.False(t, getLen.Accepts(0))
	assert.False(t, getLen.Accepts(2))

	getMapValue, _ := Lookup("GET_MAP_VALUE")
	assert.True(t, getMapValue.Accepts(2))
	assert.True(t, getMapValue.Accepts(3))
	assert.False(t, getMapValue.Accepts(1))
	assert.Equal(t, "2 or 3", getMapValue.Arities())

	concat, _ := Lookup("CONCATENATE_STRINGS")
	assert.False(t, concat.Accepts(1))
	assert.True(t, concat.Accepts(2))
	assert.True(t, concat.Accepts(9))
	assert.Equal(t, "at least 2", concat.Arities())
}

func TestUnknownNameIsNotABuiltin(t *testing.T) {
	_, ok := Lookup("MY_HELPER")
	assert.False(t, ok)
	_, ok = Lookup("print")
	assert.False(t, ok, "table keys are the uppercase source-language names")
}

func TestNamesSortedAndComplete(t *testing.T) {
	names := Names()
	require.NotEmpty(t, names)
	for i := 1; i < len(names); i++ {
		assert.Less(t, names[i-1], names[i], "names must be sorted")
	}
	assert.Contains(t, names, "PRINT")
	assert.Contains(t, names, "CLOSE_FILE")
}
