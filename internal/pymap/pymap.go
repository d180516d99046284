// Package pymap is the static table mapping Fluent builtin functions to
// Python source shapes.
//
// Entries come in two forms: direct mappings that keep the call shape and
// only rename the callee (PRINT -> print), and rewrites that change the call
// shape entirely (ADD_ELEMENT(xs, v) -> xs.append(v)). Renderers receive the
// argument expressions already emitted as Python text; the table never
// inspects or re-renders arguments itself.
//
// Names absent from the table are not errors: they are user-defined
// functions and keep their spelling. The builtin and user namespaces are
// one, and the table always wins on collision.
package pymap

import (
	"sort"
	"strconv"
	"strings"
)

// Builtin is one table entry. Immutable after init.
type Builtin struct {
	name     string
	arities  []int // accepted argument counts; nil means variadic
	minArity int   // lower bound when variadic
	render   func(args []string) string
}

// Name returns the Fluent-side builtin name.
func (b *Builtin) Name() string { return b.name }

// Accepts reports whether the builtin takes argc arguments.
func (b *Builtin) Accepts(argc int) bool {
	if b.arities == nil {
		return argc >= b.minArity
	}
	for _, a := range b.arities {
		if a == argc {
			return true
		}
	}
	return false
}

// Arities describes the accepted argument counts, for error messages.
func (b *Builtin) Arities() string {
	if b.arities == nil {
		return "at least " + strconv.Itoa(b.minArity)
	}
	parts := make([]string, len(b.arities))
	for i, a := range b.arities {
		parts[i] = strconv.Itoa(a)
	}
	return strings.Join(parts, " or ")
}

// Render emits the Python text for a call whose arity Accepts already
// approved. Calling Render with an unapproved arity is a programming error.
func (b *Builtin) Render(args []string) string { return b.render(args) }

// direct builds a renderer that keeps the call shape under a Python name.
func direct(pyName string) func(args []string) string {
	return func(args []string) string {
		return pyName + "(" + strings.Join(args, ", ") + ")"
	}
}

var table = map[string]*Builtin{}

func register(name string, arities []int, render func(args []string) string) {
	table[name] = &Builtin{name: name, arities: arities, render: render}
}

func registerVariadic(name string, minArity int, render func(args []string) string) {
	table[name] = &Builtin{name: name, minArity: minArity, render: render}
}

func init() {
	// Direct mappings.
	register("PRINT", []int{1}, direct("print"))
	register("GET_LENGTH", []int{1}, direct("len"))
	register("GET_STRING_LENGTH", []int{1}, direct("len"))
	register("INTEGER_TO_STRING", []int{1}, direct("str"))
	register("FLOAT_TO_STRING", []int{1}, direct("str"))
	register("BOOLEAN_TO_STRING", []int{1}, direct("str"))
	register("NULL_TO_STRING", []int{1}, direct("str"))
	register("STRING_TO_INTEGER", []int{1}, direct("int"))
	register("STRING_TO_FLOAT", []int{1}, direct("float"))

	// Shape rewrites.
	register("STRING_TO_BOOLEAN", []int{1}, func(a []string) string {
		return "(" + a[0] + " == \"TRUE\")"
	})
	registerVariadic("CONCATENATE_STRINGS", 2, func(a []string) string {
		return "(" + strings.Join(a, " + ") + ")"
	})
	register("SPLIT_STRING", []int{1, 2}, func(a []string) string {
		if len(a) == 1 {
			return a[0] + ".split()"
		}
		return a[0] + ".split(" + a[1] + ")"
	})

	register("ADD_ELEMENT", []int{2}, func(a []string) string {
		return a[0] + ".append(" + a[1] + ")"
	})
	register("GET_ELEMENT", []int{2}, func(a []string) string {
		return a[0] + "[" + a[1] + "]"
	})
	register("SET_ELEMENT", []int{3}, func(a []string) string {
		return a[0] + "[" + a[1] + "] = " + a[2]
	})

	register("MAP_HAS_KEY", []int{2}, func(a []string) string {
		return "(" + a[1] + " in " + a[0] + ")"
	})
	register("GET_MAP_VALUE", []int{2, 3}, func(a []string) string {
		if len(a) == 2 {
			return a[0] + "[" + a[1] + "]"
		}
		return a[0] + ".get(" + a[1] + ", " + a[2] + ")"
	})
	register("SET_MAP_VALUE", []int{3}, func(a []string) string {
		return a[0] + "[" + a[1] + "] = " + a[2]
	})
	register("GET_MAP_KEYS", []int{1}, func(a []string) string {
		return "list(" + a[0] + ".keys())"
	})

	register("OPEN_FILE", []int{1, 2}, func(a []string) string {
		return "open(" + strings.Join(a, ", ") + ")"
	})
	register("READ_LINE", []int{1}, func(a []string) string {
		return a[0] + ".readline()"
	})
	register("WRITE_LINE", []int{2}, func(a []string) string {
		return "print(" + a[0] + ", file=" + a[1] + ")"
	})
	register("CLOSE_FILE", []int{1}, func(a []string) string {
		return a[0] + ".close()"
	})
}

// Lookup returns the table entry for name, if any.
func Lookup(name string) (*Builtin, bool) {
	b, ok := table[name]
	return b, ok
}

// Names returns all builtin names in sorted order.
func Names() []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
