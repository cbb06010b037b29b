// Package rename assigns short names to the local bindings of a resolved program.
package rename

import (
	"sort"

	"github.com/tdewolff/crunch/ast"
	"github.com/tdewolff/crunch/config"
	"github.com/tdewolff/parse/v2/js"
)

// names that cannot be used as a binding or that would shadow a value the printer relies on
var unusable = map[string]bool{
	"NaN":       true,
	"Infinity":  true,
	"undefined": true,
	"eval":      true,
	"arguments": true,
}

type renamer struct {
	settings  *config.Settings
	functions map[*ast.Field]bool // bindings of function names
	reserved  map[*ast.Scope]map[*ast.Field]bool
	renamed   int
}

// Rename assigns crunched names to the renameable fields of the scopes below the global scope of prog. It returns the number of renamed fields.
func Rename(prog *ast.Node, settings *config.Settings) int {
	if prog.Scope == nil || !settings.IsModificationAllowed(config.RenameLocals) {
		return 0
	}
	r := &renamer{
		settings:  settings,
		functions: map[*ast.Field]bool{},
		reserved:  map[*ast.Scope]map[*ast.Field]bool{},
	}
	if settings != nil && settings.PreserveFunctionNames {
		ast.Inspect(prog, func(n *ast.Node) bool {
			if n.Kind == ast.FunctionNode && n.Field != nil {
				r.functions[n.Field] = true
			}
			return true
		})
	}
	r.reserve(prog.Scope)
	for _, child := range prog.Scope.Children {
		r.renameScope(child)
	}
	return r.renamed
}

// eligible returns true if f may receive a crunched name.
func (r *renamer) eligible(f *ast.Field) bool {
	return f.Outer == nil && f.CanRename && !f.Ambiguous && !f.Placeholder && !f.Scope.Unknown && !r.functions[f] && !r.settings.IsKept(f.Name)
}

// reserve computes bottom-up for every scope the fields whose names must stay visible in it. Outer fields referenced from a child scope are reserved in all scopes up to the one that declares them.
func (r *renamer) reserve(s *ast.Scope) map[*ast.Field]bool {
	reserved := map[*ast.Field]bool{}
	for _, f := range s.Fields() {
		if f.Outer != nil {
			reserved[f.Root()] = true
		} else if s.Kind == ast.GlobalScope || !r.eligible(f) {
			reserved[f] = true
		}
	}
	for _, child := range s.Children {
		for f := range r.reserve(child) {
			if f.Scope != s {
				reserved[f] = true
			}
		}
	}
	r.reserved[s] = reserved
	return reserved
}

// renameScope assigns names to the fields of s and then to its children, so that outer names are known when an inner scope avoids them.
func (r *renamer) renameScope(s *ast.Scope) {
	taken := map[string]bool{}
	for f := range r.reserved[s] {
		taken[f.OutputName()] = true
	}

	fields := []*ast.Field{}
	for _, f := range s.Fields() {
		if r.eligible(f) {
			fields = append(fields, f)
		}
	}
	sort.SliceStable(fields, func(i, j int) bool {
		return fields[i].Uses > fields[j].Uses
	})

	name := []byte("`") // so that the next is 'a'
	for _, f := range fields {
		name = next(name)
		for isReserved(name, taken) {
			name = next(name)
		}
		f.Crunched = string(name)
		taken[f.Crunched] = true
		r.renamed++
	}

	for _, child := range s.Children {
		r.renameScope(child)
	}
}

func isReserved(name []byte, taken map[string]bool) bool {
	if 1 < len(name) { // there are no keywords that are one character long
		if _, ok := js.Keywords[string(name)]; ok {
			return true
		} else if unusable[string(name)] {
			return true
		}
	}
	return taken[string(name)]
}

// next returns the name following name in the enumeration a..z A..Z _ $, aa..az aA..aZ a_ a$ ba..., where only the last character may be _ or $.
func next(name []byte) []byte {
	if name[len(name)-1] == 'z' {
		name[len(name)-1] = 'A'
	} else if name[len(name)-1] == 'Z' {
		name[len(name)-1] = '_'
	} else if name[len(name)-1] == '_' {
		name[len(name)-1] = '$'
	} else if name[len(name)-1] == '$' {
		i := len(name) - 2
		for ; 0 <= i; i-- {
			if name[i] == 'Z' {
				continue
			} else if name[i] == 'z' {
				name[i] = 'A'
				break
			} else {
				name[i]++
				break
			}
		}
		for j := i + 1; j < len(name); j++ {
			name[j] = 'a'
		}
		if i < 0 {
			name = append(name, 'a')
		}
	} else {
		name[len(name)-1]++
	}
	return name
}
