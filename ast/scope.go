package ast

import "strconv"

// ScopeKind is the type of lexical scope.
type ScopeKind uint8

// ScopeKind values.
const (
	GlobalScope ScopeKind = iota
	FunctionScope
	BlockScope
	WithScope
	CatchScope
)

func (k ScopeKind) String() string {
	switch k {
	case GlobalScope:
		return "Global"
	case FunctionScope:
		return "Function"
	case BlockScope:
		return "Block"
	case WithScope:
		return "With"
	case CatchScope:
		return "Catch"
	}
	return "Invalid(" + strconv.Itoa(int(k)) + ")"
}

// Origin is how a field came into existence.
type Origin uint8

// Origin values.
const (
	LocalOrigin      Origin = iota // var, function or let/const declaration
	ArgumentOrigin                 // function parameter
	GlobalOrigin                   // implicit or undeclared global
	PredefinedOrigin               // built-in such as window or arguments
	GeneratedOrigin                // synthesized by the optimizer
)

func (o Origin) String() string {
	switch o {
	case LocalOrigin:
		return "Local"
	case ArgumentOrigin:
		return "Argument"
	case GlobalOrigin:
		return "Global"
	case PredefinedOrigin:
		return "Predefined"
	case GeneratedOrigin:
		return "Generated"
	}
	return "Invalid(" + strconv.Itoa(int(o)) + ")"
}

// Field is a binding of a name in a scope. A field that is referenced from an inner scope gets an inner alias in that scope whose Outer points to the field holding the storage.
type Field struct {
	Name   string
	Origin Origin
	Scope  *Scope
	Outer  *Field // set for inner aliases
	Binds  *Field // set for placeholders, the self binding of the named function expression

	Refs  map[*Scope]bool // scopes from which the field is referenced
	Uses  int
	Decls int

	CanRename   bool
	Ambiguous   bool
	Placeholder bool
	Crunched    string // output name assigned by renaming

	index int
}

// Root returns the field holding the storage, following inner aliases outward.
func (f *Field) Root() *Field {
	for f.Outer != nil {
		f = f.Outer
	}
	return f
}

// OutputName returns the name under which the field is printed.
func (f *Field) OutputName() string {
	r := f.Root()
	if r.Crunched != "" {
		return r.Crunched
	}
	return r.Name
}

// AddRef records a reference from scope s.
func (f *Field) AddRef(s *Scope) {
	if f.Refs == nil {
		f.Refs = map[*Scope]bool{}
	}
	f.Refs[s] = true
	f.Uses++
}

// Index returns the declaration order of the field within its scope.
func (f *Field) Index() int {
	return f.index
}

func (f *Field) String() string {
	return f.Name
}

// Scope is a lexical binding region. Scopes form a tree mirroring the function, block, catch and with nesting of the syntax tree.
type Scope struct {
	Kind     ScopeKind
	Parent   *Scope
	Children []*Scope
	Node     *Node
	Unknown  bool // contains a direct eval, names may be referenced at runtime

	fields map[string]*Field
	order  []*Field
}

// NewScope returns a scope nested in parent, which may be nil for the global scope.
func NewScope(kind ScopeKind, parent *Scope) *Scope {
	s := &Scope{
		Kind:   kind,
		Parent: parent,
		fields: map[string]*Field{},
	}
	if parent != nil {
		parent.Children = append(parent.Children, s)
	}
	return s
}

// Declare binds name in s. If the name is already bound, the existing field is returned with false.
func (s *Scope) Declare(name string, origin Origin) (*Field, bool) {
	if f, ok := s.fields[name]; ok {
		f.Decls++
		return f, false
	}
	f := &Field{
		Name:      name,
		Origin:    origin,
		Scope:     s,
		Decls:     1,
		CanRename: origin == LocalOrigin || origin == ArgumentOrigin || origin == GeneratedOrigin,
		index:     len(s.order),
	}
	if origin == GlobalOrigin || origin == PredefinedOrigin {
		f.Decls = 0
	}
	s.fields[name] = f
	s.order = append(s.order, f)
	return f, true
}

// Field returns the field bound to name in s itself, or nil.
func (s *Scope) Field(name string) *Field {
	return s.fields[name]
}

// Fields returns the fields of s in declaration order.
func (s *Scope) Fields() []*Field {
	return s.order
}

// Lookup returns the closest binding of name from s outward.
func (s *Scope) Lookup(name string) *Field {
	for ; s != nil; s = s.Parent {
		if f, ok := s.fields[name]; ok {
			return f
		}
	}
	return nil
}

// VarScope returns the closest function or global scope, where var declarations are hoisted to.
func (s *Scope) VarScope() *Scope {
	for s.Kind != FunctionScope && s.Kind != GlobalScope && s.Parent != nil {
		s = s.Parent
	}
	return s
}

// Global returns the root scope.
func (s *Scope) Global() *Scope {
	for s.Parent != nil {
		s = s.Parent
	}
	return s
}

// IsWithin returns true if s is a or nested in a.
func (s *Scope) IsWithin(a *Scope) bool {
	for ; s != nil; s = s.Parent {
		if s == a {
			return true
		}
	}
	return false
}

// Dissolve removes an empty scope from the tree, moving its children into its parent at its position.
func (s *Scope) Dissolve() bool {
	p := s.Parent
	if p == nil || len(s.order) != 0 {
		return false
	}
	for i, c := range p.Children {
		if c == s {
			children := make([]*Scope, 0, len(p.Children)-1+len(s.Children))
			children = append(children, p.Children[:i]...)
			children = append(children, s.Children...)
			children = append(children, p.Children[i+1:]...)
			p.Children = children
			break
		}
	}
	for _, c := range s.Children {
		c.Parent = p
	}
	s.Parent = nil
	s.Children = nil
	if s.Node != nil && s.Node.Scope == s {
		s.Node.Scope = nil
	}
	return true
}
