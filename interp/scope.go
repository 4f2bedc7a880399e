package interp

import (
	"fmt"
	"sort"
	"strings"
)

// Scope contains a set of name -> value bindings and a pointer to the
// enclosing scope. Lookup walks the chain, giving lexical scoping: a call
// scope's parent is the scope the function was defined in, not the caller's.
type Scope struct {
	parent    *Scope
	variables map[string]Value
}

//Initialize a new global Scope object.
func NewScope() *Scope {
	return &Scope{
		variables: make(map[string]Value),
	}
}

// Child creates a scope nested inside s.
func (s *Scope) Child() *Scope {
	return &Scope{
		parent:    s,
		variables: make(map[string]Value),
	}
}

// Set defines a name -> value pairing in this scope.
func (s *Scope) Set(name string, value Value) {
	s.variables[name] = value
}

// Has reports whether a value is visible from this scope.
func (s *Scope) Has(name string) bool {
	for sc := s; sc != nil; sc = sc.parent {
		if _, ok := sc.variables[name]; ok {
			return true
		}
	}
	return false
}

// Get returns the value of 'name', walking the scope chain.
func (s *Scope) Get(name string) (Value, error) {
	for sc := s; sc != nil; sc = sc.parent {
		if v, ok := sc.variables[name]; ok {
			if m, isMissing := v.(missing); isMissing {
				return nil, fmt.Errorf("argument %q is missing, with no default", m.name)
			}
			return v, nil
		}
	}
	return nil, fmt.Errorf("object %q not found. Names in scope: %s", name, strings.Join(s.Names(), ","))
}

// Remove deletes the binding for 'name' from the nearest scope that has it.
// It reports whether a binding was removed.
func (s *Scope) Remove(name string) bool {
	for sc := s; sc != nil; sc = sc.parent {
		if _, ok := sc.variables[name]; ok {
			delete(sc.variables, name)
			return true
		}
	}
	return false
}

// Names lists every name visible from this scope, sorted.
func (s *Scope) Names() []string {
	seen := make(map[string]bool)
	for sc := s; sc != nil; sc = sc.parent {
		for k := range sc.variables {
			seen[k] = true
		}
	}
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// LocalNames lists the names bound directly in this scope, sorted.
func (s *Scope) LocalNames() []string {
	names := make([]string, 0, len(s.variables))
	for k := range s.variables {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
