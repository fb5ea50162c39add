// Package typecheck validates an ast.Program against the language's type
// rules and annotates nothing — it only accepts or aborts. It runs after
// parsing and before code generation.
package typecheck

import "github.com/nvlang/nvc/ast"

// funcSig is a function or extern's checked signature.
type funcSig struct {
	Args   []ast.Type
	Return ast.Type
}

// Environment holds the checker's scopes: in-scope variables, and the
// flat table of function/extern signatures (there is exactly one function
// namespace; nested scopes only ever affect Vars).
type Environment struct {
	Vars       map[string]ast.Type
	Functions  map[string]funcSig
	ReturnType ast.Type // the enclosing function's declared return type
}

// NewEnvironment returns an empty top-level environment.
func NewEnvironment() *Environment {
	return &Environment{
		Vars:      map[string]ast.Type{},
		Functions: map[string]funcSig{},
	}
}

// snapshotVars copies the current variable scope, for restoration on block
// exit. Functions and ReturnType are not part of the snapshot: block bodies
// never redefine them.
func (e *Environment) snapshotVars() map[string]ast.Type {
	cp := make(map[string]ast.Type, len(e.Vars))
	for k, v := range e.Vars {
		cp[k] = v
	}
	return cp
}
