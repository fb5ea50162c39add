package ast

import "fmt"

// Type is the closed set of type expressions in nv-lang: Integer, Float,
// String, Void, Pointer(Type), Struct(fields), and Alias(name, Type). The
// marker method seals the interface the way Statement and Expression are
// sealed below — a finite, exhaustively-matched set of variants rather than
// an open class hierarchy.
type Type interface {
	typeNode()
	// Size returns the type's size in bytes, used both for stack layout
	// and for choosing 32-bit vs 64-bit move forms.
	Size() int
	String() string
}

// Integer is the 4-byte signed integer type.
type Integer struct{}

func (Integer) typeNode()     {}
func (Integer) Size() int     { return 4 }
func (Integer) String() string { return "int" }

// Float is the 8-byte floating point type.
type Float struct{}

func (Float) typeNode()      {}
func (Float) Size() int      { return 8 }
func (Float) String() string { return "float" }

// String is the 8-byte (pointer-sized) string type.
type String struct{}

func (String) typeNode()      {}
func (String) Size() int      { return 8 }
func (String) String() string { return "string" }

// Void is the 1-byte unit/void type.
type Void struct{}

func (Void) typeNode()      {}
func (Void) Size() int      { return 1 }
func (Void) String() string { return "void" }

// Pointer is a structural pointer to an Elem type; always 8 bytes.
type Pointer struct {
	Elem Type
}

func (Pointer) typeNode() {}
func (Pointer) Size() int { return 8 }
func (p Pointer) String() string {
	return "&" + p.Elem.String()
}

// StructField is one named, typed field of a Struct type, in declaration
// order.
type StructField struct {
	Name string
	Type Type
}

// Struct is a named or anonymous aggregate; its size is the sum of its
// fields' sizes.
type Struct struct {
	Name   string // empty for an anonymous struct literal's type
	Fields []StructField
}

func (Struct) typeNode() {}
func (s Struct) Size() int {
	total := 0
	for _, f := range s.Fields {
		total += f.Type.Size()
	}
	return total
}
func (s Struct) String() string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("struct{%d fields}", len(s.Fields))
}

// Alias names a target type, introduced by `type name : T;` or by a struct
// definition. Alias carries its Target inline so the size and underlying
// shape are always reachable without a side table.
type Alias struct {
	Name   string
	Target Type
}

func (Alias) typeNode()      {}
func (a Alias) Size() int    { return a.Target.Size() }
func (a Alias) String() string { return a.Name }

// Resolve walks a chain of Alias wrappers to their non-alias root, and
// recurses into Pointer's element type. All other variants are returned
// unchanged. This is the single definition of "alias resolution" used by
// both the code generator (to size declarations) and the type checker (to
// compare types structurally).
func Resolve(t Type) Type {
	switch v := t.(type) {
	case Alias:
		return Resolve(v.Target)
	case *Alias:
		return Resolve(v.Target)
	case Pointer:
		return Pointer{Elem: Resolve(v.Elem)}
	case *Pointer:
		return Pointer{Elem: Resolve(v.Elem)}
	default:
		return t
	}
}

// Equal reports whether two types are identical after resolving aliases on
// both sides.
func Equal(a, b Type) bool {
	ra, rb := Resolve(a), Resolve(b)
	switch x := ra.(type) {
	case Integer:
		_, ok := rb.(Integer)
		return ok
	case Float:
		_, ok := rb.(Float)
		return ok
	case String:
		_, ok := rb.(String)
		return ok
	case Void:
		_, ok := rb.(Void)
		return ok
	case Pointer:
		y, ok := rb.(Pointer)
		return ok && Equal(x.Elem, y.Elem)
	case Struct:
		y, ok := rb.(Struct)
		if !ok || len(x.Fields) != len(y.Fields) {
			return false
		}
		for i := range x.Fields {
			if x.Fields[i].Name != y.Fields[i].Name || !Equal(x.Fields[i].Type, y.Fields[i].Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
