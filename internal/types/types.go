// Package types implements the type manager described by the semantic
// core: an interned, opaque TypeId for every primitive, array, and
// function type the checker and code generator need to compare and print.
//
// The manager interns compound types (arrays, functions) so that two
// structurally identical types compare equal as TypeId values without a
// deep comparison at every use site — the same trick the teacher's
// internal/types package uses for its Type values, adapted here to a
// small-integer handle instead of an interface, which keeps decoration
// records (internal/decor) and IR operands cheap to copy and compare.
package types

import (
	"fmt"
	"strings"
)

// TypeId is an opaque, interned handle to a type. Two TypeIds are equal if
// and only if they denote the same type.
type TypeId int

// Predefined primitive ids. These are interned once, in this order, by
// every Manager, so they never need a lookup.
const (
	Integer TypeId = iota
	Float
	Boolean
	Character
	Void
	Error
)

type kind int

const (
	kindPrimitive kind = iota
	kindArray
	kindFunction
)

type descriptor struct {
	kind   kind
	name   string // primitive display name, unused otherwise
	elem   TypeId // array element type
	size   int    // array size
	params []TypeId
	ret    TypeId
}

type arrayKey struct {
	elem TypeId
	size int
}

// Manager owns the table of interned types for one compilation.
type Manager struct {
	descs      []descriptor
	arrayIndex map[arrayKey]TypeId
	funcIndex  map[string]TypeId
}

// NewManager returns a Manager with the six primitive types already
// interned as Integer..Error above.
func NewManager() *Manager {
	m := &Manager{
		arrayIndex: make(map[arrayKey]TypeId),
		funcIndex:  make(map[string]TypeId),
	}
	m.descs = []descriptor{
		{kind: kindPrimitive, name: "int"},
		{kind: kindPrimitive, name: "float"},
		{kind: kindPrimitive, name: "bool"},
		{kind: kindPrimitive, name: "char"},
		{kind: kindPrimitive, name: "void"},
		{kind: kindPrimitive, name: "error"},
	}
	return m
}

func (m *Manager) desc(t TypeId) descriptor {
	if int(t) < 0 || int(t) >= len(m.descs) {
		return descriptor{kind: kindPrimitive, name: "<invalid>"}
	}
	return m.descs[t]
}

// Array interns and returns the type "array of size Size of Elem".
func (m *Manager) Array(elem TypeId, size int) TypeId {
	key := arrayKey{elem, size}
	if id, ok := m.arrayIndex[key]; ok {
		return id
	}
	id := TypeId(len(m.descs))
	m.descs = append(m.descs, descriptor{kind: kindArray, elem: elem, size: size})
	m.arrayIndex[key] = id
	return id
}

// Function interns and returns a function type with the given parameter
// types, in order, and return type (Void for a procedure).
func (m *Manager) Function(params []TypeId, ret TypeId) TypeId {
	var b strings.Builder
	fmt.Fprintf(&b, "%d(", ret)
	for i, p := range params {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", p)
	}
	b.WriteByte(')')
	key := b.String()
	if id, ok := m.funcIndex[key]; ok {
		return id
	}
	id := TypeId(len(m.descs))
	cp := append([]TypeId(nil), params...)
	m.descs = append(m.descs, descriptor{kind: kindFunction, params: cp, ret: ret})
	m.funcIndex[key] = id
	return id
}

func (m *Manager) IsInteger(t TypeId) bool   { return t == Integer }
func (m *Manager) IsFloat(t TypeId) bool     { return t == Float }
func (m *Manager) IsBoolean(t TypeId) bool   { return t == Boolean }
func (m *Manager) IsCharacter(t TypeId) bool { return t == Character }
func (m *Manager) IsVoid(t TypeId) bool      { return t == Void }
func (m *Manager) IsError(t TypeId) bool     { return t == Error }

// IsNumeric reports whether t is Integer or Float.
func (m *Manager) IsNumeric(t TypeId) bool { return t == Integer || t == Float }

// IsPrimitive reports whether t is one of the scalar kinds (not an array
// or function type). Error counts as primitive: it behaves like a scalar
// that silently accepts anything.
func (m *Manager) IsPrimitive(t TypeId) bool {
	return m.desc(t).kind == kindPrimitive
}

func (m *Manager) IsArray(t TypeId) bool    { return m.desc(t).kind == kindArray }
func (m *Manager) IsFunction(t TypeId) bool { return m.desc(t).kind == kindFunction }

// ArrayElem returns the element type of an array type; it panics if t is
// not an array type, since callers are expected to check IsArray first.
func (m *Manager) ArrayElem(t TypeId) TypeId {
	d := m.desc(t)
	if d.kind != kindArray {
		panic(fmt.Sprintf("types: ArrayElem of non-array %s", m.String(t)))
	}
	return d.elem
}

// ArraySize returns the declared element count of an array type.
func (m *Manager) ArraySize(t TypeId) int {
	d := m.desc(t)
	if d.kind != kindArray {
		panic(fmt.Sprintf("types: ArraySize of non-array %s", m.String(t)))
	}
	return d.size
}

// FuncParams returns the parameter types of a function type, in order.
func (m *Manager) FuncParams(t TypeId) []TypeId {
	d := m.desc(t)
	if d.kind != kindFunction {
		panic(fmt.Sprintf("types: FuncParams of non-function %s", m.String(t)))
	}
	return d.params
}

// FuncReturn returns the return type of a function type (Void for a
// procedure).
func (m *Manager) FuncReturn(t TypeId) TypeId {
	d := m.desc(t)
	if d.kind != kindFunction {
		panic(fmt.Sprintf("types: FuncReturn of non-function %s", m.String(t)))
	}
	return d.ret
}

// SizeOf returns the element count occupied by a value of type t: the
// array length for array types, 1 for every scalar.
func (m *Manager) SizeOf(t TypeId) int {
	if m.IsArray(t) {
		return m.ArraySize(t)
	}
	return 1
}

// Copyable reports whether a value of type src may be stored into a
// location of type dst: equal types, Integer widening to Float, or equal
// element type/size arrays. Error on either side is always copyable, so a
// type error never cascades into a second diagnostic at the assignment
// site.
func (m *Manager) Copyable(dst, src TypeId) bool {
	if dst == Error || src == Error {
		return true
	}
	if dst == src {
		return true
	}
	if dst == Float && src == Integer {
		return true
	}
	if m.IsArray(dst) && m.IsArray(src) {
		return m.ArrayElem(dst) == m.ArrayElem(src) && m.ArraySize(dst) == m.ArraySize(src)
	}
	return false
}

// Comparable reports whether a and b may appear on either side of
// relational operator op ("=", "<>", "<", "<=", ">", ">=").
func (m *Manager) Comparable(a, b TypeId, op string) bool {
	if a == Error || b == Error {
		return true
	}
	switch op {
	case "=", "<>":
		if m.IsNumeric(a) && m.IsNumeric(b) {
			return true
		}
		return a == b && m.IsPrimitive(a)
	case "<", "<=", ">", ">=":
		if m.IsNumeric(a) && m.IsNumeric(b) {
			return true
		}
		return a == Character && b == Character
	default:
		return false
	}
}

// String renders t for diagnostics and IR type annotations.
func (m *Manager) String(t TypeId) string {
	d := m.desc(t)
	switch d.kind {
	case kindPrimitive:
		return d.name
	case kindArray:
		return fmt.Sprintf("array[%d] of %s", d.size, m.String(d.elem))
	case kindFunction:
		parts := make([]string, len(d.params))
		for i, p := range d.params {
			parts[i] = m.String(p)
		}
		return fmt.Sprintf("function(%s) %s", strings.Join(parts, ", "), m.String(d.ret))
	default:
		return "<invalid>"
	}
}
