// Package astio deserializes a YAML program fixture into an *ast.Program.
// It stands in for "whatever the real surface-syntax parser handed the
// semantic core" — lexing and parsing real source text is out of scope
// for this module (see spec.md's Non-goals), but the core still needs
// some way to receive a populated AST for tests and for the CLI. This is
// not a parser for the source language itself; it has its own small,
// structural grammar for describing a tree, decoded with
// github.com/goccy/go-yaml the same way the teacher's config layer
// decodes YAML/JSON documents.
package astio

import (
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/aslcore/aslc/internal/ast"
)

// ParseProgram decodes data as a YAML program fixture.
func ParseProgram(data []byte) (*ast.Program, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("astio: %w", err)
	}
	return programFromMap(raw)
}

func programFromMap(raw map[string]any) (*ast.Program, error) {
	prog := &ast.Program{}
	fnsRaw, _ := raw["functions"].([]any)
	for _, f := range fnsRaw {
		fm, ok := f.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("astio: function entry is not a mapping")
		}
		fn, err := functionFromMap(fm)
		if err != nil {
			return nil, err
		}
		prog.Functions = append(prog.Functions, fn)
	}
	return prog, nil
}

func functionFromMap(fm map[string]any) (*ast.Function, error) {
	fn := &ast.Function{Name: stringField(fm, "name")}
	if ret, ok := fm["return"]; ok && ret != nil {
		te, err := typeFromAny(ret)
		if err != nil {
			return nil, err
		}
		fn.RetType = te
	}
	for _, p := range sliceField(fm, "params") {
		pm, ok := p.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("astio: parameter entry is not a mapping")
		}
		te, err := typeFromAny(pm["type"])
		if err != nil {
			return nil, err
		}
		fn.Params = append(fn.Params, &ast.Parameter{Name: stringField(pm, "name"), Type: te})
	}
	if vars := sliceField(fm, "vars"); len(vars) > 0 {
		decls := &ast.Declarations{}
		for _, v := range vars {
			vm, ok := v.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("astio: var entry is not a mapping")
			}
			te, err := typeFromAny(vm["type"])
			if err != nil {
				return nil, err
			}
			var names []string
			for _, n := range sliceField(vm, "names") {
				if s, ok := n.(string); ok {
					names = append(names, s)
				}
			}
			decls.Vars = append(decls.Vars, &ast.VarDecl{Names: names, Type: te})
		}
		fn.Decls = decls
	}
	for _, st := range sliceField(fm, "body") {
		sm, ok := st.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("astio: statement entry is not a mapping")
		}
		s, err := stmtFromMap(sm)
		if err != nil {
			return nil, err
		}
		fn.Body = append(fn.Body, s)
	}
	return fn, nil
}

func stmtFromMap(sm map[string]any) (ast.Stmt, error) {
	switch kind := stringField(sm, "kind"); kind {
	case "assign":
		left, err := lexprFromAny(sm["left"])
		if err != nil {
			return nil, err
		}
		right, err := exprFromAny(sm["right"])
		if err != nil {
			return nil, err
		}
		return &ast.AssignStmt{Left: left, Right: right}, nil
	case "if":
		cond, err := exprFromAny(sm["cond"])
		if err != nil {
			return nil, err
		}
		thenStmts, err := stmtsFromSlice(sliceField(sm, "then"))
		if err != nil {
			return nil, err
		}
		elseStmts, err := stmtsFromSlice(sliceField(sm, "else"))
		if err != nil {
			return nil, err
		}
		return &ast.IfStmt{Cond: cond, Then: thenStmts, Else: elseStmts}, nil
	case "while":
		cond, err := exprFromAny(sm["cond"])
		if err != nil {
			return nil, err
		}
		body, err := stmtsFromSlice(sliceField(sm, "body"))
		if err != nil {
			return nil, err
		}
		return &ast.WhileStmt{Cond: cond, Body: body}, nil
	case "call":
		args, err := exprsFromSlice(sliceField(sm, "args"))
		if err != nil {
			return nil, err
		}
		return &ast.ProcCallStmt{Name: stringField(sm, "name"), Args: args}, nil
	case "read":
		target, err := lexprFromAny(sm["target"])
		if err != nil {
			return nil, err
		}
		return &ast.ReadStmt{Target: target}, nil
	case "write":
		value, err := exprFromAny(sm["value"])
		if err != nil {
			return nil, err
		}
		return &ast.WriteStmt{Value: value}, nil
	case "writestring":
		return &ast.WriteStringStmt{Value: stringField(sm, "value")}, nil
	case "return":
		if v, ok := sm["value"]; ok && v != nil {
			value, err := exprFromAny(v)
			if err != nil {
				return nil, err
			}
			return &ast.ReturnStmt{Value: value}, nil
		}
		return &ast.ReturnStmt{}, nil
	default:
		return nil, fmt.Errorf("astio: unknown statement kind %q", kind)
	}
}

func stmtsFromSlice(raw []any) ([]ast.Stmt, error) {
	var out []ast.Stmt
	for _, st := range raw {
		sm, ok := st.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("astio: statement entry is not a mapping")
		}
		s, err := stmtFromMap(sm)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func exprFromAny(v any) (ast.Expr, error) {
	em, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("astio: expression entry is not a mapping")
	}
	switch kind := stringField(em, "kind"); kind {
	case "int":
		n, _ := toInt(em["value"])
		return &ast.IntLit{Value: int64(n)}, nil
	case "float":
		f, _ := toFloat(em["value"])
		return &ast.FloatLit{Value: f}, nil
	case "bool":
		b, _ := em["value"].(bool)
		return &ast.BoolLit{Value: b}, nil
	case "char":
		s, _ := em["value"].(string)
		r := rune(0)
		for _, c := range s {
			r = c
			break
		}
		return &ast.CharLit{Value: r}, nil
	case "ident":
		return &ast.IdentExpr{Name: stringField(em, "name")}, nil
	case "index":
		idx, err := exprFromAny(em["index"])
		if err != nil {
			return nil, err
		}
		return &ast.ArrayAccessExpr{Name: stringField(em, "name"), Index: idx}, nil
	case "call":
		args, err := exprsFromSlice(sliceField(em, "args"))
		if err != nil {
			return nil, err
		}
		return &ast.CallExpr{Name: stringField(em, "name"), Args: args}, nil
	case "unary":
		operand, err := exprFromAny(em["operand"])
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: stringField(em, "op"), Operand: operand}, nil
	case "binary":
		left, err := exprFromAny(em["left"])
		if err != nil {
			return nil, err
		}
		right, err := exprFromAny(em["right"])
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Op: stringField(em, "op"), Left: left, Right: right}, nil
	case "paren":
		inner, err := exprFromAny(em["inner"])
		if err != nil {
			return nil, err
		}
		return &ast.ParenExpr{Inner: inner}, nil
	default:
		return nil, fmt.Errorf("astio: unknown expression kind %q", kind)
	}
}

func exprsFromSlice(raw []any) ([]ast.Expr, error) {
	var out []ast.Expr
	for _, v := range raw {
		e, err := exprFromAny(v)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func lexprFromAny(v any) (ast.LExpr, error) {
	lm, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("astio: left-expression entry is not a mapping")
	}
	switch kind := stringField(lm, "kind"); kind {
	case "ident":
		return &ast.IdentLExpr{Name: stringField(lm, "name")}, nil
	case "index":
		idx, err := exprFromAny(lm["index"])
		if err != nil {
			return nil, err
		}
		return &ast.ArrayLExpr{Name: stringField(lm, "name"), Index: idx}, nil
	default:
		return nil, fmt.Errorf("astio: unknown left-expression kind %q", kind)
	}
}

func typeFromAny(v any) (ast.TypeExpr, error) {
	switch t := v.(type) {
	case string:
		switch t {
		case "int":
			return &ast.IntType{}, nil
		case "float":
			return &ast.FloatType{}, nil
		case "bool":
			return &ast.BoolType{}, nil
		case "char":
			return &ast.CharType{}, nil
		default:
			return nil, fmt.Errorf("astio: unknown scalar type %q", t)
		}
	case map[string]any:
		if t["kind"] != "array" {
			return nil, fmt.Errorf("astio: unknown type mapping %v", t)
		}
		elem, err := typeFromAny(t["elem"])
		if err != nil {
			return nil, err
		}
		size, _ := toInt(t["size"])
		return &ast.ArrayType{Elem: elem, Size: size}, nil
	default:
		return nil, fmt.Errorf("astio: unrecognized type value %v", v)
	}
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func sliceField(m map[string]any, key string) []any {
	s, _ := m[key].([]any)
	return s
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
