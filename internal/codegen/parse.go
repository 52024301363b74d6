package codegen

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"
	"strconv"
	"time"

	"github.com/garnizeh/folio/pkg/models"
)

var monthsByName = func() map[string]time.Month {
	m := make(map[string]time.Month, 12)
	for mo := time.January; mo <= time.December; mo++ {
		m[mo.String()] = mo
	}
	return m
}()

// parse locates the variable named by f in src and decodes its literal into
// out, which must be a pointer.
func parse(f File, src []byte, out any) error {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, f.Name, src, parser.SkipObjectResolution)
	if err != nil {
		return fmt.Errorf("parse %s: %w", f.Name, err)
	}

	expr := findVar(file, f.Var)
	if expr == nil {
		return fmt.Errorf("parse %s: variable %s not found", f.Name, f.Var)
	}

	d := &decoder{fset: fset}
	if err := d.decode(expr, reflect.ValueOf(out).Elem()); err != nil {
		return fmt.Errorf("parse %s: %w", f.Name, err)
	}
	return nil
}

func findVar(file *ast.File, name string) ast.Expr {
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.VAR {
			continue
		}
		for _, spec := range gd.Specs {
			vs, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			for i, id := range vs.Names {
				if id.Name == name && i < len(vs.Values) {
					return vs.Values[i]
				}
			}
		}
	}
	return nil
}

type decoder struct {
	fset *token.FileSet
}

func (d *decoder) errorf(n ast.Node, format string, args ...any) error {
	pos := d.fset.Position(n.Pos())
	return fmt.Errorf("%d:%d: %s", pos.Line, pos.Column, fmt.Sprintf(format, args...))
}

func (d *decoder) decode(expr ast.Expr, v reflect.Value) error {
	if p, ok := expr.(*ast.ParenExpr); ok {
		return d.decode(p.X, v)
	}

	switch v.Type() {
	case dateType:
		if call, ok := expr.(*ast.CallExpr); ok {
			return d.decodeDateCall(call, v)
		}
	case endDateType:
		if call, ok := expr.(*ast.CallExpr); ok {
			return d.decodeEndDateCall(call, v)
		}
	}

	switch v.Kind() {
	case reflect.String:
		s, err := d.stringLit(expr)
		if err != nil {
			return err
		}
		v.SetString(s)
	case reflect.Int, reflect.Int64, reflect.Int32:
		n, err := d.intLit(expr)
		if err != nil {
			return err
		}
		v.SetInt(n)
	case reflect.Bool:
		id, ok := expr.(*ast.Ident)
		if !ok || (id.Name != "true" && id.Name != "false") {
			return d.errorf(expr, "expected bool literal")
		}
		v.SetBool(id.Name == "true")
	case reflect.Slice:
		return d.decodeSlice(expr, v)
	case reflect.Struct:
		return d.decodeStruct(expr, v)
	default:
		return d.errorf(expr, "unsupported field type %s", v.Type())
	}
	return nil
}

func (d *decoder) stringLit(expr ast.Expr) (string, error) {
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", d.errorf(expr, "expected string literal")
	}
	s, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", d.errorf(expr, "bad string literal: %v", err)
	}
	return s, nil
}

func (d *decoder) intLit(expr ast.Expr) (int64, error) {
	neg := false
	if u, ok := expr.(*ast.UnaryExpr); ok && u.Op == token.SUB {
		neg = true
		expr = u.X
	}
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.INT {
		return 0, d.errorf(expr, "expected integer literal")
	}
	n, err := strconv.ParseInt(lit.Value, 0, 64)
	if err != nil {
		return 0, d.errorf(expr, "bad integer literal: %v", err)
	}
	if neg {
		n = -n
	}
	return n, nil
}

func (d *decoder) decodeSlice(expr ast.Expr, v reflect.Value) error {
	if id, ok := expr.(*ast.Ident); ok && id.Name == "nil" {
		v.Set(reflect.MakeSlice(v.Type(), 0, 0))
		return nil
	}
	lit, ok := expr.(*ast.CompositeLit)
	if !ok {
		return d.errorf(expr, "expected %s literal", typeExpr(v.Type()))
	}
	out := reflect.MakeSlice(v.Type(), 0, len(lit.Elts))
	for _, elt := range lit.Elts {
		if _, ok := elt.(*ast.KeyValueExpr); ok {
			return d.errorf(elt, "indexed slice elements are not supported")
		}
		ev := reflect.New(v.Type().Elem()).Elem()
		if err := d.decode(elt, ev); err != nil {
			return err
		}
		out = reflect.Append(out, ev)
	}
	v.Set(out)
	return nil
}

func (d *decoder) decodeStruct(expr ast.Expr, v reflect.Value) error {
	lit, ok := expr.(*ast.CompositeLit)
	if !ok {
		return d.errorf(expr, "expected %s literal", typeExpr(v.Type()))
	}
	t := v.Type()
	for _, elt := range lit.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			return d.errorf(elt, "%s literal must use field names", t.Name())
		}
		key, ok := kv.Key.(*ast.Ident)
		if !ok {
			return d.errorf(kv.Key, "expected field name")
		}
		sf, ok := t.FieldByName(key.Name)
		if !ok || !sf.IsExported() {
			return d.errorf(kv.Key, "unknown field %s in %s", key.Name, t.Name())
		}
		if err := d.decode(kv.Value, v.FieldByIndex(sf.Index)); err != nil {
			return err
		}
	}
	return nil
}

// callName returns "pkg.Func" for a qualified call.
func callName(call *ast.CallExpr) string {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return ""
	}
	pkg, ok := sel.X.(*ast.Ident)
	if !ok {
		return ""
	}
	return pkg.Name + "." + sel.Sel.Name
}

func (d *decoder) decodeDateCall(call *ast.CallExpr, v reflect.Value) error {
	if callName(call) != "models.NewDate" || len(call.Args) != 3 {
		return d.errorf(call, "expected models.NewDate(year, month, day)")
	}
	year, err := d.intLit(call.Args[0])
	if err != nil {
		return err
	}
	month, err := d.month(call.Args[1])
	if err != nil {
		return err
	}
	day, err := d.intLit(call.Args[2])
	if err != nil {
		return err
	}
	v.Set(reflect.ValueOf(models.NewDate(int(year), month, int(day))))
	return nil
}

func (d *decoder) month(expr ast.Expr) (time.Month, error) {
	switch e := expr.(type) {
	case *ast.SelectorExpr:
		if pkg, ok := e.X.(*ast.Ident); ok && pkg.Name == "time" {
			if m, ok := monthsByName[e.Sel.Name]; ok {
				return m, nil
			}
		}
	case *ast.CallExpr:
		if callName(e) == "time.Month" && len(e.Args) == 1 {
			n, err := d.intLit(e.Args[0])
			return time.Month(n), err
		}
	case *ast.BasicLit:
		n, err := d.intLit(e)
		return time.Month(n), err
	}
	return 0, d.errorf(expr, "expected month")
}

func (d *decoder) decodeEndDateCall(call *ast.CallExpr, v reflect.Value) error {
	switch callName(call) {
	case "models.MustEndDate":
		if len(call.Args) != 1 {
			break
		}
		s, err := d.stringLit(call.Args[0])
		if err != nil {
			return err
		}
		e, err := models.ParseEndDate(s)
		if err != nil {
			return d.errorf(call, "%v", err)
		}
		v.Set(reflect.ValueOf(e))
		return nil
	case "models.EndOn":
		if len(call.Args) != 1 {
			break
		}
		var e models.EndDate
		if err := d.decode(call.Args[0], reflect.ValueOf(&e.On).Elem()); err != nil {
			return err
		}
		v.Set(reflect.ValueOf(e))
		return nil
	}
	return d.errorf(call, "expected models.MustEndDate or models.EndOn")
}
