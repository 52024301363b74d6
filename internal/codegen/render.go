package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/garnizeh/folio/pkg/models"
)

var (
	dateType    = reflect.TypeOf(models.Date{})
	endDateType = reflect.TypeOf(models.EndDate{})
	modelsPath  = dateType.PkgPath()
)

type writer struct {
	b        bytes.Buffer
	usesTime bool
}

func render(f File, value any) ([]byte, error) {
	w := &writer{}
	if err := w.value(reflect.ValueOf(value), false); err != nil {
		return nil, fmt.Errorf("render %s: %w", f.Name, err)
	}

	var out bytes.Buffer
	out.WriteString(Header + "\n\n")
	out.WriteString("package " + PackageName + "\n\n")
	out.WriteString("import (\n")
	if w.usesTime {
		out.WriteString("\t\"time\"\n\n")
	}
	out.WriteString("\t" + strconv.Quote(modelsImport) + "\n)\n\n")
	if f.Doc != "" {
		out.WriteString("// " + f.Doc + "\n")
	}
	out.WriteString("var " + f.Var + " = ")
	out.Write(w.b.Bytes())
	out.WriteString("\n")

	src, err := format.Source(out.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", f.Name, err)
	}
	return src, nil
}

// typeExpr spells t the way generated code refers to it.
func typeExpr(t reflect.Type) string {
	if t.Kind() == reflect.Slice {
		return "[]" + typeExpr(t.Elem())
	}
	if t.PkgPath() == modelsPath {
		return "models." + t.Name()
	}
	return t.String()
}

// value writes v as a Go expression. elided drops the type of a composite
// literal, as allowed for elements of a slice literal.
func (w *writer) value(v reflect.Value, elided bool) error {
	switch v.Type() {
	case dateType:
		w.date(v.Interface().(models.Date))
		return nil
	case endDateType:
		w.endDate(v.Interface().(models.EndDate))
		return nil
	}

	switch v.Kind() {
	case reflect.String:
		w.b.WriteString(strconv.Quote(v.String()))
	case reflect.Int, reflect.Int64, reflect.Int32:
		w.b.WriteString(strconv.FormatInt(v.Int(), 10))
	case reflect.Bool:
		w.b.WriteString(strconv.FormatBool(v.Bool()))
	case reflect.Slice:
		return w.slice(v)
	case reflect.Struct:
		return w.structLit(v, elided)
	default:
		return fmt.Errorf("unsupported field type %s", v.Type())
	}
	return nil
}

func (w *writer) slice(v reflect.Value) error {
	w.b.WriteString(typeExpr(v.Type()))
	if v.Len() == 0 {
		w.b.WriteString("{}")
		return nil
	}
	// Scalar lists stay on one line; record lists get one element per line.
	multiline := v.Type().Elem().Kind() == reflect.Struct
	w.b.WriteString("{")
	if multiline {
		w.b.WriteString("\n")
	}
	for i := 0; i < v.Len(); i++ {
		if err := w.value(v.Index(i), true); err != nil {
			return err
		}
		if multiline {
			w.b.WriteString(",\n")
		} else if i < v.Len()-1 {
			w.b.WriteString(", ")
		}
	}
	w.b.WriteString("}")
	return nil
}

func (w *writer) structLit(v reflect.Value, elided bool) error {
	t := v.Type()
	if !elided {
		w.b.WriteString(typeExpr(t))
	}
	w.b.WriteString("{\n")
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		fv := v.Field(i)
		if omitEmpty(sf) && fv.IsZero() {
			continue
		}
		w.b.WriteString(sf.Name + ": ")
		if err := w.value(fv, false); err != nil {
			return fmt.Errorf("%s.%s: %w", t.Name(), sf.Name, err)
		}
		w.b.WriteString(",\n")
	}
	w.b.WriteString("}")
	return nil
}

func omitEmpty(sf reflect.StructField) bool {
	tag := sf.Tag.Get("json")
	_, opts, _ := strings.Cut(tag, ",")
	return strings.Contains(opts, "omitempty")
}

func (w *writer) date(d models.Date) {
	if d.IsZero() {
		w.b.WriteString("models.Date{}")
		return
	}
	w.usesTime = true
	month := "time." + d.Month.String()
	if d.Month < time.January || d.Month > time.December {
		month = "time.Month(" + strconv.Itoa(int(d.Month)) + ")"
	}
	fmt.Fprintf(&w.b, "models.NewDate(%d, %s, %d)", d.Year, month, d.Day)
}

func (w *writer) endDate(e models.EndDate) {
	switch {
	case e.Present:
		w.b.WriteString("models.MustEndDate(" + strconv.Quote(models.PresentSentinel) + ")")
	case e.On.IsZero():
		w.b.WriteString("models.EndDate{}")
	default:
		w.b.WriteString("models.EndOn(")
		w.date(e.On)
		w.b.WriteString(")")
	}
}
