// Command gen_reference regenerates the markdown reference docs from source.
//
// Run from the repository root:
//
//	go run scripts/gen_reference.go
package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

type reasonSet struct {
	Static   map[string]struct{}
	Patterns map[string]struct{}
}

type constValue struct {
	Name  string
	Value string
}

type structField struct {
	Name  string
	Type  string
	Notes string
}

func newReasonSet() reasonSet {
	return reasonSet{
		Static:   make(map[string]struct{}),
		Patterns: make(map[string]struct{}),
	}
}

func main() {
	var reasonsOut string
	var classifiersOut string
	flag.StringVar(&reasonsOut, "reasons-out", "docs/reference/reason-codes.md", "output markdown path for reason codes")
	flag.StringVar(&classifiersOut, "classifiers-out", "docs/reference/classifiers.md", "output markdown path for builtin classifiers")
	flag.Parse()

	root, err := os.Getwd()
	if err != nil {
		fail(err)
	}

	if err := generateReasonCodes(root, reasonsOut); err != nil {
		fail(err)
	}
	if err := generateClassifiers(root, classifiersOut); err != nil {
		fail(err)
	}
}

func generateReasonCodes(root, outPath string) error {
	reasons := newReasonSet()
	dirs := []string{
		filepath.Join(root, "classify"),
		filepath.Join(root, "fallback"),
		filepath.Join(root, "integrations", "http"),
		filepath.Join(root, "integrations", "grpc"),
	}
	for _, dir := range dirs {
		files, err := goFiles(dir)
		if err != nil {
			return err
		}
		for _, file := range files {
			if strings.HasSuffix(file, "_test.go") {
				continue
			}
			if err := collectReasonAssignments(file, &reasons); err != nil {
				return err
			}
		}
	}

	structs, err := collectStructFields(filepath.Join(root, "observe", "types.go"), []string{"Timeline", "AttemptRecord"})
	if err != nil {
		return err
	}

	content := renderReasonsMarkdown(reasons, structs)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(outPath, content, 0o644)
}

func generateClassifiers(root, outPath string) error {
	names, err := collectClassifierConsts(filepath.Join(root, "classify", "builtins.go"))
	if err != nil {
		return err
	}
	grpcNames, err := collectClassifierConsts(filepath.Join(root, "integrations", "grpc", "grpc.go"))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	names = append(names, grpcNames...)

	content := renderClassifiersMarkdown(names)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(outPath, content, 0o644)
}

func collectReasonAssignments(path string, rs *reasonSet) error {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, path, nil, 0)
	if err != nil {
		return err
	}

	ast.Inspect(f, func(n ast.Node) bool {
		switch v := n.(type) {
		case *ast.KeyValueExpr:
			if keyIdent, ok := v.Key.(*ast.Ident); ok && keyIdent.Name == "Reason" {
				addReasonExpr(v.Value, rs)
			}
		case *ast.AssignStmt:
			for i, lhs := range v.Lhs {
				sel, ok := lhs.(*ast.SelectorExpr)
				if !ok || sel.Sel == nil || sel.Sel.Name != "Reason" {
					continue
				}
				if len(v.Rhs) <= i {
					continue
				}
				addReasonExpr(v.Rhs[i], rs)
			}
		}
		return true
	})
	return nil
}

func addReasonExpr(expr ast.Expr, rs *reasonSet) {
	switch e := expr.(type) {
	case *ast.BasicLit:
		if e.Kind != token.STRING {
			return
		}
		val, err := strconv.Unquote(e.Value)
		if err != nil {
			return
		}
		rs.Static[val] = struct{}{}
	case *ast.BinaryExpr:
		if e.Op != token.ADD {
			return
		}
		prefix, ok := stringLiteral(e.X)
		if !ok {
			return
		}
		rs.Patterns[prefix+"<dynamic>"] = struct{}{}
	}
}

// collectClassifierConsts returns string consts whose names carry the
// Classifier prefix (registry names of the built-in classifiers).
func collectClassifierConsts(path string) ([]constValue, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	var out []constValue
	for _, decl := range f.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.CONST {
			continue
		}
		for _, spec := range gen.Specs {
			vs, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			for i, name := range vs.Names {
				if !strings.HasPrefix(name.Name, "Classifier") || len(vs.Values) <= i {
					continue
				}
				val, ok := stringLiteral(vs.Values[i])
				if !ok {
					continue
				}
				out = append(out, constValue{Name: name.Name, Value: val})
			}
		}
	}
	return out, nil
}

func collectStructFields(path string, names []string) (map[string][]structField, error) {
	want := make(map[string]struct{})
	for _, name := range names {
		want[name] = struct{}{}
	}

	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]structField)
	for _, decl := range f.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			if _, ok := want[ts.Name.Name]; !ok {
				continue
			}
			st, ok := ts.Type.(*ast.StructType)
			if !ok {
				continue
			}
			fields := make([]structField, 0, len(st.Fields.List))
			for _, field := range st.Fields.List {
				typeStr := exprString(field.Type)
				notes := joinComments(field.Doc, field.Comment)
				if len(field.Names) == 0 {
					fields = append(fields, structField{Name: typeStr, Notes: notes})
					continue
				}
				for _, name := range field.Names {
					fields = append(fields, structField{Name: name.Name, Type: typeStr, Notes: notes})
				}
			}
			out[ts.Name.Name] = fields
		}
	}
	return out, nil
}

func renderReasonsMarkdown(reasons reasonSet, structs map[string][]structField) []byte {
	var buf bytes.Buffer

	buf.WriteString("<!-- Generated by scripts/gen_reference.go; do not edit by hand. -->\n")
	buf.WriteString("# Outcome reasons and timeline fields\n\n")
	buf.WriteString("Generated from: `classify/`, `fallback/`, `integrations/`, `observe/types.go`.\n\n")
	buf.WriteString("These reason codes and timeline fields are part of the v1 telemetry contract. Changes are breaking.\n\n")

	buf.WriteString("## Outcome reasons\n\n")
	buf.WriteString("These values appear in `observe.AttemptRecord.Outcome.Reason`.\n\n")

	static := setToSorted(reasons.Static)
	if len(static) > 0 {
		buf.WriteString("### Static reasons\n\n")
		for _, reason := range static {
			buf.WriteString("- `" + reason + "`\n")
		}
		buf.WriteString("\n")
	}

	patterns := setToSorted(reasons.Patterns)
	if len(patterns) > 0 {
		buf.WriteString("### Pattern reasons\n\n")
		for _, reason := range patterns {
			buf.WriteString("- `" + reason + "`\n")
		}
		buf.WriteString("\n")
	}

	buf.WriteString("## Timeline fields\n\n")
	writeStruct(&buf, "Timeline", structs["Timeline"])
	writeStruct(&buf, "AttemptRecord", structs["AttemptRecord"])

	return buf.Bytes()
}

func renderClassifiersMarkdown(names []constValue) []byte {
	var buf bytes.Buffer

	buf.WriteString("<!-- Generated by scripts/gen_reference.go; do not edit by hand. -->\n")
	buf.WriteString("# Builtin classifier names\n\n")
	buf.WriteString("These names resolve in `classify.Registry` and can be passed to `fallback.WithRetryableNamed`.\n\n")
	buf.WriteString("| Const | Registry name |\n")
	buf.WriteString("|---|---|\n")
	for _, name := range names {
		buf.WriteString("| `" + name.Name + "` | `" + name.Value + "` |\n")
	}
	buf.WriteString("\n")

	return buf.Bytes()
}

func writeStruct(buf *bytes.Buffer, name string, fields []structField) {
	if len(fields) == 0 {
		return
	}
	buf.WriteString("### observe." + name + "\n\n")
	buf.WriteString("| Field | Type | Notes |\n")
	buf.WriteString("|---|---|---|\n")
	for _, field := range fields {
		note := field.Notes
		if note == "" {
			note = "-"
		}
		typeStr := field.Type
		if typeStr == "" {
			typeStr = "-"
		}
		buf.WriteString("| `" + field.Name + "` | `" + typeStr + "` | " + escapePipes(note) + " |\n")
	}
	buf.WriteString("\n")
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

func goFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".go") {
			out = append(out, filepath.Join(dir, name))
		}
	}
	return out, nil
}

func stringLiteral(expr ast.Expr) (string, bool) {
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", false
	}
	val, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", false
	}
	return val, true
}

func exprString(expr ast.Expr) string {
	var buf bytes.Buffer
	_ = printer.Fprint(&buf, token.NewFileSet(), expr)
	return buf.String()
}

func joinComments(groups ...*ast.CommentGroup) string {
	var parts []string
	for _, g := range groups {
		if g == nil {
			continue
		}
		text := strings.TrimSpace(g.Text())
		if text != "" {
			parts = append(parts, strings.ReplaceAll(text, "\n", " "))
		}
	}
	return strings.Join(parts, " ")
}

func setToSorted(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
