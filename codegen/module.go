package codegen

import (
	"bytes"
	"slices"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"

	"github.com/gqlgo/gqlgenpy/codegen/pytype"
	"github.com/gqlgo/gqlgenpy/codegen/schematypes"
)

// Generate は import、全クラス、前方参照の解決呼び出しからなるモジュールを返す。
// クラスはルートが先頭で、その後に依存クラスが生成順に並ぶ。
func (g *QueryTypesGenerator) Generate() *pytype.Module {
	imports := []*pytype.Import{
		{Module: "typing", Names: g.typingNames()},
		{Module: "pydantic", Names: []string{"Field"}},
		{Module: g.baseModel.Module, Names: slices.Clone(g.baseModel.Names)},
	}
	if len(g.usedEnums) > 0 {
		imports = append(imports, &pytype.Import{Module: "." + g.enumsModule, Names: slices.Clone(g.usedEnums)})
	}

	forwardRefs := make([]string, 0, len(g.classes))
	for _, class := range g.classes {
		forwardRefs = append(forwardRefs, class.Name)
	}

	return &pytype.Module{
		Imports:     pytype.MergeImports(imports),
		Classes:     slices.Clone(g.classes),
		ForwardRefs: forwardRefs,
	}
}

func (g *QueryTypesGenerator) typingNames() []string {
	var usesAny, usesList bool
	for _, class := range g.classes {
		for _, field := range class.Fields {
			usesAny = usesAny || pytype.Uses(field.Type, func(e pytype.Expr) bool {
				n, ok := e.(*pytype.Named)
				return ok && !n.ForwardRef && n.Name == schematypes.AnyType
			})
			usesList = usesList || pytype.Uses(field.Type, func(e pytype.Expr) bool {
				_, ok := e.(*pytype.List)
				return ok
			})
		}
	}

	var names []string
	if usesAny {
		names = append(names, "Any")
	}
	if usesList {
		names = append(names, "List")
	}

	return append(names, "Optional", "Union")
}

// OperationString はオペレーションと、使用したフラグメントを空行区切りで連結した文字列を返す。
func (g *QueryTypesGenerator) OperationString() string {
	parts := []string{formatDocument(&ast.QueryDocument{Operations: ast.OperationList{g.operation}})}
	for _, name := range g.documentFragments() {
		parts = append(parts, formatDocument(&ast.QueryDocument{Fragments: ast.FragmentDefinitionList{g.fragments[name]}}))
	}

	return strings.Join(parts, "\n\n")
}

// documentFragments returns the consumed fragments followed by any fragment the
// operation references that was never expanded, e.g. one reachable only under a
// class that had already been generated.
func (g *QueryTypesGenerator) documentFragments() []string {
	names := slices.Clone(g.usedFragments)
	var visit func(ast.SelectionSet)
	visit = func(selectionSet ast.SelectionSet) {
		for _, selection := range selectionSet {
			switch sel := selection.(type) {
			case *ast.Field:
				visit(sel.SelectionSet)
			case *ast.InlineFragment:
				visit(sel.SelectionSet)
			case *ast.FragmentSpread:
				fragment, ok := g.fragments[sel.Name]
				if !ok || slices.Contains(names, sel.Name) {
					continue
				}
				names = append(names, sel.Name)
				visit(fragment.SelectionSet)
			}
		}
	}
	visit(g.operation.SelectionSet)
	for _, name := range g.usedFragments {
		visit(g.fragments[name].SelectionSet)
	}

	return names
}

func formatDocument(doc *ast.QueryDocument) string {
	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatQueryDocument(doc)

	return strings.TrimSpace(buf.String())
}
