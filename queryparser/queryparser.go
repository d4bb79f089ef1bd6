// Package queryparser loads operation documents and validates them against the schema.
package queryparser

import (
	"fmt"
	"os"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vektah/gqlparser/v2/validator"
	_ "github.com/vektah/gqlparser/v2/validator/rules"
)

// LoadQuerySources reads every file as a query source, keeping the file order.
func LoadQuerySources(filenames []string) ([]*ast.Source, error) {
	sources := make([]*ast.Source, 0, len(filenames))
	for _, filename := range filenames {
		content, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("unable to open query: %w", err)
		}
		sources = append(sources, &ast.Source{Name: filename, Input: string(content)})
	}

	return sources, nil
}

// QueryDocument は全てのソースを1つのドキュメントにまとめ、スキーマに対して検証する。
// フラグメントはファイルをまたいで参照できる。
func QueryDocument(schema *ast.Schema, sources []*ast.Source) (*ast.QueryDocument, error) {
	document := &ast.QueryDocument{}
	for _, source := range sources {
		doc, err := parser.ParseQuery(source)
		if err != nil {
			return nil, fmt.Errorf("parse query %s: %w", source.Name, err)
		}
		document.Operations = append(document.Operations, doc.Operations...)
		document.Fragments = append(document.Fragments, doc.Fragments...)
	}

	if errs := validator.Validate(schema, document); len(errs) > 0 {
		return nil, fmt.Errorf("validate query: %w", errs)
	}

	return document, nil
}

// FragmentMap indexes the document's fragments by name.
func FragmentMap(document *ast.QueryDocument) map[string]*ast.FragmentDefinition {
	fragments := make(map[string]*ast.FragmentDefinition, len(document.Fragments))
	for _, fragment := range document.Fragments {
		fragments[fragment.Name] = fragment
	}

	return fragments
}
