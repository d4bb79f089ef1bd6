package querygen_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"golang.org/x/tools/txtar"

	"github.com/gqlgo/gqlgenpy/codegen"
	"github.com/gqlgo/gqlgenpy/codegen/schematypes"
	"github.com/gqlgo/gqlgenpy/plugins/querygen"
	"github.com/gqlgo/gqlgenpy/queryparser"
)

// testdata/*.txtar には schema.graphql と query.graphql、
// 各オペレーションの期待する出力 (<module>.py) が含まれる。
func TestPlugin_Render(t *testing.T) {
	t.Parallel()

	archives, err := filepath.Glob("testdata/*.txtar")
	if err != nil {
		t.Fatal(err)
	}
	if len(archives) == 0 {
		t.Fatal("no test archives found")
	}

	for _, filename := range archives {
		t.Run(filepath.Base(filename), func(t *testing.T) {
			t.Parallel()

			archive, err := txtar.ParseFile(filename)
			if err != nil {
				t.Fatalf("parse archive: %v", err)
			}
			files := make(map[string]string, len(archive.Files))
			for _, f := range archive.Files {
				files[f.Name] = string(f.Data)
			}

			schema, schemaErr := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: files["schema.graphql"]})
			if schemaErr != nil {
				t.Fatalf("load schema: %v", schemaErr)
			}
			doc, err := queryparser.QueryDocument(schema, []*ast.Source{{Name: "query.graphql", Input: files["query.graphql"]}})
			if err != nil {
				t.Fatalf("load query: %v", err)
			}

			registry := schematypes.New(schema)
			fragments := queryparser.FragmentMap(doc)
			plugin := querygen.New(t.TempDir())

			for _, operation := range doc.Operations {
				g, err := codegen.New(schema, registry, operation, "enums", codegen.WithFragments(fragments))
				if err != nil {
					t.Fatalf("codegen.New(%s) error = %v", operation.Name, err)
				}

				module := querygen.ModuleName(operation.Name) + ".py"
				want, ok := files[module]
				if !ok {
					t.Fatalf("archive has no %s", module)
				}

				if diff := cmp.Diff(want, plugin.Render(g)); diff != "" {
					t.Errorf("%s diff(-want +got): %s", module, diff)
				}
			}
		})
	}
}

func TestPlugin_Write(t *testing.T) {
	t.Parallel()

	schema, schemaErr := gqlparser.LoadSchema(&ast.Source{Input: `type Query { version: String! }`})
	if schemaErr != nil {
		t.Fatalf("load schema: %v", schemaErr)
	}
	doc, err := queryparser.QueryDocument(schema, []*ast.Source{{Input: `query ServerVersion { version }`}})
	if err != nil {
		t.Fatalf("load query: %v", err)
	}

	g, err := codegen.New(schema, schematypes.New(schema), doc.Operations[0], "enums")
	if err != nil {
		t.Fatalf("codegen.New() error = %v", err)
	}

	dir := t.TempDir()
	plugin := querygen.New(dir)

	filename, err := plugin.Write(g)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if want := filepath.Join(dir, "server_version.py"); filename != want {
		t.Errorf("Write() filename = %s, want %s", filename, want)
	}

	got, err := os.ReadFile(filename)
	if err != nil {
		t.Fatal(err)
	}
	want := `# Code generated by gqlgenpy, DO NOT EDIT.

from typing import Optional, Union
from pydantic import BaseModel, Field


class ServerVersion(BaseModel):
    version: str


ServerVersion.model_rebuild()
`
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("diff(-want +got): %s", diff)
	}
}

func TestModuleName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"GetUser":      "get_user",
		"listArticles": "list_articles",
		"Search":       "search",
	}

	for operation, want := range tests {
		if got := querygen.ModuleName(operation); got != want {
			t.Errorf("ModuleName(%s) = %s, want %s", operation, got, want)
		}
	}
}
