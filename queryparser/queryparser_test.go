package queryparser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

var schema = gqlparser.MustLoadSchema(&ast.Source{Name: "schema.graphql", Input: `
type Query {
  user: User
}

type User {
  id: ID!
  name: String
}
`})

func TestQueryDocument(t *testing.T) {
	t.Parallel()

	type want struct {
		operations  []string
		fragments   []string
		errContains string
	}

	tests := []struct {
		name    string
		sources []*ast.Source
		want    want
	}{
		{
			name: "ファイルをまたいだフラグメントを参照できる",
			sources: []*ast.Source{
				{Name: "query.graphql", Input: `query GetUser { user { ...UserFields } }`},
				{Name: "fragment.graphql", Input: `fragment UserFields on User { id name }`},
			},
			want: want{
				operations: []string{"GetUser"},
				fragments:  []string{"UserFields"},
			},
		},
		{
			name: "スキーマにないフィールドは検証エラー",
			sources: []*ast.Source{
				{Name: "query.graphql", Input: `query GetUser { user { email } }`},
			},
			want: want{
				errContains: "validate query:",
			},
		},
		{
			name: "構文エラーはファイル名付きで返す",
			sources: []*ast.Source{
				{Name: "broken.graphql", Input: `query GetUser { user { id }`},
			},
			want: want{
				errContains: "parse query broken.graphql:",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := QueryDocument(schema, tt.sources)
			if tt.want.errContains != "" {
				if err == nil || !strings.Contains(err.Error(), tt.want.errContains) {
					t.Fatalf("error = %v, want containing %q", err, tt.want.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("QueryDocument() error = %v", err)
			}

			var operations, fragments []string
			for _, op := range got.Operations {
				operations = append(operations, op.Name)
			}
			for _, fragment := range got.Fragments {
				fragments = append(fragments, fragment.Name)
			}
			if diff := cmp.Diff(tt.want.operations, operations); diff != "" {
				t.Errorf("operations diff(-want +got): %s", diff)
			}
			if diff := cmp.Diff(tt.want.fragments, fragments); diff != "" {
				t.Errorf("fragments diff(-want +got): %s", diff)
			}
		})
	}
}

func TestLoadQuerySources(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := filepath.Join(dir, "b.graphql")
	second := filepath.Join(dir, "a.graphql")
	if err := os.WriteFile(first, []byte(`query B { user { id } }`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(second, []byte(`query A { user { name } }`), 0o644); err != nil {
		t.Fatal(err)
	}

	sources, err := LoadQuerySources([]string{first, second})
	if err != nil {
		t.Fatalf("LoadQuerySources() error = %v", err)
	}

	want := []*ast.Source{
		{Name: first, Input: `query B { user { id } }`},
		{Name: second, Input: `query A { user { name } }`},
	}
	if diff := cmp.Diff(want, sources); diff != "" {
		t.Errorf("diff(-want +got): %s", diff)
	}

	if _, err := LoadQuerySources([]string{filepath.Join(dir, "missing.graphql")}); err == nil {
		t.Error("error = nil, want error for a missing file")
	}
}

func TestFragmentMap(t *testing.T) {
	t.Parallel()

	doc := &ast.QueryDocument{
		Fragments: ast.FragmentDefinitionList{
			{Name: "A", TypeCondition: "User"},
			{Name: "B", TypeCondition: "User"},
		},
	}

	got := FragmentMap(doc)
	if len(got) != 2 || got["A"] != doc.Fragments[0] || got["B"] != doc.Fragments[1] {
		t.Errorf("FragmentMap() = %v", got)
	}
}
