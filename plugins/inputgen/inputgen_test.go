package inputgen_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sebdah/goldie/v2"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/gqlgo/gqlgenpy/codegen/schematypes"
	"github.com/gqlgo/gqlgenpy/plugins/inputgen"
)

func TestPlugin_Render(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		golden    string
		schema    string
		baseModel [2]string
	}{
		{
			name:      "入力型を名前順に出力し、nullable とデフォルト値を持つフィールドにデフォルト値を付ける",
			golden:    "inputs",
			baseModel: [2]string{"pydantic", "BaseModel"},
			schema: `
type Query { users(filter: UserFilter): [String!]! }

enum Color { RED GREEN }

scalar DateTime

input UserFilter {
  firstName: String
  email: String!
  favouriteColor: Color = RED
  luckyNumber: Int = 7
  score: Float = 1.5
  tags: [String!] = ["a", "b"]
  location: LocationInput
  preferences: PreferencesInput! = {receiveMails: true, title: "Mr"}
  createdAt: DateTime
}

input LocationInput {
  city: String
  country: String
}

input PreferencesInput {
  receiveMails: Boolean!
  title: String!
}
`,
		},
		{
			name:      "基底クラスを差し替え、enum を使わない場合は import しない",
			golden:    "base_model",
			baseModel: [2]string{".base_model", "Model"},
			schema: `
type Query { posts(filter: PostFilter!): [String!]! }

input PostFilter {
  title: String!
  published: Boolean! = false
}
`,
		},
		{
			name:      "入力型がなければヘッダのみ",
			golden:    "no_inputs",
			baseModel: [2]string{"pydantic", "BaseModel"},
			schema:    `type Query { version: String! }`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			schema := gqlparser.MustLoadSchema(&ast.Source{Name: "schema.graphql", Input: tt.schema})
			got, err := inputgen.New(t.TempDir(), "input_types", "enums", tt.baseModel[0], tt.baseModel[1]).Render(schematypes.New(schema))
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}

			g := goldie.New(t)
			g.Assert(t, tt.golden, []byte(got))
		})
	}
}

func TestPlugin_Write(t *testing.T) {
	t.Parallel()

	schema := gqlparser.MustLoadSchema(&ast.Source{Input: `
type Query { users(filter: UserFilter): [String!]! }
input UserFilter { role: Role }
enum Role { ADMIN }
`})
	dir := t.TempDir()

	filename, err := inputgen.New(dir, "inputs", "types_enums", "pydantic", "BaseModel").Write(schematypes.New(schema))
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if want := filepath.Join(dir, "inputs.py"); filename != want {
		t.Errorf("Write() filename = %s, want %s", filename, want)
	}

	got, err := os.ReadFile(filename)
	if err != nil {
		t.Fatal(err)
	}
	want := `# Code generated by gqlgenpy, DO NOT EDIT.

from typing import Optional
from pydantic import BaseModel, Field
from .types_enums import Role


class UserFilter(BaseModel):
    role: Optional[Role] = None


UserFilter.model_rebuild()
`
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("diff(-want +got): %s", diff)
	}
}
