package schematypes_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/gqlgo/gqlgenpy/codegen/pytype"
	"github.com/gqlgo/gqlgenpy/codegen/schematypes"
)

var schema = gqlparser.MustLoadSchema(&ast.Source{Name: "schema.graphql", Input: `
type Query {
  user: User
}

interface Node {
  id: ID!
}

type User implements Node {
  id: ID!
  firstName: String
  from: String!
  tags: [String]!
  friends: [User!]
  color: Color!
  result: Result
  score: Float
  age: Int!
  active: Boolean
  createdAt: DateTime
}

type Post {
  title: String!
}

union Result = User | Post

enum Color {
  RED
  GREEN
}

enum Size {
  S
  M
}

input UserFilter {
  name: String
}

input PostFilter {
  title: String
}

scalar DateTime
`})

func TestRegistry_Field(t *testing.T) {
	t.Parallel()

	registry := schematypes.New(schema)

	tests := []struct {
		name      string
		typeName  string
		fieldName string
		want      *pytype.Field
		wantOK    bool
	}{
		{
			name:      "ID! は str",
			typeName:  "User",
			fieldName: "id",
			want:      &pytype.Field{Name: "id", Type: pytype.Name("str")},
			wantOK:    true,
		},
		{
			name:      "camelCase は snake_case にしてエイリアスを付ける",
			typeName:  "User",
			fieldName: "firstName",
			want:      &pytype.Field{Name: "first_name", Type: &pytype.Optional{Of: pytype.Name("str")}, Alias: "firstName"},
			wantOK:    true,
		},
		{
			name:      "Python の予約語は末尾に _ を付ける",
			typeName:  "User",
			fieldName: "from",
			want:      &pytype.Field{Name: "from_", Type: pytype.Name("str"), Alias: "from"},
			wantOK:    true,
		},
		{
			name:      "インターフェース型のフィールド",
			typeName:  "Node",
			fieldName: "id",
			want:      &pytype.Field{Name: "id", Type: pytype.Name("str")},
			wantOK:    true,
		},
		{
			name:      "存在しないフィールド",
			typeName:  "User",
			fieldName: "unknown",
		},
		{
			name:      "オブジェクトでもインターフェースでもない型",
			typeName:  "Color",
			fieldName: "RED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := registry.Field(tt.typeName, tt.fieldName)
			if ok != tt.wantOK {
				t.Fatalf("Field() ok = %v, want %v", ok, tt.wantOK)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("diff(-want +got): %s", diff)
			}
		})
	}
}

func TestRegistry_ParseFieldType(t *testing.T) {
	t.Parallel()

	registry := schematypes.New(schema)
	user := schema.Types["User"]

	tests := []struct {
		field string
		want  pytype.Expr
	}{
		{field: "tags", want: &pytype.List{Of: &pytype.Optional{Of: pytype.Name("str")}}},
		{field: "friends", want: &pytype.Optional{Of: &pytype.List{Of: pytype.Ref("User")}}},
		{field: "color", want: pytype.Name("Color")},
		{field: "result", want: &pytype.Optional{Of: &pytype.Union{Members: []pytype.Expr{pytype.Ref("User"), pytype.Ref("Post")}}}},
		{field: "score", want: &pytype.Optional{Of: pytype.Name("float")}},
		{field: "age", want: pytype.Name("int")},
		{field: "active", want: &pytype.Optional{Of: pytype.Name("bool")}},
		{field: "createdAt", want: &pytype.Optional{Of: pytype.Name("Any")}},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			t.Parallel()

			got := registry.ParseFieldType(user.Fields.ForName(tt.field).Type)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("diff(-want +got): %s", diff)
			}
		})
	}

	t.Run("input", func(t *testing.T) {
		t.Parallel()

		got := registry.ParseFieldType(ast.NonNullNamedType("UserFilter", nil))
		if diff := cmp.Diff(pytype.Expr(pytype.Ref("UserFilter")), got); diff != "" {
			t.Errorf("diff(-want +got): %s", diff)
		}
	})
}

func TestRegistry_Kind(t *testing.T) {
	t.Parallel()

	registry := schematypes.New(schema)

	tests := map[string]schematypes.Kind{
		"User":       schematypes.KindObject,
		"Node":       schematypes.KindInterface,
		"Color":      schematypes.KindEnum,
		"Result":     schematypes.KindUnion,
		"DateTime":   schematypes.KindScalar,
		"String":     schematypes.KindScalar,
		"UserFilter": schematypes.KindInput,
		"Missing":    schematypes.KindUnknown,
	}

	for name, want := range tests {
		if got := registry.Kind(name); got != want {
			t.Errorf("Kind(%s) = %q, want %q", name, got, want)
		}
	}
}

func TestRegistry_Enums(t *testing.T) {
	t.Parallel()

	registry := schematypes.New(schema)

	var got []string
	for _, enum := range registry.Enums() {
		got = append(got, enum.Name)
	}

	if diff := cmp.Diff([]string{"Color", "Size"}, got); diff != "" {
		t.Errorf("diff(-want +got): %s", diff)
	}
}

func TestRegistry_Inputs(t *testing.T) {
	t.Parallel()

	registry := schematypes.New(schema)

	var got []string
	for _, input := range registry.Inputs() {
		got = append(got, input.Name)
	}

	if diff := cmp.Diff([]string{"PostFilter", "UserFilter"}, got); diff != "" {
		t.Errorf("diff(-want +got): %s", diff)
	}
}

func TestFieldName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		graphqlName string
		wantName    string
		wantAlias   string
	}{
		{graphqlName: "id", wantName: "id"},
		{graphqlName: "firstName", wantName: "first_name", wantAlias: "firstName"},
		{graphqlName: "class", wantName: "class_", wantAlias: "class"},
		{graphqlName: "snake_case", wantName: "snake_case"},
	}

	for _, tt := range tests {
		t.Run(tt.graphqlName, func(t *testing.T) {
			t.Parallel()

			name, alias := schematypes.FieldName(tt.graphqlName)
			if name != tt.wantName || alias != tt.wantAlias {
				t.Errorf("FieldName(%q) = (%q, %q), want (%q, %q)", tt.graphqlName, name, alias, tt.wantName, tt.wantAlias)
			}
		})
	}
}
