package introspection

import (
	"slices"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
)

// Definitions provided by the gqlparser prelude, which must not be redeclared.
var (
	builtinScalars    = []string{"String", "Int", "Float", "Boolean", "ID"}
	builtinDirectives = []string{"include", "skip", "deprecated", "specifiedBy", "defer", "oneOf"}
)

// SchemaFromIntrospection はイントロスペクションの結果をスキーマドキュメントに変換する。
// 組み込みのスカラー、ディレクティブ、"__" で始まる型は含めない。
// 引数と入力フィールドのデフォルト値は型生成に使わないため変換しない。
func SchemaFromIntrospection(query Query) *ast.SchemaDocument {
	doc := &ast.SchemaDocument{}

	schema := &ast.SchemaDefinition{}
	addRoot := func(operation ast.Operation, root *RootType) {
		if root != nil && root.Name != nil {
			schema.OperationTypes = append(schema.OperationTypes, &ast.OperationTypeDefinition{Operation: operation, Type: *root.Name})
		}
	}
	addRoot(ast.Query, &query.Schema.QueryType)
	addRoot(ast.Mutation, query.Schema.MutationType)
	addRoot(ast.Subscription, query.Schema.SubscriptionType)
	if len(schema.OperationTypes) > 0 {
		doc.Schema = append(doc.Schema, schema)
	}

	for _, typ := range query.Schema.Types {
		if typ.Name == nil || strings.HasPrefix(*typ.Name, "__") || slices.Contains(builtinScalars, *typ.Name) {
			continue
		}
		doc.Definitions = append(doc.Definitions, definition(typ))
	}
	slices.SortFunc(doc.Definitions, func(a, b *ast.Definition) int {
		return strings.Compare(a.Name, b.Name)
	})

	// フォーマッタは組み込み判定に Position.Src を参照する
	position := &ast.Position{Src: &ast.Source{Name: "introspection"}}
	for _, directive := range query.Schema.Directives {
		if slices.Contains(builtinDirectives, directive.Name) {
			continue
		}
		locations := make([]ast.DirectiveLocation, 0, len(directive.Locations))
		for _, location := range directive.Locations {
			locations = append(locations, ast.DirectiveLocation(location))
		}
		doc.Directives = append(doc.Directives, &ast.DirectiveDefinition{
			Description: deref(directive.Description),
			Name:        directive.Name,
			Arguments:   arguments(directive.Args),
			Locations:   locations,
			Position:    position,
		})
	}

	return doc
}

func definition(typ *FullType) *ast.Definition {
	def := &ast.Definition{
		Name:        *typ.Name,
		Description: deref(typ.Description),
	}

	switch typ.Kind {
	case TypeKindScalar:
		def.Kind = ast.Scalar
	case TypeKindObject, TypeKindInterface:
		def.Kind = ast.Object
		if typ.Kind == TypeKindInterface {
			def.Kind = ast.Interface
		}
		for _, iface := range typ.Interfaces {
			def.Interfaces = append(def.Interfaces, deref(iface.Name))
		}
		for _, field := range typ.Fields {
			def.Fields = append(def.Fields, &ast.FieldDefinition{
				Description: deref(field.Description),
				Name:        field.Name,
				Arguments:   arguments(field.Args),
				Type:        typeRef(&field.Type),
			})
		}
	case TypeKindUnion:
		def.Kind = ast.Union
		for _, member := range typ.PossibleTypes {
			def.Types = append(def.Types, deref(member.Name))
		}
	case TypeKindEnum:
		def.Kind = ast.Enum
		for _, value := range typ.EnumValues {
			def.EnumValues = append(def.EnumValues, &ast.EnumValueDefinition{
				Description: deref(value.Description),
				Name:        value.Name,
			})
		}
	case TypeKindInputObject:
		def.Kind = ast.InputObject
		for _, field := range typ.InputFields {
			def.Fields = append(def.Fields, &ast.FieldDefinition{
				Description: deref(field.Description),
				Name:        field.Name,
				Type:        typeRef(&field.Type),
			})
		}
	}

	return def
}

func arguments(values []*InputValue) ast.ArgumentDefinitionList {
	args := make(ast.ArgumentDefinitionList, 0, len(values))
	for _, value := range values {
		args = append(args, &ast.ArgumentDefinition{
			Description: deref(value.Description),
			Name:        value.Name,
			Type:        typeRef(&value.Type),
		})
	}

	return args
}

// typeRef converts an introspection type reference. A wrapper without ofType is
// treated as a named reference so that schema validation reports it instead of panicking.
func typeRef(ref *TypeRef) *ast.Type {
	switch {
	case ref.Kind == TypeKindNonNull && ref.OfType != nil:
		t := typeRef(ref.OfType)
		t.NonNull = true
		return t
	case ref.Kind == TypeKindList && ref.OfType != nil:
		return &ast.Type{Elem: typeRef(ref.OfType)}
	}

	return &ast.Type{NamedType: deref(ref.Name)}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
