// Package schematypes precomputes, for a whole schema, the Python field
// definitions of every object and interface type and the kind of every named
// type. A Registry is immutable after New and safe for concurrent readers.
package schematypes

import (
	"slices"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/gqlgo/gqlgenpy/codegen/pytype"
)

type Kind string

const (
	KindUnknown   Kind = ""
	KindObject    Kind = "OBJECT"
	KindInterface Kind = "INTERFACE"
	KindEnum      Kind = "ENUM"
	KindUnion     Kind = "UNION"
	KindScalar    Kind = "SCALAR"
	KindInput     Kind = "INPUT"
)

var builtinScalars = map[string]string{
	"String":  "str",
	"ID":      "str",
	"Int":     "int",
	"Float":   "float",
	"Boolean": "bool",
}

// AnyType is the annotation used for custom scalars.
const AnyType = "Any"

type Registry struct {
	schema *ast.Schema
	kinds  map[string]Kind
	fields map[string]map[string]*pytype.Field
}

func New(schema *ast.Schema) *Registry {
	r := &Registry{
		schema: schema,
		kinds:  make(map[string]Kind, len(schema.Types)),
		fields: make(map[string]map[string]*pytype.Field),
	}

	for name, def := range schema.Types {
		r.kinds[name] = kindOf(def.Kind)
	}

	for name, def := range schema.Types {
		if def.Kind != ast.Object && def.Kind != ast.Interface {
			continue
		}
		fields := make(map[string]*pytype.Field, len(def.Fields))
		for _, f := range def.Fields {
			fields[f.Name] = r.newField(f)
		}
		r.fields[name] = fields
	}

	return r
}

func kindOf(kind ast.DefinitionKind) Kind {
	switch kind {
	case ast.Object:
		return KindObject
	case ast.Interface:
		return KindInterface
	case ast.Enum:
		return KindEnum
	case ast.Union:
		return KindUnion
	case ast.Scalar:
		return KindScalar
	case ast.InputObject:
		return KindInput
	}
	return KindUnknown
}

func (r *Registry) newField(f *ast.FieldDefinition) *pytype.Field {
	name, alias := FieldName(f.Name)
	return &pytype.Field{
		Name:  name,
		Type:  r.ParseFieldType(f.Type),
		Alias: alias,
	}
}

// Field returns the precomputed definition of typeName.fieldName.
func (r *Registry) Field(typeName, fieldName string) (*pytype.Field, bool) {
	fields, ok := r.fields[typeName]
	if !ok {
		return nil, false
	}
	f, ok := fields[fieldName]
	return f, ok
}

// Kind returns KindUnknown for names the schema does not define.
func (r *Registry) Kind(typeName string) Kind {
	return r.kinds[typeName]
}

// Enums returns the user defined enums sorted by name.
func (r *Registry) Enums() []*ast.Definition {
	return r.definitions(ast.Enum)
}

// Inputs returns the input object types sorted by name.
func (r *Registry) Inputs() []*ast.Definition {
	return r.definitions(ast.InputObject)
}

func (r *Registry) definitions(kind ast.DefinitionKind) []*ast.Definition {
	var defs []*ast.Definition
	for name, def := range r.schema.Types {
		if def.Kind == kind && !strings.HasPrefix(name, "__") {
			defs = append(defs, def)
		}
	}
	slices.SortFunc(defs, func(a, b *ast.Definition) int {
		return strings.Compare(a.Name, b.Name)
	})

	return defs
}

// ParseFieldType は GraphQL の型を Python の型式に変換する。
//
//	[User!]  -> Optional[List["User"]]
//	Color!   -> Color
//	String   -> Optional[str]
func (r *Registry) ParseFieldType(t *ast.Type) pytype.Expr {
	var expr pytype.Expr
	if t.Elem != nil {
		expr = &pytype.List{Of: r.ParseFieldType(t.Elem)}
	} else {
		expr = r.namedType(t.NamedType)
	}

	if !t.NonNull {
		return &pytype.Optional{Of: expr}
	}
	return expr
}

func (r *Registry) namedType(name string) pytype.Expr {
	if py, ok := builtinScalars[name]; ok {
		return pytype.Name(py)
	}

	switch r.Kind(name) {
	case KindEnum:
		return pytype.Name(name)
	case KindObject, KindInterface, KindInput:
		return pytype.Ref(name)
	case KindUnion:
		def := r.schema.Types[name]
		members := make([]pytype.Expr, 0, len(def.Types))
		for _, member := range def.Types {
			members = append(members, pytype.Ref(member))
		}
		return &pytype.Union{Members: members}
	}

	return pytype.Name(AnyType)
}

var pythonKeywords = map[string]struct{}{
	"False": {}, "None": {}, "True": {}, "and": {}, "as": {}, "assert": {}, "async": {},
	"await": {}, "break": {}, "class": {}, "continue": {}, "def": {}, "del": {}, "elif": {},
	"else": {}, "except": {}, "finally": {}, "for": {}, "from": {}, "global": {}, "if": {},
	"import": {}, "in": {}, "is": {}, "lambda": {}, "nonlocal": {}, "not": {}, "or": {},
	"pass": {}, "raise": {}, "return": {}, "try": {}, "while": {}, "with": {}, "yield": {},
}

// FieldName returns the Python attribute name for a GraphQL field and the
// alias to declare when the two differ.
func FieldName(graphqlName string) (name, alias string) {
	name = strcase.ToSnake(graphqlName)
	if _, ok := pythonKeywords[name]; ok {
		name += "_"
	}
	if name != graphqlName {
		alias = graphqlName
	}

	return name, alias
}
