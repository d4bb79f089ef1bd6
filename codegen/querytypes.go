package codegen

import (
	"fmt"
	"slices"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/gqlgo/gqlgenpy/codegen/pytype"
	"github.com/gqlgo/gqlgenpy/codegen/schematypes"
)

const typenameField = "__typename"

// QueryTypesGenerator は1つのオペレーションの選択セットから、その形をなぞる
// Python のクラス群を生成する。
//
// ネストした選択セットごとに "<OperationName><TypeName>" という名前のクラスを作り、
// 同じ名前は1回の実行で1度しか生成しない。この重複排除が再帰の停止条件も兼ねるため、
// 再帰の深さはオペレーションの選択セットの深さで決まる（明示的な上限は設けない）。
//
// 1つのインスタンスは1つのオペレーション専用で、並行に使ってはならない。
// Registry は読み取り専用なので、オペレーションごとのインスタンスから同時に参照してよい。
type QueryTypesGenerator struct {
	schema      *ast.Schema
	registry    *schematypes.Registry
	operation   *ast.OperationDefinition
	fragments   map[string]*ast.FragmentDefinition
	enumsModule string
	baseModel   *pytype.Import

	queryName     string
	publicNames   map[string]struct{}
	classes       []*pytype.Class
	usedEnums     []string
	usedFragments []string
	expanding     []string
}

type Option func(*QueryTypesGenerator)

// WithFragments sets the fragment table used to expand fragment spreads.
func WithFragments(fragments map[string]*ast.FragmentDefinition) Option {
	return func(g *QueryTypesGenerator) {
		if fragments != nil {
			g.fragments = fragments
		}
	}
}

// WithBaseModel replaces the default "from pydantic import BaseModel" import.
func WithBaseModel(module, name string) Option {
	return func(g *QueryTypesGenerator) {
		g.baseModel = &pytype.Import{Module: module, Names: []string{name}}
	}
}

// New はオペレーションを解析してクラス群を構築する。
// 名前のないオペレーションは ErrConfiguration を返す。
func New(
	schema *ast.Schema,
	registry *schematypes.Registry,
	operation *ast.OperationDefinition,
	enumsModule string,
	options ...Option,
) (*QueryTypesGenerator, error) {
	if operation.Name == "" {
		return nil, fmt.Errorf("%w: operations without name are not supported", ErrConfiguration)
	}

	g := &QueryTypesGenerator{
		schema:      schema,
		registry:    registry,
		operation:   operation,
		fragments:   map[string]*ast.FragmentDefinition{},
		enumsModule: enumsModule,
		baseModel:   &pytype.Import{Module: "pydantic", Names: []string{"BaseModel"}},
		queryName:   operation.Name,
		publicNames: map[string]struct{}{},
	}
	for _, option := range options {
		option(g)
	}

	if err := g.parseQuery(); err != nil {
		return nil, fmt.Errorf("operation %s: %w", g.queryName, err)
	}

	return g, nil
}

// QueryName returns the operation name, which is also the root class name.
func (g *QueryTypesGenerator) QueryName() string {
	return g.queryName
}

// UsedEnums returns the enums referenced by the emitted fields in first-seen order.
func (g *QueryTypesGenerator) UsedEnums() []string {
	return slices.Clone(g.usedEnums)
}

// UsedFragments returns the fragments consumed while flattening in first-seen order.
func (g *QueryTypesGenerator) UsedFragments() []string {
	return slices.Clone(g.usedFragments)
}

func (g *QueryTypesGenerator) parseQuery() error {
	rootType, err := g.rootType()
	if err != nil {
		return err
	}

	class := g.newClass(g.queryName)
	g.publicNames[class.Name] = struct{}{}

	fields, err := g.resolveSelectionSet(g.operation.SelectionSet, rootType.Name)
	if err != nil {
		return err
	}

	var extraClasses []*pytype.Class
	for _, field := range fields {
		definition, err := g.rootFieldDefinition(rootType, field)
		if err != nil {
			return err
		}

		classField, dependencies, err := g.processField(field, definition)
		if err != nil {
			return err
		}
		class.Fields = append(class.Fields, classField)
		extraClasses = append(extraClasses, dependencies...)
	}

	g.classes = append(g.classes, class)
	g.classes = append(g.classes, extraClasses...)

	return nil
}

func (g *QueryTypesGenerator) rootType() (*ast.Definition, error) {
	var root *ast.Definition
	switch g.operation.Operation {
	case ast.Query:
		root = g.schema.Query
	case ast.Mutation:
		root = g.schema.Mutation
	default:
		return nil, fmt.Errorf("%w: %s operations are not supported", ErrUnsupportedConstruct, g.operation.Operation)
	}
	if root == nil {
		return nil, fmt.Errorf("%w: schema has no %s type", ErrSchemaLookup, g.operation.Operation)
	}

	return root, nil
}

// rootFieldDefinition はルートのフィールドをスキーマから引く。
// ルートのフィールドは GraphQL の名前（エイリアスがあればエイリアス）をそのまま使う。
func (g *QueryTypesGenerator) rootFieldDefinition(rootType *ast.Definition, field *ast.Field) (*pytype.Field, error) {
	if field.Name == typenameField {
		if key := responseKey(field); key != typenameField {
			return &pytype.Field{Name: key, Type: pytype.Name("str")}, nil
		}
		return typenameFieldDefinition(), nil
	}

	definition := rootType.Fields.ForName(field.Name)
	if definition == nil {
		return nil, fmt.Errorf("%w: definition for %s not found in schema", ErrSchemaLookup, field.Name)
	}

	return &pytype.Field{
		Name: responseKey(field),
		Type: g.registry.ParseFieldType(definition.Type),
	}, nil
}

// generateDependencyClass は typeName に対する選択セットのクラスと、
// そこから辿れる未生成のクラスを深さ優先・フィールド順で返す。
// 既に同じ名前のクラスが登録済みであれば何も返さない。
func (g *QueryTypesGenerator) generateDependencyClass(typeName string, selectionSet ast.SelectionSet) ([]*pytype.Class, error) {
	class := g.newClass(g.queryName + typeName)
	if _, ok := g.publicNames[class.Name]; ok {
		return nil, nil
	}
	g.publicNames[class.Name] = struct{}{}

	fields, err := g.resolveSelectionSet(selectionSet, typeName)
	if err != nil {
		return nil, err
	}

	var extraClasses []*pytype.Class
	for _, field := range fields {
		definition, err := g.schemaFieldDefinition(typeName, field)
		if err != nil {
			return nil, err
		}

		classField, dependencies, err := g.processField(field, definition)
		if err != nil {
			return nil, err
		}
		class.Fields = append(class.Fields, classField)
		extraClasses = append(extraClasses, dependencies...)
	}

	return append([]*pytype.Class{class}, extraClasses...), nil
}

func (g *QueryTypesGenerator) schemaFieldDefinition(typeName string, field *ast.Field) (*pytype.Field, error) {
	if field.Name == typenameField {
		if key := responseKey(field); key != typenameField {
			name, alias := schematypes.FieldName(key)
			return &pytype.Field{Name: name, Type: pytype.Name("str"), Alias: alias}, nil
		}
		return typenameFieldDefinition(), nil
	}

	definition, ok := g.registry.Field(typeName, field.Name)
	if !ok {
		return nil, fmt.Errorf("%w: field %s not found on type %s", ErrSchemaLookup, field.Name, typeName)
	}

	if key := responseKey(field); key != field.Name {
		name, alias := schematypes.FieldName(key)
		return &pytype.Field{Name: name, Type: definition.Type, Alias: alias}, nil
	}

	return definition, nil
}

func typenameFieldDefinition() *pytype.Field {
	return &pytype.Field{Name: "typename__", Type: pytype.Name("str"), Alias: typenameField}
}

// processField はフィールドの型式を書き換えてクラスのフィールドを作り、
// ネストした選択セットがあれば書き換え前の型名ごとに依存クラスを生成する。
func (g *QueryTypesGenerator) processField(field *ast.Field, definition *pytype.Field) (*pytype.Field, []*pytype.Class, error) {
	typeNames, err := pytype.ExtractNames(definition.Type)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: field %s: %w", ErrUnsupportedConstruct, field.Name, err)
	}

	annotation, err := g.processAnnotation(definition.Type, typeNames)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: field %s: %w", ErrUnsupportedConstruct, field.Name, err)
	}

	classField := &pytype.Field{
		Name:  definition.Name,
		Type:  annotation,
		Alias: definition.Alias,
	}

	if len(field.SelectionSet) == 0 {
		return classField, nil, nil
	}

	var dependencies []*pytype.Class
	for _, typeName := range typeNames {
		classes, err := g.generateDependencyClass(typeName, field.SelectionSet)
		if err != nil {
			return nil, nil, err
		}
		dependencies = append(dependencies, classes...)
	}

	return classField, dependencies, nil
}

// processAnnotation はオブジェクト型かインターフェース型を含む型式の参照名に
// オペレーション名を付与する。それ以外では enum の使用を記録し、型式はそのまま返す。
func (g *QueryTypesGenerator) processAnnotation(annotation pytype.Expr, typeNames []string) (pytype.Expr, error) {
	if slices.ContainsFunc(typeNames, func(name string) bool {
		kind := g.registry.Kind(name)
		return kind == schematypes.KindObject || kind == schematypes.KindInterface
	}) {
		return pytype.AddPrefix(annotation, g.queryName)
	}

	for _, name := range typeNames {
		if g.registry.Kind(name) == schematypes.KindEnum && !slices.Contains(g.usedEnums, name) {
			g.usedEnums = append(g.usedEnums, name)
		}
	}

	return annotation, nil
}

func (g *QueryTypesGenerator) newClass(name string) *pytype.Class {
	return &pytype.Class{Name: name, Bases: slices.Clone(g.baseModel.Names)}
}

func responseKey(field *ast.Field) string {
	if field.Alias != "" {
		return field.Alias
	}
	return field.Name
}
