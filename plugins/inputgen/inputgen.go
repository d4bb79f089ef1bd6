// Package inputgen はスキーマの入力型 (input) を Python モジュールとして書き出す。
//
// オペレーションで使われているかに関わらず、全ての入力型を名前順に出力する。
// フィールド名は snake_case にして GraphQL の名前を alias に持ち、
// nullable なフィールドとスキーマにデフォルト値を持つフィールドにはデフォルト値を付ける。
package inputgen

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/gqlgo/gqlgenpy/codegen/pytype"
	"github.com/gqlgo/gqlgenpy/codegen/schematypes"
	"github.com/gqlgo/gqlgenpy/plugins/querygen"
)

type Plugin struct {
	dir         string
	module      string
	enumsModule string
	baseModel   *pytype.Import
	formatter   *querygen.CodeFormatter
}

// New は新しい inputgen プラグインインスタンスを作成する。
// baseModelModule と baseModelName は全ての入力型が継承するクラスの import 元と名前。
func New(dir, module, enumsModule, baseModelModule, baseModelName string) *Plugin {
	return &Plugin{
		dir:         dir,
		module:      module,
		enumsModule: enumsModule,
		baseModel:   &pytype.Import{Module: baseModelModule, Names: []string{baseModelName}},
		formatter:   querygen.NewCodeFormatter(),
	}
}

func (p *Plugin) Name() string {
	return "inputgen"
}

func (p *Plugin) Filename() string {
	return filepath.Join(p.dir, p.module+".py")
}

// Module は全ての入力型のクラスと import、前方参照の解決呼び出しを組み立てる。
// 入力型がなければ空のモジュールを返す。
func (p *Plugin) Module(registry *schematypes.Registry) (*pytype.Module, error) {
	inputs := registry.Inputs()
	if len(inputs) == 0 {
		return &pytype.Module{}, nil
	}

	definitions := make(map[string]*ast.Definition, len(inputs))
	for _, input := range inputs {
		definitions[input.Name] = input
	}

	module := &pytype.Module{}
	var usedEnums []string
	var usesAny, usesList, usesOptional bool
	for _, input := range inputs {
		class := &pytype.Class{Name: input.Name, Bases: slices.Clone(p.baseModel.Names)}
		for _, f := range input.Fields {
			field, err := p.field(registry, definitions, f)
			if err != nil {
				return nil, fmt.Errorf("input %s: %w", input.Name, err)
			}
			class.Fields = append(class.Fields, field)

			names, err := pytype.ExtractNames(field.Type)
			if err != nil {
				return nil, fmt.Errorf("input %s.%s: %w", input.Name, f.Name, err)
			}
			for _, name := range names {
				if registry.Kind(name) == schematypes.KindEnum && !slices.Contains(usedEnums, name) {
					usedEnums = append(usedEnums, name)
				}
			}
			usesAny = usesAny || slices.Contains(names, schematypes.AnyType)
			usesList = usesList || pytype.Uses(field.Type, func(e pytype.Expr) bool {
				_, ok := e.(*pytype.List)
				return ok
			})
			usesOptional = usesOptional || pytype.Uses(field.Type, func(e pytype.Expr) bool {
				_, ok := e.(*pytype.Optional)
				return ok
			})
		}
		module.Classes = append(module.Classes, class)
		module.ForwardRefs = append(module.ForwardRefs, class.Name)
	}

	var typing []string
	if usesAny {
		typing = append(typing, "Any")
	}
	if usesList {
		typing = append(typing, "List")
	}
	if usesOptional {
		typing = append(typing, "Optional")
	}

	var imports []*pytype.Import
	if len(typing) > 0 {
		imports = append(imports, &pytype.Import{Module: "typing", Names: typing})
	}
	imports = append(imports,
		&pytype.Import{Module: "pydantic", Names: []string{"Field"}},
		&pytype.Import{Module: p.baseModel.Module, Names: slices.Clone(p.baseModel.Names)},
	)
	if len(usedEnums) > 0 {
		imports = append(imports, &pytype.Import{Module: "." + p.enumsModule, Names: usedEnums})
	}
	module.Imports = pytype.MergeImports(imports)

	return module, nil
}

func (p *Plugin) field(registry *schematypes.Registry, definitions map[string]*ast.Definition, f *ast.FieldDefinition) (*pytype.Field, error) {
	name, alias := schematypes.FieldName(f.Name)
	field := &pytype.Field{Name: name, Type: registry.ParseFieldType(f.Type), Alias: alias}

	switch {
	case f.DefaultValue != nil:
		value, err := pythonValue(definitions, f.DefaultValue, f.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		field.Default = value
		field.DefaultFactory = f.DefaultValue.Kind == ast.ListValue || f.DefaultValue.Kind == ast.ObjectValue
	case !f.Type.NonNull:
		field.Default = "None"
	}

	return field, nil
}

// pythonValue はスキーマに書かれたデフォルト値を Python の式にする。
// 入力型のオブジェクトは <Input>.model_validate({...}) で組み立てる。
func pythonValue(definitions map[string]*ast.Definition, value *ast.Value, typ *ast.Type) (string, error) {
	switch value.Kind {
	case ast.NullValue:
		return "None", nil
	case ast.IntValue, ast.FloatValue:
		return value.Raw, nil
	case ast.StringValue, ast.BlockValue:
		return strconv.Quote(value.Raw), nil
	case ast.BooleanValue:
		if value.Raw == "true" {
			return "True", nil
		}
		return "False", nil
	case ast.EnumValue:
		return typ.Name() + "." + value.Raw, nil
	case ast.ListValue:
		elem := typ
		if typ.Elem != nil {
			elem = typ.Elem
		}
		items := make([]string, 0, len(value.Children))
		for _, child := range value.Children {
			item, err := pythonValue(definitions, child.Value, elem)
			if err != nil {
				return "", err
			}
			items = append(items, item)
		}
		return "[" + strings.Join(items, ", ") + "]", nil
	case ast.ObjectValue:
		def, ok := definitions[typ.Name()]
		if !ok {
			return "", fmt.Errorf("object default value for non input type %s", typ.Name())
		}
		entries := make([]string, 0, len(value.Children))
		for _, child := range value.Children {
			childDef := def.Fields.ForName(child.Name)
			if childDef == nil {
				return "", fmt.Errorf("field %s not found on input %s", child.Name, def.Name)
			}
			item, err := pythonValue(definitions, child.Value, childDef.Type)
			if err != nil {
				return "", err
			}
			entries = append(entries, strconv.Quote(child.Name)+": "+item)
		}
		return def.Name + ".model_validate({" + strings.Join(entries, ", ") + "})", nil
	}

	return "", fmt.Errorf("unsupported default value %s", value.String())
}

// Render は入力型のモジュールを Python のソースコードにする。
func (p *Plugin) Render(registry *schematypes.Registry) (string, error) {
	module, err := p.Module(registry)
	if err != nil {
		return "", err
	}

	return p.formatter.FormatModule(module), nil
}

func (p *Plugin) Write(registry *schematypes.Registry) (string, error) {
	content, err := p.Render(registry)
	if err != nil {
		return "", fmt.Errorf("%s: %w", p.Name(), err)
	}

	filename := p.Filename()
	if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("%s: write %s: %w", p.Name(), filename, err)
	}

	return filename, nil
}
