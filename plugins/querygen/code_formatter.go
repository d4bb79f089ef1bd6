package querygen

import (
	"fmt"
	"strings"

	"github.com/gqlgo/gqlgenpy/codegen/pytype"
)

// Header is written at the top of every generated Python file.
const Header = "# Code generated by gqlgenpy, DO NOT EDIT."

// CodeFormatter は生成されるコードをフォーマットする。
type CodeFormatter struct{}

// NewCodeFormatter は新しい CodeFormatter を作成する。
func NewCodeFormatter() *CodeFormatter {
	return &CodeFormatter{}
}

// FormatModule はモジュールを Python のソースコードにフォーマットする。
//
// import 文は改行のみ、クラス定義とその後の前方参照の解決呼び出しは空行2つで区切る。
func (f *CodeFormatter) FormatModule(module *pytype.Module) string {
	imports := make([]string, 0, len(module.Imports))
	for _, imp := range module.Imports {
		imports = append(imports, (&ImportFrom{Module: imp.Module, Names: imp.Names}).String(0))
	}

	classes := make([]string, 0, len(module.Classes))
	for _, class := range module.Classes {
		classes = append(classes, f.FormatClass(class).String(0))
	}

	rebuilds := make([]string, 0, len(module.ForwardRefs))
	for _, name := range module.ForwardRefs {
		rebuilds = append(rebuilds, (&MethodCall{Receiver: name, Method: "model_rebuild"}).String(0))
	}

	head := Header
	if len(imports) > 0 {
		head += "\n\n" + strings.Join(imports, "\n")
	}
	sections := []string{head}
	if len(classes) > 0 {
		sections = append(sections, strings.Join(classes, "\n\n\n"))
	}
	if len(rebuilds) > 0 {
		sections = append(sections, strings.Join(rebuilds, "\n"))
	}

	return strings.Join(sections, "\n\n\n") + "\n"
}

// FormatClass はクラスを ClassDef 文に変換する。
func (f *CodeFormatter) FormatClass(class *pytype.Class) *ClassDef {
	body := make([]Statement, 0, len(class.Fields))
	for _, field := range class.Fields {
		body = append(body, f.FormatField(field))
	}

	return &ClassDef{Name: class.Name, Bases: class.Bases, Body: body}
}

// FormatField は alias やデフォルト値を持つフィールドを代入文にする。
//
//	first_name: Optional[str] = Field(alias="firstName", default=None)
//	city: Optional[str] = None
//	tags: List[str] = Field(default_factory=lambda: [])
func (f *CodeFormatter) FormatField(field *pytype.Field) *AnnAssign {
	stmt := &AnnAssign{Target: field.Name, Annotation: f.FormatExpr(field.Type)}
	if field.Alias == "" && field.Default != "" && !field.DefaultFactory {
		stmt.Value = field.Default
		return stmt
	}

	var args []string
	if field.Alias != "" {
		args = append(args, fmt.Sprintf("alias=%q", field.Alias))
	}
	switch {
	case field.Default != "" && field.DefaultFactory:
		args = append(args, "default_factory=lambda: "+field.Default)
	case field.Default != "":
		args = append(args, "default="+field.Default)
	}
	if len(args) > 0 {
		stmt.Value = "Field(" + strings.Join(args, ", ") + ")"
	}

	return stmt
}

// FormatExpr は型式を Python の型アノテーションにフォーマットする。
//
// 例: Optional[List["GetUserUser"]]
func (f *CodeFormatter) FormatExpr(expr pytype.Expr) string {
	switch e := expr.(type) {
	case *pytype.Named:
		if e.ForwardRef {
			return `"` + e.Name + `"`
		}
		return e.Name
	case *pytype.Optional:
		return "Optional[" + f.FormatExpr(e.Of) + "]"
	case *pytype.List:
		return "List[" + f.FormatExpr(e.Of) + "]"
	case *pytype.Union:
		members := make([]string, 0, len(e.Members))
		for _, m := range e.Members {
			members = append(members, f.FormatExpr(m))
		}
		return "Union[" + strings.Join(members, ", ") + "]"
	}

	return "Any"
}
