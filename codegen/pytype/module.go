package pytype

import "slices"

// Field is one annotated class attribute. A non-empty Alias is emitted as the
// default value Field(alias="...").
//
// Default は Python の式としてのデフォルト値で、空の場合はデフォルト値を持たない。
// DefaultFactory が true の場合は default_factory=lambda: <Default> として出力する。
type Field struct {
	Name           string
	Type           Expr
	Alias          string
	Default        string
	DefaultFactory bool
}

// Class is an output type definition.
type Class struct {
	Name   string
	Bases  []string
	Fields []*Field
}

// Import は from-import 文を表す。Module が "." で始まる場合は相対 import になる。
type Import struct {
	Module string
	Names  []string
}

// Module は1オペレーション分の出力モジュール。
//
// ForwardRefs には全クラスの宣言後に前方参照を解決するクラス名が宣言順に並ぶ。
type Module struct {
	Imports     []*Import
	Classes     []*Class
	ForwardRefs []string
}

// MergeImports combines imports from the same module into the first one.
// Names of a merged import are sorted and deduplicated.
func MergeImports(imports []*Import) []*Import {
	merged := make([]*Import, 0, len(imports))
	for _, imp := range imports {
		i := slices.IndexFunc(merged, func(m *Import) bool { return m.Module == imp.Module })
		if i < 0 {
			merged = append(merged, imp)
			continue
		}
		names := slices.Concat(merged[i].Names, imp.Names)
		slices.Sort(names)
		merged[i] = &Import{Module: imp.Module, Names: slices.Compact(names)}
	}

	return merged
}
