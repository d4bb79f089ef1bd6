package codegen

import (
	"fmt"
	"slices"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
)

// resolveSelectionSet は選択セットをフィールドの並びに平坦化する。
//
//   - fragment spread はフラグメント定義の選択セットを同じ rootType で展開し、使用済みとして記録する
//   - inline fragment は型条件が rootType と一致する（または型条件がない）場合のみ展開する
//
// 同じレスポンスキーのフィールドは最初の位置に1つにまとめ、ネストした選択セットは連結する。
func (g *QueryTypesGenerator) resolveSelectionSet(selectionSet ast.SelectionSet, rootType string) ([]*ast.Field, error) {
	fields, err := g.flattenSelectionSet(selectionSet, rootType)
	if err != nil {
		return nil, err
	}

	return mergeFields(fields), nil
}

func (g *QueryTypesGenerator) flattenSelectionSet(selectionSet ast.SelectionSet, rootType string) ([]*ast.Field, error) {
	var fields []*ast.Field
	for _, selection := range selectionSet {
		switch sel := selection.(type) {
		case *ast.Field:
			fields = append(fields, sel)
		case *ast.FragmentSpread:
			spreadFields, err := g.expandFragmentSpread(sel.Name, rootType)
			if err != nil {
				return nil, err
			}
			fields = append(fields, spreadFields...)
		case *ast.InlineFragment:
			if sel.TypeCondition != "" && sel.TypeCondition != rootType {
				continue
			}
			inlineFields, err := g.flattenSelectionSet(sel.SelectionSet, rootType)
			if err != nil {
				return nil, err
			}
			fields = append(fields, inlineFields...)
		default:
			return nil, fmt.Errorf("%w: selection %T", ErrUnsupportedConstruct, selection)
		}
	}

	return fields, nil
}

func (g *QueryTypesGenerator) expandFragmentSpread(name, rootType string) ([]*ast.Field, error) {
	fragment, ok := g.fragments[name]
	if !ok {
		return nil, fmt.Errorf("%w: fragment %s is not defined", ErrUnsupportedConstruct, name)
	}
	if slices.Contains(g.expanding, name) {
		return nil, fmt.Errorf("%w: fragment cycle %s -> %s", ErrUnsupportedConstruct, strings.Join(g.expanding, " -> "), name)
	}

	if !slices.Contains(g.usedFragments, name) {
		g.usedFragments = append(g.usedFragments, name)
	}

	g.expanding = append(g.expanding, name)
	defer func() { g.expanding = g.expanding[:len(g.expanding)-1] }()

	return g.flattenSelectionSet(fragment.SelectionSet, rootType)
}

// mergeFields は同じレスポンスキーのフィールドを1つにまとめる。入力のフィールドは変更しない。
func mergeFields(fields []*ast.Field) []*ast.Field {
	merged := make([]*ast.Field, 0, len(fields))
	index := make(map[string]int, len(fields))
	for _, field := range fields {
		key := responseKey(field)
		i, ok := index[key]
		if !ok {
			index[key] = len(merged)
			merged = append(merged, field)
			continue
		}
		if len(field.SelectionSet) == 0 {
			continue
		}

		combined := *merged[i]
		combined.SelectionSet = slices.Concat(merged[i].SelectionSet, field.SelectionSet)
		merged[i] = &combined
	}

	return merged
}
