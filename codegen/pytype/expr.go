// Package pytype は生成される Python モジュールの論理構造を表す。
//
// 型式 (Expr) はフィールドの型アノテーションを表す閉じた木で、
// Named / Optional / List / Union の4種類のノードだけから構成される。
// テキストへの変換は plugins/querygen が最後に一度だけ行う。
package pytype

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidExpr は4種類のノード以外の型式が渡されたことを示す。
var ErrInvalidExpr = errors.New("invalid type expression")

// Expr is a type annotation tree.
type Expr interface {
	isExpr()
}

// Named は名前付き型の参照。ForwardRef が true の場合は前方参照として
// 引用符付き ("User") で出力される。
type Named struct {
	Name       string
	ForwardRef bool
}

// Optional wraps a nullable type.
type Optional struct {
	Of Expr
}

// List wraps a list type.
type List struct {
	Of Expr
}

// Union groups the member types of a GraphQL union.
type Union struct {
	Members []Expr
}

func (*Named) isExpr()    {}
func (*Optional) isExpr() {}
func (*List) isExpr()     {}
func (*Union) isExpr()    {}

// Name returns a plain (non forward) reference.
func Name(name string) *Named {
	return &Named{Name: name}
}

// Ref returns a forward reference.
func Ref(name string) *Named {
	return &Named{Name: name, ForwardRef: true}
}

// ExtractNames は型式に含まれる名前付き型の名前を出現順に重複なく返す。
func ExtractNames(expr Expr) ([]string, error) {
	var names []string
	if err := walk(expr, func(n *Named) {
		if !slices.Contains(names, n.Name) {
			names = append(names, n.Name)
		}
	}); err != nil {
		return nil, err
	}

	return names, nil
}

func walk(expr Expr, visit func(*Named)) error {
	switch e := expr.(type) {
	case *Named:
		visit(e)
	case *Optional:
		return walk(e.Of, visit)
	case *List:
		return walk(e.Of, visit)
	case *Union:
		for _, m := range e.Members {
			if err := walk(m, visit); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w: %T", ErrInvalidExpr, expr)
	}

	return nil
}

// AddPrefix は前方参照となっている全ての名前に prefix を付与した新しい型式を返す。
// 前方参照でない名前（組み込み型や enum）はそのまま残す。入力は変更しない。
func AddPrefix(expr Expr, prefix string) (Expr, error) {
	switch e := expr.(type) {
	case *Named:
		if !e.ForwardRef {
			return &Named{Name: e.Name}, nil
		}
		return Ref(prefix + e.Name), nil
	case *Optional:
		of, err := AddPrefix(e.Of, prefix)
		if err != nil {
			return nil, err
		}
		return &Optional{Of: of}, nil
	case *List:
		of, err := AddPrefix(e.Of, prefix)
		if err != nil {
			return nil, err
		}
		return &List{Of: of}, nil
	case *Union:
		members := make([]Expr, 0, len(e.Members))
		for _, m := range e.Members {
			pm, err := AddPrefix(m, prefix)
			if err != nil {
				return nil, err
			}
			members = append(members, pm)
		}
		return &Union{Members: members}, nil
	}

	return nil, fmt.Errorf("%w: %T", ErrInvalidExpr, expr)
}

// Uses reports whether the expression contains a node for which match returns true.
func Uses(expr Expr, match func(Expr) bool) bool {
	if match(expr) {
		return true
	}
	switch e := expr.(type) {
	case *Optional:
		return Uses(e.Of, match)
	case *List:
		return Uses(e.Of, match)
	case *Union:
		return slices.ContainsFunc(e.Members, func(m Expr) bool { return Uses(m, match) })
	}

	return false
}
