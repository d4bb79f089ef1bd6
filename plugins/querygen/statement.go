package querygen

import (
	"fmt"
	"strings"
)

// Statement は Python のトップレベル文またはクラス本体の文を表す。
//
// String メソッドは指定されたインデントレベルで文字列表現を返す。
type Statement interface {
	String(indent int) string
}

const indentUnit = "    "

// ImportFrom は from-import 文を表す。
//
// 例: from typing import List, Optional, Union
type ImportFrom struct {
	Module string   // モジュール名（相対 import は "." で始まる）
	Names  []string // import する名前
}

// String は import 文の文字列表現を返す。
func (i *ImportFrom) String(indent int) string {
	return fmt.Sprintf("%sfrom %s import %s", strings.Repeat(indentUnit, indent), i.Module, strings.Join(i.Names, ", "))
}

// ClassDef はクラス定義を表す。
//
// 例:
//
//	class GetUser(BaseModel):
//	    user: Optional["GetUserUser"]
type ClassDef struct {
	Name  string      // クラス名
	Bases []string    // 基底クラス
	Body  []Statement // クラス本体（空の場合は pass）
}

// String はクラス定義の文字列表現を返す。
func (c *ClassDef) String(indent int) string {
	tabs := strings.Repeat(indentUnit, indent)

	lines := []string{fmt.Sprintf("%sclass %s(%s):", tabs, c.Name, strings.Join(c.Bases, ", "))}
	if len(c.Body) == 0 {
		lines = append(lines, tabs+indentUnit+"pass")
	}
	for _, stmt := range c.Body {
		lines = append(lines, stmt.String(indent+1))
	}

	return strings.Join(lines, "\n")
}

// AnnAssign は型アノテーション付きの代入を表す。
//
// 例: first_name: Optional[str] = Field(alias="firstName")
type AnnAssign struct {
	Target     string // 代入先
	Annotation string // 型アノテーション
	Value      string // 代入する値（空の場合は省略）
}

// String はアノテーション付き代入の文字列表現を返す。
func (a *AnnAssign) String(indent int) string {
	tabs := strings.Repeat(indentUnit, indent)
	if a.Value == "" {
		return fmt.Sprintf("%s%s: %s", tabs, a.Target, a.Annotation)
	}
	return fmt.Sprintf("%s%s: %s = %s", tabs, a.Target, a.Annotation, a.Value)
}

// MethodCall は式文としてのメソッド呼び出しを表す。
//
// 例: GetUser.model_rebuild()
type MethodCall struct {
	Receiver string
	Method   string
}

func (m *MethodCall) String(indent int) string {
	return fmt.Sprintf("%s%s.%s()", strings.Repeat(indentUnit, indent), m.Receiver, m.Method)
}

// Assign は単純な代入を表す。
type Assign struct {
	Target string
	Value  string
}

func (a *Assign) String(indent int) string {
	return fmt.Sprintf("%s%s = %s", strings.Repeat(indentUnit, indent), a.Target, a.Value)
}
