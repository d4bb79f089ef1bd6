// Package querygen はオペレーションごとのレスポンス型を Python モジュールとして書き出す。
//
// 1つのオペレーションにつき1ファイルを生成する。ファイルには以下が含まれる:
//   - typing / pydantic / 基底クラス / 使用した enum の import
//   - ルートクラスとネストした選択セットごとの依存クラス
//   - 全クラスの宣言後に並ぶ model_rebuild() 呼び出し
package querygen

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iancoleman/strcase"

	"github.com/gqlgo/gqlgenpy/codegen"
)

// Plugin writes the response type module of each operation into dir.
type Plugin struct {
	dir       string
	formatter *CodeFormatter
}

// New は新しい querygen プラグインインスタンスを作成する。
func New(dir string) *Plugin {
	return &Plugin{
		dir:       dir,
		formatter: NewCodeFormatter(),
	}
}

// Name はプラグイン名を返す。
func (p *Plugin) Name() string {
	return "querygen"
}

// Filename はオペレーション名に対応する出力ファイルのパスを返す。
func (p *Plugin) Filename(operationName string) string {
	return filepath.Join(p.dir, ModuleName(operationName)+".py")
}

// Render returns the Python source for one generated operation.
func (p *Plugin) Render(g *codegen.QueryTypesGenerator) string {
	return p.formatter.FormatModule(g.Generate())
}

// Write renders the operation's module and writes it, returning the file path.
func (p *Plugin) Write(g *codegen.QueryTypesGenerator) (string, error) {
	filename := p.Filename(g.QueryName())
	if err := os.WriteFile(filename, []byte(p.Render(g)), 0o644); err != nil {
		return "", fmt.Errorf("%s: write %s: %w", p.Name(), filename, err)
	}

	return filename, nil
}

// ModuleName returns the Python module name used for an operation.
func ModuleName(operationName string) string {
	return strcase.ToSnake(operationName)
}
