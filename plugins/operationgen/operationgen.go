// Package operationgen writes the request documents of all generated
// operations as string constants, for the client runtime to send as-is.
package operationgen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/gqlgo/gqlgenpy/plugins/querygen"
)

// Operation is one operation name with its rendered document.
type Operation struct {
	Name     string
	Document string
}

type Plugin struct {
	dir    string
	module string
}

func New(dir, module string) *Plugin {
	return &Plugin{dir: dir, module: module}
}

func (p *Plugin) Name() string {
	return "operationgen"
}

func (p *Plugin) Filename() string {
	return filepath.Join(p.dir, p.module+".py")
}

// ConstantName returns GET_USER_GQL for GetUser.
func ConstantName(operationName string) string {
	return strcase.ToScreamingSnake(operationName) + "_GQL"
}

func (p *Plugin) Render(operations []Operation) string {
	statements := make([]string, 0, len(operations))
	for _, op := range operations {
		statements = append(statements, (&querygen.Assign{
			Target: ConstantName(op.Name),
			Value:  tripleQuote(op.Document),
		}).String(0))
	}

	return querygen.Header + "\n\n" + strings.Join(statements, "\n\n") + "\n"
}

// tripleQuote は Python の三重引用符文字列リテラルを返す。
func tripleQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"""`, `\"\"\"`)

	return `"""` + "\n" + s + "\n" + `"""`
}

func (p *Plugin) Write(operations []Operation) (string, error) {
	filename := p.Filename()
	if err := os.WriteFile(filename, []byte(p.Render(operations)), 0o644); err != nil {
		return "", fmt.Errorf("%s: write %s: %w", p.Name(), filename, err)
	}

	return filename, nil
}
