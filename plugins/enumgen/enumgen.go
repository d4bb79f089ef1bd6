package enumgen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/gqlgo/gqlgenpy/codegen/schematypes"
	"github.com/gqlgo/gqlgenpy/plugins/querygen"
)

// Plugin writes every schema enum into a single module that the operation
// modules import from.
type Plugin struct {
	dir    string
	module string
}

func New(dir, module string) *Plugin {
	return &Plugin{dir: dir, module: module}
}

func (p *Plugin) Name() string {
	return "enumgen"
}

func (p *Plugin) Filename() string {
	return filepath.Join(p.dir, p.module+".py")
}

// Render は全ての enum を str を継承した Enum クラスとして出力する。
func (p *Plugin) Render(registry *schematypes.Registry) string {
	statements := []string{(&querygen.ImportFrom{Module: "enum", Names: []string{"Enum"}}).String(0)}
	for _, enum := range registry.Enums() {
		statements = append(statements, enumClass(enum).String(0))
	}

	return querygen.Header + "\n\n" + strings.Join(statements, "\n\n\n") + "\n"
}

func enumClass(enum *ast.Definition) *querygen.ClassDef {
	body := make([]querygen.Statement, 0, len(enum.EnumValues))
	for _, value := range enum.EnumValues {
		body = append(body, &querygen.Assign{Target: value.Name, Value: fmt.Sprintf("%q", value.Name)})
	}

	return &querygen.ClassDef{Name: enum.Name, Bases: []string{"str", "Enum"}, Body: body}
}

func (p *Plugin) Write(registry *schematypes.Registry) (string, error) {
	filename := p.Filename()
	if err := os.WriteFile(filename, []byte(p.Render(registry)), 0o644); err != nil {
		return "", fmt.Errorf("%s: write %s: %w", p.Name(), filename, err)
	}

	return filename, nil
}
