package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	gqlgenconfig "github.com/99designs/gqlgen/codegen/config"
	"github.com/goccy/go-yaml"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/gqlgo/gqlgenpy/queryparser"
)

// Config represents the config file.
type Config struct {
	SchemaFilename gqlgenconfig.StringList `yaml:"schema,omitempty"`
	Endpoint       *EndPointConfig         `yaml:"endpoint,omitempty"`
	Query          gqlgenconfig.StringList `yaml:"query"`
	Output         OutputConfig            `yaml:"output"`
	BaseModel      BaseModelConfig         `yaml:"base_model,omitempty"`
	Workers        int                     `yaml:"workers,omitempty"`

	Schema        *ast.Schema        `yaml:"-"`
	QueryDocument *ast.QueryDocument `yaml:"-"`
}

// OutputConfig decides where the Python package is written.
type OutputConfig struct {
	Dir              string `yaml:"dir"`
	EnumsModule      string `yaml:"enums_module,omitempty"`
	InputsModule     string `yaml:"inputs_module,omitempty"`
	OperationsModule string `yaml:"operations_module,omitempty"`
}

// BaseModelConfig is the class every generated type derives from.
type BaseModelConfig struct {
	Module string `yaml:"module,omitempty"`
	Name   string `yaml:"name,omitempty"`
}

// EndPointConfig are the allowed options for the 'endpoint' config.
type EndPointConfig struct {
	Headers map[string]string `yaml:"headers,omitempty"`
	URL     string            `yaml:"url"`
	Client  *http.Client      `yaml:"-"`
}

// FindConfigFile returns the first of names that exists in dir.
func FindConfigFile(dir string, names []string) (string, error) {
	for _, name := range names {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("no config file found in %s (looked for %s)", dir, strings.Join(names, ", "))
}

// LoadConfig loads and parses the config gqlgenpy config.
func LoadConfig(configFilename string) (*Config, error) {
	configContent, err := os.ReadFile(configFilename)
	if err != nil {
		return nil, fmt.Errorf("unable to read config: %w", err)
	}

	var c Config

	yamlDecoder := yaml.NewDecoder(bytes.NewReader([]byte(os.ExpandEnv(string(configContent)))), yaml.DisallowUnknownField())
	if err := yamlDecoder.Decode(&c); err != nil {
		return nil, fmt.Errorf("unable to parse config: %w", err)
	}

	// validation
	if c.SchemaFilename != nil && c.Endpoint != nil {
		return nil, errors.New("'schema' and 'endpoint' both specified. Use schema to load from a local file, use endpoint to load from a remote server (using introspection)")
	}

	if c.SchemaFilename == nil && c.Endpoint == nil {
		return nil, errors.New("neither 'schema' nor 'endpoint' specified. Use schema to load from a local file, use endpoint to load from a remote server (using introspection)")
	}

	if len(c.Query) == 0 {
		return nil, errors.New("'query' must be specified")
	}

	if c.Output.Dir == "" {
		return nil, errors.New("'output.dir' must be specified")
	}

	c.setDefaults()

	if c.SchemaFilename != nil {
		schemaFilename, err := expandFilenames("schema", c.SchemaFilename)
		if err != nil {
			return nil, err
		}
		c.SchemaFilename = schemaFilename
	}

	query, err := expandFilenames("query", c.Query)
	if err != nil {
		return nil, err
	}
	c.Query = query

	return &c, nil
}

func (c *Config) setDefaults() {
	if c.Output.EnumsModule == "" {
		c.Output.EnumsModule = "enums"
	}
	if c.Output.InputsModule == "" {
		c.Output.InputsModule = "input_types"
	}
	if c.Output.OperationsModule == "" {
		c.Output.OperationsModule = "operations"
	}
	if c.BaseModel.Module == "" {
		c.BaseModel.Module = "pydantic"
	}
	if c.BaseModel.Name == "" {
		c.BaseModel.Name = "BaseModel"
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
}

var path2regex = strings.NewReplacer(
	`.`, `\.`,
	`*`, `.+`,
	`\`, `[\\/]`,
	`/`, `[\\/]`,
)

// expandFilenames は glob パターンを展開する。"**" を含むパターンは
// その前までのディレクトリ以下を再帰的に探索する。
func expandFilenames(kind string, patterns gqlgenconfig.StringList) (gqlgenconfig.StringList, error) {
	var files gqlgenconfig.StringList
	for _, pattern := range patterns {
		var matches []string
		if strings.Contains(pattern, "**") {
			pathParts := strings.SplitN(pattern, "**", 2)
			rest := strings.TrimPrefix(strings.TrimPrefix(pathParts[1], `\`), `/`)
			globRe := regexp.MustCompile(path2regex.Replace(rest) + `$`)

			if err := filepath.Walk(pathParts[0], func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if globRe.MatchString(strings.TrimPrefix(path, pathParts[0])) {
					matches = append(matches, path)
				}
				return nil
			}); err != nil {
				return nil, fmt.Errorf("failed to walk %s at root %s: %w", kind, pathParts[0], err)
			}
		} else {
			var err error
			matches, err = filepath.Glob(pattern)
			if err != nil {
				return nil, fmt.Errorf("failed to glob %s filename %s: %w", kind, pattern, err)
			}
		}

		for _, m := range matches {
			if !files.Has(m) {
				files = append(files, m)
			}
		}
	}

	return files, nil
}

func (c *Config) LoadSchema(ctx context.Context) error {
	switch {
	case c.SchemaFilename != nil:
		sources := make([]*ast.Source, 0, len(c.SchemaFilename))
		for _, filename := range c.SchemaFilename {
			content, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("unable to open schema: %w", err)
			}
			sources = append(sources, &ast.Source{Name: filename, Input: string(content)})
		}
		schema, err := gqlparser.LoadSchema(sources...)
		if err != nil {
			return fmt.Errorf("load local schema failed: %w", err)
		}
		c.Schema = schema
	case c.Endpoint != nil:
		httpClient := c.Endpoint.Client
		if httpClient == nil {
			httpClient = http.DefaultClient
		}
		header := make(http.Header, len(c.Endpoint.Headers))
		for k, v := range c.Endpoint.Headers {
			header.Set(k, v)
		}
		schema, err := introspectionSchema(ctx, httpClient, c.Endpoint.URL, header)
		if err != nil {
			return fmt.Errorf("introspect schema failed: %w", err)
		}
		c.Schema = schema
	default:
		return errors.New("neither 'schema' nor 'endpoint' specified. Use schema to load from a local file, use endpoint to load from a remote server (using introspection)")
	}

	return nil
}

func (c *Config) LoadQuery() error {
	querySources, err := queryparser.LoadQuerySources(c.Query)
	if err != nil {
		return fmt.Errorf("load query sources failed: %w", err)
	}

	queryDocument, err := queryparser.QueryDocument(c.Schema, querySources)
	if err != nil {
		return fmt.Errorf("load query document failed: %w", err)
	}
	c.QueryDocument = queryDocument

	return nil
}
