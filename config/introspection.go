package config

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"

	"github.com/gqlgo/gqlgenpy/client"
	"github.com/gqlgo/gqlgenpy/introspection"
)

// introspectionSchema はエンドポイントにイントロスペクションクエリを送り、
// 結果を SDL に書き戻してから prelude 付きでスキーマとして読み込む。
func introspectionSchema(ctx context.Context, httpClient *http.Client, endpoint string, header http.Header) (*ast.Schema, error) {
	gqlClient := client.NewClient(endpoint, client.WithHTTPClient(httpClient), client.WithHTTPHeader(header))

	var res introspection.Query
	if err := gqlClient.Post(ctx, "Query", introspection.Introspection, nil, &res); err != nil {
		return nil, fmt.Errorf("introspection query failed: %w", err)
	}

	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatSchemaDocument(introspection.SchemaFromIntrospection(res))

	schema, err := gqlparser.LoadSchema(&ast.Source{Name: endpoint, Input: buf.String()})
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	return schema, nil
}
