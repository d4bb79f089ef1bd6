package plugins

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gqlgo/gqlgenpy/codegen"
	"github.com/gqlgo/gqlgenpy/codegen/schematypes"
	"github.com/gqlgo/gqlgenpy/config"
	"github.com/gqlgo/gqlgenpy/plugins/enumgen"
	"github.com/gqlgo/gqlgenpy/plugins/inputgen"
	"github.com/gqlgo/gqlgenpy/plugins/operationgen"
	"github.com/gqlgo/gqlgenpy/plugins/querygen"
	"github.com/gqlgo/gqlgenpy/queryparser"
)

// GenerateCode はスキーマとクエリを読み込み済みの cfg から Python パッケージを書き出す。
//
// オペレーションごとの生成は独立しており、失敗したオペレーションはログに記録して
// 残りの生成を続ける。失敗があった場合は全ての失敗をまとめたエラーを返す。
func GenerateCode(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	registry := schematypes.New(cfg.Schema)
	fragments := queryparser.FragmentMap(cfg.QueryDocument)
	queryGen := querygen.New(cfg.Output.Dir)

	operations := cfg.QueryDocument.Operations
	documents := make([]*operationgen.Operation, len(operations))
	failures := make([]error, len(operations))

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	claimed, err := moduleOwners(cfg.Output)
	if err != nil {
		return err
	}
	for i, operation := range operations {
		if operation.Name == "" {
			continue
		}
		module := querygen.ModuleName(operation.Name)
		if owner, ok := claimed[module]; ok {
			failures[i] = fmt.Errorf("operation %s: %w: module %s.py is already written by %s", operation.Name, codegen.ErrConfiguration, module, owner)
			logger.Error("failed to generate operation", zap.String("operation", operation.Name), zap.Error(failures[i]))
			continue
		}
		claimed[module] = "operation " + operation.Name
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, operation := range operations {
		if failures[i] != nil {
			continue
		}
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			generator, err := codegen.New(cfg.Schema, registry, operation, cfg.Output.EnumsModule,
				codegen.WithFragments(fragments),
				codegen.WithBaseModel(cfg.BaseModel.Module, cfg.BaseModel.Name),
			)
			if err != nil {
				logger.Error("failed to generate operation", zap.String("operation", operation.Name), zap.Error(err))
				failures[i] = err
				return nil
			}

			filename, err := queryGen.Write(generator)
			if err != nil {
				return err
			}
			logger.Debug("generated", zap.String("plugin", queryGen.Name()), zap.String("file", filename))

			documents[i] = &operationgen.Operation{Name: generator.QueryName(), Document: generator.OperationString()}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return fmt.Errorf("%s failed: %w", queryGen.Name(), err)
	}

	enumGen := enumgen.New(cfg.Output.Dir, cfg.Output.EnumsModule)
	filename, err := enumGen.Write(registry)
	if err != nil {
		return fmt.Errorf("%s failed: %w", enumGen.Name(), err)
	}
	logger.Debug("generated", zap.String("plugin", enumGen.Name()), zap.String("file", filename))

	inputGen := inputgen.New(cfg.Output.Dir, cfg.Output.InputsModule, cfg.Output.EnumsModule, cfg.BaseModel.Module, cfg.BaseModel.Name)
	filename, err = inputGen.Write(registry)
	if err != nil {
		return fmt.Errorf("%s failed: %w", inputGen.Name(), err)
	}
	logger.Debug("generated", zap.String("plugin", inputGen.Name()), zap.String("file", filename))

	generated := make([]operationgen.Operation, 0, len(documents))
	for _, doc := range documents {
		if doc != nil {
			generated = append(generated, *doc)
		}
	}
	operationGen := operationgen.New(cfg.Output.Dir, cfg.Output.OperationsModule)
	filename, err = operationGen.Write(generated)
	if err != nil {
		return fmt.Errorf("%s failed: %w", operationGen.Name(), err)
	}
	logger.Debug("generated", zap.String("plugin", operationGen.Name()), zap.String("file", filename))

	logger.Info("generation finished",
		zap.Int("operations", len(operations)),
		zap.Int("generated", len(generated)),
		zap.Int("failed", len(operations)-len(generated)),
	)

	return errors.Join(failures...)
}

// moduleOwners は共通モジュールの名前から書き出すプラグインへの対応を返す。
// 共通モジュール同士の名前が重なる場合はエラー。
func moduleOwners(output config.OutputConfig) (map[string]string, error) {
	owners := make(map[string]string, 3)
	for _, m := range []struct{ name, owner string }{
		{output.EnumsModule, "the enums module"},
		{output.InputsModule, "the input types module"},
		{output.OperationsModule, "the operations module"},
	} {
		if owner, ok := owners[m.name]; ok {
			return nil, fmt.Errorf("%w: %s and %s are both named %s", codegen.ErrConfiguration, owner, m.owner, m.name)
		}
		owners[m.name] = m.owner
	}

	return owners, nil
}
