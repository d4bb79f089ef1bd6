package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func Test_IntegrationTest(t *testing.T) {
	type want struct {
		constants   []string
		errContains string
	}
	tests := []struct {
		name    string
		testDir string
		want    want
	}{
		{
			name:    "basic test",
			testDir: "testdata/integration/basic/",
			want: want{
				constants: []string{"LIST_ARTICLES_GQL", "PUBLISH_GQL", "GET_USER_GQL"},
			},
		},
		{
			name:    "失敗したオペレーション以外は生成する",
			testDir: "testdata/integration/partial/",
			want: want{
				constants:   []string{"SERVER_VERSION_GQL"},
				errContains: "failed to generate code: operation OnTick:",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outputDir := t.TempDir()
			t.Setenv("GQLGENPY_OUTPUT_DIR", outputDir)
			t.Chdir(tt.testDir)

			err := run(context.Background(), "", false)
			if tt.want.errContains != "" {
				if err == nil || !strings.Contains(err.Error(), tt.want.errContains) {
					t.Fatalf("run() error = %v, want containing %q", err, tt.want.errContains)
				}
			} else if err != nil {
				t.Fatalf("run() error = %v", err)
			}

			wantFiles, err := filepath.Glob("want/*.py")
			if err != nil {
				t.Fatal(err)
			}
			for _, wantFile := range wantFiles {
				want, err := os.ReadFile(wantFile)
				if err != nil {
					t.Fatal(err)
				}
				got, err := os.ReadFile(filepath.Join(outputDir, filepath.Base(wantFile)))
				if err != nil {
					t.Fatalf("generated file: %v", err)
				}
				if diff := cmp.Diff(string(want), string(got)); diff != "" {
					t.Errorf("%s diff(-want +got): %s", filepath.Base(wantFile), diff)
				}
			}

			generated, err := filepath.Glob(filepath.Join(outputDir, "*.py"))
			if err != nil {
				t.Fatal(err)
			}
			if len(generated) != len(wantFiles)+1 {
				t.Errorf("generated %d files, want %d", len(generated), len(wantFiles)+1)
			}

			operations, err := os.ReadFile(filepath.Join(outputDir, "operations.py"))
			if err != nil {
				t.Fatal(err)
			}
			last := -1
			for _, constant := range tt.want.constants {
				i := strings.Index(string(operations), constant+` = """`)
				if i < 0 || i < last {
					t.Errorf("operations.py: %s missing or out of order:\n%s", constant, operations)
				}
				last = i
			}
		})
	}
}

func Test_run_ConfigNotFound(t *testing.T) {
	t.Chdir(t.TempDir())

	err := run(context.Background(), "", false)
	if err == nil || !strings.Contains(err.Error(), "failed to find config file") {
		t.Errorf("run() error = %v, want config not found", err)
	}
}
