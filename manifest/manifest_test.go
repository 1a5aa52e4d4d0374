package manifest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/ashokvundavalli/AderantDevops-sub005/errors"
)

const (
	apiID  = "0f8fad5b-d9cb-469f-a165-70867728950e"
	dataID = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func workspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "Core/Core.Api/api.project.yaml", `
identity: `+apiID+`
assembly: Core.Api
sources: [Generated/Entities.tt]
project_references:
  - identity: `+dataID+`
    path: ../Core.Data/Core.Data.csproj
assembly_references: [Newtonsoft.Json]
`)
	writeFile(t, root, "Core/Core.Data/data.project.yaml", `
identity: `+dataID+`
assembly: Core.Data
path: Core/Core.Data/Core.Data.csproj
root: Core
include_in_build: false
`)
	writeFile(t, root, "Core/Core.Data/notes.yaml", "not: a project\n")
	writeFile(t, root, ".git/ignored.project.yaml", "garbage: [")
	writeFile(t, root, "modules.yaml", `
modules:
  - name: Core
    root: Core
    depends_on: [Build.T4Task]
    contains: [Core.Web]
  - name: Build.T4Task
`)
	writeFile(t, root, "Core/templates.yaml", `
templates:
  - template: Generated/Entities.tt
    assemblies: [Core.Data]
`)
	return root
}

func TestSourceProjectFiles(t *testing.T) {
	src := NewSource(Config{Root: workspace(t), Parallelism: 2}, nil)

	decls, err := src.ProjectFiles(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(decls) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(decls))
	}

	api, data := decls[0], decls[1]
	if api.AssemblyName != "Core.Api" || data.AssemblyName != "Core.Data" {
		t.Fatalf("expected lexical path order, got %s, %s", api.AssemblyName, data.AssemblyName)
	}
	if api.Identity.String() != apiID {
		t.Errorf("unexpected identity %s", api.Identity)
	}
	if api.Path != "Core/Core.Api/api.project.yaml" || api.SolutionRoot != "Core" {
		t.Errorf("expected defaulted path and root, got %q %q", api.Path, api.SolutionRoot)
	}
	if len(api.ProjectReferences) != 1 || api.ProjectReferences[0].Name() != "Core.Data" {
		t.Errorf("unexpected project references %+v", api.ProjectReferences)
	}
	if fmt.Sprint(api.AssemblyReferences) != "[Newtonsoft.Json]" || fmt.Sprint(api.SourceFiles) != "[Generated/Entities.tt]" {
		t.Errorf("unexpected references %v %v", api.AssemblyReferences, api.SourceFiles)
	}
	if !api.Included() || data.Included() {
		t.Error("include_in_build not honored")
	}
	if data.Path != "Core/Core.Data/Core.Data.csproj" {
		t.Errorf("explicit path must be kept, got %q", data.Path)
	}
}

func TestSourceModulesAndTemplates(t *testing.T) {
	src := NewSource(Config{Root: workspace(t)}, nil)
	ctx := context.Background()

	modules, err := src.ModuleManifests(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(modules) != 2 || modules[0].Name != "Core" || modules[0].SolutionRoot != "Core" {
		t.Fatalf("unexpected modules %+v", modules)
	}
	if fmt.Sprint(modules[0].Contains) != "[Core.Web]" {
		t.Errorf("unexpected aliases %v", modules[0].Contains)
	}

	templates, err := src.TemplateReferences(ctx, "Core")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(templates) != 1 || templates[0].TemplateFile != "Generated/Entities.tt" {
		t.Fatalf("unexpected templates %+v", templates)
	}

	none, err := src.TemplateReferences(ctx, "Other")
	if err != nil || none != nil {
		t.Errorf("missing template file must yield nothing, got %v, %v", none, err)
	}
}

func TestSourceMissingModuleFile(t *testing.T) {
	src := NewSource(Config{Root: t.TempDir()}, nil)
	modules, err := src.ModuleManifests(context.Background())
	if err != nil || modules != nil {
		t.Errorf("expected no modules, got %v, %v", modules, err)
	}
	decls, err := src.ProjectFiles(context.Background())
	if err != nil || len(decls) != 0 {
		t.Errorf("expected no projects, got %v, %v", decls, err)
	}
}

func TestSourceInvalidFiles(t *testing.T) {
	tests := []struct {
		name    string
		rel     string
		content string
	}{
		{"malformed yaml", "A/a.project.yaml", "identity: [\n"},
		{"unknown field", "A/a.project.yaml", "assembly: A\ncolour: blue\n"},
		{"bad identity", "A/a.project.yaml", "identity: not-a-guid\nassembly: A\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			root := t.TempDir()
			writeFile(t, root, tc.rel, tc.content)

			_, err := NewSource(Config{Root: root}, nil).ProjectFiles(context.Background())
			appErr, ok := apperrors.AsAppError(err)
			if !ok {
				t.Fatalf("expected AppError, got %v", err)
			}
			if appErr.Code != apperrors.ErrCodeInvalidDeclaration || appErr.Details["path"] != tc.rel {
				t.Errorf("unexpected error %+v", appErr)
			}
		})
	}
}

func TestSourceCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewSource(Config{Root: workspace(t)}, nil).ProjectFiles(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestChangeList(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "changes.txt", "# changed since last build\nCore.Api\n\n  core.api  \nCore.Data\n")
	p := filepath.Join(root, "changes.txt")

	tests := []struct {
		name string
		list ChangeList
		want string
	}{
		{"file", ChangeList{Path: p}, "[Core.Api Core.Data]"},
		{"static", ChangeList{Names: []string{"A", "a", "", "B"}}, "[A B]"},
		{"both", ChangeList{Path: p, Names: []string{"Web"}}, "[Core.Api Core.Data Web]"},
		{"empty", ChangeList{}, "[]"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.list.ChangedUnitNames(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if fmt.Sprint(got) != tc.want {
				t.Errorf("expected %s, got %v", tc.want, got)
			}
		})
	}
}

func TestChangeListMissingFile(t *testing.T) {
	_, err := ChangeList{Path: filepath.Join(t.TempDir(), "nope.txt")}.ChangedUnitNames(context.Background())
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestConfigDefaultsAndValidate(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Root != "." || cfg.ProjectGlob != "*.project.yaml" || cfg.Parallelism != 8 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}

	cfg.ProjectGlob = "[unterminated"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "manifest.project_glob") {
		t.Errorf("expected glob error, got %v", err)
	}
}
