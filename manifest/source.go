package manifest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"

	apperrors "github.com/ashokvundavalli/AderantDevops-sub005/errors"
	"github.com/ashokvundavalli/AderantDevops-sub005/logger"
	"github.com/ashokvundavalli/AderantDevops-sub005/resolver"
)

// Source reads declarations from YAML files below a workspace root.
//
// Every file matching ProjectGlob holds one project declaration. A missing
// path defaults to the file's location, a missing solution root to the
// top-level directory containing the file. The module manifest and the
// per-root template files are optional.
type Source struct {
	cfg Config
	log *logger.Logger
}

// NewSource creates a Source. A nil logger discards output.
func NewSource(cfg Config, log *logger.Logger) *Source {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.Nop()
	}
	return &Source{cfg: cfg, log: log.WithComponent(logger.ComponentManifest)}
}

type moduleFile struct {
	Modules []resolver.ModuleDeclaration `yaml:"modules"`
}

type templateFile struct {
	Templates []resolver.TemplateReference `yaml:"templates"`
}

// ProjectFiles scans Root for project files and parses them concurrently.
// Results keep the lexical order of the file paths.
func (s *Source) ProjectFiles(ctx context.Context) ([]resolver.ProjectDeclaration, error) {
	paths, err := s.scan(ctx)
	if err != nil {
		return nil, err
	}

	decls := make([]resolver.ProjectDeclaration, len(paths))
	errs := make([]error, len(paths))

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.concurrency(len(paths)))
	for i, rel := range paths {
		wg.Add(1)
		go func(i int, rel string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			errs[i] = s.readProject(rel, &decls[i])
		}(i, rel)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	s.log.Debug("project files loaded", logger.Fields(logger.FieldCount, len(decls)))
	return decls, nil
}

// ModuleManifests reads the module manifest. A missing file yields no modules.
func (s *Source) ModuleManifests(ctx context.Context) ([]resolver.ModuleDeclaration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var mf moduleFile
	found, err := s.decode(s.cfg.ModuleFile, &mf)
	if err != nil || !found {
		return nil, err
	}
	return mf.Modules, nil
}

// TemplateReferences reads the template file of solutionRoot, if any.
func (s *Source) TemplateReferences(ctx context.Context, solutionRoot string) ([]resolver.TemplateReference, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var tf templateFile
	found, err := s.decode(path.Join(filepath.ToSlash(solutionRoot), s.cfg.TemplateFile), &tf)
	if err != nil || !found {
		return nil, err
	}
	return tf.Templates, nil
}

// scan returns the slash-separated paths of project files relative to Root.
func (s *Source) scan(ctx context.Context) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(s.cfg.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if p != s.cfg.Root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		ok, err := matchName(s.cfg.ProjectGlob, d.Name())
		if err != nil || !ok {
			return err
		}
		rel, err := filepath.Rel(s.cfg.Root, p)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", s.cfg.Root, err)
	}
	sort.Strings(paths)
	return paths, nil
}

func (s *Source) readProject(rel string, out *resolver.ProjectDeclaration) error {
	found, err := s.decode(rel, out)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("project file %s disappeared during the scan", rel)
	}
	if out.Path == "" {
		out.Path = rel
	}
	if out.SolutionRoot == "" {
		out.SolutionRoot = topDir(rel)
	}
	return nil
}

// decode strictly parses the YAML file at rel into out. It reports false
// when the file does not exist.
func (s *Source) decode(rel string, out interface{}) (bool, error) {
	data, err := os.ReadFile(filepath.Join(s.cfg.Root, filepath.FromSlash(rel)))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return true, nil
		}
		return true, apperrors.InvalidDeclaration(rel, err.Error()).WithCause(err)
	}
	return true, nil
}

func (s *Source) concurrency(n int) int {
	if s.cfg.Parallelism <= 0 || s.cfg.Parallelism > n {
		if n == 0 {
			return 1
		}
		return n
	}
	return s.cfg.Parallelism
}

func matchName(pattern, name string) (bool, error) {
	return path.Match(pattern, name)
}

// topDir returns the first element of a slash path, or "." for a file
// directly below the root.
func topDir(rel string) string {
	if i := strings.IndexByte(rel, '/'); i > 0 {
		return rel[:i]
	}
	return "."
}
