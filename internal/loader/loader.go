package loader

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/royalbit/mouvify-forge-sub002/internal/ctxlog"
	"github.com/royalbit/mouvify-forge-sub002/internal/formula"
	"github.com/royalbit/mouvify-forge-sub002/internal/model"
)

// FileReader supplies file contents to the loader. The engine performs no
// file-system access of its own; the CLI passes os.ReadFile, tests pass a
// map lookup.
type FileReader func(path string) ([]byte, error)

// Load parses the model document at path and, recursively, every include,
// resolving include paths relative to the including file. The returned
// model owns its tables and scalars; includes hold independently loaded
// models shared by path.
func Load(ctx context.Context, path string, read FileReader) (*model.Model, error) {
	l := &loads{read: read, loaded: make(map[string]*model.Model)}
	return l.load(ctx, filepath.Clean(path), nil)
}

type loads struct {
	read   FileReader
	loaded map[string]*model.Model
}

func (l *loads) load(ctx context.Context, path string, stack []string) (*model.Model, error) {
	for _, seen := range stack {
		if seen == path {
			return nil, &model.IncludeCycleError{Chain: append(append([]string{}, stack...), path)}
		}
	}
	if m, ok := l.loaded[path]; ok {
		return m, nil
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("loading model document", "path", path)

	src, err := l.read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file %s: %w", path, err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse model file %s: %s", path, diags.Error())
	}

	var doc documentSchema
	if diags := gohcl.DecodeBody(file.Body, nil, &doc); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode model file %s: %s", path, diags.Error())
	}

	m, err := buildModel(path, &doc)
	if err != nil {
		return nil, err
	}

	stack = append(stack, path)
	for _, inc := range doc.Includes {
		incPath := filepath.Clean(filepath.Join(filepath.Dir(path), inc.Path))
		sub, err := l.load(ctx, incPath, stack)
		if err != nil {
			return nil, err
		}
		m.Includes = append(m.Includes, &model.Include{Alias: inc.Alias, Path: incPath, Model: sub})
	}

	l.loaded[path] = m
	logger.Debug("model document loaded", "path", path,
		"tables", len(m.Tables), "scalars", len(m.Scalars), "includes", len(m.Includes))
	return m, nil
}

// buildModel converts the decoded schema into model types, validating
// formulas and column homogeneity once so evaluation can assume both.
func buildModel(path string, doc *documentSchema) (*model.Model, error) {
	m := model.New(path)

	for _, tb := range doc.Tables {
		t := model.NewTable(tb.Name)
		for _, cb := range tb.Columns {
			favor, err := model.ParseDirection(cb.Favor)
			if err != nil {
				return nil, fmt.Errorf("%s: table %q column %q: %w", path, tb.Name, cb.Name, err)
			}
			col := &model.Column{Name: cb.Name, Formula: cb.Formula, Favor: favor}
			if cb.Values != nil {
				col.Values, err = columnFromCty(cb.Name, *cb.Values)
				if err != nil {
					return nil, fmt.Errorf("%s: table %q: %w", path, tb.Name, err)
				}
			}
			if cb.Formula == "" && cb.Values == nil {
				return nil, fmt.Errorf("%s: table %q column %q has neither values nor formula",
					path, tb.Name, cb.Name)
			}
			if cb.Formula != "" {
				if _, err := formula.Parse(cb.Formula); err != nil {
					return nil, fmt.Errorf("%s: table %q column %q: %w", path, tb.Name, cb.Name, err)
				}
			}
			if err := t.AddColumn(col); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		}
		if _, err := t.RowCount(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if err := m.AddTable(t); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	for _, sb := range doc.Scalars {
		favor, err := model.ParseDirection(sb.Favor)
		if err != nil {
			return nil, fmt.Errorf("%s: scalar %q: %w", path, sb.Name, err)
		}
		s := &model.Scalar{Name: sb.Name, Formula: sb.Formula, Favor: favor}
		if sb.Value != nil {
			s.Value, err = valueFromCty(*sb.Value)
			if err != nil {
				return nil, fmt.Errorf("%s: scalar %q: %w", path, sb.Name, err)
			}
			if sb.Formula == "" {
				s.Resolved = true
			}
		}
		if sb.Formula == "" && sb.Value == nil {
			return nil, fmt.Errorf("%s: scalar %q has neither value nor formula", path, sb.Name)
		}
		if sb.Formula != "" {
			if _, err := formula.Parse(sb.Formula); err != nil {
				return nil, fmt.Errorf("%s: scalar %q: %w", path, sb.Name, err)
			}
		}
		if err := m.AddScalar(s); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	for _, scb := range doc.Scenarios {
		set, err := setFromCty(scb.Name, scb.Set)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		m.Scenarios = append(m.Scenarios, &model.Scenario{Name: scb.Name, Set: set})
	}

	return m, nil
}
