package model

import "fmt"

// Scalar is a single named value, literal or formula-derived. Derived
// scalars are written by a calculation pass.
type Scalar struct {
	Name    string
	Value   Value
	Formula string
	Favor   Direction

	// Resolved distinguishes "computed this pass" from "zero value".
	Resolved bool
}

// IsDerived reports whether the scalar is produced by a formula.
func (s *Scalar) IsDerived() bool { return s.Formula != "" }

// Clone returns a copy of the scalar.
func (s *Scalar) Clone() *Scalar {
	out := *s
	return &out
}

// Include is a non-owning alias reference to another model loaded for the
// same run. Formulas reach it as alias.table.column or alias.scalar.
type Include struct {
	Alias string
	Path  string
	Model *Model
}

// Scenario is a named set of scalar overrides applied before evaluation.
// It never mutates the base model it is declared in.
type Scenario struct {
	Name string
	Set  map[string]Value
}

// Model is one file unit: tables, scalars, an ordered include list and any
// scenario definitions. A model exclusively owns its tables and scalars and
// is discarded when its owning command completes.
type Model struct {
	Path      string
	Tables    []*Table
	Scalars   []*Scalar
	Includes  []*Include
	Scenarios []*Scenario

	tableIndex  map[string]*Table
	scalarIndex map[string]*Scalar
}

// New returns an empty model for the given source path.
func New(path string) *Model {
	return &Model{
		Path:        path,
		tableIndex:  make(map[string]*Table),
		scalarIndex: make(map[string]*Scalar),
	}
}

// AddTable registers a table, rejecting duplicates.
func (m *Model) AddTable(t *Table) error {
	if _, ok := m.tableIndex[t.Name]; ok {
		return fmt.Errorf("duplicate table %q", t.Name)
	}
	m.Tables = append(m.Tables, t)
	m.tableIndex[t.Name] = t
	return nil
}

// AddScalar registers a scalar, rejecting duplicates.
func (m *Model) AddScalar(s *Scalar) error {
	if _, ok := m.scalarIndex[s.Name]; ok {
		return fmt.Errorf("duplicate scalar %q", s.Name)
	}
	m.Scalars = append(m.Scalars, s)
	m.scalarIndex[s.Name] = s
	return nil
}

// Table returns the named table, or nil.
func (m *Model) Table(name string) *Table { return m.tableIndex[name] }

// Scalar returns the named scalar, or nil.
func (m *Model) Scalar(name string) *Scalar { return m.scalarIndex[name] }

// Include returns the include declared under the given alias, or nil.
func (m *Model) Include(alias string) *Include {
	for _, inc := range m.Includes {
		if inc.Alias == alias {
			return inc
		}
	}
	return nil
}

// Scenario returns the named scenario, or nil.
func (m *Model) Scenario(name string) *Scenario {
	for _, sc := range m.Scenarios {
		if sc.Name == name {
			return sc
		}
	}
	return nil
}

// Clone returns a deep copy of the model, recursively cloning included
// models so a solver trial can mutate its copy freely.
func (m *Model) Clone() *Model {
	out := New(m.Path)
	for _, t := range m.Tables {
		_ = out.AddTable(t.Clone())
	}
	for _, s := range m.Scalars {
		_ = out.AddScalar(s.Clone())
	}
	for _, inc := range m.Includes {
		out.Includes = append(out.Includes, &Include{
			Alias: inc.Alias,
			Path:  inc.Path,
			Model: inc.Model.Clone(),
		})
	}
	for _, sc := range m.Scenarios {
		set := make(map[string]Value, len(sc.Set))
		for k, v := range sc.Set {
			set[k] = v
		}
		out.Scenarios = append(out.Scenarios, &Scenario{Name: sc.Name, Set: set})
	}
	return out
}

// ApplyScenario overwrites scalar values with the named scenario's
// overrides. Callers that must preserve the base model clone it first.
func (m *Model) ApplyScenario(name string) error {
	sc := m.Scenario(name)
	if sc == nil {
		return &UnknownReferenceError{Ref: name, Detail: "scenario not defined"}
	}
	for scalarName, v := range sc.Set {
		s := m.Scalar(scalarName)
		if s == nil {
			return &UnknownReferenceError{Ref: scalarName,
				Detail: fmt.Sprintf("scenario %q overrides undeclared scalar", name)}
		}
		s.Value = v
		s.Formula = ""
		s.Resolved = true
	}
	return nil
}

// SetScalar overrides one scalar with a literal value, as the numerical
// solver does between trials.
func (m *Model) SetScalar(name string, v Value) error {
	s := m.Scalar(name)
	if s == nil {
		return &UnknownReferenceError{Ref: name, Detail: "scalar not defined"}
	}
	s.Value = v
	s.Formula = ""
	s.Resolved = true
	return nil
}
