package domain

import (
	"fmt"
	"strconv"
)

// CellKind discriminates the value held by a report Cell.
type CellKind int

// Cell kinds. CellNA is the explicit sentinel for a statistic that is
// undefined for the session (for example an SSRT rank that cannot be
// computed); it is distinct from a zero value.
const (
	CellString CellKind = iota
	CellInt
	CellFloat
	CellNA
)

// Cell is one typed value in a report table. The zero Cell is an empty
// string cell.
type Cell struct {
	kind CellKind
	s    string
	i    int64
	f    float64
}

// String creates a string cell.
func String(s string) Cell { return Cell{kind: CellString, s: s} }

// Int creates an integer cell.
func Int(i int) Cell { return Cell{kind: CellInt, i: int64(i)} }

// Float creates a float cell.
func Float(f float64) Cell { return Cell{kind: CellFloat, f: f} }

// NA creates the "not available" sentinel cell.
func NA() Cell { return Cell{kind: CellNA} }

// Kind returns the cell's kind.
func (c Cell) Kind() CellKind { return c.kind }

// IsNA reports whether the cell is the N/A sentinel.
func (c Cell) IsNA() bool { return c.kind == CellNA }

// IntValue returns the integer value; zero for non-integer cells.
func (c Cell) IntValue() int { return int(c.i) }

// FloatValue returns the float value; zero for non-float cells.
func (c Cell) FloatValue() float64 { return c.f }

// Render returns the cell formatted for tabular output. The report
// writer may format typed values differently; Render is the canonical
// textual form used in logs and tests.
func (c Cell) Render() string {
	switch c.kind {
	case CellString:
		return c.s
	case CellInt:
		return strconv.FormatInt(c.i, 10)
	case CellFloat:
		return strconv.FormatFloat(c.f, 'g', -1, 64)
	default:
		return "N/A"
	}
}

// Row is one ordered row of cells within a section.
type Row []Cell

// Section is a named table contributed to the report by exactly one
// evaluator. Row order is evaluator-defined and stable for identical
// input.
type Section struct {
	Name    string
	Columns []string
	Rows    []Row
}

// NewSection creates an empty section with the given name and columns.
func NewSection(name string, columns ...string) Section {
	return Section{Name: name, Columns: columns}
}

// AddRow appends a row to the section.
func (s *Section) AddRow(cells ...Cell) {
	s.Rows = append(s.Rows, Row(cells))
}

// Report is an insertion-ordered collection of sections keyed by name.
// Section names never collide across evaluators; Add enforces this.
type Report struct {
	sections []Section
	index    map[string]int
}

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{index: make(map[string]int)}
}

// Add appends a section to the report, preserving insertion order.
// It returns an error if a section with the same name already exists,
// which indicates two evaluators claiming the same section.
func (r *Report) Add(sec Section) error {
	if _, exists := r.index[sec.Name]; exists {
		return fmt.Errorf("report: %w: %q", ErrSectionCollision, sec.Name)
	}
	r.index[sec.Name] = len(r.sections)
	r.sections = append(r.sections, sec)
	return nil
}

// Section returns the named section and whether it exists.
func (r *Report) Section(name string) (Section, bool) {
	i, ok := r.index[name]
	if !ok {
		return Section{}, false
	}
	return r.sections[i], true
}

// Sections returns the sections in insertion order. The returned slice
// must not be modified.
func (r *Report) Sections() []Section { return r.sections }

// Len returns the number of sections.
func (r *Report) Len() int { return len(r.sections) }
