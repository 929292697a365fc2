package sheet

import (
	"context"
	"fmt"
	"sort"
)

// memCell is one cell's full state.
type memCell struct {
	value string
	url   string
	rich  bool
	note  string
}

func (c *memCell) empty() bool {
	return c.value == "" && c.url == "" && !c.rich && c.note == ""
}

// Memory is an in-memory Grid for tests. It preserves the rich-text
// tri-state (plain, rich with link, rich with the link removed) the way a
// real spreadsheet backend does.
type Memory struct {
	cells  map[[2]int]*memCell
	hidden map[int]bool
}

// NewMemory returns an empty in-memory grid.
func NewMemory() *Memory {
	return &Memory{
		cells:  make(map[[2]int]*memCell),
		hidden: make(map[int]bool),
	}
}

// NewMemoryFrom returns a grid pre-populated with rows of plain text,
// anchored at row 1, column 1.
func NewMemoryFrom(rows [][]string) *Memory {
	m := NewMemory()
	for i, row := range rows {
		for j, v := range row {
			if v != "" {
				m.at(i+1, j+1).value = v
			}
		}
	}
	return m
}

func (m *Memory) at(row, col int) *memCell {
	key := [2]int{row, col}
	c, ok := m.cells[key]
	if !ok {
		c = &memCell{}
		m.cells[key] = c
	}
	return c
}

// lookup returns the cell if it has ever been written, else nil.
func (m *Memory) lookup(row, col int) *memCell {
	return m.cells[[2]int{row, col}]
}

func (m *Memory) Dims(context.Context) (int, int, error) {
	var rows, cols int
	for key, c := range m.cells {
		if c.empty() {
			continue
		}
		if key[0] > rows {
			rows = key[0]
		}
		if key[1] > cols {
			cols = key[1]
		}
	}
	return rows, cols, nil
}

func (m *Memory) Cell(_ context.Context, row, col int) (string, error) {
	if c := m.lookup(row, col); c != nil {
		return c.value, nil
	}
	return "", nil
}

func (m *Memory) SetCell(_ context.Context, row, col int, value string) error {
	c := m.at(row, col)
	c.value = value
	c.url = ""
	c.rich = false
	return nil
}

func (m *Memory) RichText(_ context.Context, row, col int) (RichText, bool, error) {
	c := m.lookup(row, col)
	if c == nil || !c.rich {
		return RichText{}, false, nil
	}
	return RichText{Text: c.value, URL: c.url}, true, nil
}

func (m *Memory) SetRichText(_ context.Context, row, col int, rt RichText) error {
	c := m.at(row, col)
	c.value = rt.Text
	c.url = rt.URL
	c.rich = true
	return nil
}

func (m *Memory) CellNote(_ context.Context, row, col int) (string, error) {
	if c := m.lookup(row, col); c != nil {
		return c.note, nil
	}
	return "", nil
}

func (m *Memory) SetCellNote(_ context.Context, row, col int, note string) error {
	m.at(row, col).note = note
	return nil
}

func (m *Memory) Range(_ context.Context, r Rect) ([][]string, error) {
	out := make([][]string, r.Rows)
	for i := range out {
		out[i] = make([]string, r.Cols)
		for j := range out[i] {
			if c := m.lookup(r.Row+i, r.Col+j); c != nil {
				out[i][j] = c.value
			}
		}
	}
	return out, nil
}

func (m *Memory) SetRange(ctx context.Context, r Rect, values [][]string) error {
	for i := 0; i < r.Rows && i < len(values); i++ {
		for j := 0; j < r.Cols && j < len(values[i]); j++ {
			if err := m.SetCell(ctx, r.Row+i, r.Col+j, values[i][j]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *Memory) AppendRow(ctx context.Context, values []string) (int, error) {
	rows, _, err := m.Dims(ctx)
	if err != nil {
		return 0, err
	}
	row := rows + 1
	for j, v := range values {
		if err := m.SetCell(ctx, row, j+1, v); err != nil {
			return 0, err
		}
	}
	return row, nil
}

func (m *Memory) DeleteRow(_ context.Context, row int) error {
	next := make(map[[2]int]*memCell, len(m.cells))
	for key, c := range m.cells {
		switch {
		case key[0] == row:
			// dropped
		case key[0] > row:
			next[[2]int{key[0] - 1, key[1]}] = c
		default:
			next[key] = c
		}
	}
	m.cells = next
	return nil
}

func (m *Memory) HideColumn(_ context.Context, col int) error {
	m.hidden[col] = true
	return nil
}

// HiddenColumns lists the hidden column indices, sorted, for assertions.
func (m *Memory) HiddenColumns() []int {
	out := make([]int, 0, len(m.hidden))
	for col := range m.hidden {
		out = append(out, col)
	}
	sort.Ints(out)
	return out
}

// MemoryBook is an in-memory Book.
type MemoryBook struct {
	sheets map[string]*Memory
	order  []string
}

// NewMemoryBook returns an empty in-memory book.
func NewMemoryBook() *MemoryBook {
	return &MemoryBook{sheets: make(map[string]*Memory)}
}

// AddSheet inserts a pre-populated sheet and returns its grid, for test
// setup.
func (b *MemoryBook) AddSheet(name string, rows [][]string) *Memory {
	g := NewMemoryFrom(rows)
	b.sheets[name] = g
	b.order = append(b.order, name)
	return g
}

func (b *MemoryBook) Sheet(_ context.Context, name string) (Grid, error) {
	g, ok := b.sheets[name]
	if !ok {
		return nil, fmt.Errorf("no sheet named %q", name)
	}
	return g, nil
}

func (b *MemoryBook) InsertSheet(_ context.Context, name string) (Grid, error) {
	if _, ok := b.sheets[name]; ok {
		return nil, fmt.Errorf("sheet %q already exists", name)
	}
	g := NewMemory()
	b.sheets[name] = g
	b.order = append(b.order, name)
	return g, nil
}

func (b *MemoryBook) Sheets(context.Context) ([]string, error) {
	out := make([]string, len(b.order))
	copy(out, b.order)
	return out, nil
}
