package journal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/daybook-app/daybook/internal/gateway"
	"github.com/daybook-app/daybook/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeRows is an in-memory gateway.Rows with join expansion and per-table
// failure injection.
type fakeRows struct {
	mu     sync.Mutex
	nextID int64
	tables map[string][]gateway.Row

	failInsert map[string]error
	failUpdate map[string]error
	failDelete map[string]error
	failSelect map[string]error

	// failSelectCount makes the next N selects fail before recovering.
	failSelectCount int
	selectCalls     int
}

func newFakeRows() *fakeRows {
	return &fakeRows{
		tables:     map[string][]gateway.Row{},
		failInsert: map[string]error{},
		failUpdate: map[string]error{},
		failDelete: map[string]error{},
		failSelect: map[string]error{},
	}
}

func (f *fakeRows) seed(table string, fields map[string]any) gateway.Row {
	row, _ := f.Insert(context.Background(), table, fields)
	return row
}

func (f *fakeRows) count(table string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tables[table])
}

func (f *fakeRows) Insert(_ context.Context, table string, fields map[string]any) (gateway.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failInsert[table]; err != nil {
		return nil, err
	}

	f.nextID++
	row := gateway.Row{
		"id":         f.nextID,
		"created_at": "2024-05-01T10:00:00Z",
		"updated_at": "2024-05-01T10:00:00Z",
	}
	for k, v := range fields {
		row[k] = v
	}
	f.tables[table] = append(f.tables[table], row)
	return copyRow(row), nil
}

func (f *fakeRows) Select(_ context.Context, q gateway.SelectQuery) ([]gateway.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selectCalls++
	if f.failSelectCount > 0 {
		f.failSelectCount--
		return nil, fmt.Errorf("injected select failure")
	}
	if err := f.failSelect[q.Table]; err != nil {
		return nil, err
	}

	var out []gateway.Row
	for _, row := range f.tables[q.Table] {
		if q.Filter != nil && !valuesEqual(row[q.Filter.Column], q.Filter.Value) {
			continue
		}
		expanded := copyRow(row)
		for _, j := range q.Joins {
			expanded[j.Table] = f.expandJoin(j, row["id"])
		}
		out = append(out, expanded)
	}
	return out, nil
}

func (f *fakeRows) expandJoin(j gateway.Join, parentID any) any {
	var children []any
	for _, child := range f.tables[j.Table] {
		if !valuesEqual(child[j.On], parentID) {
			continue
		}
		c := copyRow(child)
		if len(j.Columns) > 0 {
			trimmed := gateway.Row{}
			for _, col := range j.Columns {
				trimmed[col] = c[col]
			}
			c = trimmed
		}
		children = append(children, c)
	}
	if j.Single {
		if len(children) == 0 {
			return nil
		}
		return children[0]
	}
	if children == nil {
		return []any{}
	}
	return children
}

func (f *fakeRows) Update(_ context.Context, table string, id int64, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failUpdate[table]; err != nil {
		return err
	}
	for _, row := range f.tables[table] {
		if valuesEqual(row["id"], id) {
			for k, v := range fields {
				row[k] = v
			}
			return nil
		}
	}
	return fmt.Errorf("update %s id %d: %w", table, id, gateway.ErrNoRow)
}

func (f *fakeRows) Delete(_ context.Context, table string, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failDelete[table]; err != nil {
		return err
	}
	rows := f.tables[table]
	for i, row := range rows {
		if valuesEqual(row["id"], id) {
			f.tables[table] = append(rows[:i], rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func copyRow(row gateway.Row) gateway.Row {
	out := gateway.Row{}
	for k, v := range row {
		out[k] = v
	}
	return out
}

func valuesEqual(a, b any) bool {
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

// fakeBlobs is an in-memory gateway.Blobs with failure injection.
type fakeBlobs struct {
	mu           sync.Mutex
	objects      map[string][]byte
	contentTypes map[string]string
	removed      []string

	// failSubstr makes uploads fail when the key contains it.
	failSubstr string
	failRemove error
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{objects: map[string][]byte{}, contentTypes: map[string]string{}}
}

func (f *fakeBlobs) Upload(_ context.Context, bucket, key string, data []byte, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSubstr != "" && strings.Contains(key, f.failSubstr) {
		return fmt.Errorf("injected upload failure")
	}
	f.objects[bucket+"/"+key] = data
	f.contentTypes[bucket+"/"+key] = contentType
	return nil
}

func (f *fakeBlobs) Remove(_ context.Context, bucket, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, bucket+"/"+key)
	if f.failRemove != nil {
		return f.failRemove
	}
	delete(f.objects, bucket+"/"+key)
	return nil
}

func (f *fakeBlobs) PublicURL(bucket, key string) string {
	return "http://blobs.local/" + bucket + "/" + key
}

func (f *fakeBlobs) stored() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

// fakeReloader counts reload triggers.
type fakeReloader struct {
	mu    sync.Mutex
	count int
}

func (f *fakeReloader) Reload(context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count++
}

func (f *fakeReloader) reloads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.count
}
