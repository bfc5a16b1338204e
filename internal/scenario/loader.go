package scenario

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// LoadError reports a scenario file that could not be ingested: a filename
// outside the expected pattern, an unreadable file, or malformed content.
type LoadError struct {
	Path   string
	Reason string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("scenario: load %s: %s", e.Path, e.Reason)
}

// Filenames follow <prefix>_<year>_<policy>.<ext> with a four-digit year.
var filePattern = regexp.MustCompile(`^(.+)_(\d{4})_([A-Za-z]+)\.(txt|tab|xlsx)$`)

// Load reads every scenario file under dir whose name starts with prefix,
// returning a table per (year, policy). Files load concurrently, one task
// per file; any failure aborts the whole load.
func Load(ctx context.Context, dir, prefix string) (map[Key]*Table, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "scenario: read dir %s", dir)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), prefix+"_") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	if len(paths) == 0 {
		return nil, eris.Errorf("scenario: no %s_* files in %s", prefix, dir)
	}

	log := zap.L().With(zap.String("dir", dir))
	log.Info("loading scenario files", zap.Int("files", len(paths)))

	tables := make(map[Key]*Table, len(paths))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for _, path := range paths {
		path := path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			key, err := ParseKey(filepath.Base(path))
			if err != nil {
				return err
			}
			t, err := readTable(path)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			if _, dup := tables[key]; dup {
				return &LoadError{Path: path, Reason: fmt.Sprintf("duplicate scenario %s", key)}
			}
			tables[key] = t
			log.Info("loaded scenario file",
				zap.Int("year", key.Year),
				zap.String("policy", string(key.Policy)),
				zap.Int("rows", len(t.Rows)),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}

// ParseKey extracts the (year, policy) key from a scenario filename.
func ParseKey(name string) (Key, error) {
	m := filePattern.FindStringSubmatch(name)
	if m == nil {
		return Key{}, &LoadError{Path: name, Reason: "filename does not match <prefix>_<year>_<policy>.<ext>"}
	}
	year, err := strconv.Atoi(m[2])
	if err != nil {
		return Key{}, &LoadError{Path: name, Reason: "unparseable year"}
	}
	return Key{Year: year, Policy: Policy(strings.ToUpper(m[3]))}, nil
}

func readTable(path string) (*Table, error) {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return readXLSX(path)
	}
	return readTab(path)
}

// readTab parses a tab-delimited scenario file.
func readTab(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Reason: err.Error()}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, &LoadError{Path: path, Reason: "empty or unreadable header"}
	}

	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &LoadError{Path: path, Reason: err.Error()}
		}
		rows = append(rows, record)
	}
	return NewTable(path, header, rows), nil
}

// readXLSX parses the first sheet of a spreadsheet export of the simulator
// output. Row one is the header, as in the tab-delimited format.
func readXLSX(path string) (*Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Reason: err.Error()}
	}
	if len(f.Sheets) == 0 {
		return nil, &LoadError{Path: path, Reason: "workbook has no sheets"}
	}
	sheet := f.Sheets[0]

	var header []string
	var rows [][]string
	for i, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, c := range row.Cells {
			cells[j] = c.String()
		}
		if i == 0 {
			header = cells
			continue
		}
		rows = append(rows, cells)
	}
	if header == nil {
		return nil, &LoadError{Path: path, Reason: "sheet has no header row"}
	}
	return NewTable(path, header, rows), nil
}
