package numbench

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const reportExt = ".csv"

// FileName is where a report for family and library lives: simple_gonum.csv.
func FileName(family Family, library string) string {
	return string(family) + "_" + library + reportExt
}

// ParseFileName splits a report file name back into family and library.
func ParseFileName(name string) (Family, string, bool) {
	name = filepath.Base(name)
	if !strings.HasSuffix(name, reportExt) {
		return "", "", false
	}
	name = strings.TrimSuffix(name, reportExt)
	idx := strings.IndexByte(name, '_')
	if idx <= 0 || idx == len(name)-1 {
		return "", "", false
	}
	return Family(name[:idx]), name[idx+1:], true
}

// LoadDataDir reads every report file in dir.
func LoadDataDir(dir string) ([]*Report, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	res := make([]*Report, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, _, ok := ParseFileName(e.Name()); !ok {
			continue
		}
		r, err := ReadReportFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		res = append(res, r)
	}
	return res, nil
}

// ReadReportFile parses a report and fills Family and Library from its name.
func ReadReportFile(path string) (*Report, error) {
	family, library, ok := ParseFileName(path)
	if !ok {
		return nil, fmt.Errorf("%s: not a <family>_<library>%s file", path, reportExt)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := ParseReport(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	r.Family = family
	r.Library = library
	return r, nil
}

// WriteReportFile writes r into dir under its FileName. The file appears
// complete or not at all.
func WriteReportFile(dir string, r *Report) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, FileName(r.Family, r.Library))

	tmp, err := os.CreateTemp(dir, ".report-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := r.WriteTo(tmp); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", err
	}
	return path, nil
}

func WriteJSONFile(outputFile string, data interface{}) error {
	out, err := os.Create(outputFile)
	if err != nil {
		return err
	}
	defer out.Close()

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// DateString is the date format used in BenchOutput.
func DateString(t time.Time) string {
	return t.Format("2006-01-02")
}
