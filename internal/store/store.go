// Package store persists benchmark reports, either as report files in a
// data directory or as rows of a MySQL table.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/tiancaiamao/numbench"
)

// Store keeps at most one report per (family, library).
type Store interface {
	// Save replaces the stored report of r's family and library.
	Save(r *numbench.Report) error
	LoadAll() ([]*numbench.Report, error)
}

// FileStore keeps reports as <family>_<library>.csv files in Dir.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

func (s *FileStore) Save(r *numbench.Report) error {
	_, err := numbench.WriteReportFile(s.Dir, r)
	return err
}

// LoadAll returns nothing, not an error, when Dir does not exist yet.
func (s *FileStore) LoadAll() ([]*numbench.Report, error) {
	reports, err := numbench.LoadDataDir(s.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return reports, err
}

// ByFamily groups reports per family. Within a family, libraries follow
// order; libraries not named in order come last, sorted by name.
func ByFamily(reports []*numbench.Report, order []string) map[numbench.Family][]*numbench.Report {
	rank := make(map[string]int, len(order))
	for i, lib := range order {
		rank[lib] = i
	}
	pos := func(lib string) int {
		if i, ok := rank[lib]; ok {
			return i
		}
		return len(order)
	}

	res := make(map[numbench.Family][]*numbench.Report)
	for _, r := range reports {
		res[r.Family] = append(res[r.Family], r)
	}
	for _, rs := range res {
		sort.SliceStable(rs, func(i, j int) bool {
			pi, pj := pos(rs[i].Library), pos(rs[j].Library)
			if pi != pj {
				return pi < pj
			}
			return rs[i].Library < rs[j].Library
		})
	}
	return res
}

// Select keeps the reports whose library is in libs, in the order of libs.
// An empty libs keeps everything.
func Select(reports []*numbench.Report, libs []string) []*numbench.Report {
	if len(libs) == 0 {
		return reports
	}
	var res []*numbench.Report
	for _, lib := range libs {
		for _, r := range reports {
			if r.Library == lib {
				res = append(res, r)
			}
		}
	}
	return res
}

// Merge appends the rows of src whose label dst does not have yet and
// returns the labels it skipped. Both reports must share the size axis.
func Merge(dst, src *numbench.Report) (skipped []string, err error) {
	if len(dst.Sizes) != len(src.Sizes) {
		return nil, fmt.Errorf("%w: %d sizes, patch has %d",
			numbench.ErrMalformedReport, len(dst.Sizes), len(src.Sizes))
	}
	for i := range dst.Sizes {
		if dst.Sizes[i] != src.Sizes[i] {
			return nil, fmt.Errorf("%w: size %d is %q, patch has %q",
				numbench.ErrMalformedReport, i, dst.Sizes[i], src.Sizes[i])
		}
	}
	for _, row := range src.Rows {
		if _, ok := dst.Row(row.Label); ok {
			skipped = append(skipped, row.Label)
			continue
		}
		dst.Rows = append(dst.Rows, row)
	}
	return skipped, nil
}
