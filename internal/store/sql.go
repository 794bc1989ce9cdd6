package store

import (
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/tiancaiamao/numbench"
)

const createTable = `CREATE TABLE IF NOT EXISTS report_stats (
	family     VARCHAR(32)  NOT NULL,
	library    VARCHAR(64)  NOT NULL,
	label      VARCHAR(255) NOT NULL,
	row_idx    INT          NOT NULL,
	size_idx   INT          NOT NULL,
	size_label VARCHAR(64)  NOT NULL,
	mean       DOUBLE       NOT NULL,
	std        DOUBLE       NOT NULL,
	PRIMARY KEY (family, library, row_idx, size_idx)
)`

// SQLStore keeps one table row per (report row, size). A report without
// rows has nothing to store and is not returned by LoadAll.
type SQLStore struct {
	db *sql.DB
}

// OpenSQLStore connects to MySQL and creates the table if needed.
func OpenSQLStore(dsn string) (*SQLStore, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, err
	}
	db := sql.OpenDB(connector)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect %s: %w", cfg.Addr, err)
	}
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) Save(r *numbench.Report) (err error) {
	if err := r.Validate(); err != nil {
		return err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.Exec("DELETE FROM report_stats WHERE family = ? AND library = ?",
		string(r.Family), r.Library); err != nil {
		return fmt.Errorf("delete %s/%s: %w", r.Family, r.Library, err)
	}
	stmt, err := tx.Prepare(`INSERT INTO report_stats
		(family, library, label, row_idx, size_idx, size_label, mean, std)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, rec := range flatten(r) {
		if _, err = stmt.Exec(rec.family, rec.library, rec.label, rec.rowIdx,
			rec.sizeIdx, rec.sizeLabel, rec.mean, rec.std); err != nil {
			return fmt.Errorf("insert %s/%s %q: %w", r.Family, r.Library, rec.label, err)
		}
	}
	return tx.Commit()
}

func (s *SQLStore) LoadAll() ([]*numbench.Report, error) {
	rows, err := s.db.Query(`SELECT family, library, label, row_idx, size_idx, size_label, mean, std
		FROM report_stats ORDER BY family, library, row_idx, size_idx`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []record
	for rows.Next() {
		var rec record
		if err := rows.Scan(&rec.family, &rec.library, &rec.label, &rec.rowIdx,
			&rec.sizeIdx, &rec.sizeLabel, &rec.mean, &rec.std); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return assemble(recs)
}

type record struct {
	family    string
	library   string
	label     string
	rowIdx    int
	sizeIdx   int
	sizeLabel string
	mean      float64
	std       float64
}

func flatten(r *numbench.Report) []record {
	recs := make([]record, 0, len(r.Rows)*len(r.Sizes))
	for i, row := range r.Rows {
		for k, st := range row.Stats {
			recs = append(recs, record{
				family:    string(r.Family),
				library:   r.Library,
				label:     row.Label,
				rowIdx:    i,
				sizeIdx:   k,
				sizeLabel: r.Sizes[k],
				mean:      st.Mean,
				std:       st.Std,
			})
		}
	}
	return recs
}

// assemble rebuilds reports from records sorted by family, library, row and
// size index.
func assemble(recs []record) ([]*numbench.Report, error) {
	var (
		res []*numbench.Report
		cur *numbench.Report
	)
	for _, rec := range recs {
		if cur == nil || string(cur.Family) != rec.family || cur.Library != rec.library {
			cur = &numbench.Report{Family: numbench.Family(rec.family), Library: rec.library}
			res = append(res, cur)
		}
		if rec.rowIdx == len(cur.Rows) {
			cur.Rows = append(cur.Rows, numbench.Row{Label: rec.label})
		}
		if rec.rowIdx != len(cur.Rows)-1 {
			return nil, fmt.Errorf("%w: %s/%s row %d out of order",
				numbench.ErrMalformedReport, rec.family, rec.library, rec.rowIdx)
		}
		row := &cur.Rows[rec.rowIdx]
		if rec.sizeIdx != len(row.Stats) {
			return nil, fmt.Errorf("%w: %s/%s row %q size %d out of order",
				numbench.ErrMalformedReport, rec.family, rec.library, rec.label, rec.sizeIdx)
		}
		if rec.rowIdx == 0 {
			cur.Sizes = append(cur.Sizes, rec.sizeLabel)
		}
		row.Stats = append(row.Stats, numbench.Summary{Mean: rec.mean, Std: rec.std})
	}
	for _, r := range res {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("%s/%s: %w", r.Family, r.Library, err)
		}
	}
	return res, nil
}
