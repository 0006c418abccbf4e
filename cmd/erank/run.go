// Copyright 2021 ecodeclub
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"os"

	"github.com/ecodeclub/erank"
	"github.com/ecodeclub/erank/internal/errs"
	"github.com/ecodeclub/erank/internal/logger"
	"github.com/ecodeclub/erank/middleware/sortlog"
	"github.com/ecodeclub/erank/source"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
	"gopkg.in/yaml.v3"
)

func run(ctx context.Context, opts *options, out io.Writer) error {
	cfg, err := loadConfig(opts.Config)
	if err != nil {
		return err
	}
	logger.Level.SetByName(cfg.LogLevel)
	if opts.Verbose {
		logger.Level.Set(slog.LevelDebug)
	}
	l := logger.New()

	tbl, err := load(ctx, cfg.Source)
	if err != nil {
		return err
	}
	l.Debugf("从 %s 加载了 %d 行", cfg.Source.Kind, len(tbl.Rows))
	descs := cfg.Columns
	if len(descs) == 0 {
		descs = source.Derive(tbl)
	}
	if opts.Derive {
		return yaml.NewEncoder(out).Encode(map[string]any{"columns": descs})
	}

	p := erank.NewProvider(erank.NewLocalStorage(tbl.Data(), descs),
		erank.WithReorderDelay(0),
		erank.WithLogger(l),
		erank.WithMiddlewares(sortlog.NewBuilder().LogFunc(func(e sortlog.Entry) {
			l.Debugf("排序 %s: %d 个分组, %d 行, 耗时 %s", e.RankingID, e.Groups, e.Rows, e.Elapsed)
		}).Build()))
	defer func() {
		_ = p.Close()
	}()

	if opts.Restore != "" {
		if err = restore(p, opts.Restore, l); err != nil {
			return err
		}
	} else {
		for _, rc := range cfg.Rankings {
			if _, err = buildRanking(p, rc); err != nil {
				return err
			}
		}
	}
	if len(p.Rankings()) == 0 {
		p.DeriveDefault(false)
	}

	eo := exportOptions(opts.Format)
	for i, r := range p.Rankings() {
		if i > 0 {
			_, _ = io.WriteString(out, eo.Newline)
		}
		table, err := p.ExportTable(ctx, r, eo)
		if err != nil {
			return err
		}
		if _, err = io.WriteString(out, table); err != nil {
			return err
		}
	}

	if opts.Dump != "" {
		data, err := json.MarshalIndent(p.Dump(), "", "  ")
		if err != nil {
			return err
		}
		return os.WriteFile(opts.Dump, data, 0o644)
	}
	return nil
}

func load(ctx context.Context, sc sourceConfig) (*source.Table, error) {
	switch sc.Kind {
	case "csv", "tsv":
		f, err := os.Open(sc.Path)
		if err != nil {
			return nil, err
		}
		defer func() {
			_ = f.Close()
		}()
		if sc.Kind == "tsv" {
			return source.LoadCSV(f, source.WithComma('\t'))
		}
		return source.LoadCSV(f)
	case "json":
		data, err := os.ReadFile(sc.Path)
		if err != nil {
			return nil, err
		}
		return source.LoadJSONPath(data, sc.JSONPath)
	case "sql":
		db, err := sql.Open(sc.Driver, sc.DSN)
		if err != nil {
			return nil, err
		}
		defer func() {
			_ = db.Close()
		}()
		return source.LoadSQL(ctx, db, sc.Query)
	default:
		return nil, errs.NewUnsupportedSourceError(sc.Kind)
	}
}

// buildRanking 按配置创建 ranking，引用了未知列时返回错误
func buildRanking(p *erank.Provider, rc rankingConfig) (*erank.Ranking, error) {
	r := p.NewRanking()
	if rc.Label != "" {
		r.SetLabel(rc.Label)
	}
	p.Push(r, erank.CreateRankDesc())
	if rc.Selection {
		p.Push(r, erank.CreateSelectionDesc())
	}
	descs := p.Storage().Columns()
	if len(rc.Columns) > 0 {
		descs = descs[:0:0]
		for _, name := range rc.Columns {
			d := findDesc(p, name)
			if d == nil {
				return nil, errs.NewInvalidFieldError(name)
			}
			descs = append(descs, d)
		}
	}
	byName := make(map[string]erank.Column, len(descs))
	for _, d := range descs {
		if col := p.Push(r, d); col != nil {
			byName[d.Column] = col
		}
	}
	lookup := func(name string) (erank.Column, error) {
		col, ok := byName[name]
		if !ok {
			return nil, errs.NewInvalidFieldError(name)
		}
		return col, nil
	}

	for name, f := range rc.Filters {
		col, err := lookup(name)
		if err != nil {
			return nil, err
		}
		col.Restore(erank.Dump{"filter": f}, nil)
	}
	criteria := func(scs []sortConfig) ([]erank.SortCriteria, error) {
		res := make([]erank.SortCriteria, 0, len(scs))
		for _, s := range scs {
			col, err := lookup(s.Column)
			if err != nil {
				return nil, err
			}
			res = append(res, erank.SortCriteria{Col: col, Asc: !s.Desc})
		}
		return res, nil
	}
	if len(rc.Sort) > 0 {
		sc, err := criteria(rc.Sort)
		if err != nil {
			return nil, err
		}
		r.SetSortCriteria(sc)
	}
	if len(rc.Group) > 0 {
		cols := make([]erank.Column, 0, len(rc.Group))
		for _, name := range rc.Group {
			col, err := lookup(name)
			if err != nil {
				return nil, err
			}
			cols = append(cols, col)
		}
		r.SetGroupCriteria(cols)
	}
	if len(rc.GroupSort) > 0 {
		gs, err := criteria(rc.GroupSort)
		if err != nil {
			return nil, err
		}
		r.SetGroupSortCriteria(gs)
	}
	p.InsertRanking(r, -1)
	return r, nil
}

func findDesc(p *erank.Provider, column string) *erank.ColumnDesc {
	for _, d := range p.Storage().Columns() {
		if d.Column == column {
			return d
		}
	}
	return nil
}

// restore 只有读取和解析文件失败时返回错误，无法恢复的列被跳过
func restore(p *erank.Provider, path string, l *logger.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var d erank.Dump
	if err = json.Unmarshal(data, &d); err != nil {
		return err
	}
	if err = p.Restore(d); err != nil {
		l.Warningf("恢复 %s 不完整: %v", path, err)
	}
	return nil
}

func exportOptions(format string) erank.ExportOptions {
	eo := erank.DefaultExportOptions()
	switch format {
	case formatCSV:
		eo.Separator = ","
		eo.Quote = true
	case formatTSV:
		eo.Separator = "\t"
	}
	return eo
}
