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
	"bytes"
	"os"
	"path/filepath"

	"github.com/ecodeclub/erank"
	"gopkg.in/yaml.v3"
)

// config ranking.yaml 的结构
type config struct {
	LogLevel string              `yaml:"logLevel"`
	Source   sourceConfig        `yaml:"source"`
	// Columns 为空时根据数据推断
	Columns  []*erank.ColumnDesc `yaml:"columns"`
	Rankings []rankingConfig     `yaml:"rankings"`
}

type sourceConfig struct {
	// Kind csv、tsv、json 或 sql
	Kind string `yaml:"kind"`
	// Path 相对路径相对于配置文件所在的目录
	Path     string `yaml:"path"`
	JSONPath string `yaml:"jsonPath"`
	Driver   string `yaml:"driver"`
	DSN      string `yaml:"dsn"`
	Query    string `yaml:"query"`
}

type rankingConfig struct {
	Label string `yaml:"label"`
	// Columns 数据中的列名，为空时使用所有列
	Columns   []string     `yaml:"columns"`
	Selection bool         `yaml:"selection"`
	Sort      []sortConfig `yaml:"sort"`
	Group     []string     `yaml:"group"`
	GroupSort []sortConfig `yaml:"groupSort"`
	// Filters 列名到过滤条件，格式与列 dump 中的 filter 相同
	Filters map[string]any `yaml:"filters"`
}

type sortConfig struct {
	Column string `yaml:"column"`
	Desc   bool   `yaml:"desc"`
}

func loadConfig(path string) (*config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err = dec.Decode(cfg); err != nil {
		return nil, err
	}
	if cfg.Source.Path != "" && !filepath.IsAbs(cfg.Source.Path) {
		cfg.Source.Path = filepath.Join(filepath.Dir(path), cfg.Source.Path)
	}
	if cfg.Source.Kind == "" {
		cfg.Source.Kind = kindOf(cfg.Source.Path)
	}
	return cfg, nil
}

// kindOf 根据扩展名推断数据源类型
func kindOf(path string) string {
	switch filepath.Ext(path) {
	case ".csv":
		return "csv"
	case ".tsv", ".tab":
		return "tsv"
	case ".json":
		return "json"
	}
	return ""
}
