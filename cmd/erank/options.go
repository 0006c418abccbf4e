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
	"github.com/jessevdk/go-flags"
)

const (
	formatTSV = "tsv"
	formatCSV = "csv"
)

// options 命令行参数
type options struct {
	Config  string `short:"c" long:"config" description:"ranking config file (yaml)" required:"true"`
	Dump    string `long:"dump" description:"write the provider dump to this json file"`
	Restore string `long:"restore" description:"restore rankings from this json dump instead of the config"`
	Format  string `long:"format" description:"output format" choice:"tsv" choice:"csv" default:"tsv"`
	Derive  bool   `long:"derive" description:"print the derived column descriptors as yaml and exit"`
	Verbose bool   `short:"v" long:"verbose" description:"debug logging"`
}

func parseOptions(args []string) (*options, error) {
	opts := &options{}
	parser := flags.NewParser(opts, flags.Default)
	parser.Name = "erank"
	parser.Usage = "-c ranking.yaml [OPTIONS]"
	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}
	return opts, nil
}
