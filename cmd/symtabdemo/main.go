// Copyright 2025 The Bytemap Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// symtabdemo builds a compiler symbol table from a TOML listing, looks the
// symbols back up, dumps them, and tears the table down through the
// ownership-aware path so that every record release is logged.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/bytemap/bytemap/symtab"
)

type varConfig struct {
	Name  string  `toml:"name"`
	Type  string  `toml:"type"`
	Int   int64   `toml:"int"`
	Real  float64 `toml:"real"`
	Scope uint32  `toml:"scope"`
}

type procConfig struct {
	Name    string `toml:"name"`
	Returns string `toml:"returns"`
	Addr    uint32 `toml:"addr"`
}

type config struct {
	Variables  []varConfig  `toml:"variable"`
	Procedures []procConfig `toml:"procedure"`
}

func parseType(s string) (symtab.Type, error) {
	switch s {
	case "int":
		return symtab.Int, nil
	case "real":
		return symtab.Real, nil
	default:
		return 0, fmt.Errorf("unknown type %q (want \"int\" or \"real\")", s)
	}
}

func run(path string, logger *zap.Logger) error {
	var cfg config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	var addrs symtab.AddrCounter
	table, err := symtab.New(&addrs, logger)
	if err != nil {
		return err
	}

	for _, v := range cfg.Variables {
		typ, err := parseType(v.Type)
		if err != nil {
			return fmt.Errorf("variable %q: %w", v.Name, err)
		}
		switch typ {
		case symtab.Int:
			_, err = table.DefineInt(v.Name, v.Int, v.Scope)
		case symtab.Real:
			_, err = table.DefineReal(v.Name, v.Real, v.Scope)
		}
		if err != nil {
			return fmt.Errorf("define variable %q: %w", v.Name, err)
		}
	}
	for _, p := range cfg.Procedures {
		returns, err := parseType(p.Returns)
		if err != nil {
			return fmt.Errorf("procedure %q: %w", p.Name, err)
		}
		if _, err := table.DefineProc(p.Name, returns, p.Addr); err != nil {
			return fmt.Errorf("define procedure %q: %w", p.Name, err)
		}
	}

	for _, v := range cfg.Variables {
		s, err := table.Lookup(v.Name)
		if err != nil {
			return fmt.Errorf("lookup %q: %w", v.Name, err)
		}
		logger.Info("lookup", zap.String("name", v.Name), zap.Stringer("record", s))
	}

	table.Dump()
	return table.Close()
}

func main() {
	path := flag.String("symbols", "symbols.toml", "TOML file listing the symbols to define")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(*path, logger); err != nil {
		logger.Fatal("symtabdemo failed", zap.Error(err))
	}
}
