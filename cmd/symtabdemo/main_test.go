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

package main

import (
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bytemap/bytemap/symtab"
)

func TestDecodeShippedSymbols(t *testing.T) {
	var cfg config
	_, err := toml.DecodeFile("symbols.toml", &cfg)
	require.NoError(t, err)
	require.Len(t, cfg.Variables, 3)
	require.Len(t, cfg.Procedures, 1)

	require.Equal(t, "intVar", cfg.Variables[0].Name)
	require.Equal(t, "int", cfg.Variables[0].Type)
	require.EqualValues(t, 4, cfg.Variables[0].Int)
	require.Equal(t, "floatVar", cfg.Variables[1].Name)
	require.Equal(t, 3.14, cfg.Variables[1].Real)
	require.EqualValues(t, 3, cfg.Variables[1].Scope)
}

func TestRunShippedSymbols(t *testing.T) {
	require.NoError(t, run("symbols.toml", zap.NewNop()))
}

func TestParseType(t *testing.T) {
	typ, err := parseType("int")
	require.NoError(t, err)
	require.Equal(t, symtab.Int, typ)
	typ, err = parseType("real")
	require.NoError(t, err)
	require.Equal(t, symtab.Real, typ)
	_, err = parseType("complex")
	require.Error(t, err)
}
