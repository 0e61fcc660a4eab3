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

// Package symtab builds a toy compiler symbol table on top of a
// bytemap.Map. It demonstrates the consumer side of the map's ownership
// contract: symtab supplies and owns the memory for keys and records, the
// map only stores references to them, and teardown goes through the
// ownership-aware path with a visitor that logs every record as it is
// released.
package symtab

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/bytemap/bytemap"
)

// Tables start tiny and rely on the map's doubling growth.
const initialCapacity = 2

// Type is the value type of a variable or the return type of a procedure.
type Type uint8

const (
	Int Type = iota
	Real
)

func (t Type) String() string {
	switch t {
	case Int:
		return "int"
	case Real:
		return "real"
	default:
		return fmt.Sprintf("type(%d)", uint8(t))
	}
}

// Symbol is a record stored in a Table: either a *Var or a *Proc. The
// record kind is carried by the concrete type, so consumers discriminate
// with a type switch rather than a convention flag.
type Symbol interface {
	fmt.Stringer
	// Name returns the identifier the symbol is registered under.
	Name() string
}

// Var is a variable symbol. Type selects which of IntVal and RealVal
// holds the value.
type Var struct {
	Ident   string
	Type    Type
	IntVal  int64
	RealVal float64
	Scope   uint32
	Addr    uint32
}

func (v *Var) Name() string { return v.Ident }

func (v *Var) String() string {
	if v.Type == Real {
		return fmt.Sprintf("var %s (scope %d, addr %d) value %g", v.Ident, v.Scope, v.Addr, v.RealVal)
	}
	return fmt.Sprintf("var %s (scope %d, addr %d) value %d", v.Ident, v.Scope, v.Addr, v.IntVal)
}

// Proc is a procedure symbol.
type Proc struct {
	Ident   string
	Returns Type
	Addr    uint32
}

func (p *Proc) Name() string { return p.Ident }

func (p *Proc) String() string {
	return fmt.Sprintf("proc %s (returns %s, addr %d)", p.Ident, p.Returns, p.Addr)
}

// AddrCounter hands out variable addresses. Every Table is given the
// counter it should draw from, so address sequencing is owned by the
// caller and can be shared between tables or reset between compilation
// units. The zero value starts at address 0.
type AddrCounter struct {
	next uint32
}

// Next returns the next free address.
func (c *AddrCounter) Next() uint32 {
	n := c.next
	c.next++
	return n
}

// Table is a symbol table mapping identifiers to Symbol records. Like the
// map underneath it, a Table is not goroutine-safe.
type Table struct {
	syms  *bytemap.Map[Symbol]
	addrs *AddrCounter
	log   *zap.Logger
}

// New constructs an empty symbol table drawing variable addresses from
// addrs. log may be nil to disable logging.
func New(addrs *AddrCounter, log *zap.Logger) (*Table, error) {
	if log == nil {
		log = zap.NewNop()
	}
	syms, err := bytemap.New[Symbol](initialCapacity)
	if err != nil {
		return nil, err
	}
	return &Table{syms: syms, addrs: addrs, log: log}, nil
}

// DefineInt registers an integer variable, assigning it the next free
// address. Redefining a name replaces the previous record.
func (t *Table) DefineInt(name string, value int64, scope uint32) (*Var, error) {
	v := &Var{Ident: name, Type: Int, IntVal: value, Scope: scope, Addr: t.addrs.Next()}
	return v, t.define(v)
}

// DefineReal registers a real-valued variable, assigning it the next free
// address. Redefining a name replaces the previous record.
func (t *Table) DefineReal(name string, value float64, scope uint32) (*Var, error) {
	v := &Var{Ident: name, Type: Real, RealVal: value, Scope: scope, Addr: t.addrs.Next()}
	return v, t.define(v)
}

// DefineProc registers a procedure at an explicit code address.
func (t *Table) DefineProc(name string, returns Type, addr uint32) (*Proc, error) {
	p := &Proc{Ident: name, Returns: returns, Addr: addr}
	return p, t.define(p)
}

func (t *Table) define(s Symbol) error {
	return t.syms.Put([]byte(s.Name()), s)
}

// Lookup returns the symbol registered under name, or bytemap.ErrNotFound.
func (t *Table) Lookup(name string) (Symbol, error) {
	return t.syms.Get([]byte(name))
}

// Remove drops the symbol registered under name, or returns
// bytemap.ErrNotFound. The record itself is untouched; anything still
// referencing it remains valid.
func (t *Table) Remove(name string) error {
	return t.syms.Delete([]byte(name))
}

// Len returns the number of symbols defined.
func (t *Table) Len() int {
	return t.syms.Len()
}

// Dump logs every symbol currently defined, in bucket order.
func (t *Table) Dump() {
	_ = t.syms.Apply(func(s *bytemap.Slot[Symbol]) bytemap.Action {
		t.log.Info("symbol", zap.String("name", s.Value().Name()), zap.Stringer("record", s.Value()))
		return bytemap.Continue
	})
}

// Close releases every record through the map's ownership-aware teardown,
// logging each one, and then releases the table. The Table must not be
// used afterward.
func (t *Table) Close() error {
	return t.syms.CloseWith(func(s *bytemap.Slot[Symbol]) bytemap.Action {
		t.log.Info("released symbol",
			zap.ByteString("name", s.Key()),
			zap.Stringer("record", s.Value()))
		return bytemap.Remove
	})
}
