// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package plonkish

import (
	"fmt"
	"strings"

	"github.com/consensys/go-maingate/pkg/util/field"
)

// Expression represents a polynomial over column queries.  Expressions are
// registered with a constraint system as gates, and must evaluate to zero on
// every row of any accepted table.  The set of expression nodes is closed: it
// consists of Constant, Query, Sum, Product, Negated and Scaled.
type Expression interface {
	fmt.Stringer
	// Degree returns the degree of this expression, treating every query as a
	// variable of degree one.
	Degree() uint
	// Queries appends all column queries made by this expression.
	Queries([]Query) []Query
	// expression is a marker which closes the set of expression nodes.
	expression()
}

// Constant is a fixed field element.
type Constant struct{ Value field.Element }

// Query reads the value of a column at a given rotation from the current row.
type Query struct {
	Column   Column
	Rotation Rotation
}

// Sum represents the addition of two or more expressions.
type Sum struct{ Args []Expression }

// Product represents the multiplication of two or more expressions.
type Product struct{ Args []Expression }

// Negated represents the additive inverse of an expression.
type Negated struct{ Arg Expression }

// Scaled represents an expression multiplied by a constant.
type Scaled struct {
	Arg    Expression
	Factor field.Element
}

func (Constant) expression() {}
func (Query) expression()    {}
func (*Sum) expression()     {}
func (*Product) expression() {}
func (*Negated) expression() {}
func (*Scaled) expression()  {}

// ============================================================================
// Constructors
// ============================================================================

// Const constructs a constant expression.
func Const(val field.Element) Expression {
	return Constant{val}
}

// Const64 constructs a constant expression from an unsigned integer.
func Const64(val uint64) Expression {
	return Constant{field.Uint64(val)}
}

// QueryAdvice constructs a query of an advice column at a given rotation.
func QueryAdvice(column Advice, rotation Rotation) Expression {
	return Query{column.Column(), rotation}
}

// QueryFixed constructs a query of a fixed column at a given rotation.
func QueryFixed(column Fixed, rotation Rotation) Expression {
	return Query{column.Column(), rotation}
}

// QueryInstance constructs a query of an instance column at a given rotation.
func QueryInstance(column Instance, rotation Rotation) Expression {
	return Query{column.Column(), rotation}
}

// Add two or more expressions together.  Nested sums are flattened.
func Add(terms ...Expression) Expression {
	var args []Expression
	//
	for _, t := range terms {
		if s, ok := t.(*Sum); ok {
			args = append(args, s.Args...)
		} else {
			args = append(args, t)
		}
	}
	//
	switch len(args) {
	case 0:
		return Const64(0)
	case 1:
		return args[0]
	default:
		return &Sum{args}
	}
}

// Mul two or more expressions together.  Nested products are flattened.
func Mul(terms ...Expression) Expression {
	var args []Expression
	//
	for _, t := range terms {
		if p, ok := t.(*Product); ok {
			args = append(args, p.Args...)
		} else {
			args = append(args, t)
		}
	}
	//
	switch len(args) {
	case 0:
		return Const64(1)
	case 1:
		return args[0]
	default:
		return &Product{args}
	}
}

// Neg constructs the additive inverse of an expression.
func Neg(arg Expression) Expression {
	return &Negated{arg}
}

// Sub subtracts one expression from another.
func Sub(lhs Expression, rhs Expression) Expression {
	return Add(lhs, Neg(rhs))
}

// Scale multiplies an expression by a constant factor.
func Scale(arg Expression, factor field.Element) Expression {
	return &Scaled{arg, factor}
}

// Pow raises an expression to a given (positive) power by repeated squaring.
func Pow(arg Expression, n uint) Expression {
	if n == 0 {
		return Const64(1)
	}
	//
	var (
		acc    Expression
		square = arg
	)
	//
	for ; n > 0; n >>= 1 {
		if n&1 == 1 {
			if acc == nil {
				acc = square
			} else {
				acc = Mul(acc, square)
			}
		}
		//
		if n > 1 {
			square = Mul(square, square)
		}
	}
	//
	return acc
}

// ============================================================================
// Degree
// ============================================================================

// Degree implementation for Expression interface.
func (p Constant) Degree() uint { return 0 }

// Degree implementation for Expression interface.
func (p Query) Degree() uint { return 1 }

// Degree implementation for Expression interface.
func (p *Sum) Degree() uint {
	var d uint
	//
	for _, arg := range p.Args {
		d = max(d, arg.Degree())
	}
	//
	return d
}

// Degree implementation for Expression interface.
func (p *Product) Degree() uint {
	var d uint
	//
	for _, arg := range p.Args {
		d += arg.Degree()
	}
	//
	return d
}

// Degree implementation for Expression interface.
func (p *Negated) Degree() uint { return p.Arg.Degree() }

// Degree implementation for Expression interface.
func (p *Scaled) Degree() uint { return p.Arg.Degree() }

// ============================================================================
// Queries
// ============================================================================

// Queries implementation for Expression interface.
func (p Constant) Queries(qs []Query) []Query { return qs }

// Queries implementation for Expression interface.
func (p Query) Queries(qs []Query) []Query {
	for _, q := range qs {
		if q == p {
			return qs
		}
	}
	//
	return append(qs, p)
}

// Queries implementation for Expression interface.
func (p *Sum) Queries(qs []Query) []Query { return queriesOfTerms(qs, p.Args) }

// Queries implementation for Expression interface.
func (p *Product) Queries(qs []Query) []Query { return queriesOfTerms(qs, p.Args) }

// Queries implementation for Expression interface.
func (p *Negated) Queries(qs []Query) []Query { return p.Arg.Queries(qs) }

// Queries implementation for Expression interface.
func (p *Scaled) Queries(qs []Query) []Query { return p.Arg.Queries(qs) }

func queriesOfTerms(qs []Query, args []Expression) []Query {
	for _, arg := range args {
		qs = arg.Queries(qs)
	}
	//
	return qs
}

// ============================================================================
// String
// ============================================================================

func (p Constant) String() string { return p.Value.String() }

func (p Query) String() string {
	switch p.Rotation {
	case Cur:
		return p.Column.String()
	case Next:
		return fmt.Sprintf("%s'", p.Column)
	}
	//
	return fmt.Sprintf("(shift %s %d)", p.Column, p.Rotation)
}

func (p *Sum) String() string { return stringOfTerms("+", p.Args) }

func (p *Product) String() string { return stringOfTerms("*", p.Args) }

func (p *Negated) String() string { return fmt.Sprintf("(- %s)", p.Arg) }

func (p *Scaled) String() string { return fmt.Sprintf("(* %s %s)", p.Factor.String(), p.Arg) }

func stringOfTerms(op string, args []Expression) string {
	var builder strings.Builder
	//
	builder.WriteString("(")
	builder.WriteString(op)
	//
	for _, arg := range args {
		builder.WriteString(" ")
		builder.WriteString(arg.String())
	}
	//
	builder.WriteString(")")
	//
	return builder.String()
}
