// Package air provides the symbolic constraint algebra used to express
// algebraic-intermediate-representation constraints over an execution trace.
//
// Constraints are multivariate polynomials whose variables are trace columns
// read at the current or next row. They are normalized at construction and
// every operation produces a freshly normalized value.
package air

import "sort"

// Algebra is the minimal capability set the constraint algebra requires of a
// field element type. Implementations must be value types whose zero value
// is the additive identity.
type Algebra[E any] interface {
	Add(E) E
	Sub(E) E
	Mul(E) E
	Neg() E
	Zero() E
	One() E
	IsZero() bool
	Equal(E) bool
}

// RowOffset selects which row of the trace a symbolic variable reads.
type RowOffset int

const (
	// CurrRow reads the current trace row.
	CurrRow RowOffset = iota
	// NextRow reads the following trace row.
	NextRow
)

// ColumnRef identifies a trace column at the current or next row.
type ColumnRef struct {
	Row    RowOffset
	Column int
}

// cmp orders references with all current-row references before next-row
// references, then by column index.
func (c ColumnRef) cmp(o ColumnRef) int {
	if c.Row != o.Row {
		if c.Row < o.Row {
			return -1
		}
		return 1
	}
	if c.Column != o.Column {
		if c.Column < o.Column {
			return -1
		}
		return 1
	}
	return 0
}

// Column is satisfied by anything that can name an execution trace column.
type Column interface {
	Index() int
}

// ColumnIndex adapts a bare integer into a Column.
type ColumnIndex int

// Index returns the column index.
func (c ColumnIndex) Index() int { return int(c) }

// Curr builds the degree-one constraint reading col at the current row.
func Curr[E Algebra[E]](col Column) *Constraint[E] {
	return fromRef[E](ColumnRef{Row: CurrRow, Column: col.Index()})
}

// Next builds the degree-one constraint reading col at the next row.
func Next[E Algebra[E]](col Column) *Constraint[E] {
	return fromRef[E](ColumnRef{Row: NextRow, Column: col.Index()})
}

func fromRef[E Algebra[E]](ref ColumnRef) *Constraint[E] {
	var one E
	one = one.One()
	return newConstraint([]term[E]{{
		coefficient: one,
		vars:        newVariables([]variable{{ref: ref, exponent: 1}}),
	}})
}

// variable is one (column reference, exponent) pair.
type variable struct {
	ref      ColumnRef
	exponent int
}

// variables is the canonical multiset of a term's variables: exponents are
// nonzero, duplicates pre-summed, entries sorted by column reference.
type variables []variable

func newVariables(vars []variable) variables {
	kept := make([]variable, 0, len(vars))
	for _, v := range vars {
		if v.exponent != 0 {
			kept = append(kept, v)
		}
	}
	sort.Slice(kept, func(i, j int) bool {
		return kept[i].ref.cmp(kept[j].ref) < 0
	})

	combined := make(variables, 0, len(kept))
	for _, v := range kept {
		if len(combined) > 0 && combined[len(combined)-1].ref == v.ref {
			combined[len(combined)-1].exponent += v.exponent
		} else {
			combined = append(combined, v)
		}
	}
	return combined
}

// degree is the sum of all exponents.
func (v variables) degree() int {
	sum := 0
	for _, entry := range v {
		sum += entry.exponent
	}
	return sum
}

// cmp implements the canonical term order: total degree ascending, ties
// broken by scanning paired exponents outward from the lowest-numbered
// column. A higher exponent on a lower-numbered column sorts as greater.
// Merge-based addition depends on this order.
func (v variables) cmp(o variables) int {
	if dv, do := v.degree(), o.degree(); dv != do {
		if dv < do {
			return -1
		}
		return 1
	}
	limit := len(v)
	if len(o) < limit {
		limit = len(o)
	}
	for i := 0; i < limit; i++ {
		if v[i].ref == o[i].ref {
			if v[i].exponent != o[i].exponent {
				if v[i].exponent < o[i].exponent {
					return -1
				}
				return 1
			}
		} else {
			return o[i].ref.cmp(v[i].ref)
		}
	}
	return 0
}

func (v variables) equal(o variables) bool {
	if len(v) != len(o) {
		return false
	}
	for i := range v {
		if v[i] != o[i] {
			return false
		}
	}
	return true
}

// term is one (coefficient, variables) pair of a constraint polynomial.
type term[E Algebra[E]] struct {
	coefficient E
	vars        variables
}

func (t term[E]) mul(o term[E]) term[E] {
	merged := make([]variable, 0, len(t.vars)+len(o.vars))
	merged = append(merged, t.vars...)
	merged = append(merged, o.vars...)
	return term[E]{
		coefficient: t.coefficient.Mul(o.coefficient),
		vars:        newVariables(merged),
	}
}

// Constraint is a multivariate constraint polynomial: an ordered,
// duplicate-free, zero-coefficient-free list of terms. The empty list is the
// zero polynomial.
type Constraint[E Algebra[E]] struct {
	terms []term[E]
}

// newConstraint normalizes: sort by the variables order, merge terms with
// equal variables, drop zero coefficients.
func newConstraint[E Algebra[E]](terms []term[E]) *Constraint[E] {
	sort.SliceStable(terms, func(i, j int) bool {
		return terms[i].vars.cmp(terms[j].vars) < 0
	})

	combined := make([]term[E], 0, len(terms))
	for _, t := range terms {
		if n := len(combined); n > 0 && combined[n-1].vars.equal(t.vars) {
			combined[n-1].coefficient = combined[n-1].coefficient.Add(t.coefficient)
		} else {
			combined = append(combined, t)
		}
	}

	kept := combined[:0]
	for _, t := range combined {
		if !t.coefficient.IsZero() {
			kept = append(kept, t)
		}
	}
	return &Constraint[E]{terms: kept}
}

// Zero returns the zero polynomial.
func Zero[E Algebra[E]]() *Constraint[E] {
	return &Constraint[E]{}
}

// Scalar builds the degree-zero constraint holding a bare field element.
func Scalar[E Algebra[E]](e E) *Constraint[E] {
	return newConstraint([]term[E]{{coefficient: e, vars: nil}})
}

// IsZero reports whether the constraint is the zero polynomial.
func (c *Constraint[E]) IsZero() bool {
	return len(c.terms) == 0
}

// Degree returns the maximum term degree; the zero polynomial has degree 0.
func (c *Constraint[E]) Degree() int {
	max := 0
	for _, t := range c.terms {
		if d := t.vars.degree(); d > max {
			max = d
		}
	}
	return max
}

// NumTerms returns the number of terms after normalization.
func (c *Constraint[E]) NumTerms() int {
	return len(c.terms)
}

// Add returns c + o by a two-pointer merge of the two sorted term lists.
// Terms with equal variables combine; combined zeros are dropped.
func (c *Constraint[E]) Add(o *Constraint[E]) *Constraint[E] {
	result := make([]term[E], 0, len(c.terms)+len(o.terms))
	i, j := 0, 0
	for i < len(c.terms) || j < len(o.terms) {
		switch {
		case j >= len(o.terms):
			result = append(result, c.terms[i])
			i++
		case i >= len(c.terms):
			result = append(result, o.terms[j])
			j++
		default:
			switch c.terms[i].vars.cmp(o.terms[j].vars) {
			case -1:
				result = append(result, c.terms[i])
				i++
			case 1:
				result = append(result, o.terms[j])
				j++
			default:
				coeff := c.terms[i].coefficient.Add(o.terms[j].coefficient)
				if !coeff.IsZero() {
					result = append(result, term[E]{coefficient: coeff, vars: c.terms[i].vars})
				}
				i++
				j++
			}
		}
	}
	return &Constraint[E]{terms: result}
}

// Mul returns the product of c and o: the cross product of all term pairs,
// fully renormalized.
func (c *Constraint[E]) Mul(o *Constraint[E]) *Constraint[E] {
	if c.IsZero() || o.IsZero() {
		return Zero[E]()
	}
	result := make([]term[E], 0, len(c.terms)*len(o.terms))
	for _, lhs := range c.terms {
		for _, rhs := range o.terms {
			result = append(result, lhs.mul(rhs))
		}
	}
	return newConstraint(result)
}

// Neg flips the sign of every coefficient.
func (c *Constraint[E]) Neg() *Constraint[E] {
	result := make([]term[E], len(c.terms))
	for i, t := range c.terms {
		result[i] = term[E]{coefficient: t.coefficient.Neg(), vars: t.vars}
	}
	return &Constraint[E]{terms: result}
}

// Sub returns c - o as addition of the negation.
func (c *Constraint[E]) Sub(o *Constraint[E]) *Constraint[E] {
	return c.Add(o.Neg())
}

// MulScalar scales every coefficient by e.
func (c *Constraint[E]) MulScalar(e E) *Constraint[E] {
	if e.IsZero() {
		return Zero[E]()
	}
	result := make([]term[E], len(c.terms))
	for i, t := range c.terms {
		result[i] = term[E]{coefficient: t.coefficient.Mul(e), vars: t.vars}
	}
	return &Constraint[E]{terms: result}
}

// AddScalar adds e as a degree-zero term.
func (c *Constraint[E]) AddScalar(e E) *Constraint[E] {
	return c.Add(Scalar(e))
}

// SubScalar subtracts e as a degree-zero term.
func (c *Constraint[E]) SubScalar(e E) *Constraint[E] {
	return c.Add(Scalar(e.Neg()))
}

// Evaluate computes the constraint's value for concrete current- and
// next-row assignments.
func (c *Constraint[E]) Evaluate(curr, next []E) E {
	var acc E
	acc = acc.Zero()
	for _, t := range c.terms {
		value := t.coefficient
		for _, v := range t.vars {
			row := curr
			if v.ref.Row == NextRow {
				row = next
			}
			base := row[v.ref.Column]
			for e := 0; e < v.exponent; e++ {
				value = value.Mul(base)
			}
		}
		acc = acc.Add(value)
	}
	return acc
}

// AreEq returns a constraint that is zero exactly when a == b.
func AreEq[E Algebra[E]](a, b *Constraint[E]) *Constraint[E] {
	return a.Sub(b)
}

// IsZero returns a constraint that is zero exactly when a is zero.
func IsZero[E Algebra[E]](a *Constraint[E]) *Constraint[E] {
	return a
}

// IsOne returns a constraint that is zero exactly when a is one.
func IsOne[E Algebra[E]](a *Constraint[E]) *Constraint[E] {
	var one E
	return a.SubScalar(one.One())
}

// IsBinary returns a constraint that is zero exactly when a is zero or one.
func IsBinary[E Algebra[E]](a *Constraint[E]) *Constraint[E] {
	return a.Mul(a).Sub(a)
}
