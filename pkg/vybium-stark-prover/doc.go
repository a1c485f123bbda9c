// Package vybiumstarkprover provides the arithmetic and commitment core of
// a transparent STARK prover.
//
// The module has three layers:
//
// - 256-bit unsigned integer arithmetic (U256) and a Montgomery-form prime
// field (Felt) over N = 2^256 - 2^32 - 977
//
// - a symbolic multivariate constraint algebra for describing AIR
// transition constraints over pairs of trace rows
//
// - a strictly ordered commit/challenge pipeline that commits to an
// execution trace, derives Fiat-Shamir challenges, composes the
// constraints, and commits to the composition polynomial
//
// # Quick Start
//
// Proving a Fibonacci computation:
//
//	options := vybiumstarkprover.NewProofOptions(32, 4)
//	prover, err := vybiumstarkprover.NewProver(options)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	air, err := vybiumstarkprover.NewFibonacciAir(64, options)
//	if err != nil {
//		log.Fatal(err)
//	}
//	trace, err := vybiumstarkprover.NewFibonacciTrace(64, vybiumstarkprover.One(), vybiumstarkprover.One())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	proof, err := prover.Prove(air, trace)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Custom computations implement the Air and Trace interfaces; constraints
// are built with the symbolic algebra:
//
//	curr := vybiumstarkprover.Curr(vybiumstarkprover.ColumnIndex(0))
//	next := vybiumstarkprover.Next(vybiumstarkprover.ColumnIndex(0))
//	doubling := vybiumstarkprover.AreEq(next, curr.Add(curr))
//
// Pipeline failures carry a *ProvingError with a closed error-code
// taxonomy, so callers can branch with errors.Is.
package vybiumstarkprover
