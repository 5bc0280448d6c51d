// Package checked implements range-checked integer arithmetic.
//
// Every operand carries a storage kind and the interval its value is proven
// to lie in. An Engine plans each operation from those intervals alone:
// the promotion policy picks the result kind, and the operation is either
// certified (the native result always equals the mathematical one, so no
// check is run) or left to the exception mode:
//
//   - ModeStatic (TrapAtConstruction) rejects it with CK2001.
//   - ModeRuntime (TrapAtRuntime) computes the exact result and fails with a
//     CK3xxx error when it does not fit.
//   - ModeWrap (LegacyWrap) returns the native wrapped result.
//
// Value[P, E] is the typed front end: the policies are type parameters, so
// values built under different policies do not mix.
//
//	a := checked.Const[promote.Default, checked.TrapAtConstruction](int32(5))
//	b := checked.Const[promote.Default, checked.TrapAtConstruction](int32(6))
//	p, err := a.Mul(b) // 30, certified; err is nil
//
// Go has no constant evaluation over generic code, so trap at construction
// rejects at the first call rather than at build time. MustProve runs the
// same proof from a package-level var initialiser.
package checked
