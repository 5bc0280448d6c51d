// Package fuzztests houses Go fuzz harnesses that drive the checked engine
// with arbitrary operand bit patterns and compare every outcome with the
// math/big oracle of the matrix package.
//
// It only holds tests. Run a harness with, for example:
//
//	go test ./internal/fuzz -run=^$ -fuzz=FuzzApplyRuntime
package fuzztests
