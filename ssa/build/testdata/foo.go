package main

// foo sums 0..n-1 in a counted loop.
func foo(n int) int {
	sum := 0
	for i := 0; i < n; i++ {
		sum += i
	}
	return sum
}
