package main

// bar has a loop nested in another.
func bar(n int) {
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			n--
		}
	}
}
