package main

func main() {
	for i := 0; i < 3; i++ {
		println(sum(i))
	}
	spin(2)
}

// sum has a single counted loop.
func sum(n int) int {
	s := 0
	for i := 0; i < n; i++ {
		s += i
	}
	return s
}

// spin has a loop inside another loop.
func spin(n int) {
	for n > 0 {
		for j := 0; j < n; j++ {
			println(j)
		}
		n--
	}
}

func unused() {
	println("no loops")
}
