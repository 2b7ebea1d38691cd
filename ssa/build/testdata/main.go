package main

func main() {
	n := foo(10)
	bar(n)
}
