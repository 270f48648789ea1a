package main

import (
	"fmt"
	stdos "os"
)

type fakeOS struct{}

func (fakeOS) Exit(int) {}

func main() {
	defer fmt.Println("cleanup")

	stdos.Exit(1) // want "os.Exit call inside main function"

	func() {
		stdos.Exit(2) // want "os.Exit call inside main function"
	}()

	os := fakeOS{}
	os.Exit(3)
}

func helper() {
	stdos.Exit(4)
}
