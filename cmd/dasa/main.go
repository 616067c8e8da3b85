// Command dasa prints, queries and exports Vimsottari period trees.
package main

func main() {
	Execute()
}
