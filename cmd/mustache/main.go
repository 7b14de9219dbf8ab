// Command mustache renders Mustache templates from the command line.
package main

func main() {
	Execute()
}
