// Command agendev runs the AgenDev agent workflow from the command line.
package main

func main() {
	Execute()
}
