package main

import "github.com/NEILBATCHELOR/Cap-Table-Management-v3/cmd"

func main() {
	cmd.Execute()
}
