package main

import "github.com/samuelfneumann/gotabular/cmd"

func main() {
	cmd.Execute()
}
