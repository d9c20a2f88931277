package main

import "github.com/nethalo/sqlclass/cmd"

func main() {
	cmd.Execute()
}
