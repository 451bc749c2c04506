package main

import "github.com/masmgr/dephistory-go/cmd"

func main() {
	cmd.Run()
}
