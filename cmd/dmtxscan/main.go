package main

import "github.com/kursancew/godmtx/cmd/dmtxscan/cmd"

func main() {
	cmd.Execute()
}
