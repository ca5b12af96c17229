package main

import (
	"StillFM/cmd"
)

func main() {
	cmd.Execute()
}
