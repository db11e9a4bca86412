package main

import "github.com/nfrund/authform/cmd/server/cmd"

func main() {
	cmd.Execute()
}
