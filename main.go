package main

import "github.com/demrdev/canl-dinleme/cmd"

func main() {
	cmd.Execute()
}
