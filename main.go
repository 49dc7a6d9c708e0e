package main

import "github.com/frahmantamala/simmas/cmd"

func main() {
	cmd.Execute()
}
