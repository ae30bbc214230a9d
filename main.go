package main

import "deluge-submit/cmd"

func main() {
	cmd.Execute()
}
