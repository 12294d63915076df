package main

import "github.com/ademuri/streaming-history-tools/cmd"

func main() {
	cmd.Execute()
}
