package main

import "parcel-watch/cmd"

func main() {
	cmd.Execute()
}
