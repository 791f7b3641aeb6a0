package main

import "sheetcal/cmd"

func main() {
	cmd.Execute()
}
