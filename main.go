package main

import "github.com/Tiliavir/trivial-timeclock/cmd"

func main() {
	cmd.Execute()
}
