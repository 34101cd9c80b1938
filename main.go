package main

import "github.com/ridoystarlord/migrato/cmd"

func main() {
	cmd.Execute()
}
