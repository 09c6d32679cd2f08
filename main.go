package main

import "love-manager-backend/cmd"

func main() {
	cmd.Run()
}
