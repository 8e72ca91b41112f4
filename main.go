package main

import "facturation-backend/cmd"

func main() {
	cmd.Execute()
}
