package main

import "github.com/mnee-xyz/mnee-go/cmd/mnee/cmd"

func main() {
	cmd.Execute()
}
