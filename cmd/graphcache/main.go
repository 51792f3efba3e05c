package main

import "github.com/unkn0wn-root/graphcache/internal/cli"

func main() {
	cli.Execute()
}
