// Package main provides chartctl, an offline tool for rendering and
// inspecting equity series.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
