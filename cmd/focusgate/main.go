package main

import (
	"flag"
	"os"

	"github.com/focusgate/focusgate/internal/server"
)

func main() {
	// Optional build-target flag override (local | cloud-dev)
	buildTarget := flag.String("build-target", "", "Override BUILD_TARGET (local, cloud-dev)")
	flag.Parse()

	if *buildTarget != "" {
		os.Setenv("FOCUSGATE_BUILD_TARGET", *buildTarget)
	}

	if err := server.Run(); err != nil {
		os.Exit(1)
	}
}
