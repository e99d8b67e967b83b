// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Command blogctl is the terminal front end of blogpress: it browses,
// searches and likes posts as a visitor and manages content as an admin.
package main

import (
	"os"

	"blogpress/internal/output"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		output.NewPrinter(output.UseColors(false)).Error("%v", err)
		os.Exit(1)
	}
}
