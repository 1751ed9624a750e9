//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Default target to run when none is specified
var Default = Build

const binary = "vopet"

// Build builds the vopet binary
func Build() error {
	fmt.Println("Building vopet...")
	return sh.RunV("go", "build", "-o", binary, "./cmd/vopet")
}

// Test runs all tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Install installs vopet into ~/go/bin
func Install() error {
	mg.Deps(Build)

	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	dest := filepath.Join(home, "go", "bin", binary)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	fmt.Printf("Installing to %s\n", dest)
	return sh.Copy(dest, binary)
}

// Clean removes the built binary and test exports
func Clean() error {
	return sh.Rm(binary)
}
