// Package main provides the entry point for the sbmltestgen CLI.
//
// sbmltestgen turns an SBML model into a test case for the SBML test suite:
// it writes translations of the model to every level and version it
// converts to, and a description file tagging the features the model uses.
//
// Usage:
//
//	sbmltestgen 00001-sbml-l2v4.xml
//	sbmltestgen batch cases/*/*-sbml-l3v1.xml
//
// See --help for all available options.
package main

import "os"

// main is the entry point for sbmltestgen.
func main() {
	os.Exit(Execute(os.Args[1:], os.Stdout, os.Stderr))
}
