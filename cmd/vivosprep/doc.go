// Package main hosts the vivosprep CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once per invocation and hands
// the heavy lifting to the internal packages: prepare runs the converter,
// verify re-checks an existing output tree, history lists recorded runs, and
// config scaffolds or validates the TOML file.
package main
