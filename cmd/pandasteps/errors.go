package main

import "errors"

// Sentinel errors for command operations
var (
	ErrNoInput          = errors.New("no input: pass a file, - for stdin, or --expr")
	ErrInputConflict    = errors.New("--expr cannot be combined with an input file")
	ErrConfigFileExists = errors.New("configuration file already exists")
)
