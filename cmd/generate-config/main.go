// generate-config writes a config.yaml template holding every default.
//
//	generate-config [output|-]
package main

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/debemdeboas/blogfront/internal/config"
)

const defaultOutput = "config.example.yaml"

var header = []string{
	"blogfront configuration example",
	"Copy this file to config.yaml and customize as needed.",
	"Environment overrides: " + config.EnvBackendURL + ", " + config.EnvSessionSecret + ", " +
		config.EnvSessionStore + ", " + config.EnvPort + ", " + config.EnvLogLevel,
	"Leave session.secret empty to get a random key on every start.",
}

func generate() ([]byte, error) {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("defaults do not validate: %w", err)
	}

	var buf bytes.Buffer
	for _, line := range header {
		buf.WriteString("# " + line + "\n")
	}
	buf.WriteString("\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func main() {
	output, err := generate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating YAML: %v\n", err)
		os.Exit(1)
	}

	outputFile := defaultOutput
	if len(os.Args) > 1 {
		outputFile = os.Args[1]
	}

	if outputFile == "-" {
		os.Stdout.Write(output)
		return
	}
	if err := os.WriteFile(outputFile, output, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generated example config: %s\n", outputFile)
}
