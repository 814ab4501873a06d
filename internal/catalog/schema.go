package catalog

import (
	"bytes"
	"fmt"
	"io/fs"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

type schemaSet map[string]*jsonschema.Schema

func compileSchemas() (schemaSet, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	entries, err := fs.ReadDir(embedded, "schema")
	if err != nil {
		return nil, fmt.Errorf("read schemas: %w", err)
	}
	for _, e := range entries {
		raw, err := fs.ReadFile(embedded, "schema/"+e.Name())
		if err != nil {
			return nil, err
		}
		if err := compiler.AddResource(e.Name(), bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", e.Name(), err)
		}
	}

	out := make(schemaSet, len(Files))
	for _, file := range Files {
		name := schemaName(file)
		s, err := compiler.Compile(name)
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", name, err)
		}
		out[file] = s
	}
	return out, nil
}

func (s schemaSet) validate(file string, raw []byte) error {
	schema, ok := s[file]
	if !ok {
		return fmt.Errorf("no schema for %s", file)
	}
	doc, err := yamlToJSON(raw)
	if err != nil {
		return err
	}
	return schema.Validate(doc)
}
