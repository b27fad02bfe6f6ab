package store

import (
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const boardSchemaURL = "kanban-board.schema.json"

const boardSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["kind", "version", "next_id", "columns"],
	"properties": {
		"kind": {"const": "board"},
		"version": {"type": "integer", "minimum": 1},
		"next_id": {"type": "integer", "minimum": 1},
		"columns": {
			"type": "array",
			"minItems": 1,
			"items": {"type": "string", "minLength": 1}
		}
	}
}`

const taskSchemaURL = "kanban-task.schema.json"

const taskSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["kind", "id", "name", "column", "history"],
	"properties": {
		"kind": {"const": "task"},
		"id": {"type": "integer", "minimum": 1},
		"name": {"type": "string", "pattern": "\\S"},
		"column": {"type": "string", "minLength": 1},
		"history": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["column", "at"],
				"properties": {
					"column": {"type": "string", "minLength": 1},
					"at": {"type": "string", "format": "date-time"}
				}
			}
		}
	}
}`

var (
	schemaOnce     sync.Once
	compiledBoard  *jsonschema.Schema
	compiledTask   *jsonschema.Schema
	errSchemaSetup error
)

// schemas compiles the embedded record schemas once
func schemas() (*jsonschema.Schema, *jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true

		if err := compiler.AddResource(boardSchemaURL, strings.NewReader(boardSchema)); err != nil {
			errSchemaSetup = fmt.Errorf("add board schema: %w", err)
			return
		}
		if err := compiler.AddResource(taskSchemaURL, strings.NewReader(taskSchema)); err != nil {
			errSchemaSetup = fmt.Errorf("add task schema: %w", err)
			return
		}

		compiledBoard, errSchemaSetup = compiler.Compile(boardSchemaURL)
		if errSchemaSetup != nil {
			return
		}
		compiledTask, errSchemaSetup = compiler.Compile(taskSchemaURL)
	})
	return compiledBoard, compiledTask, errSchemaSetup
}
