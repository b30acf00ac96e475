// Package loader reads authored documents from JSON or YAML, validates
// them against the embedded CUE schema, and decodes them into the typed
// model. Schema violations and reference errors are both surfaced as a
// collect-all game.LoadErrors list: loading either yields a sound document
// or every problem found, never a partial one.
package loader

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"

	"github.com/tapforge/minigame/internal/game"
)

//go:embed schema.cue
var schemaCUE string

// documentDefinition is the schema root the input is unified against.
const documentDefinition = "#Document"

// Load reads, schema-checks, decodes, and reference-validates one document
// file. The format is chosen by extension: .yaml/.yml are YAML, everything
// else is JSON.
func Load(path string) (*game.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return Parse(data, filepath.Base(path))
}

// Parse validates and decodes document bytes. filename is used for error
// positions and format detection only.
func Parse(data []byte, filename string) (*game.Document, error) {
	jsonBytes, err := normalize(data, filename)
	if err != nil {
		return nil, err
	}

	doc, err := game.DecodeDocument(jsonBytes)
	if err != nil {
		// The schema pass accepts only well-formed documents, so a decode
		// failure here means the schema and the typed model drifted apart.
		return nil, fmt.Errorf("decode validated document: %w", err)
	}

	if errs := game.Validate(doc); errs != nil {
		return nil, errs
	}
	return doc, nil
}

// normalize compiles the input into a CUE value, unifies it with the
// document schema, and returns the validated content as JSON bytes ready
// for the typed decoder.
func normalize(data []byte, filename string) ([]byte, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile embedded schema: %w", err)
	}
	defn := schema.LookupPath(cue.ParsePath(documentDefinition))
	if err := defn.Err(); err != nil {
		return nil, fmt.Errorf("lookup %s: %w", documentDefinition, err)
	}

	val, err := compileInput(ctx, data, filename)
	if err != nil {
		return nil, game.LoadErrors{{
			Code:    game.ErrSchema,
			Field:   filename,
			Message: err.Error(),
		}}
	}

	unified := defn.Unify(val)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, schemaErrors(err)
	}

	// Marshal the raw input value, not the unified one: unification would
	// inject schema-side structure the typed decoder does not expect.
	jsonBytes, err := val.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode validated document: %w", err)
	}
	return jsonBytes, nil
}

// compileInput turns JSON or YAML bytes into a CUE value. JSON is a subset
// of CUE, so it compiles directly; YAML goes through the CUE YAML decoder.
func compileInput(ctx *cue.Context, data []byte, filename string) (cue.Value, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".yaml" || ext == ".yml" {
		file, err := cueyaml.Extract(filename, data)
		if err != nil {
			return cue.Value{}, fmt.Errorf("parse YAML: %w", err)
		}
		val := ctx.BuildFile(file)
		if err := val.Err(); err != nil {
			return cue.Value{}, fmt.Errorf("build YAML document: %w", err)
		}
		return val, nil
	}

	val := ctx.CompileBytes(data, cue.Filename(filename))
	if err := val.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("parse JSON: %w", err)
	}
	return val, nil
}

// schemaErrors converts CUE validation errors into the collect-all
// LoadErrors form, one entry per distinct failure, with positions where
// CUE provides them.
func schemaErrors(err error) game.LoadErrors {
	var out game.LoadErrors
	for _, e := range errors.Errors(err) {
		field := strings.Join(e.Path(), ".")
		msg := e.Error()
		if pos := e.Position(); pos.IsValid() {
			msg = fmt.Sprintf("%s (%s:%d:%d)", msg, pos.Filename(), pos.Line(), pos.Column())
		}
		out = append(out, game.LoadError{
			Code:    game.ErrSchema,
			Field:   field,
			Message: msg,
		})
	}
	if out == nil {
		out = game.LoadErrors{{Code: game.ErrSchema, Field: "", Message: err.Error()}}
	}
	return out
}
