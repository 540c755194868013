package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaSource string

var (
	schemaOnce sync.Once
	schemaMu   sync.Mutex // cue.Context is not safe for concurrent use
	schemaCtx  *cue.Context
	schemaDef  cue.Value
	schemaErr  error
)

// ValidationError lists every problem found in a configuration.
type ValidationError struct {
	Problems []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Validate checks cfg structurally. It never touches the filesystem or any
// subsystem. All problems are collected into one *ValidationError.
func Validate(cfg Config) error {
	var problems []string

	if cfg.Window.Width <= 0 || cfg.Window.Height <= 0 {
		problems = append(problems, fmt.Sprintf("window dimensions must be positive (got %dx%d)", cfg.Window.Width, cfg.Window.Height))
	}
	if !IsPowerOfTwo(cfg.World.ChunkSize) {
		problems = append(problems, fmt.Sprintf("world.chunk_size must be a power of two (got %d)", cfg.World.ChunkSize))
	}
	if !cfg.Network.Mode.Valid() {
		problems = append(problems, fmt.Sprintf("network.mode %q is not a known mode", cfg.Network.Mode))
	}
	if cfg.Network.Mode.Hosting() && cfg.Network.Port == 0 {
		problems = append(problems, "network.port is required when hosting")
	}
	if cfg.Network.Mode == NetworkP2PClient || cfg.Network.Mode == NetworkDedicatedClient {
		if strings.TrimSpace(cfg.Network.ServerAddress) == "" {
			problems = append(problems, "network.server_address is required for client modes")
		}
	}

	problems = append(problems, schemaProblems(cfg)...)

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// schemaProblems unifies cfg with the embedded CUE schema and returns one
// message per violated constraint.
func schemaProblems(cfg Config) []string {
	def, err := loadSchema()
	if err != nil {
		return []string{fmt.Sprintf("schema unavailable: %v", err)}
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		return []string{fmt.Sprintf("encode config: %v", err)}
	}

	schemaMu.Lock()
	defer schemaMu.Unlock()

	v := schemaCtx.CompileBytes(data)
	if err := v.Err(); err != nil {
		return []string{fmt.Sprintf("compile config: %v", err)}
	}

	err = def.Unify(v).Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}

	var out []string
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		path := strings.TrimPrefix(strings.Join(e.Path(), "."), "#Config.")
		out = append(out, fmt.Sprintf("%s: %s", path, fmt.Sprintf(format, args...)))
	}
	if len(out) == 0 {
		out = append(out, err.Error())
	}
	return out
}

// loadSchema compiles schema.cue once and returns the #Config definition.
func loadSchema() (cue.Value, error) {
	schemaOnce.Do(func() {
		schemaCtx = cuecontext.New()
		v := schemaCtx.CompileString(schemaSource, cue.Filename("schema.cue"))
		if err := v.Err(); err != nil {
			schemaErr = fmt.Errorf("compile schema: %w", err)
			return
		}
		schemaDef = v.LookupPath(cue.ParsePath("#Config"))
		if !schemaDef.Exists() {
			schemaErr = fmt.Errorf("schema missing #Config")
		}
	})
	return schemaDef, schemaErr
}
