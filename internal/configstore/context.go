package configstore

import (
	"strings"
)

// Reserved context keys computed by the starter for every run.
const (
	KeyDeployDir  = "deploy_dir"
	KeyCurrentDir = "current_dir"
	KeyUser       = "USER"
	KeyDatetime   = "datetime"
	KeyTemplates  = "templates"
)

// Context is an immutable, ordered snapshot of the render variables.
type Context struct {
	keys   []string
	values map[string]string
}

// Pair is a key/value pair used to build a Context.
type Pair struct {
	Key   string
	Value string
}

// NewContext builds a Context from pairs. A repeated key keeps its first
// position and takes the last value.
func NewContext(pairs ...Pair) Context {
	ctx := Context{values: make(map[string]string, len(pairs))}
	for _, p := range pairs {
		if _, ok := ctx.values[p.Key]; !ok {
			ctx.keys = append(ctx.keys, p.Key)
		}
		ctx.values[p.Key] = p.Value
	}
	return ctx
}

// Get returns the value of key.
func (c Context) Get(key string) (string, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Value returns the value of key or the empty string.
func (c Context) Value(key string) string {
	return c.values[key]
}

// Keys returns the keys in insertion order.
func (c Context) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Len returns the number of keys.
func (c Context) Len() int {
	return len(c.keys)
}

// Map returns a fresh copy suitable for handing to a render engine.
func (c Context) Map() map[string]any {
	out := make(map[string]any, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

// With returns a copy of c with key set to value.
func (c Context) With(key, value string) Context {
	pairs := make([]Pair, 0, len(c.keys)+1)
	for _, k := range c.keys {
		pairs = append(pairs, Pair{Key: k, Value: c.values[k]})
	}
	pairs = append(pairs, Pair{Key: key, Value: value})
	return NewContext(pairs...)
}

// DeployDir returns the target directory files are pasted into.
func (c Context) DeployDir() string {
	return c.values[KeyDeployDir]
}

// CurrentDir returns the working directory of the run.
func (c Context) CurrentDir() string {
	return c.values[KeyCurrentDir]
}

// User returns the invoking user name.
func (c Context) User() string {
	return c.values[KeyUser]
}

// Datetime returns the run timestamp.
func (c Context) Datetime() string {
	return c.values[KeyDatetime]
}

// Templates returns the resolved template names.
func (c Context) Templates() []string {
	raw := c.values[KeyTemplates]
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}
