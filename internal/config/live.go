package config

import (
	"reflect"
	"strings"
)

// LiveFields is the allow-list of dotted field paths that may change while
// the engine is running. Everything else (window size, graphics backend
// features, audio format, chunk size, network topology, asset roots) needs
// a restart.
var LiveFields = []string{
	"window.title",
	"window.vsync",
	"input.raw_mouse_input",
	"input.mouse_sensitivity",
	"input.controller_deadzone",
	"input.enable_haptics",
	"audio.master_volume",
	"world.render_distance",
	"world.simulation_distance",
	"world.enable_lod",
	"world.max_chunks_per_frame",
	"assets.enable_hot_reload",
	"assets.validate_assets",
	"global.enable_profiling",
	"global.enable_debug_ui",
	"global.target_fps",
}

var liveSet = func() map[string]bool {
	m := make(map[string]bool, len(LiveFields))
	for _, f := range LiveFields {
		m[f] = true
	}
	return m
}()

// IsLive reports whether path is on the live allow-list.
func IsLive(path string) bool {
	return liveSet[path]
}

// LiveUpdate reports the outcome of ApplyLive.
type LiveUpdate struct {
	Applied []string
	Skipped []string
}

// Changed reports whether anything was applied.
func (u LiveUpdate) Changed() bool {
	return len(u.Applied) > 0
}

// Diff returns the dotted paths (yaml names) of every leaf field that
// differs between a and b, in declaration order.
func Diff(a, b Config) []string {
	var out []string
	diffValue(reflect.ValueOf(a), reflect.ValueOf(b), "", &out)
	return out
}

func diffValue(a, b reflect.Value, prefix string, out *[]string) {
	t := a.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		path := joinPath(prefix, fieldName(field))
		fa, fb := a.Field(i), b.Field(i)
		if field.Type.Kind() == reflect.Struct {
			diffValue(fa, fb, path, out)
			continue
		}
		if !reflect.DeepEqual(fa.Interface(), fb.Interface()) {
			*out = append(*out, path)
		}
	}
}

// ApplyLive copies the allow-listed differences from src into dst and
// reports the differing fields it refused to touch.
func ApplyLive(dst *Config, src Config) LiveUpdate {
	var upd LiveUpdate
	src = src.Clone()
	for _, path := range Diff(*dst, src) {
		if !IsLive(path) {
			upd.Skipped = append(upd.Skipped, path)
			continue
		}
		d := lookupPath(reflect.ValueOf(dst).Elem(), path)
		s := lookupPath(reflect.ValueOf(src), path)
		if !d.IsValid() || !s.IsValid() {
			upd.Skipped = append(upd.Skipped, path)
			continue
		}
		d.Set(s)
		upd.Applied = append(upd.Applied, path)
	}
	return upd
}

func lookupPath(v reflect.Value, path string) reflect.Value {
	for _, part := range strings.Split(path, ".") {
		t := v.Type()
		found := false
		for i := 0; i < t.NumField(); i++ {
			if fieldName(t.Field(i)) == part {
				v = v.Field(i)
				found = true
				break
			}
		}
		if !found {
			return reflect.Value{}
		}
	}
	return v
}

func fieldName(f reflect.StructField) string {
	tag := f.Tag.Get("yaml")
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name
	}
	return strings.ToLower(f.Name)
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
