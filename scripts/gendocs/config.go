package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/anandkaranubc/rex-data-wrangling/internal/cli/config"
)

// ConfigKey is one documented configuration key.
type ConfigKey struct {
	Key     string
	Env     string
	Type    string
	Default string
}

// generateConfigDocs writes configuration.md, listing every rex.yaml key.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating config docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Configuration", "rex.yaml keys, environment variables and defaults")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph("rex reads rex.yaml (or rex.yml) from the working directory or the nearest parent. Relative paths in the file are resolved against its directory. Values are layered: defaults, then the file, then REX_ environment variables, then command-line flags.")

	headers := []string{"Key", "Environment", "Type", "Default"}
	var rows [][]string
	for _, k := range collectConfigKeys(reflect.ValueOf(config.Default()).Elem(), "") {
		def := k.Default
		if def != "" {
			def = InlineCode(def)
		}
		rows = append(rows, []string{InlineCode(k.Key), InlineCode(k.Env), k.Type, def})
	}
	w.Table(headers, rows)

	w.Header(2, "Example")
	w.CodeBlock("yaml", `mentors: data/mentors.csv
mentees: data/mentees.csv
matches: data/matches.csv
output_dir: out
sink:
  type: sqlite
  path: out/reports.db
  options:
    manifest: "true"
columns:
  mentor_email: Email`)

	filename := filepath.Join(outDir, "configuration.md")
	return os.WriteFile(filename, w.Bytes(), 0600)
}

// collectConfigKeys walks the koanf tags of v, descending into nested structs.
func collectConfigKeys(v reflect.Value, prefix string) []ConfigKey {
	var keys []ConfigKey
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("koanf")
		if tag == "" || tag == "-" || !field.IsExported() {
			continue
		}
		key := prefix + tag
		fv := v.Field(i)

		if fv.Kind() == reflect.Struct {
			keys = append(keys, collectConfigKeys(fv, key+".")...)
			continue
		}

		keys = append(keys, ConfigKey{
			Key:     key,
			Env:     config.EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_")),
			Type:    field.Type.String(),
			Default: defaultString(fv),
		})
	}
	return keys
}

func defaultString(v reflect.Value) string {
	switch v.Kind() {
	case reflect.Map, reflect.Slice:
		if v.Len() == 0 {
			return ""
		}
	case reflect.String:
		return v.String()
	case reflect.Bool:
		if !v.Bool() {
			return ""
		}
	}
	return fmt.Sprint(v.Interface())
}
