package contracts

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"estate-agency/schemas"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Заголовки сообщений, по которым выбирается схема
const (
	HeaderEventType    = "event-type"
	HeaderEventVersion = "event-version"
	HeaderTraceID      = "x-trace-id"
)

var (
	compileOnce     sync.Once
	compileErr      error
	compiledSchemas map[string]*jsonschema.Schema
)

// compileAll компилирует все схемы из schemas.SchemasFS один раз за процесс
func compileAll() (map[string]*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true

		var paths []string
		err := fs.WalkDir(schemas.SchemasFS, "events", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(path, ".json") {
				return nil
			}
			file, err := schemas.SchemasFS.Open(path)
			if err != nil {
				return err
			}
			defer file.Close()
			// ресурсы добавляются до компиляции, чтобы работали ссылки $ref между схемами
			if err := compiler.AddResource(path, file); err != nil {
				return fmt.Errorf("failed to add schema resource %s: %w", path, err)
			}
			paths = append(paths, path)
			return nil
		})
		if err != nil {
			compileErr = fmt.Errorf("error walking schema resources: %w", err)
			return
		}

		result := make(map[string]*jsonschema.Schema, len(paths))
		for _, path := range paths {
			schema, err := compiler.Compile(path)
			if err != nil {
				compileErr = fmt.Errorf("could not compile schema %s: %w", path, err)
				return
			}
			result[KeyFromPath(path)] = schema
		}
		compiledSchemas = result
	})
	return compiledSchemas, compileErr
}

// KeyFromPath преобразует путь вида "events/application-create/v1.json"
// в ключ вида "ApplicationCreateEvent/1.0.0"
func KeyFromPath(path string) string {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(path, "events/"), ".json")

	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 {
		return ""
	}

	caser := cases.Title(language.English)
	var name strings.Builder
	for _, p := range strings.Split(parts[0], "-") {
		name.WriteString(caser.String(p))
	}
	name.WriteString("Event")

	version := strings.TrimPrefix(parts[1], "v") + ".0.0"
	return name.String() + "/" + version
}

// ValidateEvent проверяет тело сообщения по схеме, выбранной по типу и версии события
func ValidateEvent(eventType, eventVersion string, body []byte) error {
	compiled, err := compileAll()
	if err != nil {
		return err
	}

	key := eventType + "/" + eventVersion
	schema, ok := compiled[key]
	if !ok {
		return fmt.Errorf("schema for event '%s' version '%s' not found", eventType, eventVersion)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("message body is not a valid JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}
	return nil
}
