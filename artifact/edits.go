package artifact

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrAnchorNotFound is returned when a shared file has none of the expected
// insertion points.
var ErrAnchorNotFound = errors.New("insertion point not found")

var (
	namespacePattern = regexp.MustCompile(`(?s)<\?php\s*.*?namespace [^;]+;\s*`)
	openTagPattern   = regexp.MustCompile(`<\?php[ \t]*\n?`)
	callPattern      = regexp.MustCompile(`\$this->call\(\[([\s\S]*?)\]\);`)
	runVoidPattern   = regexp.MustCompile(`public function run\(\)\s*:\s*void\s*\{([\s\S]*?)\n\s*\}`)
	runPattern       = regexp.MustCompile(`public function run\(\)[^{]*\{[^}]*\}`)
	usePattern       = regexp.MustCompile(`(?m)^use\s+[^\n;]+;[ \t]*\n?`)
)

// RegisterSeeder adds the entity's seeder to the registry's run() method. A
// seeder already referenced is left alone, so applying the edit twice yields
// the same content. ErrAnchorNotFound is returned with the unchanged content
// when no run() method can be located.
func RegisterSeeder(content, entity, namespace string) (string, error) {
	seeder := entity + "Seeder"
	if regexp.MustCompile(`\b` + regexp.QuoteMeta(seeder) + `::class`).MatchString(content) {
		return content, nil
	}

	useStatement := fmt.Sprintf("use %s\\%s;\n", namespace, seeder)
	out := content
	if !strings.Contains(out, useStatement) {
		out = insertUse(out, useStatement, namespacePattern)
	}

	if loc := callPattern.FindStringSubmatchIndex(out); loc != nil {
		existing := strings.TrimRight(out[loc[2]:loc[3]], " \t\r\n")
		if existing != "" && !strings.HasSuffix(existing, ",") && !strings.HasSuffix(existing, "[") {
			existing += ","
		}
		call := fmt.Sprintf("$this->call([%s\n            %s::class,\n        ]);", existing, seeder)
		return out[:loc[0]] + call + out[loc[1]:], nil
	}

	if loc := runVoidPattern.FindStringSubmatchIndex(out); loc != nil {
		body := strings.TrimRight(out[loc[2]:loc[3]], " \t\r\n")
		run := fmt.Sprintf("public function run(): void\n    {%s\n\n        $this->call([\n            %s::class,\n        ]);\n    }", body, seeder)
		return out[:loc[0]] + run + out[loc[1]:], nil
	}

	if loc := runPattern.FindStringIndex(out); loc != nil {
		run := fmt.Sprintf("public function run(): void\n    {\n        $this->call([\n            %s::class,\n        ]);\n    }", seeder)
		return out[:loc[0]] + run + out[loc[1]:], nil
	}

	return content, ErrAnchorNotFound
}

// AddRoutes appends the entity's API resource routes to the route file unless
// the table's routes already appear in it.
func AddRoutes(content, entity, table, namespace string) string {
	if strings.Contains(content, "'"+table+"'") || strings.Contains(content, `"`+table+`"`) {
		return content
	}

	controller := entity + "Controller"
	useStatement := fmt.Sprintf("use %s\\%s;\n", namespace, controller)

	out := content
	if !strings.Contains(out, useStatement) {
		if uses := usePattern.FindAllStringIndex(out, -1); len(uses) > 0 {
			end := uses[len(uses)-1][1]
			prefix := out[:end]
			if !strings.HasSuffix(prefix, "\n") {
				prefix += "\n"
			}
			out = prefix + useStatement + out[end:]
		} else {
			out = insertUse(out, useStatement, openTagPattern)
		}
	}

	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}

	return out + fmt.Sprintf(`
// %[1]s Routes
Route::apiResource('%[2]s', %[3]s::class);

/*
// Individual %[1]s Routes with permissions
Route::get('%[2]s', [%[3]s::class, 'index']);
Route::post('%[2]s', [%[3]s::class, 'store']);
Route::get('%[2]s/{id}', [%[3]s::class, 'show']);
Route::patch('%[2]s/{id}', [%[3]s::class, 'update']);
Route::delete('%[2]s/{id}', [%[3]s::class, 'destroy']);
*/
`, entity, table, controller)
}

// AppendRelation adds rel's accessor method before the closing brace of the
// class in an existing model file and imports its relation class. Everything
// else in the file is kept. Content already declaring the accessor is
// returned unchanged; ErrAnchorNotFound is returned when no closing brace
// exists.
func AppendRelation(content string, rel Relation) (string, error) {
	accessor := regexp.MustCompile(`function\s+` + regexp.QuoteMeta(rel.Accessor) + `\s*\(`)
	if accessor.MatchString(content) {
		return content, nil
	}

	end := strings.LastIndex(content, "}")
	if end < 0 {
		return content, ErrAnchorNotFound
	}

	method := fmt.Sprintf("\n    public function %s(): %s\n    {\n        return $this->%s(%s::class, %s);\n    }\n",
		rel.Accessor, rel.ReturnType(), rel.Kind, rel.Related, phpString(rel.ForeignKey))
	out := strings.TrimRight(content[:end], " \t\r\n") + "\n" + method + content[end:]

	useStatement := fmt.Sprintf("use Illuminate\\Database\\Eloquent\\Relations\\%s;\n", rel.ReturnType())
	if !strings.Contains(out, useStatement) {
		if uses := usePattern.FindAllStringIndex(out, -1); len(uses) > 0 {
			last := uses[len(uses)-1][1]
			prefix := out[:last]
			if !strings.HasSuffix(prefix, "\n") {
				prefix += "\n"
			}
			out = prefix + useStatement + out[last:]
		} else {
			out = insertUse(out, useStatement, namespacePattern)
		}
	}

	return out, nil
}

// insertUse places useStatement after the anchor, falling back to just after
// the opening tag and finally to the top of the file.
func insertUse(content, useStatement string, anchor *regexp.Regexp) string {
	if loc := anchor.FindStringIndex(content); loc != nil {
		prefix := content[:loc[1]]
		if !strings.HasSuffix(prefix, "\n") {
			prefix += "\n"
		}
		return prefix + useStatement + content[loc[1]:]
	}
	if loc := openTagPattern.FindStringIndex(content); loc != nil {
		return content[:loc[0]] + "<?php\n" + useStatement + content[loc[1]:]
	}
	return useStatement + content
}
