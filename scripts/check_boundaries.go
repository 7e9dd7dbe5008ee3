package main

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const moduleName = "zodchiy"

type violation struct {
	File   string
	Line   int
	Import string
	Rule   string
}

// layerPolicy lists the in-module packages a layer may import, relative to
// its own service root. Stdlib is always allowed; third-party is allowed
// only when allowThirdParty is set.
type layerPolicy struct {
	allowed         []string
	allowThirdParty bool
}

var layerPolicies = map[string]layerPolicy{
	"domain":      {allowed: []string{"domain"}},
	"ports":       {allowed: []string{"domain"}},
	"application": {allowed: []string{"application", "domain", "ports"}},
	"transport":   {allowed: []string{"transport"}},
}

func main() {
	violations := collectViolations("contexts")
	if len(violations) == 0 {
		fmt.Println("boundary checks passed")
		return
	}

	fmt.Println("boundary violations found:")
	for _, v := range violations {
		fmt.Printf("- %s:%d imports %q (%s)\n", v.File, v.Line, v.Import, v.Rule)
	}
	os.Exit(1)
}

func collectViolations(root string) []violation {
	var violations []violation

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		rel, err := filepath.Rel(filepath.Dir(root), path)
		if err != nil {
			return nil
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if len(parts) < 4 || parts[0] != "contexts" {
			return nil
		}

		serviceRoot := fmt.Sprintf("%s/contexts/%s/%s", moduleName, parts[1], parts[2])
		violations = append(violations, validateFile(path, filepath.ToSlash(rel), parts[3], serviceRoot)...)
		return nil
	})

	sort.Slice(violations, func(i, j int) bool {
		if violations[i].File != violations[j].File {
			return violations[i].File < violations[j].File
		}
		if violations[i].Line != violations[j].Line {
			return violations[i].Line < violations[j].Line
		}
		return violations[i].Import < violations[j].Import
	})
	return violations
}

func validateFile(path string, displayPath string, layer string, serviceRoot string) []violation {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
	if err != nil {
		return []violation{{File: displayPath, Line: 1, Rule: "file must parse"}}
	}

	var violations []violation
	for _, imp := range file.Imports {
		importPath := strings.Trim(imp.Path.Value, "\"")
		add := func(rule string) {
			violations = append(violations, violation{
				File:   displayPath,
				Line:   fset.Position(imp.Pos()).Line,
				Import: importPath,
				Rule:   rule,
			})
		}

		if hasPrefix(importPath, moduleName+"/contexts") && !hasPrefix(importPath, serviceRoot) {
			add("cross-service imports are forbidden")
		}

		policy, ok := layerPolicies[layer]
		if !ok {
			continue
		}
		switch {
		case isStdlib(importPath):
		case hasPrefix(importPath, moduleName+"/internal"):
			add(layer + " must not import runtime infrastructure")
		case strings.Contains(importPath, "/adapters/") || strings.HasSuffix(importPath, "/adapters"):
			add(layer + " must not import adapters")
		case hasPrefix(importPath, moduleName):
			if !isAllowed(importPath, serviceRoot, policy.allowed) {
				add(layer + " import is outside explicit allowlist")
			}
		case !policy.allowThirdParty:
			add(layer + " must not import third-party packages")
		}
	}
	return violations
}

func hasPrefix(path string, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func isAllowed(importPath string, serviceRoot string, layers []string) bool {
	for _, layer := range layers {
		if hasPrefix(importPath, serviceRoot+"/"+layer) {
			return true
		}
	}
	return false
}

func isStdlib(importPath string) bool {
	if hasPrefix(importPath, moduleName) {
		return false
	}
	first := importPath
	if idx := strings.Index(first, "/"); idx != -1 {
		first = first[:idx]
	}
	return !strings.Contains(first, ".")
}
