package generator

import (
	"context"
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	messages "github.com/cucumber/messages/go/v21"
	"golang.org/x/mod/modfile"

	"github.com/denizgursoy/naica/pkg/gherkin_parser"
)

const (
	OutputFile = "naica_test.go"
)

var (
	ErrNoFeatureFiles = errors.New("no feature files found")
	ErrOutputExists   = errors.New("output file already exists")
)

// Options configures Scaffold.
type Options struct {
	// FeatureDirectories are searched recursively for feature files. Defaults
	// to the output directory.
	FeatureDirectories []string
	// OutputDirectory receives the generated test file. Defaults to the
	// working directory.
	OutputDirectory string
	// Overwrite replaces an existing test file.
	Overwrite bool
}

// Scaffold generates a test file with a stub function for every distinct
// step of the feature files and a TestNaica function running them. It
// returns the path of the written file.
func Scaffold(ctx context.Context, opts Options) (string, error) {
	outputDirectory := opts.OutputDirectory
	if strings.TrimSpace(outputDirectory) == "" {
		outputDirectory = "."
	}
	featureDirectories := opts.FeatureDirectories
	if len(featureDirectories) == 0 {
		featureDirectories = []string{outputDirectory}
	}

	featureFiles, err := gherkin_parser.SearchFeatureFilesIn(featureDirectories)
	if err != nil {
		return "", err
	}
	if len(featureFiles) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoFeatureFiles, strings.Join(featureDirectories, ", "))
	}

	documents := make([]*messages.GherkinDocument, 0, len(featureFiles))
	for _, file := range featureFiles {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		document, err := gherkin_parser.ParseFeatureFile(file)
		if err != nil {
			return "", err
		}
		documents = append(documents, document)
	}

	pkgName, err := detectPackageName(outputDirectory)
	if err != nil {
		return "", err
	}

	relativeDirectories := make([]string, 0, len(featureDirectories))
	for _, dir := range featureDirectories {
		relativeDirectories = append(relativeDirectories, relativeTo(outputDirectory, dir))
	}

	target := filepath.Join(outputDirectory, OutputFile)
	if !opts.Overwrite {
		if _, statErr := os.Stat(target); statErr == nil {
			return "", fmt.Errorf("%w: %s", ErrOutputExists, target)
		}
	}

	output := &Output{
		PackageName:        pkgName,
		FeatureDirectories: relativeDirectories,
		Steps:              CollectSteps(documents...),
	}

	create, err := os.Create(target)
	if err != nil {
		return "", err
	}
	defer create.Close()

	if err := output.Generate(create); err != nil {
		return "", fmt.Errorf("could not generate %s: %w", target, err)
	}

	return target, nil
}

// relativeTo expresses dir relative to base, since go test runs in the
// package directory.
func relativeTo(base, dir string) string {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return filepath.ToSlash(dir)
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return filepath.ToSlash(dir)
	}
	rel, err := filepath.Rel(absBase, absDir)
	if err != nil {
		return filepath.ToSlash(dir)
	}
	return filepath.ToSlash(rel)
}

// detectPackageName detects the Go package name for the given directory.
// It first tries to read the package clause from existing Go files.
// If no Go files exist, it falls back to deriving the name from the directory
// path (or the module path for the module root).
func detectPackageName(dir string) (string, error) {
	fset := token.NewFileSet()
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("cannot read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") {
			continue
		}
		// Skip the files we generate
		if name == OutputFile {
			continue
		}

		filePath := filepath.Join(dir, name)
		f, parseErr := parser.ParseFile(fset, filePath, nil, parser.PackageClauseOnly)
		if parseErr != nil {
			continue
		}
		if f.Name != nil && f.Name.Name != "" {
			return f.Name.Name, nil
		}
	}

	// No Go files found, so derive package name from directory or module path.
	return packageNameFromDir(dir)
}

// packageNameFromDir derives a valid Go package name from the directory path.
// At the module root it uses the last segment of the module path from go.mod.
// Otherwise it uses the directory name, sanitising characters that are invalid
// in Go identifiers (hyphens, dots, etc.).
func packageNameFromDir(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	// Try to use the module path when we're at the module root.
	goModPath := filepath.Join(absDir, "go.mod")
	if data, readErr := os.ReadFile(goModPath); readErr == nil {
		modFile, parseErr := modfile.Parse(goModPath, data, nil)
		if parseErr == nil && modFile.Module != nil {
			base := filepath.Base(modFile.Module.Mod.Path)
			if name := sanitizePackageName(base); name != "" {
				return name, nil
			}
		}
	}

	// Fall back to the directory name.
	base := filepath.Base(absDir)
	if name := sanitizePackageName(base); name != "" {
		return name, nil
	}

	return "", fmt.Errorf("cannot derive package name from directory %s", dir)
}

// sanitizePackageName turns a raw name (directory segment or module path
// segment) into a valid Go package name. Invalid characters such as hyphens
// and dots are replaced with underscores, and leading digits are prefixed
// with an underscore.
func sanitizePackageName(raw string) string {
	if raw == "" || raw == "." || raw == "/" {
		return ""
	}

	var b strings.Builder
	for i, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			// Go package names are conventionally lowercase.
			b.WriteRune(r - 'A' + 'a')
		case r == '-' || r == '.':
			if i == 0 {
				continue // drop leading separator
			}
			b.WriteRune('_')
		default:
			// Drop other characters.
		}
	}

	name := b.String()
	if name == "" {
		return ""
	}
	// A package name must not start with a digit.
	if name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}
	return name
}
