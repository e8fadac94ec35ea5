// Package commands provides CLI command handlers for oasrecord.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/erraggy/oasrecord"
	"github.com/erraggy/oasrecord/internal/definition"
	"github.com/erraggy/oasrecord/record"
	"go.yaml.in/yaml/v4"
)

// Output format constants
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// StdinFilePath is the special file path used to indicate reading from stdin.
const StdinFilePath = "-"

// outputFileMode is the file permission mode for written documents.
const outputFileMode = 0o600

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s", format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}

// ValidateDocumentFormat validates the format of a rendered document.
// Documents have no text form.
func ValidateDocumentFormat(format string) error {
	if format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s", format, FormatJSON, FormatYAML)
	}
	return nil
}

// OutputStructured outputs data in the specified format (json or yaml) to stdout.
// Returns an error if marshaling fails.
func OutputStructured(data any, format string) error {
	var bytes []byte
	var err error

	switch format {
	case FormatJSON:
		bytes, err = json.MarshalIndent(data, "", "  ")
	case FormatYAML:
		bytes, err = yaml.Marshal(data)
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}

	if err != nil {
		return fmt.Errorf("marshaling to %s: %w", format, err)
	}

	fmt.Println(string(bytes))
	return nil
}

// FormatFromPath infers a document format from an output file extension,
// falling back to def when the extension says nothing.
func FormatFromPath(path, def string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	return def
}

// ValidateOutputPath checks if the output path is safe to write to
func ValidateOutputPath(outputPath string, inputPaths []string) error {
	// Get absolute path of output file
	absOutputPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}

	// Check if output file would overwrite any input files
	for _, inputPath := range inputPaths {
		if inputPath == StdinFilePath {
			continue
		}
		absInputPath, err := filepath.Abs(inputPath)
		if err != nil {
			return fmt.Errorf("invalid input path %s: %w", inputPath, err)
		}

		if absOutputPath == absInputPath {
			return fmt.Errorf("output file %s would overwrite input file %s", outputPath, inputPath)
		}
	}

	return RejectSymlinkOutput(filepath.Clean(outputPath))
}

// RejectSymlinkOutput checks if the output path is a symlink and returns an error if so.
// This prevents symlink attacks where a symlink could redirect output to an unintended location.
func RejectSymlinkOutput(cleanedPath string) error {
	info, err := os.Lstat(cleanedPath)
	if os.IsNotExist(err) {
		// File doesn't exist yet, safe to write.
		return nil
	}
	if err != nil {
		return fmt.Errorf("commands: checking output path: %w", err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("commands: refusing to write to symlink: %s", cleanedPath)
	}
	return nil
}

// FormatDefinitionPath returns a display-friendly path for the definition.
// Returns "<stdin>" if the path is StdinFilePath, otherwise returns the path as-is.
func FormatDefinitionPath(path string) string {
	if path == StdinFilePath {
		return "<stdin>"
	}
	return path
}

// Writef writes formatted output to the writer.
// If the write fails, it logs to stderr (useful for debugging).
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil { //nolint:gosec // G705 - CLI tool, not a web server
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// OutputHeader outputs the common definition header to stderr.
func OutputHeader(path, openapi string) {
	Writef(os.Stderr, "oasrecord version: %s\n", oasrecord.Version())
	Writef(os.Stderr, "Definition: %s\n", FormatDefinitionPath(path))
	Writef(os.Stderr, "OAS Version: %s\n", openapi)
}

// NewLogger returns a text logger on stderr. Verbose selects debug level.
func NewLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// LoadDefinition parses a definition file, or stdin when path is StdinFilePath.
func LoadDefinition(path string) (*definition.Definition, error) {
	if path == StdinFilePath {
		data, err := io.ReadAll(io.LimitReader(os.Stdin, definition.DefaultMaxBytes+1))
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return definition.Parse(data, definition.WithSource("<stdin>"))
	}
	return definition.ParseFile(path)
}

// RecordOptions builds the record options shared by the commands.
func RecordOptions(naming string, skipDuplicates bool, logger *slog.Logger) ([]record.Option, error) {
	strategy, err := record.ParseNamingStrategy(naming)
	if err != nil {
		return nil, err
	}
	opts := []record.Option{
		record.WithNamingStrategy(strategy),
		record.WithLogger(record.NewSlogAdapter(logger)),
	}
	if skipDuplicates {
		opts = append(opts, record.WithDuplicatePolicy(record.DuplicatePolicySkip))
	}
	return opts, nil
}
