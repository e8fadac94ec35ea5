package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/erraggy/oasrecord/spec"
)

// RenderFlags contains flags for the render command
type RenderFlags struct {
	Output         string
	Format         string
	Naming         string
	SkipDuplicates bool
	Verbose        bool
	Quiet          bool
}

// SetupRenderFlags creates and configures a FlagSet for the render command.
// Returns the FlagSet and a RenderFlags struct with bound flag variables.
func SetupRenderFlags() (*flag.FlagSet, *RenderFlags) {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	flags := &RenderFlags{}

	fs.StringVar(&flags.Output, "o", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Output, "output", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Format, "format", "", "document format: json or yaml (default: from output extension, else json)")
	fs.StringVar(&flags.Naming, "naming", "default", "schema naming strategy: default, pascal or snake")
	fs.BoolVar(&flags.SkipDuplicates, "skip-duplicates", false, "inline record subsets whose schema name is taken instead of failing")
	fs.BoolVar(&flags.Verbose, "v", false, "verbose mode: log record resolution to stderr")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: only output the document, no diagnostic messages")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: only output the document, no diagnostic messages")

	fs.Usage = func() {
		output := fs.Output()
		Writef(output, "Usage: oasrecord render [flags] <definition|->\n\n")
		Writef(output, "Render an OpenAPI document from a record definition.\n\n")
		Writef(output, "Flags:\n")
		fs.PrintDefaults()
		Writef(output, "\nExamples:\n")
		Writef(output, "  oasrecord render petstore.yaml\n")
		Writef(output, "  oasrecord render -o openapi.yaml petstore.yaml\n")
		Writef(output, "  oasrecord render -format yaml -naming pascal petstore.yaml\n")
		Writef(output, "  cat petstore.yaml | oasrecord render -q -\n")
		Writef(output, "\nSchema names:\n")
		Writef(output, "  A record subset is named after its record and the fields it leaves out,\n")
		Writef(output, "  e.g. Pet_exclude_password. Equal subsets share one schema component.\n")
		Writef(output, "\nExit Codes:\n")
		Writef(output, "  0    Document rendered\n")
		Writef(output, "  1    Invalid definition or rendering failed\n")
	}

	return fs, flags
}

// HandleRender executes the render command
func HandleRender(args []string) error {
	fs, flags := SetupRenderFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("render command requires exactly one definition file path or '-' for stdin")
	}
	path := fs.Arg(0)

	format := flags.Format
	if format == "" {
		format = FormatFromPath(flags.Output, FormatJSON)
	}
	if err := ValidateDocumentFormat(format); err != nil {
		return err
	}
	if flags.Output != "" {
		if err := ValidateOutputPath(flags.Output, []string{path}); err != nil {
			return err
		}
	}

	logger := NewLogger(flags.Verbose)
	opts, err := RecordOptions(flags.Naming, flags.SkipDuplicates, logger)
	if err != nil {
		return err
	}

	def, err := LoadDefinition(path)
	if err != nil {
		return fmt.Errorf("loading definition: %w", err)
	}
	doc, err := def.Build(opts...)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", FormatDefinitionPath(path), err)
	}

	data, err := marshalDocument(doc, format)
	if err != nil {
		return err
	}

	if !flags.Quiet {
		OutputHeader(path, doc.Version().String())
		Writef(os.Stderr, "Paths: %d\n", doc.PathCount())
		Writef(os.Stderr, "Schemas: %d\n", doc.Components().SchemaCount())
		for _, name := range doc.Components().SchemaNames() {
			Writef(os.Stderr, "  - %s\n", name)
		}
	}

	if flags.Output == "" {
		fmt.Print(string(data))
		return nil
	}
	if err := os.WriteFile(flags.Output, data, outputFileMode); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	if !flags.Quiet {
		Writef(os.Stderr, "\nOutput written to: %s\n", flags.Output)
	}
	return nil
}

// marshalDocument marshals a document to bytes in the specified format
func marshalDocument(doc *spec.Spec, format string) ([]byte, error) {
	if format == FormatYAML {
		data, err := doc.MarshalYAML()
		if err != nil {
			return nil, fmt.Errorf("marshaling to %s: %w", format, err)
		}
		return data, nil
	}
	data, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshaling to %s: %w", format, err)
	}
	return append(data, '\n'), nil
}
