package commands

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/erraggy/oasrecord/record"
)

// NameFlags contains flags for the name command
type NameFlags struct {
	Exclude string
	Only    string
	Naming  string
	Format  string
}

// NameResult is the structured output of the name command.
type NameResult struct {
	Name     string   `json:"name" yaml:"name"`
	Identity string   `json:"identity" yaml:"identity"`
	Excluded []string `json:"excluded,omitempty" yaml:"excluded,omitempty"`
	Fields   []string `json:"fields" yaml:"fields"`
}

// SetupNameFlags creates and configures a FlagSet for the name command.
func SetupNameFlags() (*flag.FlagSet, *NameFlags) {
	fs := flag.NewFlagSet("name", flag.ContinueOnError)
	flags := &NameFlags{}

	fs.StringVar(&flags.Exclude, "exclude", "", "comma-separated fields to leave out")
	fs.StringVar(&flags.Only, "only", "", "comma-separated fields to keep; every other field is excluded")
	fs.StringVar(&flags.Naming, "naming", "default", "schema naming strategy: default, pascal or snake")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		output := fs.Output()
		Writef(output, "Usage: oasrecord name [flags] <definition|-> <record>\n\n")
		Writef(output, "Print the schema name a record subset resolves to.\n\n")
		Writef(output, "Flags:\n")
		fs.PrintDefaults()
		Writef(output, "\nExamples:\n")
		Writef(output, "  oasrecord name -exclude password petstore.yaml Pet\n")
		Writef(output, "  oasrecord name -only id,name -format json petstore.yaml Pet\n")
	}

	return fs, flags
}

// HandleName executes the name command
func HandleName(args []string) error {
	fs, flags := SetupNameFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 2 {
		fs.Usage()
		return fmt.Errorf("name command requires a definition file path and a record name")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}
	strategy, err := record.ParseNamingStrategy(flags.Naming)
	if err != nil {
		return err
	}

	def, err := LoadDefinition(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("loading definition: %w", err)
	}
	c, ok := def.Class(fs.Arg(1))
	if !ok {
		return fmt.Errorf("record %q not found", fs.Arg(1))
	}

	var opts []record.UseOption
	if flags.Exclude != "" {
		opts = append(opts, record.Exclude(splitList(flags.Exclude)...))
	}
	if flags.Only != "" {
		opts = append(opts, record.Only(splitList(flags.Only)...))
	}

	registry := record.NewRegistry()
	resolved, err := registry.Resolve(record.Use(c, opts...))
	if err != nil {
		return err
	}
	identity, err := registry.Identity(resolved)
	if err != nil {
		return err
	}

	result := NameResult{
		Name:     record.SchemaName(resolved, record.WithNamingStrategy(strategy)),
		Identity: identity,
		Excluded: resolved.Excluded(),
	}
	for _, f := range resolved.VisibleFields() {
		result.Fields = append(result.Fields, f.Name)
	}

	if flags.Format != FormatText {
		return OutputStructured(result, flags.Format)
	}
	fmt.Println(result.Name)
	return nil
}

// splitList splits a comma-separated flag value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
