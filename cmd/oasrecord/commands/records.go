package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/erraggy/oasrecord/record"
)

// RecordsFlags contains flags for the records command
type RecordsFlags struct {
	Format string
	Name   string
}

// FieldInfo is the structured form of a record field.
type FieldInfo struct {
	Name     string `json:"name" yaml:"name"`
	Kind     string `json:"kind" yaml:"kind"`
	Format   string `json:"format,omitempty" yaml:"format,omitempty"`
	Required bool   `json:"required" yaml:"required"`
	Nullable bool   `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	Many     bool   `json:"many,omitempty" yaml:"many,omitempty"`
	Record   string `json:"record,omitempty" yaml:"record,omitempty"`
}

// RecordInfo is the structured form of a declared record.
type RecordInfo struct {
	Name    string      `json:"name" yaml:"name"`
	Fields  []FieldInfo `json:"fields" yaml:"fields"`
	Exclude []string    `json:"exclude,omitempty" yaml:"exclude,omitempty"`
	Only    []string    `json:"only,omitempty" yaml:"only,omitempty"`
}

// SetupRecordsFlags creates and configures a FlagSet for the records command.
func SetupRecordsFlags() (*flag.FlagSet, *RecordsFlags) {
	fs := flag.NewFlagSet("records", flag.ContinueOnError)
	flags := &RecordsFlags{}

	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.StringVar(&flags.Name, "name", "", "only list the record with this name")

	fs.Usage = func() {
		output := fs.Output()
		Writef(output, "Usage: oasrecord records [flags] <definition|->\n\n")
		Writef(output, "List the records declared by a definition.\n\n")
		Writef(output, "Flags:\n")
		fs.PrintDefaults()
		Writef(output, "\nExamples:\n")
		Writef(output, "  oasrecord records petstore.yaml\n")
		Writef(output, "  oasrecord records -name Pet -format json petstore.yaml\n")
	}

	return fs, flags
}

// HandleRecords executes the records command
func HandleRecords(args []string) error {
	fs, flags := SetupRecordsFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("records command requires exactly one definition file path or '-' for stdin")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	def, err := LoadDefinition(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("loading definition: %w", err)
	}

	names := def.RecordNames()
	if flags.Name != "" {
		if _, ok := def.Class(flags.Name); !ok {
			return fmt.Errorf("record %q not found", flags.Name)
		}
		names = []string{flags.Name}
	}

	infos := make([]RecordInfo, 0, len(names))
	for _, name := range names {
		c, _ := def.Class(name)
		infos = append(infos, describeRecord(name, c))
	}

	if flags.Format != FormatText {
		return OutputStructured(infos, flags.Format)
	}

	for _, info := range infos {
		Writef(os.Stdout, "%s\n", info.Name)
		if len(info.Exclude) > 0 {
			Writef(os.Stdout, "  exclude: %s\n", strings.Join(info.Exclude, ", "))
		}
		if len(info.Only) > 0 {
			Writef(os.Stdout, "  only: %s\n", strings.Join(info.Only, ", "))
		}
		for _, f := range info.Fields {
			kind := f.Kind
			if f.Record != "" {
				kind = f.Record
			}
			if f.Many {
				kind = "[]" + kind
			}
			marker := ""
			if f.Required {
				marker = " (required)"
			}
			Writef(os.Stdout, "  %-20s %s%s\n", f.Name, kind, marker)
		}
	}
	return nil
}

func describeRecord(name string, c *record.Class) RecordInfo {
	info := RecordInfo{
		Name:    name,
		Fields:  make([]FieldInfo, 0, len(c.Fields())),
		Exclude: c.Options().Exclude,
		Only:    c.Options().Only,
	}
	for _, f := range c.Fields() {
		fi := FieldInfo{
			Name:     f.Name,
			Kind:     string(f.Kind),
			Format:   f.Format,
			Required: f.IsRequired(),
			Nullable: f.Optional,
			Many:     f.IsMultiple(),
		}
		if f.Kind == record.KindRecord {
			fi.Record = nestedName(f.Record)
		}
		info.Fields = append(info.Fields, fi)
	}
	return info
}

// nestedName names the class behind a nested record description.
func nestedName(v any) string {
	switch r := v.(type) {
	case *record.Class:
		return r.Name()
	case record.Instance:
		return nestedName(r.Target())
	}
	return fmt.Sprintf("%v", v)
}
