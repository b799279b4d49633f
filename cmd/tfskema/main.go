package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	json "github.com/goccy/go-json"
	yaml "gopkg.in/yaml.v3"

	tfskema "github.com/tfskema/tfskema"
	"github.com/tfskema/tfskema/i18n"
	"github.com/tfskema/tfskema/jsonschema"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "compile":
		compileCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "tfskema CLI\n\nUsage:\n  tfskema compile [-format json|yaml] [-o out] variables.tf\n\nNotes:\n  - Compiles Terraform variable declarations into a JSON Schema document.\n  - Recoverable problems are reported on stderr; the schema is still written.")
}

func compileCmd(args []string) {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	var format string
	var out string
	var lang string
	fs.StringVar(&format, "format", "json", "output format: json or yaml")
	fs.StringVar(&out, "o", "", "output filename (default: input with .json/.yaml extension, - for stdout)")
	fs.StringVar(&lang, "lang", "", "message language for reported problems (en, ja)")
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}
	if lang != "" {
		i18n.SetLanguage(lang)
	}

	input := fs.Arg(0)
	src, err := os.ReadFile(input)
	if err != nil {
		fatalf("reading input: %v", err)
	}

	doc, iss := tfskema.CompileDocument(string(src))
	for _, is := range iss {
		if is.Variable != "" {
			fmt.Fprintf(os.Stderr, "%s: %s: %s\n", input, is.Variable, is.Message)
		} else {
			fmt.Fprintf(os.Stderr, "%s: %s\n", input, is.Message)
		}
	}
	if doc.Properties.Len() == 0 && len(iss) > 0 {
		fatalf("no variable compiled from %s", input)
	}

	var data []byte
	switch format {
	case "json":
		data, err = jsonschema.MarshalIndent(doc)
		if err == nil {
			data = append(data, '\n')
		}
	case "yaml":
		data, err = marshalYAML(doc)
	default:
		fatalf("unknown format %q", format)
	}
	if err != nil {
		fatalf("encoding schema: %v", err)
	}

	if out == "" {
		out = deriveOutput(input, format)
	}
	if out == "-" {
		if _, err := os.Stdout.Write(data); err != nil {
			fatalf("writing output: %v", err)
		}
		return
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		fatalf("writing output: %v", err)
	}
}

// marshalYAML round-trips the document through JSON so that YAML output
// carries exactly the fields the JSON encoding would. Property order is
// not preserved; yaml.v3 sorts plain mappings.
func marshalYAML(doc *jsonschema.Schema) ([]byte, error) {
	raw, err := jsonschema.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var tree any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, err
	}
	return yaml.Marshal(tree)
}

func deriveOutput(input, format string) string {
	base := strings.TrimSuffix(input, ".tf")
	if format == "yaml" {
		return base + ".yaml"
	}
	return base + ".json"
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
