package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/genera-dev/generakit/genera"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return usageError()
	}
	switch args[1] {
	case "tour":
		return tourCommand(args[2:])
	case "check":
		return checkCommand(args[2:])
	case "describe":
		return describeCommand(args[2:])
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return usageError()
	}
}

func tourCommand(args []string) error {
	if len(args) != 0 {
		return errors.New("genera tour: takes no arguments")
	}
	return runTour()
}

func checkCommand(args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	verbose := fs.Bool("v", false, "print the loaded definitions after a successful check")
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("genera check: manifest path required")
	}

	reg, m, err := loadManifestFile(remaining[0])
	if err != nil {
		return err
	}
	for _, w := range reg.Warnings() {
		fmt.Println("warning:", w)
	}
	fmt.Printf("ok: %d classes, %d generics\n", len(m.Classes), len(m.Generics))
	if *verbose {
		out, err := yaml.Marshal(reg.Manifest())
		if err != nil {
			return fmt.Errorf("render registry: %w", err)
		}
		os.Stdout.Write(out)
	}
	return nil
}

func describeCommand(args []string) error {
	fs := flag.NewFlagSet("describe", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	manifestPath := fs.String("manifest", "", "manifest to load before describing")
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("genera describe: class name required")
	}

	reg := genera.NewRegistry()
	if *manifestPath != "" {
		loaded, _, err := loadManifestFile(*manifestPath)
		if err != nil {
			return err
		}
		reg = loaded
	}
	desc, err := reg.DescribeClass(remaining[0])
	if err != nil {
		return err
	}
	fmt.Print(renderDescription(desc))
	return nil
}

// loadManifestFile parses the file and applies it to a fresh registry.
func loadManifestFile(path string) (*genera.Registry, *genera.Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	m, err := genera.LoadManifest(f)
	if err != nil {
		return nil, nil, err
	}
	reg := genera.NewRegistry()
	if err := reg.Apply(m); err != nil {
		return nil, nil, err
	}
	return reg, m, nil
}

func renderDescription(desc genera.ClassDescription) string {
	var b strings.Builder
	fmt.Fprintf(&b, "class %s", desc.Name)
	if desc.Parent != "" {
		fmt.Fprintf(&b, " (parent %s)", desc.Parent)
	}
	if desc.Virtual {
		b.WriteString(" [virtual]")
	}
	b.WriteString("\n")
	if len(desc.Own) > 0 {
		b.WriteString("  own slots:\n")
		for _, slot := range desc.Own {
			fmt.Fprintf(&b, "    %s: %s\n", slot.Name, slot.Type)
		}
	}
	b.WriteString("  effective schema:\n")
	if len(desc.Effective) == 0 {
		b.WriteString("    (no slots)\n")
	}
	for _, slot := range desc.Effective {
		fmt.Fprintf(&b, "    %s: %s\n", slot.Name, slot.Type)
	}
	if desc.ValidityFrom != "" {
		fmt.Fprintf(&b, "  validity: from %s\n", desc.ValidityFrom)
	}
	return b.String()
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [flags]\n", prog)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  tour")
	fmt.Fprintln(os.Stderr, "    interactive walkthrough of the object model")
	fmt.Fprintln(os.Stderr, "  check [-v] <manifest.yaml>")
	fmt.Fprintln(os.Stderr, "    load a manifest into a scratch registry and report problems")
	fmt.Fprintln(os.Stderr, "  describe [-manifest <file>] <class>")
	fmt.Fprintln(os.Stderr, "    print a class's schema and validity origin")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}
