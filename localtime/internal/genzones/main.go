// Command genzones writes the zone catalogue used by package localtime.
//
// It reads a tzdata.zi file (the compact zic input shipped with tzdata) and
// collects every zone ("Z") and link ("L") name, which is the same set a
// zoneinfo directory exposes.
package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"go/format"
	"log"
	"os"
	"sort"
	"strings"
)

func main() {
	in := flag.String("in", "/usr/share/zoneinfo/tzdata.zi", "Path to tzdata.zi")
	out := flag.String("out", "zones_gen.go", "Output Go file")
	flag.Parse()

	f, err := os.Open(*in)
	if err != nil {
		log.Fatalf("failed to open %s: %v", *in, err)
	}
	defer f.Close()

	version := "unknown"
	seen := make(map[string]bool)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "# version ") {
			version = strings.TrimPrefix(line, "# version ")
			continue
		}
		fields := strings.Fields(line)
		switch {
		case len(fields) >= 2 && fields[0] == "Z":
			seen[fields[1]] = true
		case len(fields) >= 3 && fields[0] == "L":
			seen[fields[2]] = true
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("failed to read %s: %v", *in, err)
	}
	// Not a location, only a placeholder used by distributions.
	delete(seen, "Factory")

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Code generated by genzones from tzdata %s; DO NOT EDIT.\n\n", version)
	buf.WriteString("package localtime\n\nvar zoneNames = []string{\n")
	for _, name := range names {
		fmt.Fprintf(&buf, "\t%q,\n", name)
	}
	buf.WriteString("}\n")

	src, err := format.Source(buf.Bytes())
	if err != nil {
		log.Fatalf("failed to format output: %v", err)
	}
	if err := os.WriteFile(*out, src, 0644); err != nil {
		log.Fatalf("failed to write %s: %v", *out, err)
	}
	log.Printf("Wrote %d zone names (tzdata %s) to %s", len(names), version, *out)
}
