// Command gentemplate writes the search-term import template.
// Usage: go run ./cmd/gentemplate [output.xlsx]
package main

import (
	"log"
	"os"

	"github.com/jonesrussell/north-cloud/negative-keywords/internal/importer"
)

func main() {
	out := importer.TemplateFilename
	if len(os.Args) > 1 {
		out = os.Args[1]
	}

	f, err := os.Create(out)
	if err != nil {
		log.Fatal(err)
	}

	if err = importer.WriteTemplate(f); err != nil {
		_ = f.Close()
		log.Fatal(err)
	}
	if err = f.Close(); err != nil {
		log.Fatal(err)
	}

	log.Printf("Template written to %s", out)
}
