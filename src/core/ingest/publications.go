// Package ingest turns a publication list into corpus chunks. It loads
// the source CSV, fetches and parses the PMC article pages, and splits
// section text into token-bounded chunks ready for embedding.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"skynet/src/log"
)

// Publication is one row of the source publication list.
type Publication struct {
	PMCID string
	Title string
	URL   string
}

var pmcidPattern = regexp.MustCompile(`PMC\d+`)

// LoadPublications reads the publication CSV at path. See ReadPublications.
func LoadPublications(path string) ([]Publication, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open publications csv: %w", err)
	}
	defer f.Close()

	pubs, err := ReadPublications(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return pubs, nil
}

// ReadPublications parses publication rows from CSV data. Column headers
// are matched case-insensitively (Title/Link or title/link), the PMC id
// is extracted from the link, and rows without one are skipped.
func ReadPublications(r io.Reader) ([]Publication, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	titleCol, linkCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "title":
			titleCol = i
		case "link":
			linkCol = i
		}
	}
	if linkCol < 0 {
		return nil, fmt.Errorf("csv has no link column")
	}

	var pubs []Publication
	row := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}
		row++
		if linkCol >= len(record) {
			continue
		}

		pub := Publication{URL: strings.TrimSpace(record[linkCol])}
		if titleCol >= 0 && titleCol < len(record) {
			pub.Title = strings.TrimSpace(record[titleCol])
		}
		if pub.Title == "" {
			pub.Title = "Unknown Title"
		}

		pub.PMCID = pmcidPattern.FindString(pub.URL)
		if pub.PMCID == "" {
			log.Debug("skipping publication row without PMC id", "row", row, "link", pub.URL)
			continue
		}
		pubs = append(pubs, pub)
	}
	return pubs, nil
}
