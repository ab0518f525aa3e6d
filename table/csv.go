package table

import (
	"bufio"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// delimiterCandidates are the delimiters LoadCSV auto-detects among.
var delimiterCandidates = []rune{',', ';', '\t'}

// LoadCSVOptions configures LoadCSV.
type LoadCSVOptions struct {
	// HasHeader, when true, treats the first row as column names instead
	// of data.
	HasHeader bool
}

// LoadCSV reads a CSV document from r, auto-detecting its delimiter among
// ',', ';', '\t' and trimming whitespace from every cell. The discovery
// core itself never parses anything; this loader exists so the module is
// usable end to end, not because the core depends on any particular format.
func LoadCSV(r io.Reader, opts LoadCSVOptions) (*Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "table: reading csv")
	}
	delim := detectDelimiter(raw)

	reader := csv.NewReader(bufio.NewReader(strings.NewReader(string(raw))))
	reader.Comma = delim
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "table: parsing csv")
	}
	if len(records) == 0 {
		return New(nil, nil)
	}

	var names []string
	dataStart := 0
	if opts.HasHeader {
		names = trimAll(records[0])
		dataStart = 1
	} else {
		names = make([]string, len(records[0]))
		for i := range names {
			names[i] = columnDefaultName(i)
		}
	}

	rows := make([][]string, 0, len(records)-dataStart)
	for _, rec := range records[dataStart:] {
		rows = append(rows, trimAll(rec))
	}
	return New(names, rows)
}

func trimAll(rec []string) []string {
	out := make([]string, len(rec))
	for i, v := range rec {
		out[i] = strings.TrimSpace(v)
	}
	return out
}

func columnDefaultName(i int) string {
	return "col" + strconv.Itoa(i)
}

// detectDelimiter picks whichever candidate delimiter appears most often in
// the document's first line, defaulting to comma when none occur.
func detectDelimiter(raw []byte) rune {
	firstLine := raw
	if idx := strings.IndexByte(string(raw), '\n'); idx >= 0 {
		firstLine = raw[:idx]
	}
	best := ','
	bestCount := -1
	for _, d := range delimiterCandidates {
		count := strings.Count(string(firstLine), string(d))
		if count > bestCount {
			bestCount = count
			best = d
		}
	}
	return best
}
