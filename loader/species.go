package loader

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/ecosim/components"
)

// ParseSpecies reads the line-based species format:
//
//	plant P 4 10
//	herbivore H [P, G] 20
//	omnivore O [P,H] 30
//
// Plants take a regrowth threshold then an energy yield; animals take their
// max energy. Diet tokens are any tokens containing '[', ']' or ','. Blank
// lines and lines starting with "//" are skipped.
func ParseSpecies(r io.Reader) (SpeciesTable, error) {
	table := make(SpeciesTable)
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		tr, err := parseSpeciesLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if err := table.add(tr); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading species: %w", err)
	}
	return table, nil
}

func parseSpeciesLine(line string) (components.Traits, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return components.Traits{}, fmt.Errorf("%q: too few fields: %w", line, ErrMalformed)
	}
	kind, ok := components.ParseKind(fields[0])
	if !ok {
		return components.Traits{}, fmt.Errorf("%q: unknown kind %q: %w", line, fields[0], ErrMalformed)
	}
	id, ok := singleRune(fields[1])
	if !ok {
		return components.Traits{}, fmt.Errorf("%q: species id %q must be one character: %w", line, fields[1], ErrMalformed)
	}
	tr := components.Traits{ID: id, Kind: kind}

	var ints []int
	for _, tok := range fields[2:] {
		if strings.ContainsAny(tok, "[],") {
			tok = strings.NewReplacer("[", "", "]", "").Replace(tok)
			for _, part := range strings.Split(tok, ",") {
				if part == "" {
					continue
				}
				r, ok := singleRune(part)
				if !ok {
					return components.Traits{}, fmt.Errorf("%q: diet id %q must be one character: %w", line, part, ErrMalformed)
				}
				tr.Diet = append(tr.Diet, r)
			}
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			return components.Traits{}, fmt.Errorf("%q: bad number %q: %w", line, tok, ErrMalformed)
		}
		ints = append(ints, n)
	}

	switch {
	case kind == components.KindPlant && len(ints) >= 2:
		tr.RegrowthThreshold, tr.MaxEnergy = ints[0], ints[1]
	case kind.IsAnimal() && len(ints) >= 1:
		tr.MaxEnergy = ints[len(ints)-1]
	default:
		return components.Traits{}, fmt.Errorf("%q: missing numbers for %s: %w", line, kind, ErrMalformed)
	}
	return tr, nil
}

// singleRune returns the only rune of s.
func singleRune(s string) (rune, bool) {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || n != len(s) {
		return 0, false
	}
	return r, true
}

// speciesRecord is one species in YAML or CSV form.
type speciesRecord struct {
	ID       string   `yaml:"id" csv:"id"`
	Kind     string   `yaml:"kind" csv:"kind"`
	Diet     []string `yaml:"diet" csv:"-"`
	DietCSV  string   `yaml:"-" csv:"diet"` // space separated ids
	Regrowth int      `yaml:"regrowth" csv:"regrowth"`
	Energy   int      `yaml:"energy" csv:"energy"`
}

func (rec speciesRecord) traits() (components.Traits, error) {
	kind, ok := components.ParseKind(rec.Kind)
	if !ok {
		return components.Traits{}, fmt.Errorf("species %q: unknown kind %q: %w", rec.ID, rec.Kind, ErrMalformed)
	}
	id, ok := singleRune(rec.ID)
	if !ok {
		return components.Traits{}, fmt.Errorf("species id %q must be one character: %w", rec.ID, ErrMalformed)
	}

	dietTokens := rec.Diet
	if rec.DietCSV != "" {
		dietTokens = strings.Fields(rec.DietCSV)
	}
	tr := components.Traits{ID: id, Kind: kind, MaxEnergy: rec.Energy}
	if kind == components.KindPlant {
		tr.RegrowthThreshold = rec.Regrowth
	}
	for _, tok := range dietTokens {
		r, ok := singleRune(strings.TrimSpace(tok))
		if !ok {
			return components.Traits{}, fmt.Errorf("species %q: diet id %q must be one character: %w", rec.ID, tok, ErrMalformed)
		}
		tr.Diet = append(tr.Diet, r)
	}
	return tr, nil
}

func tableFromRecords(records []speciesRecord) (SpeciesTable, error) {
	table := make(SpeciesTable, len(records))
	for _, rec := range records {
		tr, err := rec.traits()
		if err != nil {
			return nil, err
		}
		if err := table.add(tr); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// ParseSpeciesYAML reads a species table from a YAML document with a
// top-level "species" list.
func ParseSpeciesYAML(r io.Reader) (SpeciesTable, error) {
	var doc struct {
		Species []speciesRecord `yaml:"species"`
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing species yaml: %w", err)
	}
	return tableFromRecords(doc.Species)
}

// ParseSpeciesCSV reads a species table from CSV with the header
// id,kind,diet,regrowth,energy.
func ParseSpeciesCSV(r io.Reader) (SpeciesTable, error) {
	var records []speciesRecord
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, fmt.Errorf("parsing species csv: %w", err)
	}
	return tableFromRecords(records)
}

// WriteSpecies writes a table in the line-based text format, sorted by id.
func WriteSpecies(w io.Writer, table SpeciesTable) error {
	for _, id := range table.IDs() {
		tr := table[id]
		var line string
		if tr.Kind == components.KindPlant {
			line = fmt.Sprintf("%s %c %d %d\n", tr.Kind, tr.ID, tr.RegrowthThreshold, tr.MaxEnergy)
		} else {
			line = fmt.Sprintf("%s %c %s %d\n", tr.Kind, tr.ID, tr.Diet, tr.MaxEnergy)
		}
		if _, err := io.WriteString(w, line); err != nil {
			return fmt.Errorf("writing species: %w", err)
		}
	}
	return nil
}
