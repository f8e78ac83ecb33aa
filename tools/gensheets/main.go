// Command gensheets generates a baseline and a target workbook with a known
// number of deleted, added and modified rows, for trying sheetdiff on larger
// inputs.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const (
	// Default values
	defaultRows    = 10000
	defaultOutDir  = "test_data"
	defaultSeed    = 42
	sheetName      = "Data"
	firstNames     = "John,Jane,Bob,Mary,Alice,David,Emma,Michael,Olivia,James,Sophia,William,Ava,Benjamin,Mia,Daniel"
	lastNames      = "Smith,Johnson,Williams,Jones,Brown,Davis,Miller,Wilson,Moore,Taylor,Anderson,Thomas"
	domains        = "gmail.com,yahoo.com,outlook.com,example.com,company.com"
	statusValues   = "active,inactive,pending,suspended"
	stateValues    = "AL,AK,AZ,CA,CO,FL,GA,IL,NY,OH,TX,WA"
	defaultSource  = "baseline.xlsx"
	defaultTarget  = "target.xlsx"
	defaultDiffs   = 0.1
	defaultDeletes = 0.02
	defaultAdds    = 0.02
	defaultNulls   = 0.05
)

var baseColumns = []string{"id", "ref", "name", "email", "status", "score"}

// Config for the data generator
type Config struct {
	rowCount      int
	outputDir     string
	sourceFile    string
	targetFile    string
	randomSeed    int64
	diffRate      float64
	deleteRate    float64
	addRate       float64
	nullRate      float64
	targetNewCols bool
}

// Stats counts the differences written into the target.
type Stats struct {
	Deleted  int
	Added    int
	Modified int
}

func main() {
	config := parseFlags()

	stats, err := generate(config)
	if err != nil {
		log.Fatalf("Failed to generate workbooks: %v", err)
	}

	log.Printf("Successfully generated test files:")
	log.Printf("  - Source: %s", filepath.Join(config.outputDir, config.sourceFile))
	log.Printf("  - Target: %s", filepath.Join(config.outputDir, config.targetFile))
	log.Printf("  - Expected: %d deleted, %d added, %d modified rows (key: id)", stats.Deleted, stats.Added, stats.Modified)
}

// parseFlags parses command-line arguments and returns a Config
func parseFlags() Config {
	rowCount := flag.Int("rows", defaultRows, "Number of rows in the baseline")
	outputDir := flag.String("outdir", defaultOutDir, "Output directory for generated files")
	sourceFile := flag.String("source", defaultSource, "Filename for the baseline workbook")
	targetFile := flag.String("target", defaultTarget, "Filename for the target workbook")
	seed := flag.Int64("seed", defaultSeed, "Random seed for data generation")
	diffRate := flag.Float64("diffs", defaultDiffs, "Share of kept rows with a changed cell (0.0-1.0)")
	deleteRate := flag.Float64("deletes", defaultDeletes, "Share of baseline rows missing from the target (0.0-1.0)")
	addRate := flag.Float64("adds", defaultAdds, "New target rows, as a share of the baseline row count")
	nullRate := flag.Float64("nulls", defaultNulls, "Share of empty email cells (0.0-1.0)")
	targetNewCols := flag.Bool("target-new-cols", false, "Whether the target has an additional region column")

	flag.Parse()

	return Config{
		rowCount:      *rowCount,
		outputDir:     *outputDir,
		sourceFile:    *sourceFile,
		targetFile:    *targetFile,
		randomSeed:    *seed,
		diffRate:      *diffRate,
		deleteRate:    *deleteRate,
		addRate:       *addRate,
		nullRate:      *nullRate,
		targetNewCols: *targetNewCols,
	}
}

// generate writes both workbooks and returns the differences between them.
func generate(config Config) (Stats, error) {
	var stats Stats
	if config.rowCount <= 0 {
		return stats, fmt.Errorf("row count must be positive, got %d", config.rowCount)
	}

	// Create output directory if it doesn't exist
	if err := os.MkdirAll(config.outputDir, 0755); err != nil {
		return stats, fmt.Errorf("failed to create output directory: %w", err)
	}

	rnd := rand.New(rand.NewSource(config.randomSeed))

	source := make([][]any, 0, config.rowCount)
	for i := 1; i <= config.rowCount; i++ {
		row, err := randomRow(rnd, i, config.nullRate)
		if err != nil {
			return stats, err
		}
		source = append(source, row)
	}

	targetColumns := baseColumns
	if config.targetNewCols {
		targetColumns = append(append([]string{}, baseColumns...), "region")
	}

	target := make([][]any, 0, config.rowCount)
	for _, src := range source {
		if rnd.Float64() < config.deleteRate {
			stats.Deleted++
			continue
		}
		row := append([]any{}, src...)
		changed := false
		if rnd.Float64() < config.diffRate {
			mutate(rnd, row)
			changed = true
		}
		if config.targetNewCols {
			row = append(row, pick(rnd, stateValues))
			changed = true
		}
		if changed {
			stats.Modified++
		}
		target = append(target, row)
	}

	adds := int(float64(config.rowCount) * config.addRate)
	for i := 0; i < adds; i++ {
		row, err := randomRow(rnd, config.rowCount+i+1, config.nullRate)
		if err != nil {
			return stats, err
		}
		if config.targetNewCols {
			row = append(row, pick(rnd, stateValues))
		}
		target = append(target, row)
		stats.Added++
	}

	sourcePath := filepath.Join(config.outputDir, config.sourceFile)
	if err := writeWorkbook(sourcePath, baseColumns, source); err != nil {
		return stats, fmt.Errorf("failed to write source file: %w", err)
	}
	targetPath := filepath.Join(config.outputDir, config.targetFile)
	if err := writeWorkbook(targetPath, targetColumns, target); err != nil {
		return stats, fmt.Errorf("failed to write target file: %w", err)
	}
	return stats, nil
}

// randomRow builds one row matching baseColumns.
func randomRow(rnd *rand.Rand, id int, nullRate float64) ([]any, error) {
	ref, err := uuid.NewRandomFromReader(rnd)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ref: %w", err)
	}
	first, last := pick(rnd, firstNames), pick(rnd, lastNames)

	var email any
	if rnd.Float64() >= nullRate {
		email = fmt.Sprintf("%s.%s%d@%s", strings.ToLower(first), strings.ToLower(last), id, pick(rnd, domains))
	}
	return []any{id, ref.String(), first + " " + last, email, pick(rnd, statusValues), rnd.Intn(1000)}, nil
}

// mutate changes the status or the score of row to a different value.
func mutate(rnd *rand.Rand, row []any) {
	if rnd.Intn(2) == 0 {
		statuses := strings.Split(statusValues, ",")
		current := row[4].(string)
		for i, s := range statuses {
			if s == current {
				row[4] = statuses[(i+1+rnd.Intn(len(statuses)-1))%len(statuses)]
				return
			}
		}
	}
	row[5] = row[5].(int) + 1 + rnd.Intn(100)
}

func pick(rnd *rand.Rand, csv string) string {
	values := strings.Split(csv, ",")
	return values[rnd.Intn(len(values))]
}

// writeWorkbook writes the header and rows to the first sheet of a new workbook.
func writeWorkbook(path string, header []string, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &headerRow); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
