package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/obeidat/learnpath/internal/catalog"
)

var importDataDir string

var importCmd = &cobra.Command{
	Use:   "import <courses.csv>",
	Short: "Seed the course catalog from a CSV export",
	Long: `Import reads a CSV file with a header row and inserts each record into
the course catalog. Recognized columns: title, url, rating, num_reviews,
num_published_lectures, created, last_update_date, duration, instructors_id,
image. The title and url columns are required; everything else is optional.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(args[0])
	},
}

func init() {
	importCmd.Flags().StringVar(&importDataDir, "data-dir", defaultDataDir(), "catalog data directory")
}

func defaultDataDir() string {
	if v := os.Getenv("LEARNPATH_DATA_DIR"); v != "" {
		return v
	}
	return "data"
}

func runImport(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening CSV: %w", err)
	}
	defer f.Close()

	printStep("Reading %s", path)
	courses, skipped, err := readCourseCSV(f)
	if err != nil {
		return err
	}
	if skipped > 0 {
		printWarning("skipped %d rows without a title or url", skipped)
	}
	if len(courses) == 0 {
		printError("no importable rows found")
		return fmt.Errorf("no importable rows in %s", path)
	}

	store, err := catalog.Open(importDataDir)
	if err != nil {
		return fmt.Errorf("opening catalog: %w", err)
	}
	defer store.Close()

	inserted, err := store.InsertCourses(context.Background(), courses)
	if err != nil {
		return fmt.Errorf("inserting courses: %w", err)
	}

	total, _ := store.CountCourses(context.Background())
	printSuccess("Imported %d courses", inserted)
	printStatus("Catalog total", "%d courses", total)
	printStatus("Data dir", "%s", importDataDir)
	return nil
}

// readCourseCSV maps columns by header name so exports with extra or
// reordered columns still import cleanly.
func readCourseCSV(r io.Reader) ([]catalog.Course, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("reading CSV header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := col["title"]; !ok {
		return nil, 0, fmt.Errorf("CSV is missing a title column")
	}
	if _, ok := col["url"]; !ok {
		return nil, 0, fmt.Errorf("CSV is missing a url column")
	}

	field := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	strPtr := func(s string) *string {
		if s == "" {
			return nil
		}
		return &s
	}

	var courses []catalog.Course
	skipped := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("reading CSV row: %w", err)
		}

		c := catalog.Course{
			Title: field(rec, "title"),
			URL:   field(rec, "url"),
		}
		if c.Title == "" || c.URL == "" {
			skipped++
			continue
		}
		if v := field(rec, "rating"); v != "" {
			if rating, err := strconv.ParseFloat(v, 64); err == nil {
				c.Rating = &rating
			}
		}
		if v := field(rec, "num_reviews"); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				c.NumReviews = &n
			}
		}
		if v := field(rec, "num_published_lectures"); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				c.NumPublishedLectures = &n
			}
		}
		c.Created = strPtr(field(rec, "created"))
		c.LastUpdateDate = strPtr(field(rec, "last_update_date"))
		c.Duration = strPtr(field(rec, "duration"))
		c.InstructorsID = strPtr(field(rec, "instructors_id"))
		c.Image = strPtr(field(rec, "image"))

		courses = append(courses, c)
	}
	return courses, skipped, nil
}
