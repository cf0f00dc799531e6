package util

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// SeriesDocument is the structured form of a series file.
type SeriesDocument struct {
	Values []float64 `json:"values" yaml:"values"`
}

// ReadSeries reads the values of a series file. Files ending in .json,
// .yaml or .yml hold either a bare list of numbers or a document with a
// "values" list; any other file holds numbers separated by newlines,
// commas or whitespace, with '#' starting a comment.
func ReadSeries(path string) ([]float64, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return readStructuredSeries(path)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrapf(err, "problem opening series file '%s'", path)
		}
		defer f.Close()

		values, err := ParseSeries(f)
		return values, errors.Wrapf(err, "problem reading series file '%s'", path)
	}
}

func readStructuredSeries(path string) ([]float64, error) {
	values := []float64{}
	if err := ReadFileYAML(path, &values); err == nil {
		return values, nil
	}

	doc := SeriesDocument{}
	if err := ReadFileYAML(path, &doc); err != nil {
		return nil, errors.WithStack(err)
	}
	if doc.Values == nil {
		return nil, errors.Errorf("series file '%s' has no values", path)
	}

	return doc.Values, nil
}

// ParseSeries reads numbers from plain text.
func ParseSeries(r io.Reader) ([]float64, error) {
	values := []float64{}
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = line[:idx]
		}

		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == ';'
		})
		for _, field := range fields {
			value, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid value '%s' on line %d", field, lineNum)
			}
			values = append(values, value)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	return values, nil
}
