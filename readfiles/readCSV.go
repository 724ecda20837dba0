package readfiles

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/condreg/types"
	"gonum.org/v1/gonum/mat"
)

// ReadCSVMatrix reads a numeric table, one observation per record. Blank
// lines and lines starting with # are skipped, and a leading record that
// does not parse as numbers is taken as a header.
func ReadCSVMatrix(r io.Reader) (X *mat.Dense, err error) {
	var (
		reader = csv.NewReader(bufio.NewReader(r))
		rec    []string
		data   []float64
		row    []float64
		nr, nc int
		header bool
		pErr   *csv.ParseError
	)
	reader.Comment = '#'
	reader.TrimLeadingSpace = true
	// Width is fixed by the first numeric record, not the header
	reader.FieldsPerRecord = -1
	for {
		if rec, err = reader.Read(); err == io.EOF {
			err = nil
			break
		}
		if err != nil {
			if errors.As(err, &pErr) {
				return nil, fmt.Errorf("%v: %w", err, types.ErrInvalidInput)
			}
			return
		}
		if row, err = parseRow(rec); err != nil {
			if nr == 0 && !header {
				header = true
				err = nil
				continue
			}
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: %v: %w", line, err, types.ErrInvalidInput)
		}
		if nr == 0 {
			nc = len(row)
			reader.FieldsPerRecord = nc
		}
		data = append(data, row...)
		nr++
	}
	if nr == 0 {
		return nil, fmt.Errorf("no numeric rows: %w", types.ErrInvalidInput)
	}
	X = mat.NewDense(nr, nc, data)
	return
}

func ReadCSVMatrixFile(filename string) (X *mat.Dense, err error) {
	var (
		file *os.File
	)
	if file, err = os.Open(filename); err != nil {
		return nil, fmt.Errorf("unable to open file %s: %w", filename, err)
	}
	defer file.Close()
	if X, err = ReadCSVMatrix(file); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return
}

// ReadSpectrum reads a list of eigenvalues separated by commas or white
// space, with # comments.
func ReadSpectrum(r io.Reader) (L []float64, err error) {
	var (
		reader = bufio.NewScanner(r)
		fields []string
	)
	for reader.Scan() {
		line := reader.Text()
		if ind := strings.Index(line, "#"); ind >= 0 {
			line = line[:ind]
		}
		fields = append(fields, strings.FieldsFunc(line, func(c rune) bool {
			return c == ',' || c == ' ' || c == '\t'
		})...)
	}
	if err = reader.Err(); err != nil {
		return
	}
	if L, err = parseRow(fields); err != nil {
		return nil, fmt.Errorf("spectrum: %v: %w", err, types.ErrInvalidInput)
	}
	if len(L) == 0 {
		return nil, fmt.Errorf("empty spectrum: %w", types.ErrInvalidInput)
	}
	return
}

func parseRow(fields []string) (row []float64, err error) {
	row = make([]float64, len(fields))
	for i, f := range fields {
		if row[i], err = strconv.ParseFloat(strings.TrimSpace(f), 64); err != nil {
			return nil, err
		}
	}
	return
}
