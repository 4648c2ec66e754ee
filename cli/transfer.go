package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/darfe-e/greenFarmacy/domain"
)

func init() {
	// import supports a JSON array, NDJSON, or a YAML list
	var importFile string
	importCmd := &cobra.Command{
		Use:   "import --file <file>",
		Short: "Import catalog products from JSON, NDJSON or YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			if importFile == "" {
				return errors.New("--file required")
			}

			b, err := os.ReadFile(importFile)
			if err != nil {
				return err
			}
			recs, err := decodeProducts(importFile, b)
			if err != nil {
				return err
			}

			start := time.Now()
			n, err := importProducts(recs)
			if err != nil {
				return err
			}
			logMutation("products imported", start, "count", n, "file", importFile)
			fmt.Printf("imported %d products\n", n)
			return nil
		},
	}
	importCmd.Flags().StringVar(&importFile, "file", "", "input file")
	rootCmd.AddCommand(importCmd)

	// export
	var exportFile string
	exportCmd := &cobra.Command{
		Use:   "export --file <file>",
		Short: "Export the catalog to JSON, or YAML for .yaml/.yml files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if exportFile == "" {
				return errors.New("--file required")
			}
			list := manager.Products()
			recs := make([]domain.ProductRecord, 0, len(list))
			for _, p := range list {
				recs = append(recs, p.Record())
			}
			var b []byte
			var err error
			if isYAMLPath(exportFile) {
				b, err = yaml.Marshal(recs)
			} else {
				b, err = json.MarshalIndent(recs, "", "  ")
			}
			if err != nil {
				return err
			}
			return os.WriteFile(exportFile, b, 0o644)
		},
	}
	exportCmd.Flags().StringVar(&exportFile, "file", "", "output file")
	rootCmd.AddCommand(exportCmd)
}

func isYAMLPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func decodeProducts(path string, b []byte) ([]domain.ProductRecord, error) {
	btrim := bytes.TrimSpace(b)
	if len(btrim) == 0 {
		return nil, errors.New("empty file")
	}

	var recs []domain.ProductRecord
	if isYAMLPath(path) {
		if err := yaml.Unmarshal(btrim, &recs); err != nil {
			return nil, err
		}
		return recs, nil
	}

	// JSON array
	if btrim[0] == '[' {
		if err := json.Unmarshal(btrim, &recs); err != nil {
			return nil, err
		}
		return recs, nil
	}

	// NDJSON or single JSON object
	scanner := bufio.NewScanner(bytes.NewReader(btrim))
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec domain.ProductRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}

// importProducts registers the whole file in one step, so a file may
// reference products that appear later in it and a bad record leaves the
// catalog untouched.
func importProducts(recs []domain.ProductRecord) (int, error) {
	products := make([]*domain.MedicalProduct, 0, len(recs))
	for _, rec := range recs {
		p, err := domain.ProductFromRecord(rec)
		if err != nil {
			return 0, fmt.Errorf("product %s: %w", rec.ID, err)
		}
		products = append(products, p)
	}
	if err := manager.RegisterProducts(products); err != nil {
		return 0, err
	}
	return len(products), nil
}
