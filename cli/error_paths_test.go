package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/darfe-e/greenFarmacy/domain"
	"github.com/darfe-e/greenFarmacy/ledger"
)

func resetStoreFlags() {
	rootCmd.PersistentFlags().Set("store", "memory")
	rootCmd.PersistentFlags().Set("store-file", "")
}

func TestPersistentPreRun_FileStoreMissingPath(t *testing.T) {
	defer resetCLI()
	defer resetStoreFlags()
	manager = nil
	if _, err := run(t, "--store", "file", "--store-file", "", "pharmacy", "list"); err == nil {
		t.Fatalf("expected error when file store path is empty, got nil")
	}
}

func TestUnknownStoreKind(t *testing.T) {
	defer resetCLI()
	defer resetStoreFlags()
	manager = nil
	if _, err := run(t, "--store", "unknown", "pharmacy", "list"); err == nil {
		t.Fatalf("expected error for unknown store kind, got nil")
	}
}

func TestPersistentPreRun_FileStoreRoundTrip(t *testing.T) {
	defer resetCLI()
	defer resetStoreFlags()
	path := filepath.Join(t.TempDir(), "ledger.yaml")

	manager = nil
	mustRun(t, "--store", "file", "--store-file", path, "pharmacy", "add", "PH-9", "--rent", "100")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected snapshot file to be written: %v", err)
	}

	// a fresh process: manager is rebuilt from the file
	manager = nil
	snapshotStore = nil
	out := mustRun(t, "--store", "file", "--store-file", path, "pharmacy", "list", "--output", "json")
	var list []domain.PharmacyInfo
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("invalid list output: %v", err)
	}
	if len(list) != 1 || list[0].ID != "PH-9" || list[0].Name != "Pharmacy PH-9" {
		t.Fatalf("unexpected pharmacies after reload: %+v", list)
	}
}

func TestPersistentPreRun_CorruptSnapshot(t *testing.T) {
	defer resetCLI()
	defer resetStoreFlags()
	path := filepath.Join(t.TempDir(), "ledger.json")
	// stock refers to a product that is not in the catalog
	snap := `{"pharmacies":[{"id":"PH-1","name":"A","rent_cost":"1","stock":[{"product_id":"GHOST","quantity":1}]}]}`
	if err := os.WriteFile(path, []byte(snap), 0o644); err != nil {
		t.Fatal(err)
	}
	manager = nil
	_, err := run(t, "--store", "file", "--store-file", path, "pharmacy", "list")
	if !domain.IsNotFoundError(err) {
		t.Fatalf("expected NotFoundError from restore, got %v", err)
	}
}

func TestImport_UnsupportedFormat(t *testing.T) {
	defer resetCLI()
	manager = ledger.NewManager()
	tmp := filepath.Join(t.TempDir(), "bad_import.json")
	_ = os.WriteFile(tmp, []byte("this is not json"), 0o644)

	if _, err := run(t, "import", "--file", tmp); err == nil {
		t.Fatalf("expected error for unsupported import format, got nil")
	}
}

func TestImport_NDJSON(t *testing.T) {
	defer resetCLI()
	manager = ledger.NewManager()
	tmp := filepath.Join(t.TempDir(), "ndjson_import.ndjson")
	content := `{"id":"n1","name":"N1","price":"1","analogues":["n2"]}` + "\n" +
		`{"id":"n2","name":"N2","price":2,"form":"syrup"}` + "\n"
	_ = os.WriteFile(tmp, []byte(content), 0o644)

	out := mustRun(t, "import", "--file", tmp)
	if !strings.Contains(out, "imported 2 products") {
		t.Fatalf("unexpected import output %q", out)
	}
	p, err := manager.Product("n1")
	if err != nil {
		t.Fatalf("n1 not imported: %v", err)
	}
	if !p.HasAnalogue("n2") {
		t.Fatalf("analogue link not imported")
	}
}

func TestExportImport_YAML(t *testing.T) {
	defer resetCLI()
	manager = ledger.NewManager()
	seedLedger(t)
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	mustRun(t, "export", "--file", path)

	manager = ledger.NewManager()
	mustRun(t, "import", "--file", path)
	p, err := manager.Product("ASPIRIN-100")
	if err != nil {
		t.Fatalf("product not re-imported: %v", err)
	}
	if p.Form != domain.FormTablet || p.Price.String() != "4.5" {
		t.Fatalf("unexpected product after YAML round trip: %+v", p)
	}

	if _, err := run(t, "import", "--file", path); !domain.IsDuplicateIDError(err) {
		t.Fatalf("expected DuplicateIDError on second import, got %v", err)
	}
}

func TestExport_NoFileFlag(t *testing.T) {
	defer resetCLI()
	manager = ledger.NewManager()
	if _, err := run(t, "export"); err == nil {
		t.Fatalf("expected error when export --file missing, got nil")
	}
}

func TestPharmacyAdd_Validation(t *testing.T) {
	defer resetCLI()
	manager = ledger.NewManager()
	if _, err := run(t, "pharmacy", "add", "PH-1"); err == nil {
		t.Fatal("expected error when --rent is missing")
	}
	if _, err := run(t, "pharmacy", "add", "PH-1", "--rent", "abc"); !domain.IsInvalidArgumentError(err) {
		t.Fatalf("expected InvalidArgumentError, got %v", err)
	}
	if _, err := run(t, "pharmacy", "add", "PH-1", "--rent", "-5"); !domain.IsInvalidArgumentError(err) {
		t.Fatalf("expected InvalidArgumentError, got %v", err)
	}
}

func TestImport_FailureLeavesCatalogUnchanged(t *testing.T) {
	tests := []struct {
		name    string
		content string
		check   func(error) bool
	}{
		{
			"duplicate inside file",
			`[{"id":"A","name":"A"},{"id":"B","name":"B"},{"id":"A","name":"A again"}]`,
			domain.IsDuplicateIDError,
		},
		{
			"duplicate of existing entry",
			`[{"id":"A","name":"A"},{"id":"BASE","name":"Base"}]`,
			domain.IsDuplicateIDError,
		},
		{
			"unknown analogue",
			`[{"id":"C","name":"C","analogues":["ZZZ"]}]`,
			domain.IsNotFoundError,
		},
		{
			"invalid record",
			`[{"id":"D","name":"D"},{"id":"E","name":""}]`,
			domain.IsInvalidArgumentError,
		},
		{
			"expired product",
			`[{"id":"F","name":"F"},{"id":"G","name":"G","expiration_date":"2020-01-01"}]`,
			domain.IsInvalidArgumentError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer resetCLI()
			manager = ledger.NewManager()
			if err := manager.RegisterProduct(&domain.MedicalProduct{ID: "BASE", Name: "Base"}); err != nil {
				t.Fatalf("seed: %v", err)
			}
			tmp := filepath.Join(t.TempDir(), "import.json")
			_ = os.WriteFile(tmp, []byte(tt.content), 0o644)

			_, err := run(t, "import", "--file", tmp)
			if !tt.check(err) {
				t.Fatalf("unexpected error: %v", err)
			}
			products := manager.Products()
			if len(products) != 1 || products[0].ID != "BASE" {
				t.Fatalf("catalog changed after failed import: %+v", products)
			}
		})
	}
}
