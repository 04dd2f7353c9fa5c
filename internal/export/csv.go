package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"storefront/scraper/internal/domain"

	log "github.com/sirupsen/logrus"
)

// WriteCSV writes a header row taken from the first record followed by one
// row per record. The file is replaced in a single rename once fully written.
// When records is empty nothing is created or modified and false is returned.
func WriteCSV[T domain.Record](path string, records []T) (bool, error) {
	if len(records) == 0 {
		log.Warnf("⚠️ No records extracted, %s left untouched", path)
		return false, nil
	}

	header := records[0].Header()

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return false, fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	writer := csv.NewWriter(tmp)
	writer.UseCRLF = true

	if err := writer.Write(header); err != nil {
		tmp.Close()
		return false, fmt.Errorf("failed to write header: %w", err)
	}

	for i, record := range records {
		row := record.Row()
		if len(row) != len(header) {
			tmp.Close()
			return false, fmt.Errorf("record %d has %d fields, header has %d", i, len(row), len(header))
		}
		if err := writer.Write(row); err != nil {
			tmp.Close()
			return false, fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return false, fmt.Errorf("failed to flush csv: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return false, fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}

	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return false, fmt.Errorf("failed to set permissions on %s: %w", tmp.Name(), err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return false, fmt.Errorf("failed to move csv into place: %w", err)
	}

	log.Infof("💾 Wrote %d records to %s", len(records), path)
	return true, nil
}
