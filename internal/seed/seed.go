package seed

import (
	"encoding/json"
	"fmt"
	"os"

	_ "embed"

	"github.com/plugilode/corpintel/internal/entity"
)

//go:embed records.json
var embeddedRecords []byte

// Records returns the bundled seed catalogue used when the service runs
// without a database.
func Records() ([]entity.Record, error) {
	return decode(embeddedRecords)
}

// RecordsFromFile loads a seed catalogue from disk, overriding the bundle.
func RecordsFromFile(path string) ([]entity.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return decode(data)
}

func decode(data []byte) ([]entity.Record, error) {
	var records []entity.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode seed records: %w", err)
	}
	return records, nil
}
