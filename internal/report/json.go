package report

import (
	"encoding/json"
	"fmt"

	"github.com/modernapi/modernapi/internal/models"
)

// JSON renders the machine-readable audit report.
func JSON(r *models.ProjectReport) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding report: %w", err)
	}
	return data, nil
}
