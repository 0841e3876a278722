package inventory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/elC0mpa/cloud-doctor/model"
)

// LoadFile reads a JSON or YAML inventory document. The format is chosen
// by extension; anything other than .json is parsed as YAML.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory file: %w", err)
	}
	return Parse(data, strings.ToLower(filepath.Ext(path)) == ".json")
}

// Parse decodes an inventory document
func Parse(data []byte, isJSON bool) (*Document, error) {
	var doc Document
	var err error
	if isJSON {
		err = json.Unmarshal(data, &doc)
	} else {
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, &model.InventoryError{
			Kind:    model.ErrKindMalformedResponse,
			Message: "inventory document could not be parsed",
			Err:     err,
		}
	}
	return &doc, nil
}
