package batch

import (
	"bytes"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

func ParseBatchYAML(r io.Reader) (*Batch, error) {
	yamlBytes, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll: %w", err)
	}

	jsonBytes, err := yaml.YAMLToJSON(yamlBytes)
	if err != nil {
		return nil, fmt.Errorf("yaml.YAMLToJSON: %w", err)
	}

	return ParseBatchJSON(bytes.NewReader(jsonBytes))
}

func ParseBatchJSON(r io.Reader) (*Batch, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var def batchDef
	if err := decoder.Decode(&def); err != nil {
		return nil, fmt.Errorf("json.Decode: %w", err)
	}

	return def.compile()
}

func ParseBatchTOML(r io.Reader) (*Batch, error) {
	var def batchDef
	if _, err := toml.NewDecoder(r).Decode(&def); err != nil {
		return nil, fmt.Errorf("toml.Decode: %w", err)
	}

	return def.compile()
}
