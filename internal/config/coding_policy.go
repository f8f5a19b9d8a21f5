package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	defaultCodingPolicyEvaluatorID = "4613f248-b60e-403a-bcdc-157d1c44194a"
	defaultCodingPolicyRequest     = "Is the response written according to the coding policy?"
)

// CodingPolicy configures the fixed evaluator behind the
// run_coding_policy_adherence tool.
type CodingPolicy struct {
	EvaluatorID      string `yaml:"evaluator_id"`
	EvaluatorRequest string `yaml:"evaluator_request"`
}

// LoadCodingPolicy reads the coding policy configuration from YAML. A missing
// file is not an error: the built-in defaults apply.
func LoadCodingPolicy() (*CodingPolicy, error) {
	path := os.Getenv("CODING_POLICY_CONFIG_PATH")
	if path == "" {
		path = "configs/coding_policy.yaml"
	}

	var cfg CodingPolicy

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *CodingPolicy) {
	if cfg.EvaluatorID == "" {
		cfg.EvaluatorID = defaultCodingPolicyEvaluatorID
	}
	if cfg.EvaluatorRequest == "" {
		cfg.EvaluatorRequest = defaultCodingPolicyRequest
	}
}

func (c *CodingPolicy) Validate() error {
	if c.EvaluatorID == "" {
		return fmt.Errorf("coding policy evaluator_id cannot be empty")
	}
	return nil
}
