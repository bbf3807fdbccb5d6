package contracts

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/ndestates/google-stats-sub001/internal/core/domain"
)

// DefaultCampaignRulesSchemaPath is where the rules schema ships relative
// to the working directory.
const DefaultCampaignRulesSchemaPath = "./schemas/campaign-rules/v1.json"

// ValidateCampaignRules checks a rules document against the JSON schema.
func ValidateCampaignRules(schemaPath string, body []byte) error {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	schema, err := compiler.Compile(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to compile schema %s: %w", schemaPath, err)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("campaign rules file is not valid JSON: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}

	return nil
}

// LoadCampaignRules reads, validates and decodes a campaign rules file.
// An empty rulesPath returns the built-in rule set.
func LoadCampaignRules(schemaPath, rulesPath string) (domain.CampaignRules, error) {
	if rulesPath == "" {
		return domain.DefaultCampaignRules(), nil
	}

	body, err := os.ReadFile(rulesPath)
	if err != nil {
		return domain.CampaignRules{}, fmt.Errorf("failed to read campaign rules %s: %w", rulesPath, err)
	}

	if err := ValidateCampaignRules(schemaPath, body); err != nil {
		return domain.CampaignRules{}, err
	}

	var rules domain.CampaignRules
	if err := json.Unmarshal(body, &rules); err != nil {
		return domain.CampaignRules{}, fmt.Errorf("failed to decode campaign rules %s: %w", rulesPath, err)
	}
	if rules.DefaultLabel == "" {
		rules.DefaultLabel = domain.DefaultCampaign
	}

	return rules, nil
}
