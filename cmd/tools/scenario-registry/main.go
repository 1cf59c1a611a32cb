// cmd/tools/scenario-registry/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"knowledge-search/pkg/registry"
)

const defaultPath = "configs/scenarios.json"

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)

	exportPath := exportCmd.String("path", defaultPath, "Where to write the built-in scenarios")

	addPath := addCmd.String("path", defaultPath, "Path to registry file")
	query := addCmd.String("query", "", "Demo query (normalized: trimmed, lower case)")
	ids := addCmd.String("ids", "", "Comma-separated article ids returned for the query")
	template := addCmd.String("template", "", "Answer template (password, mobile, billing, security, market)")
	confidence := addCmd.Int("confidence", 0, "Fixed answer confidence, 0 for generated")
	ordering := addCmd.String("ordering", "", "Ordering rule key")

	updatePath := updateCmd.String("path", defaultPath, "Path to registry file")
	updateQuery := updateCmd.String("query", "", "Scenario query to update")
	field := updateCmd.String("field", "", "Field to update (ids, template, confidence, ordering)")
	value := updateCmd.String("value", "", "New value for the field")

	validatePath := validateCmd.String("path", defaultPath, "Path to registry file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		if err := saveRegistry(registry.Default(), *exportPath); err != nil {
			fmt.Printf("Error exporting scenarios: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote built-in scenarios to %s\n", *exportPath)

	case "add":
		addCmd.Parse(os.Args[2:])
		if *query == "" {
			fmt.Println("Error: query is required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		scenario := registry.Scenario{
			Query:          registry.Normalize(*query),
			ArticleIDs:     splitIDs(*ids),
			AnswerTemplate: *template,
			Confidence:     *confidence,
			OrderingKey:    *ordering,
		}
		if err := addScenario(*addPath, scenario); err != nil {
			fmt.Printf("Error adding scenario: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added scenario: %q\n", scenario.Query)

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *updateQuery == "" || *field == "" {
			fmt.Println("Error: query and field are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		if err := updateScenario(*updatePath, *updateQuery, *field, *value); err != nil {
			fmt.Printf("Error updating scenario: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated scenario %q, field %s to %q\n", *updateQuery, *field, *value)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		n, err := validateRegistry(*validatePath)
		if err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Registry validation passed. Found %d scenarios.\n", n)

	case "help":
		fallthrough
	default:
		help()
	}
}

func splitIDs(s string) []string {
	var out []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

func addScenario(path string, scenario registry.Scenario) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		// start from the built-in scenarios
		reg = registry.Default()
	}

	for _, existing := range reg.Scenarios {
		if existing.Query == scenario.Query {
			return fmt.Errorf("scenario %q already exists", scenario.Query)
		}
	}

	reg.Scenarios = append(reg.Scenarios, scenario)
	if err := reg.Validate(); err != nil {
		return err
	}
	return saveRegistry(reg, path)
}

func updateScenario(path, query, field, value string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	query = registry.Normalize(query)
	idx := -1
	for i := range reg.Scenarios {
		if reg.Scenarios[i].Query == query {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("scenario %q not found", query)
	}

	s := &reg.Scenarios[idx]
	switch field {
	case "ids":
		s.ArticleIDs = splitIDs(value)
	case "template":
		s.AnswerTemplate = value
	case "confidence":
		c, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid confidence value: %w", err)
		}
		s.Confidence = c
	case "ordering":
		s.OrderingKey = value
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	if err := reg.Validate(); err != nil {
		return err
	}
	return saveRegistry(reg, path)
}

func validateRegistry(path string) (int, error) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return 0, fmt.Errorf("failed to load registry: %w", err)
	}
	if len(reg.Scenarios) == 0 {
		return 0, fmt.Errorf("registry contains no scenarios")
	}
	return len(reg.Scenarios), nil
}

// saveRegistry stamps LastUpdated and writes the registry as indented JSON.
func saveRegistry(reg *registry.ScenarioRegistry, path string) error {
	reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

func help() {
	fmt.Println(`
Usage: scenario-registry <command> [flags]

Commands:
  export   Write the built-in demo scenarios to a file
  add      Add a scenario to the registry
  update   Update one field of an existing scenario
  validate Validate the registry file
  help     Show this help message

Examples:
  scenario-registry export -path configs/scenarios.json
  scenario-registry add -query "how do i close my account?" -ids 1,2,3 -confidence 88
  scenario-registry update -query "how do i close my account?" -field template -value billing
  scenario-registry validate -path configs/scenarios.json

Point scenarios.registry_path (or KS_SCENARIOS_REGISTRY_PATH) at the file
to use it in place of the built-in scenarios.`)
}
