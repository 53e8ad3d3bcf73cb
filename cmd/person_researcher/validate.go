package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/jonathan/person-researcher/internal/schemas"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a JSON file against a JSON Schema",
	Long: `Validate a JSON file against a JSON Schema.

--schema is either a path to a schema file or the name of a built-in schema
(career, fun_facts, profile_summary, dossier).`,
	RunE: runValidate,
}

var (
	schemaPath string
	jsonPath   string
)

func init() {
	validateCmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "Schema file path or built-in schema name (required)")
	validateCmd.Flags().StringVarP(&jsonPath, "json", "j", "", "Path to JSON file (required)")

	if err := validateCmd.MarkFlagRequired("schema"); err != nil {
		panic(fmt.Sprintf("failed to mark schema flag as required: %v", err))
	}
	if err := validateCmd.MarkFlagRequired("json"); err != nil {
		panic(fmt.Sprintf("failed to mark json flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	var err error
	if slices.Contains(schemas.Names(), schemaPath) {
		var content []byte
		content, err = os.ReadFile(jsonPath)
		if err != nil {
			return fmt.Errorf("JSON file not found: %s", jsonPath)
		}
		err = schemas.ValidateEmbedded(schemaPath, string(content))
	} else {
		err = schemas.ValidateJSON(schemaPath, jsonPath)
	}

	out := cmd.OutOrStdout()
	if err != nil {
		if validationErr, ok := err.(*schemas.ValidationError); ok {
			fmt.Fprintln(out, "Validation failed:")
			for _, fieldErr := range validationErr.Errors {
				fmt.Fprintf(out, "  %s: %s\n", fieldErr.Field, fieldErr.Message)
			}
			return fmt.Errorf("validation failed")
		}
		return err
	}

	fmt.Fprintln(out, "Validation passed")
	return nil
}
