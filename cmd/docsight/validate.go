package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	internalschemas "github.com/jonathan/docsight/internal/schemas"
	"github.com/jonathan/docsight/schemas"
)

var (
	validateSchema string
	validateInput  string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a JSON file against a schema",
	Long: fmt.Sprintf(`Validate a JSON file against one of the bundled schemas (%v)
or against a schema file on disk.`, schemas.Names()),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateSchema, "schema", "s", "", "Bundled schema name or path to a JSON Schema file")
	validateCmd.Flags().StringVarP(&validateInput, "input", "i", "", "Path to the JSON file to validate")
	_ = validateCmd.MarkFlagRequired("schema")
	_ = validateCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	var err error
	if slices.Contains(schemas.Names(), validateSchema) {
		err = internalschemas.ValidateFile(validateSchema, validateInput)
	} else {
		if _, statErr := os.Stat(validateSchema); statErr != nil {
			return fmt.Errorf("unknown schema %q: not a bundled schema %v and not a readable file", validateSchema, schemas.Names())
		}
		err = internalschemas.ValidateJSON(validateSchema, validateInput)
	}

	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Validation failed:\n%v\n", err)
		return fmt.Errorf("validation failed")
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Validation passed")
	return nil
}
