package main

import (
	"fmt"

	"github.com/jonathan/internradar/internal/schemas"
	schemafiles "github.com/jonathan/internradar/schemas"
	"github.com/spf13/cobra"
)

var (
	validateSchema string
	validateFile   string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a JSON file against a schema",
	Long: `Check a profile, listings or recommendations file before using it.
--schema takes an embedded schema name (profile, listings, recommendations)
or a path to a JSON Schema file.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateSchema, "schema", "s", "", "Schema name or path (required)")
	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "", "Path to JSON file (required)")
	for _, name := range []string{"schema", "file"} {
		if err := validateCmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}
	rootCmd.AddCommand(validateCmd)
}

// embeddedSchema maps a short name like "listings" to its embedded schema.
func embeddedSchema(name string) (schemas.Name, bool) {
	for _, file := range schemafiles.Files() {
		if file == name || file == name+".schema.json" {
			return schemas.Name(file), true
		}
	}
	return "", false
}

func runValidate(cmd *cobra.Command, _ []string) error {
	var err error
	if name, ok := embeddedSchema(validateSchema); ok {
		err = schemas.ValidateFile(name, validateFile)
	} else {
		err = schemas.ValidateJSON(validateSchema, validateFile)
	}
	if err != nil {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Validation failed: %v\n", err)
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Validation passed")
	return nil
}
