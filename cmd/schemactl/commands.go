package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"docschema/internal/config"
	"docschema/internal/domain"
	"docschema/internal/report"
	"docschema/internal/schema"
	"docschema/internal/service"
)

var (
	errSchemaInvalid      = errors.New("schema is invalid")
	errBreakingChanges    = errors.New("schema change is breaking")
	errExtractionRejected = errors.New("extraction failed validation")
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "schemactl",
		Short:         "Validate, compare and score document extraction schemas",
		SilenceUsage: true,
	}
	assess := service.NewAssessmentService(nil)
	root.AddCommand(
		newValidateCmd(assess),
		newCompareCmd(assess),
		newAssessCmd(assess),
		newCheckCmd(assess),
		newJSONSchemaCmd(),
		newImportXLSXCmd(),
		newTokenCmd(),
	)
	return root
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newValidateCmd(assess service.AssessmentService) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate <schema-file>",
		Short: "Check a schema file for structural problems",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := schema.ReadFile(args[0])
			if err != nil {
				return err
			}
			res := assess.ValidateSchema(raw, strict)
			if err := writeJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if !res.IsValid {
				return errSchemaInvalid
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "enable strict checks")
	return cmd
}

func newCompareCmd(assess service.AssessmentService) *cobra.Command {
	var allowBreaking bool
	cmd := &cobra.Command{
		Use:   "compare <new-schema> <old-schema>",
		Short: "Diff two versions of a schema",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			newDef, err := schema.LoadFile(args[0])
			if err != nil {
				return err
			}
			oldDef, err := schema.LoadFile(args[1])
			if err != nil {
				return err
			}
			res := assess.CompareSchemas(newDef, oldDef)
			if err := writeJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if res.Metadata.BreakingChanges > 0 && !allowBreaking {
				return fmt.Errorf("%w: %d breaking change(s)", errBreakingChanges, res.Metadata.BreakingChanges)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&allowBreaking, "allow-breaking", false, "exit zero even when the change is breaking")
	return cmd
}

type aiFlags struct {
	modelType            string
	modelConfidence      float64
	generationConfidence float64
}

func (f *aiFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.modelType, "model-type", "", "model that produced the result (e.g. claude-sonnet, gpt-4o)")
	cmd.Flags().Float64Var(&f.modelConfidence, "model-confidence", -1, "overall model confidence in [0,1]")
	cmd.Flags().Float64Var(&f.generationConfidence, "generation-confidence", -1, "mean per-field generation confidence in [0,1]")
}

func (f *aiFlags) metadata() *domain.AIMetadata {
	if f.modelType == "" && f.modelConfidence < 0 && f.generationConfidence < 0 {
		return nil
	}
	meta := &domain.AIMetadata{ModelType: f.modelType}
	if f.modelConfidence >= 0 {
		c := f.modelConfidence
		meta.ModelConfidence = &c
	}
	if f.generationConfidence >= 0 {
		g := f.generationConfidence
		meta.GenerationConfidence = &g
	}
	return meta
}

func newAssessCmd(assess service.AssessmentService) *cobra.Command {
	var ai aiFlags
	cmd := &cobra.Command{
		Use:   "assess <schema-file> <result-file>",
		Short: "Score an extraction result against a schema",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := schema.LoadFile(args[0])
			if err != nil {
				return err
			}
			result, err := schema.LoadResultFile(args[1])
			if err != nil {
				return err
			}
			out := assess.AssessDocument(&service.AssessDocumentInput{
				Result:     result,
				Schema:     *def,
				AIMetadata: ai.metadata(),
			})
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	ai.register(cmd)
	return cmd
}

func newCheckCmd(assess service.AssessmentService) *cobra.Command {
	return &cobra.Command{
		Use:   "check <schema-file> <result-file>",
		Short: "Check an extraction result against the hard contract of a schema",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := schema.LoadFile(args[0])
			if err != nil {
				return err
			}
			result, err := schema.LoadResultFile(args[1])
			if err != nil {
				return err
			}
			check := assess.ValidateExtraction(result, def)
			if err := writeJSON(cmd.OutOrStdout(), check); err != nil {
				return err
			}
			if !check.Passed {
				return errExtractionRejected
			}
			return nil
		},
	}
}

func newJSONSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "jsonschema <schema-file>",
		Short: "Export a schema as a JSON Schema document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := schema.LoadFile(args[0])
			if err != nil {
				return err
			}
			doc, err := schema.JSONSchemaDocument(def)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(doc))
			return err
		},
	}
}

func newImportXLSXCmd() *cobra.Command {
	var (
		opts   report.ImportOptions
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "import-xlsx <workbook>",
		Short: "Build a schema from a spreadsheet with one row per field",
		Long: "Reads a workbook whose header row names the columns name, type, required, display_name, " +
			"description, examples, pattern, min, max and enum. Only name is mandatory.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.ID == "" {
				return errors.New("--id is required")
			}
			if opts.Name == "" {
				opts.Name = opts.ID
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			def, err := report.ImportSchema(f, opts)
			if err != nil {
				return err
			}

			var data []byte
			switch strings.ToLower(format) {
			case "yaml", "yml":
				data, err = schema.EncodeYAML(def)
			case "json":
				data, err = json.MarshalIndent(def, "", "  ")
				data = append(data, '\n')
			default:
				return fmt.Errorf("unknown format %q (want yaml or json)", format)
			}
			if err != nil {
				return err
			}

			if out == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return os.WriteFile(out, data, 0o644)
		},
	}
	cmd.Flags().StringVar(&opts.ID, "id", "", "schema id")
	cmd.Flags().StringVar(&opts.Name, "name", "", "schema name (defaults to the id)")
	cmd.Flags().StringVar(&opts.Category, "category", "", "schema category")
	cmd.Flags().StringVar(&opts.Version, "version", "1.0.0", "schema version")
	cmd.Flags().StringVar(&opts.Sheet, "sheet", "", "sheet to read (defaults to the first)")
	cmd.Flags().StringVar(&format, "format", "yaml", "output format: yaml or json")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to file instead of stdout")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		subject string
		role    string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an API access token using the server's DOCSCHEMA_JWT_* settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			tok, err := service.NewAuthService(cfg.JWT).IssueToken(subject, domain.UserRole(role))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), tok)
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "caller identity recorded on schemas and extractions")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleMember), "admin or member")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
