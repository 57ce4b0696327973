package schemas

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/a11y-checker/internal/types"
	rootschemas "github.com/jonathan/a11y-checker/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
  "type": "object",
  "required": ["name"],
  "properties": {
    "name": {"type": "string"},
    "count": {"type": "integer"}
  }
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidateJSON_ValidJSON(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.json", testSchema)
	jsonPath := writeFile(t, dir, "doc.json", `{"name": "report", "count": 3}`)

	assert.NoError(t, ValidateJSON(schemaPath, jsonPath))
}

func TestValidateJSON_MissingField(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.json", testSchema)
	jsonPath := writeFile(t, dir, "doc.json", `{"count": 3}`)

	err := ValidateJSON(schemaPath, jsonPath)
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr), "error should be ValidationError type")
	assert.NotEmpty(t, validationErr.Errors)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidateJSON_WrongType(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.json", testSchema)
	jsonPath := writeFile(t, dir, "doc.json", `{"name": "x", "count": "three"}`)

	err := ValidateJSON(schemaPath, jsonPath)
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "count", validationErr.Errors[0].Field)
}

func TestValidateJSON_NonExistentFiles(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.json", testSchema)

	err := ValidateJSON(filepath.Join(dir, "missing.json"), schemaPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	err = ValidateJSON(schemaPath, filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSONString_MalformedSchema(t *testing.T) {
	err := ValidateJSONString(`{ invalid`, `{}`)
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestValidateReport(t *testing.T) {
	report := types.NewReport()
	report.ComplianceScore = 90
	report.Issues["skipped_headings"] = &types.IssueGroup{
		Title: "Skipped heading levels",
		Line:  2,
		Details: []types.IssueDetail{
			{SuggestedFix: "fix", FaultedSnippet: "<h3>B</h3>", SampleSnippet: "<h2>B</h2>"},
		},
	}

	assert.NoError(t, ValidateReport(report))
}

func TestValidateReport_RejectsOutOfRangeScore(t *testing.T) {
	report := types.NewReport()
	report.ComplianceScore = -5

	err := ValidateReport(report)
	require.Error(t, err)

	var validationErr *ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestValidateReport_RejectsEmptyGroup(t *testing.T) {
	report := types.NewReport()
	report.Issues["missing_alt"] = &types.IssueGroup{Title: "Missing alt", Details: []types.IssueDetail{}}

	assert.Error(t, ValidateReport(report))
}

func TestResolveSchemaPath(t *testing.T) {
	// internal/schemas -> ../../schemas/report.schema.json
	path := ResolveSchemaPath(filepath.Join("schemas", "report.schema.json"))
	require.NotEmpty(t, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, rootschemas.Report, string(data))

	assert.Empty(t, ResolveSchemaPath("schemas/does-not-exist.json"))
}
