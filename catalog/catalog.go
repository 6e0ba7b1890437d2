// Package catalog turns tool catalog spreadsheets into indexable documents.
//
// Every catalog shares one fixed column layout. Each row becomes a Document
// whose Text is a labelled paragraph of all tracked columns and whose
// Metadata is the display subset of those columns.
package catalog

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var ErrUnsupportedFormat = errors.New("unsupported catalog format")

// MissingColumnError reports a header that lacks one of the tracked columns.
type MissingColumnError struct {
	Path   string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("catalog %s: missing column %q", e.Path, e.Column)
}

// Catalog binds a source file to the collection it is indexed into.
type Catalog struct {
	Collection  string `yaml:"collection" json:"collection"`
	File        string `yaml:"file" json:"file"`
	Description string `yaml:"description" json:"description"`
}

// DefaultCatalogs lists the agent categories shipped with the tool catalogs.
func DefaultCatalogs() []Catalog {
	return []Catalog{
		{"ux_design_agents", "UX Design Agents.csv", "UI/UX Design Tools Database"},
		{"code_generation_agents", "Code Generation Agents.csv", "Code Generation Tools Database"},
		{"api_management_agents", "API Management Tools.csv", "API Management Tools Database"},
		{"data_visualization_agents", "Data Visualization Tools AI Agents.csv", "Data Visualization Tools Database"},
		{"project_management_agents", "Project Management Agents.csv", "Project Management Tools Database"},
	}
}

type column struct {
	header string
	label  string
	key    string // metadata key, empty when the column is text-only
}

var columns = []column{
	{"Tool Name", "Tool", "tool_name"},
	{"Category", "Category", "category"},
	{"Description", "Description", "description"},
	{"Input Type", "Input Type", "input_type"},
	{"Output Type", "Output Type", "output_type"},
	{"Primary Use Case", "Primary Use Case", "primary_use_case"},
	{"Pricing Model", "Pricing Model", "pricing_model"},
	{"Integration Options", "Integration Options", "integration_options"},
	{"API Availability", "API Availability", ""},
	{"Documentation Link", "Documentation", ""},
	{"Limitations", "Limitations", "limitations"},
	{"Setup Complexity", "Setup Complexity", "setup_complexity"},
	{"Automation Features", "Automation Features", "automation_features"},
	{"Output Compatibility", "Output Compatibility", "output_compatibility"},
	{"Data Security Level", "Data Security Level", "data_security"},
	{"Performance Metrics", "Performance Metrics", "performance_metrics"},
	{"Market Trends", "Market Trends", "market_trends"},
	{"Real-world Examples", "Real-world Examples", "real_world_examples"},
	{"Learning Resources", "Learning Resources", "learning_resources"},
	{"Supported Platforms", "Supported Platforms", "supported_platforms"},
	{"User Rating", "User Rating", "user_rating"},
	{"Review Count", "Review Count", "review_count"},
	{"Image Link", "Image Link", "img_link"},
	{"Starter Price (per month in dollars)", "Starter Price", "starter_price"},
	{"Professional Price (per month in dollars)", "Pro Price", "pro_price"},
	{"Organization Price (per month in dollars)", "Org Price", "org_price"},
	{"Enterprise Price (per month in dollars)", "Enterprise Price", "enterprise_price"},
	{"Implementation difficulty level", "Implementation Level", "impl_level"},
}

// Columns returns the tracked header names in template order.
func Columns() []string {
	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = c.header
	}

	return headers
}

// MetadataKeys returns the fixed set of keys every Document.Metadata carries.
func MetadataKeys() []string {
	keys := make([]string, 0, len(columns))
	for _, c := range columns {
		if c.key != "" {
			keys = append(keys, c.key)
		}
	}

	return keys
}

// ToolRecord is one catalog row keyed by column header.
type ToolRecord map[string]string

func (r ToolRecord) Get(header string) string {
	return r[header]
}

type Document struct {
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata"`
}

func (r ToolRecord) Document() Document {
	var sb strings.Builder
	metadata := make(map[string]string, len(columns))

	for _, c := range columns {
		value := r.Get(c.header)

		sb.WriteString(c.label)
		sb.WriteString(": ")
		sb.WriteString(value)
		sb.WriteString("\n")

		if c.key != "" {
			metadata[c.key] = value
		}
	}

	return Document{
		Text:     strings.TrimSpace(sb.String()),
		Metadata: metadata,
	}
}

// BuildDocuments reads the catalog at path and returns one Document per row,
// in file order. The format is chosen by extension: .csv or .xlsx.
func BuildDocuments(path string) ([]Document, error) {
	records, err := ReadRecords(path)
	if err != nil {
		return nil, err
	}

	docs := make([]Document, len(records))
	for i, record := range records {
		docs[i] = record.Document()
	}

	return docs, nil
}

func ReadRecords(path string) ([]ToolRecord, error) {
	var (
		rows [][]string
		err  error
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		rows, err = readCSV(path)

	case ".xlsx":
		rows, err = readXLSX(path)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	if err != nil {
		return nil, err
	}

	return toRecords(path, rows)
}

func toRecords(path string, rows [][]string) ([]ToolRecord, error) {
	if len(rows) == 0 {
		return []ToolRecord{}, nil
	}

	index := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		index[strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))] = i
	}

	for _, c := range columns {
		if _, ok := index[c.header]; !ok {
			return nil, &MissingColumnError{Path: path, Column: c.header}
		}
	}

	records := make([]ToolRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		// excelize reports rows with no cells at all between data rows
		if len(row) == 0 {
			continue
		}

		record := make(ToolRecord, len(columns))
		for _, c := range columns {
			i := index[c.header]
			if i < len(row) {
				record[c.header] = strings.TrimSpace(row[i])
			} else {
				record[c.header] = ""
			}
		}

		records = append(records, record)
	}

	return records, nil
}
