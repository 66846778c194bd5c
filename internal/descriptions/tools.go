package descriptions

import "sort"

// Tool descriptions with practical examples and use cases

const (
	SlipExtractFileDescription = `Extract the order fields from a single delivery slip PDF.

**When to use:** Need the order ID, order date, customer name, delivery address, products and total of one slip.

**Examples:**
• Check one slip: "Extract the order from 2024-06/slip-0012.pdf"
• Debug a layout: "Extract slip-0012.pdf with the fixed-block strategy"

**Output:** One row in report column order. Fields that could not be found are empty; the file name is always present. A status line says whether extraction completed or stopped early and why.

**Best practices:** Only the first page is read. Paths are resolved inside the configured directory.`

	SlipExtractDirectoryDescription = `Extract every delivery slip in a directory into one report table.

**When to use:** Need the whole batch as a table, or as CSV text ready to save as invoice_list_full.csv.

**Examples:**
• Monthly report: "Extract all slips in 2024-06/ as csv"
• Subset: "Extract slips matching amazon-*.pdf"
• Historical layout: "Extract 2019/ with the legacy layout"

**Output:** One row per PDF in path order, a summary of how many slips extracted cleanly, and per-column fill counts. Unreadable files still get a row with only the file name.

**Best practices:** Use slip_server_info first to see which directory is configured.`

	SlipValidateFileDescription = `Check that a delivery slip PDF is structurally sound before extracting it.

**When to use:** A slip comes back with every field empty and you want to know whether the file itself is broken.

**Output:** Valid or invalid, the page count, and the validation error category when invalid.`

	SlipServerInfoDescription = `Show the server configuration, the PDFs available in the configured directory and the tools on offer.

**When to use:** At the start of a session, to learn where slips are read from and which strategy and layout are configured.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"slip_extract_file":      SlipExtractFileDescription,
	"slip_extract_directory": SlipExtractDirectoryDescription,
	"slip_validate_file":     SlipValidateFileDescription,
	"slip_server_info":       SlipServerInfoDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns the names of all tools, sorted
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
