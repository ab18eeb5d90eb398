package constants

import "strings"

// Export formats understood by the export service.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatICS  = "ics"
	FormatXLSX = "xlsx"
)

// FileTypes holds the allowed export formats, in the order they are offered on the CLI.
var FileTypes = []string{FormatCSV, FormatJSON, FormatICS, FormatXLSX}

// AllowedExtensions holds the file extensions picked up when scanning for rosters.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
	"txt": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsExportFormat reports whether f (any case) is a supported export format.
func IsExportFormat(f string) bool {
	f = NormalizeExt(f)
	for _, t := range FileTypes {
		if t == f {
			return true
		}
	}
	return false
}

// IsAllowedExt reports whether ext (with or without dot) can be ingested.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}
