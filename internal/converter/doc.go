// Package converter rewrites a text file through an ordered chain of regex handlers.
//
// # Definitions
//
// A converter definition is one file in the converters directory, named after the converter:
//
//	converters/csv.json
//	converters/sqlite.yaml
//
// JSON and YAML share the same keys:
//
//	{
//	  "inputFile": "output/changelog.sql",
//	  "outputFile": "output/games.csv",
//	  "handlers": [
//	    {"name": "games", "filter": "INSERT INTO game ", "pattern": "...VALUES \\((\\d+), '(.*)', .*\\);", "substitution": "$1;$2"}
//	  ]
//	}
//
// Definitions are read from disk on every call, so edits apply to the next conversion.
// A missing directory is created empty.
//
// # Handler semantics
//
// Each handler re-reads the original input from the start:
//   - filter is a search: lines where it matches nowhere are skipped
//   - pattern must match the whole line
//   - substitution is expanded with the pattern's groups ($1, ${1}, ${name}; \$ or $$ for a literal $);
//     "$12" means group 12 only when the pattern has that many groups, otherwise group 1 followed by "2"
//   - a substitution naming a group the pattern lacks is a configuration error
//   - lines that are skipped or do not match are dropped
//
// Outputs of all handlers are concatenated in order, each followed by a blank line.
// A handler without a pattern or without a substitution is skipped and contributes nothing.
package converter
