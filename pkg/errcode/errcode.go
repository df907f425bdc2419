// Package errcode enumerates error codes used across pagedb.
package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// Configuration errors
	ConfigLoadError
	ConfigGenerateError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBNotConnectedError
	DBTableCheckError
	DBTableExistsCheckError
	DBQueryTablesError
	DBScanTableError
	DBDropTableError

	// Schema errors
	SchemaGORMConnectionError
	SchemaCreateError
	SchemaMigrateError
	SchemaConstraintError

	// Page store errors
	PageSelectError
	PageInsertError
	PageUpsertError
	PageDeleteError
	PageMapError

	// Annotation store errors
	AnnotationInsertError
	AnnotationBulkInsertError
	AnnotationQueryError

	// Linker errors
	LinkScanError
	LinkUpdateError

	// Populate errors
	PopulateSourcesConfigError
	PopulateDatasetReadError
	PopulatePagesError
	PopulateAnnotationsError
	PopulateAllDatasetsFailedError
	PopulateUnlinkedError

	// Detector errors
	DetectorRequestError
	DetectorResponseError
	DetectorUnavailableError

	// Server errors
	ServerStartError
)
