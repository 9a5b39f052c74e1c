package storage

import "codeberg.org/mutker/ryzenctl/internal/errors"

const (
	ErrInvalidDBPath          = errors.ErrorCode("storage_invalid_db_path")
	ErrSchemaInitFailed       = errors.ErrorCode("storage_schema_init_failed")
	ErrSchemaValidationFailed = errors.ErrorCode("storage_schema_validation_failed")
	ErrSchemaMigrationFailed  = errors.ErrorCode("storage_schema_migration_failed")
	ErrTransactionFailed      = errors.ErrorCode("storage_transaction_failed")

	ErrStorageInit  = errors.ErrInitFailed
	ErrStorageClose = errors.ErrShutdownFailed
)
