package table

// BulkInsertMsg performs a bulk insertion of items into a table
type BulkInsertMsg[T any] []T
