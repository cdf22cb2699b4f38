package psqlbuilder

import "github.com/Masterminds/squirrel"

// builder squirrel builder with PostgreSQL placeholders ($1, $2, ...)
var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Select starts a SELECT query
func Select(columns ...string) squirrel.SelectBuilder {
	return builder.Select(columns...)
}

// Insert starts an INSERT query
func Insert(table string) squirrel.InsertBuilder {
	return builder.Insert(table)
}

// Update starts an UPDATE query
func Update(table string) squirrel.UpdateBuilder {
	return builder.Update(table)
}

// Delete starts a DELETE query
func Delete(table string) squirrel.DeleteBuilder {
	return builder.Delete(table)
}
