// Package database owns the single database connection and the transaction
// discipline built on it: connection management, statement execution,
// transaction coordination, error classification, SQL scripts, and the
// statement hooks and logging used around them. It is built on Bun.
package database
