// Package repository encodes the read, write and delete rules of each
// entity family on top of the database transaction coordinator.
package repository
