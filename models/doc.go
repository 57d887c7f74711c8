// Package models holds the row types of the gym database: people and their
// worker and supplier roles, equipment, supply relationships and report rows.
package models
