// Package database stores imported clippings in SQLite through gorm.
//
// Books are keyed by title and author and highlights by the clipping id
// computed during parsing, which makes re-importing a clippings file
// idempotent:
//
//	db, err := database.NewDatabase("./clippings.db")
//	created, err := db.SaveBook(&book)
//
// Every import run is recorded as an ImportSession with its counters.
package database
