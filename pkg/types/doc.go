// Package types defines the entity descriptors, entity records, tag variant,
// and standard errors for the booklib storage layer.
//
// Every persisted entity (Book, Author, Authorship, Category, Series) carries a
// Model describing its table: name, ordered column type hints, primary key and
// an optional UNIQUE tuple. The sqlite package turns those descriptors into
// DDL and statements; nothing here talks to a database.
package types
