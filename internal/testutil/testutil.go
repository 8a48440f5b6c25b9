// Package testutil provides shared test helpers for setting up libraries and databases.
package testutil

import (
	"os"
	"testing"

	"github.com/starford/gedreader/internal/index"
	"github.com/starford/gedreader/internal/storage"
)

// SampleTree is a small well-formed lineage file: two individuals joined
// by one family, one source and a shared note that absorbs the trailer.
const SampleTree = "0 HEAD\n1 GEDC\n2 VERS 7.0\n" +
	"0 @I1@ INDI\n1 NAME John /Smith/\n1 FAMS @F1@\n" +
	"0 @I2@ INDI\n1 NAME Jane /Doe/\n1 FAMS @F1@\n" +
	"0 @F1@ FAM\n1 HUSB @I1@\n1 WIFE @I2@\n" +
	"0 @S1@ SOUR\n1 TITL Parish register\n" +
	"0 @N1@ SNOTE Shared note 1\n" +
	"0 TRLR"

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "gedreader-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestLibrary creates a temporary library directory with a storage.Provider.
func TestLibrary(t *testing.T) (string, storage.Provider) {
	t.Helper()
	libDir := t.TempDir()
	store, err := storage.NewFS(libDir)
	if err != nil {
		t.Fatal(err)
	}
	return libDir, store
}
