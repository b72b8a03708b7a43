package index

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	qerrors "github.com/intersame/qurantagger/core/errors"
	"github.com/intersame/qurantagger/core/quran"
	"github.com/intersame/qurantagger/core/sqlite"
)

// snapshotVersion is bumped whenever the schema or the letterblock alphabet
// changes; older snapshots are rejected and must be rebuilt.
const snapshotVersion = "1"

const snapshotSchema = `
CREATE TABLE meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE words (
	pos   INTEGER PRIMARY KEY,
	sura  INTEGER NOT NULL,
	verse INTEGER NOT NULL,
	word  INTEGER NOT NULL,
	raw   TEXT NOT NULL
);
CREATE TABLE postings (
	a   TEXT NOT NULL,
	b   TEXT NOT NULL,
	pos INTEGER NOT NULL
);
CREATE INDEX postings_key ON postings (a, b);
`

// SaveSnapshot writes the index to a SQLite file for fast startup. The
// snapshot is implementation-defined and not a compatibility surface; it
// records the corpus checksum so that a snapshot whose word table does not
// match it is rejected at load.
func SaveSnapshot(path string, ix *Index) error {
	// Rebuild from scratch rather than upsert: snapshots are artifacts.
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return qerrors.Wrap(err, "remove stale snapshot")
	}

	db, err := sqlite.Open(path)
	if err != nil {
		return qerrors.Wrap(err, "open snapshot")
	}
	defer db.Close()

	if _, err := db.Exec(snapshotSchema); err != nil {
		return qerrors.Wrap(err, "create snapshot schema")
	}

	tx, err := db.Begin()
	if err != nil {
		return qerrors.Wrap(err, "begin snapshot transaction")
	}
	defer tx.Rollback()

	metaStmt, err := tx.Prepare(`INSERT INTO meta (key, value) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer metaStmt.Close()
	c := ix.Corpus()
	metaRows := [][2]string{
		{"version", snapshotVersion},
		{"checksum", c.Checksum()},
		{"words", fmt.Sprint(ix.Len())},
		{"bigrams", fmt.Sprint(ix.Bigrams())},
	}
	for _, kv := range metaRows {
		if _, err := metaStmt.Exec(kv[0], kv[1]); err != nil {
			return qerrors.Wrap(err, "write snapshot meta")
		}
	}

	wordStmt, err := tx.Prepare(`INSERT INTO words (pos, sura, verse, word, raw) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer wordStmt.Close()
	for pos := 0; pos < c.Len(); pos++ {
		w := c.Word(pos)
		if _, err := wordStmt.Exec(pos, w.Meta.Sura, w.Meta.Verse, w.Meta.Word, w.Raw); err != nil {
			return qerrors.Wrap(err, "write snapshot words")
		}
	}

	postStmt, err := tx.Prepare(`INSERT INTO postings (a, b, pos) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer postStmt.Close()
	var insertErr error
	ix.bigrams(func(key Bigram, positions []int32) {
		if insertErr != nil {
			return
		}
		for _, p := range positions {
			if _, err := postStmt.Exec(key.A, key.B, p); err != nil {
				insertErr = err
				return
			}
		}
	})
	if insertErr != nil {
		return qerrors.Wrap(insertErr, "write snapshot postings")
	}

	return tx.Commit()
}

// LoadSnapshot reads a snapshot written by SaveSnapshot and rebuilds the
// corpus and index from it. The recomputed corpus checksum must match the
// recorded one; a mismatch means the snapshot does not describe the corpus
// it claims to.
func LoadSnapshot(path string) (*Index, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, qerrors.NewNotFound("snapshot", path)
		}
		return nil, qerrors.Wrap(err, "stat snapshot")
	}

	db, err := sqlite.OpenReadOnly(path)
	if err != nil {
		return nil, qerrors.Wrap(err, "open snapshot")
	}
	defer db.Close()

	meta, err := readMeta(db)
	if err != nil {
		return nil, err
	}
	if meta["version"] != snapshotVersion {
		return nil, qerrors.NewUnsupported("snapshot version", fmt.Sprintf("got %q, want %q", meta["version"], snapshotVersion))
	}

	corpus, err := readCorpus(db, path)
	if err != nil {
		return nil, err
	}
	if corpus.Checksum() != meta["checksum"] {
		return nil, qerrors.NewCorpus(path, "snapshot checksum does not match its word table")
	}

	// The posting table is authoritative only as a cache; rebuilding from
	// the corpus is equivalent and verifies it in passing.
	ix := Build(corpus)
	if fmt.Sprint(ix.Bigrams()) != meta["bigrams"] {
		return nil, qerrors.NewCorpus(path, "snapshot bigram count does not match rebuilt index")
	}
	return ix, nil
}

func readMeta(db *sql.DB) (map[string]string, error) {
	rows, err := db.Query(`SELECT key, value FROM meta`)
	if err != nil {
		return nil, qerrors.Wrap(err, "read snapshot meta")
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		meta[k] = v
	}
	return meta, rows.Err()
}

func readCorpus(db *sql.DB, path string) (*quran.Corpus, error) {
	rows, err := db.Query(`SELECT pos, sura, verse, word, raw FROM words ORDER BY pos`)
	if err != nil {
		return nil, qerrors.Wrap(err, "read snapshot words")
	}
	defer rows.Close()

	var entries []quran.VerseEntry
	var verseWords []string
	curSura, curVerse := 0, 0
	next := 0

	flush := func() {
		if len(verseWords) > 0 {
			entries = append(entries, quran.VerseEntry{
				Sura:  curSura,
				Verse: curVerse,
				Text:  strings.Join(verseWords, " "),
			})
			verseWords = verseWords[:0]
		}
	}

	for rows.Next() {
		var pos, sura, verse, word int
		var raw string
		if err := rows.Scan(&pos, &sura, &verse, &word, &raw); err != nil {
			return nil, err
		}
		if pos != next {
			return nil, qerrors.NewCorpus(path, fmt.Sprintf("snapshot word table has a gap at pos %d", next))
		}
		next++
		if sura != curSura || verse != curVerse {
			flush()
			curSura, curVerse = sura, verse
		}
		verseWords = append(verseWords, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	flush()

	c, err := quran.New(entries)
	if err != nil {
		var ce *qerrors.CorpusError
		if qerrors.As(err, &ce) && ce.Source == "" {
			ce.Source = path
		}
		return nil, err
	}
	return c, nil
}
