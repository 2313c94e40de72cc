package diskindex

// SchemaVersion is bumped whenever schemaDDL changes in a way old databases
// can't read without migration. Mirrors the column set original_source's
// db.rs builds (SYMBOL_COLUMNS plus the mtime/member/metadata tables it
// introduced through schema v4).
const SchemaVersion = 4

// symbolColumns is the fixed column order every symbol SELECT uses; it must
// match rowToSymbol's Scan order exactly.
const symbolColumns = "id, name, qualified, kind, file, line, column, end_line, end_column, visibility, language, parent, mixins, attributes, implements, doc, signature, type_signature"

const schemaDDL = `
CREATE TABLE IF NOT EXISTS metadata (
  key   TEXT PRIMARY KEY,
  value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS symbols (
  id              INTEGER PRIMARY KEY,
  name            TEXT NOT NULL,
  qualified       TEXT NOT NULL,
  kind            TEXT NOT NULL,
  file            TEXT NOT NULL,
  line            INTEGER NOT NULL,
  column          INTEGER NOT NULL,
  end_line        INTEGER NOT NULL,
  end_column      INTEGER NOT NULL,
  visibility      TEXT NOT NULL,
  language        TEXT NOT NULL,
  parent          TEXT,
  mixins          TEXT,
  attributes      TEXT,
  implements      TEXT,
  doc             TEXT,
  signature       TEXT,
  type_signature  TEXT,
  source          TEXT NOT NULL DEFAULT 'syntactic'
);

CREATE INDEX IF NOT EXISTS idx_symbols_qualified ON symbols(qualified);
CREATE INDEX IF NOT EXISTS idx_symbols_name ON symbols(name);
CREATE INDEX IF NOT EXISTS idx_symbols_file ON symbols(file);
CREATE INDEX IF NOT EXISTS idx_symbols_parent ON symbols(parent);
CREATE INDEX IF NOT EXISTS idx_symbols_kind ON symbols(kind);

CREATE VIRTUAL TABLE IF NOT EXISTS symbols_fts USING fts5(
  name, qualified, content='symbols', content_rowid='id'
);

CREATE TRIGGER IF NOT EXISTS symbols_ai AFTER INSERT ON symbols BEGIN
  INSERT INTO symbols_fts(rowid, name, qualified) VALUES (new.id, new.name, new.qualified);
END;

CREATE TRIGGER IF NOT EXISTS symbols_ad AFTER DELETE ON symbols BEGIN
  INSERT INTO symbols_fts(symbols_fts, rowid, name, qualified) VALUES ('delete', old.id, old.name, old.qualified);
END;

CREATE TRIGGER IF NOT EXISTS symbols_au AFTER UPDATE ON symbols BEGIN
  INSERT INTO symbols_fts(symbols_fts, rowid, name, qualified) VALUES ('delete', old.id, old.name, old.qualified);
  INSERT INTO symbols_fts(rowid, name, qualified) VALUES (new.id, new.name, new.qualified);
END;

CREATE TABLE IF NOT EXISTS refs (
  id      INTEGER PRIMARY KEY,
  name    TEXT NOT NULL,
  file    TEXT NOT NULL,
  line    INTEGER NOT NULL,
  column  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_refs_name ON refs(name);
CREATE INDEX IF NOT EXISTS idx_refs_file ON refs(file);

CREATE TABLE IF NOT EXISTS opens (
  id          INTEGER PRIMARY KEY,
  file        TEXT NOT NULL,
  module_path TEXT NOT NULL,
  line        INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_opens_file ON opens(file);

CREATE TABLE IF NOT EXISTS members (
  id          INTEGER PRIMARY KEY,
  type_name   TEXT NOT NULL,
  member_name TEXT NOT NULL,
  member_type TEXT,
  kind        TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_members_type ON members(type_name);

CREATE TABLE IF NOT EXISTS file_mtimes (
  path  TEXT PRIMARY KEY,
  mtime INTEGER NOT NULL
);
`
