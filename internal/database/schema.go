// Package database manages the PostgreSQL connection pool and
// bootstraps the schema on startup.
package database

// Schema contains the SQL statements for the portfolio database. Array
// and object valued fields are stored as JSONB so nested shapes round-trip
// unchanged.
const Schema = `
-- Singleton sections: exactly one logical row under id 1, created on
-- first write and never deleted.
CREATE TABLE IF NOT EXISTS hero (
    id          INTEGER PRIMARY KEY CHECK (id = 1),
    title       TEXT NOT NULL DEFAULT '',
    subtitle    TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    tags        JSONB NOT NULL DEFAULT '[]',
    mini_cards  JSONB NOT NULL DEFAULT '[]',
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS about (
    id             INTEGER PRIMARY KEY CHECK (id = 1),
    title          TEXT NOT NULL DEFAULT '',
    subtitle       TEXT NOT NULL DEFAULT '',
    mission        TEXT NOT NULL DEFAULT '',
    core_abilities JSONB NOT NULL DEFAULT '[]',
    stats          JSONB NOT NULL DEFAULT '{}',
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS contact (
    id         INTEGER PRIMARY KEY CHECK (id = 1),
    name       TEXT NOT NULL DEFAULT '',
    role       TEXT NOT NULL DEFAULT '',
    bio        TEXT NOT NULL DEFAULT '',
    email      TEXT NOT NULL DEFAULT '',
    discord    TEXT,
    status     TEXT NOT NULL DEFAULT '',
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- admin: the single credential row. Seeded by folio-admin.
CREATE TABLE IF NOT EXISTS admin (
    id            INTEGER PRIMARY KEY CHECK (id = 1),
    password_hash TEXT NOT NULL,
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- skills_categories: keyed by the slug derived from the label.
CREATE TABLE IF NOT EXISTS skills_categories (
    category_id  VARCHAR(255) PRIMARY KEY,
    label        TEXT NOT NULL,
    skills       JSONB NOT NULL DEFAULT '[]',
    achievements JSONB NOT NULL DEFAULT '[]',
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS projects (
    id                BIGSERIAL PRIMARY KEY,
    title             TEXT NOT NULL DEFAULT '',
    name              TEXT NOT NULL DEFAULT '',
    description       TEXT NOT NULL DEFAULT '',
    short_description TEXT NOT NULL DEFAULT '',
    tags              JSONB NOT NULL DEFAULT '[]',
    features          JSONB NOT NULL DEFAULT '[]',
    created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS experiences (
    id           BIGSERIAL PRIMARY KEY,
    company      TEXT NOT NULL DEFAULT '',
    role         TEXT NOT NULL DEFAULT '',
    period       TEXT NOT NULL DEFAULT '',
    description  TEXT NOT NULL DEFAULT '',
    achievements JSONB NOT NULL DEFAULT '[]',
    tags         JSONB NOT NULL DEFAULT '[]',
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS testimonials (
    id         BIGSERIAL PRIMARY KEY,
    text       TEXT NOT NULL DEFAULT '',
    author     TEXT NOT NULL DEFAULT '',
    role       TEXT NOT NULL DEFAULT '',
    rating     SMALLINT NOT NULL DEFAULT 5 CHECK (rating BETWEEN 1 AND 5),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- content_events: sequenced change log backing the /events feed. The
-- BIGSERIAL seq column is the replay cursor.
CREATE TABLE IF NOT EXISTS content_events (
    seq        BIGSERIAL PRIMARY KEY,
    domain     VARCHAR(32) NOT NULL,
    action     VARCHAR(16) NOT NULL,
    key        VARCHAR(255) NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`
