// Package postgres provides the PostgreSQL implementation of the contact store.
package postgres

// Schema contains the SQL statements to create the database schema for
// PostgreSQL. All statements are idempotent.
const Schema = `
-- Contacts table: one row per person in the garden
CREATE TABLE IF NOT EXISTS contacts (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    avatar_url TEXT,
    location TEXT,
    birthday TIMESTAMPTZ,
    cadence TEXT NOT NULL DEFAULT 'REGULARLY',

    -- Socials bundle (nullable handles)
    social_instagram TEXT,
    social_linkedin TEXT,
    social_twitter TEXT,
    social_phone TEXT,
    social_email TEXT,

    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

-- Case-insensitive name lookup used by the merge path
CREATE INDEX IF NOT EXISTS idx_contacts_name_lower ON contacts(lower(name));

-- Preferences: ALWAYS / NEVER facts owned by a contact
CREATE TABLE IF NOT EXISTS preferences (
    id TEXT PRIMARY KEY,
    contact_id TEXT NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
    category TEXT NOT NULL,
    content TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_preferences_contact ON preferences(contact_id);

-- Interactions: append-only touchpoint log
CREATE TABLE IF NOT EXISTS interactions (
    id TEXT PRIMARY KEY,
    contact_id TEXT NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
    type TEXT NOT NULL,
    occurred_at TIMESTAMPTZ NOT NULL,
    summary TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_interactions_contact_occurred
    ON interactions(contact_id, occurred_at DESC);

-- Seedlings: follow-up ideas, ACTIVE until planted
CREATE TABLE IF NOT EXISTS seedlings (
    id TEXT PRIMARY KEY,
    contact_id TEXT NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
    content TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'ACTIVE',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    planted_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_seedlings_contact ON seedlings(contact_id);

-- Family members: named relatives
CREATE TABLE IF NOT EXISTS family_members (
    id TEXT PRIMARY KEY,
    contact_id TEXT NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    relation TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_family_members_contact ON family_members(contact_id);
`
