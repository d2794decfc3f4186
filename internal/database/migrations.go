package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createUsersTable,
		createEventsTable,
		createVendorEventsTable,
		createVendorCompletedEventsTable,
		createVendorEventVerificationsTable,
		createPaymentRequestsTable,
		createOrganizerPaymentRequestsTable,
		createPaymentsTable,
		createNotificationsTable,
		createChatMessagesTable,
		createNotificationsUserIndex,
		createChatEventIndex,
	}

	for i, migration := range migrations {
		slog.Info("Running migration", "step", i+1)
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    name VARCHAR(120) NOT NULL,
    email VARCHAR(255) UNIQUE NOT NULL,
    password_hash VARCHAR(255) NOT NULL,
    role VARCHAR(20) NOT NULL DEFAULT 'user',
    city VARCHAR(100),
    phone VARCHAR(50),
    category VARCHAR(100),
    profile_image TEXT,
    is_verified BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (role IN ('admin', 'organizer', 'vendor', 'user'))
);`

const createEventsTable = `
CREATE TABLE IF NOT EXISTS events (
    id SERIAL PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    date VARCHAR(20) NOT NULL,
    venue VARCHAR(200) NOT NULL,
    budget DECIMAL(12,2) NOT NULL,
    vendor_category VARCHAR(50) NOT NULL,
    image_url VARCHAR(250),
    progress INTEGER NOT NULL DEFAULT 0,
    user_id INTEGER NOT NULL REFERENCES users(id),
    organizer_id INTEGER REFERENCES users(id),
    organizer_status VARCHAR(20) NOT NULL DEFAULT 'pending',
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (budget > 0),
    CHECK (organizer_status IN ('pending', 'accepted', 'rejected'))
);`

const createVendorEventsTable = `
CREATE TABLE IF NOT EXISTS vendor_events (
    vendor_id INTEGER NOT NULL REFERENCES users(id),
    event_id INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
    assigned_at TIMESTAMP NOT NULL DEFAULT NOW(),

    PRIMARY KEY (vendor_id, event_id)
);`

const createVendorCompletedEventsTable = `
CREATE TABLE IF NOT EXISTS vendor_completed_events (
    vendor_id INTEGER NOT NULL REFERENCES users(id),
    event_id INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
    completed_at TIMESTAMP NOT NULL DEFAULT NOW(),

    PRIMARY KEY (vendor_id, event_id)
);`

const createVendorEventVerificationsTable = `
CREATE TABLE IF NOT EXISTS vendor_event_verifications (
    id SERIAL PRIMARY KEY,
    event_id INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
    vendor_id INTEGER NOT NULL REFERENCES users(id),
    verified_by INTEGER NOT NULL REFERENCES users(id),
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),

    UNIQUE (event_id, vendor_id)
);`

const createPaymentRequestsTable = `
CREATE TABLE IF NOT EXISTS payment_requests (
    id SERIAL PRIMARY KEY,
    event_id INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
    vendor_id INTEGER NOT NULL REFERENCES users(id),
    amount DECIMAL(12,2) NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'pending',
    description TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (amount > 0),
    CHECK (status IN ('pending', 'approved', 'rejected', 'paid'))
);`

const createOrganizerPaymentRequestsTable = `
CREATE TABLE IF NOT EXISTS organizer_payment_requests (
    id SERIAL PRIMARY KEY,
    event_id INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
    organizer_id INTEGER NOT NULL REFERENCES users(id),
    amount DECIMAL(12,2) NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'pending',
    description TEXT,
    paid_at TIMESTAMP,
    payment_id INTEGER,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (amount > 0),
    CHECK (status IN ('pending', 'paid', 'rejected'))
);`

const createPaymentsTable = `
CREATE TABLE IF NOT EXISTS payments (
    id SERIAL PRIMARY KEY,
    event_id INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
    amount DECIMAL(12,2) NOT NULL,
    currency VARCHAR(10) NOT NULL DEFAULT 'USD',
    status VARCHAR(30) NOT NULL DEFAULT 'pending',
    payment_method VARCHAR(50) NOT NULL DEFAULT 'card',
    transaction_id VARCHAR(100),
    payment_date TIMESTAMP,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (status IN ('pending', 'completed', 'failed'))
);`

const createNotificationsTable = `
CREATE TABLE IF NOT EXISTS notifications (
    id SERIAL PRIMARY KEY,
    user_id INTEGER NOT NULL REFERENCES users(id),
    title VARCHAR(200) NOT NULL,
    message TEXT NOT NULL,
    type VARCHAR(20) NOT NULL DEFAULT 'info',
    is_read BOOLEAN NOT NULL DEFAULT FALSE,
    extra_data JSONB,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createChatMessagesTable = `
CREATE TABLE IF NOT EXISTS chat_messages (
    id SERIAL PRIMARY KEY,
    sender_id INTEGER NOT NULL REFERENCES users(id),
    receiver_id INTEGER NOT NULL REFERENCES users(id),
    event_id INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
    message TEXT NOT NULL,
    is_read BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createNotificationsUserIndex = `
CREATE INDEX IF NOT EXISTS notifications_user_idx
ON notifications (user_id, created_at DESC);`

const createChatEventIndex = `
CREATE INDEX IF NOT EXISTS chat_messages_event_idx
ON chat_messages (event_id, created_at);`
