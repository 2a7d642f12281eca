// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Connecting

Open selects the driver from the configured type and pings the server:

	conn, err := db.Open("sqlite", "quickly-poll.db")
	conn, err := db.Open("postgres", "postgres://...")

SQLite connections enable foreign keys and are limited to one open
connection.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The same statements run on SQLite and PostgreSQL.

# Tables

  - users: Accounts, email unique
  - poll: Question, creator, running total, results flag
  - poll_option: Options ordered by position, with counts
  - vote: One row per user per poll

# Relationships

	users 1──* poll
	poll  1──* poll_option
	poll  1──* vote
	users 1──* vote

Options and votes are deleted with their poll.
*/
package db
