package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"
)

// Removes seeded/test waitlist rows (anything under @example.com) together
// with their referrals and mission completions. Run against the database in
// DATABASE_URL.
func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	// Connect to database
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	// Test connection
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	fmt.Println("Connected to database")

	// Step 1: Delete mission completions for test signups
	result, err := db.Exec(`
		DELETE FROM mission_completions
		WHERE signup_id IN (
			SELECT id FROM waitlist_signups
			WHERE email LIKE '%@example.com'
		)
	`)
	if err != nil {
		log.Printf("Warning deleting mission_completions: %v", err)
	} else {
		rows, _ := result.RowsAffected()
		fmt.Printf("Deleted %d mission completions\n", rows)
	}

	// Step 2: Delete referrals that touch test signups on either side
	result, err = db.Exec(`
		DELETE FROM referrals
		WHERE referrer_id IN (
			SELECT id FROM waitlist_signups
			WHERE email LIKE '%@example.com'
		)
		OR referred_signup_id IN (
			SELECT id FROM waitlist_signups
			WHERE email LIKE '%@example.com'
		)
	`)
	if err != nil {
		log.Printf("Warning deleting referrals: %v", err)
	} else {
		rows, _ := result.RowsAffected()
		fmt.Printf("Deleted %d referrals\n", rows)
	}

	// Step 3: Delete the signups themselves
	result, err = db.Exec(`
		DELETE FROM waitlist_signups
		WHERE email LIKE '%@example.com'
	`)
	if err != nil {
		log.Fatal("Failed to delete waitlist_signups:", err)
	}

	rows, _ := result.RowsAffected()
	fmt.Printf("Deleted %d test signups\n", rows)
}
