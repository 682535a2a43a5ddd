package redis

import "fmt"

// Key prefix for all tournament-related data
const keyPrefix = "tourney"

// tournamentKey returns the Redis key for a live tournament document
func tournamentKey(id string) string {
	return fmt.Sprintf("%s:tournament:%s", keyPrefix, id)
}

// backupKey returns the Redis key for a backup document
func backupKey(id string) string {
	return fmt.Sprintf("%s:backup:%s", keyPrefix, id)
}

// tournamentsIndexKey returns the Redis key for the SET of live tournament keys
func tournamentsIndexKey() string {
	return fmt.Sprintf("%s:idx:tournaments", keyPrefix)
}

// backupsIndexKey returns the Redis key for the SET of backup keys
func backupsIndexKey() string {
	return fmt.Sprintf("%s:idx:backups", keyPrefix)
}

