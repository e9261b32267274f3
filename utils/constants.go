// File: utils/constants.go
package utils

import "time"

// LedgerLockKey is the lock key shared by every ledger write.
const LedgerLockKey = "attendance:ledger"

// HealthCheckInterval is how often the health monitor refreshes its snapshot.
const HealthCheckInterval = 60 * time.Second

// LoggerContextKey is the gin context key holding the request-scoped logger.
const LoggerContextKey = "logger"
