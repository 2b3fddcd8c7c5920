package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     int64     `json:"createdBy"` // UserID reference, injected by the auth boundary
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy int64     `json:"lastUpdatedBy"`
}

// Caller is the already-authenticated identity handed in by the upstream
// gateway. The core never authenticates; it only records and logs who acted.
type Caller struct {
	UserID int64  `json:"userID"`
	Role   string `json:"role"`
}
