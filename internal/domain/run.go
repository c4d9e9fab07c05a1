package domain

import "time"

// Run identifies one successful load of the source document.
type Run struct {
	ID          string
	GeneratedAt time.Time
	Dataset     Dataset
}
