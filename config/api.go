package config

// GetAuthSkipperPaths returns a list of paths to skip authentication for
func GetAuthSkipperPaths() []string {
	// Availability reads are display-only and public; all mutations require auth.
	return []string{
		"/api/inventory/:warehouseID/:productID",
		"/healthz",
	}
}
