package config

// Map of job names to job functions
type CronJob struct {
	Schedule string
	Job      func(...string)
}

// Static job table. Jobs that need DB wiring register themselves through
// cron.Register from init() instead (see cron/jobs).
var CronJobs = map[string]CronJob{
	// Add more jobs here
}
